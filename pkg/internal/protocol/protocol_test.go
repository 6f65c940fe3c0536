package protocol

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/session"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

func TestEncodeSample(t *testing.T) {
	ts := time.Unix(1700000000, 250_000_000)
	s := types.Sample{Sequence: 7, Timestamp: ts}
	for i := range s.Channels {
		s.Channels[i] = float64(i) + 0.5
	}

	payload, err := EncodeSample(s)
	if err != nil {
		t.Fatalf("EncodeSample: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["type"] != TypeSample {
		t.Fatalf("unexpected type %v", got["type"])
	}
	if got["sequence"].(float64) != 7 {
		t.Fatalf("unexpected sequence %v", got["sequence"])
	}
	if math.Abs(got["timestamp"].(float64)-1700000000.25) > 1e-6 {
		t.Fatalf("unexpected timestamp %v", got["timestamp"])
	}
	chans := got["channels"].([]any)
	if len(chans) != types.ChannelCount || chans[7].(float64) != 7.5 {
		t.Fatalf("unexpected channels %v", chans)
	}
	if _, ok := got["accel"]; ok {
		t.Fatalf("accel should be omitted when the frame carried none")
	}
}

func TestSampleAccelRoundTrip(t *testing.T) {
	s := types.Sample{Sequence: 3, Timestamp: time.Unix(1700000000, 0)}
	s.Accel = [3]float64{0.002, -0.004, 1}

	payload, err := EncodeSample(s)
	if err != nil {
		t.Fatalf("EncodeSample: %v", err)
	}
	var wire WireSample
	if err := json.Unmarshal(payload, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	samples, err := toSamples([]WireSample{wire})
	if err != nil {
		t.Fatalf("toSamples: %v", err)
	}
	if samples[0].Accel != s.Accel {
		t.Fatalf("accel lost in transit: %v", samples[0].Accel)
	}
}

func TestDecodeAnalyze(t *testing.T) {
	payload := `{"type":"analyze","metadata":{"windowSeconds":2,"label":"a"},"buffer":[
		{"sequence":1,"timestamp":1700000000.0,"channels":[1,2,3,4,5,6,7,8]},
		{"sequence":2,"timestamp":1700000000.004,"channels":[8,7,6,5,4,3,2,1]}]}`

	req, err := Decode([]byte(payload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if req.Type != TypeAnalyze || len(req.Buffer) != 2 {
		t.Fatalf("unexpected request %+v", req)
	}
	if req.Window != 2*time.Second {
		t.Fatalf("expected 2s window, got %v", req.Window)
	}
	if req.Buffer[1].Channels[0] != 8 || req.Buffer[1].Sequence != 2 {
		t.Fatalf("unexpected sample %+v", req.Buffer[1])
	}
	if req.Metadata["label"] != "a" {
		t.Fatalf("metadata not preserved: %v", req.Metadata)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    error
	}{
		{"not json", `{`, ErrMalformed},
		{"missing type", `{}`, ErrMalformed},
		{"unknown", `{"type":"dance"}`, ErrUnknownMessage},
		{"short sample", `{"type":"analyze","buffer":[{"channels":[1,2]}]}`, ErrMalformed},
		{"negative stimuli", `{"type":"start_session","stimuli":-1}`, ErrMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode([]byte(tc.payload)); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDecodeControl(t *testing.T) {
	req, err := Decode([]byte(`{"type":"start_session","stimuli":3}`))
	if err != nil || req.Stimuli != 3 {
		t.Fatalf("unexpected start_session decode: %+v %v", req, err)
	}
	for _, typ := range []string{TypeStartCapture, TypeReset} {
		req, err := Decode([]byte(`{"type":"` + typ + `"}`))
		if err != nil || req.Type != typ {
			t.Fatalf("unexpected %s decode: %+v %v", typ, req, err)
		}
	}
}

func TestResultEnvelopeShape(t *testing.T) {
	res := types.AnalysisResult{
		SampleCount: 10,
		PerChannel:  []types.ChannelStats{{Channel: 1, Label: "Fp1"}},
		Composite: types.CompositeScore{
			Score:    81,
			Category: types.CategoryLoveAtFirstSight,
			Label:    types.CategoryLoveAtFirstSight.String(),
		},
	}
	payload, err := Marshal(NewResult(res, nil))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(payload)
	for _, want := range []string{`"type":"result"`, `"perChannel":[`, `"composite":{`, `"category":"Love at First Sight"`, `"components":{`} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %s in %s", want, s)
		}
	}
}

func TestFromEvent(t *testing.T) {
	res := types.AnalysisResult{Index: 1, SampleCount: 5}
	cases := []struct {
		ev   session.Event
		want string
	}{
		{session.Event{Kind: session.EventStatus, Message: "idle"}, TypeStatus},
		{session.Event{Kind: session.EventCountdown, Remaining: 3}, TypeCountdown},
		{session.Event{Kind: session.EventStimulus, Index: 1, Total: 5}, TypeStimulus},
		{session.Event{Kind: session.EventCaptureComplete, Samples: 1250}, TypeCaptureComplete},
		{session.Event{Kind: session.EventCaptureFailed, Message: "no data captured"}, TypeCaptureFailed},
		{session.Event{Kind: session.EventResult, Result: &res}, TypeResult},
		{session.Event{Kind: session.EventSessionResult, Outcome: &session.Outcome{Winner: 2, Scores: []float64{1, 2, 3}}}, TypeSessionResult},
	}
	for _, tc := range cases {
		payload, err := Marshal(FromEvent(tc.ev))
		if err != nil {
			t.Fatalf("Marshal %s: %v", tc.ev.Kind, err)
		}
		var env struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(payload, &env); err != nil || env.Type != tc.want {
			t.Fatalf("%s: expected type %s, got %s (%v)", tc.ev.Kind, tc.want, env.Type, err)
		}
	}

	failed := FromEvent(session.Event{Kind: session.EventCaptureFailed, Index: 2, Message: "no data captured"}).(CaptureFailedMessage)
	if failed.Index != 2 || failed.Message != "no data captured" {
		t.Fatalf("unexpected capture_failed envelope %+v", failed)
	}
	outcome := FromEvent(session.Event{Kind: session.EventSessionResult}).(SessionResultMessage)
	if outcome.Winner != -1 {
		t.Fatalf("expected no winner without an outcome, got %d", outcome.Winner)
	}
}
