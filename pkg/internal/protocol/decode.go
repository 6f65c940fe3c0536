package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

type inbound struct {
	Type     string         `json:"type"`
	Buffer   []WireSample   `json:"buffer"`
	Metadata map[string]any `json:"metadata"`
	Stimuli  int            `json:"stimuli"`
}

// Decode parses one inbound message.
func Decode(payload []byte) (Request, error) {
	var in inbound
	if err := json.Unmarshal(payload, &in); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	req := Request{Type: in.Type, Metadata: in.Metadata}
	switch in.Type {
	case TypeAnalyze:
		buf, err := toSamples(in.Buffer)
		if err != nil {
			return Request{}, err
		}
		req.Buffer = buf
		req.Window = windowFrom(in.Metadata)
	case TypeStartSession:
		if in.Stimuli < 0 {
			return Request{}, fmt.Errorf("%w: negative stimulus count", ErrMalformed)
		}
		req.Stimuli = in.Stimuli
	case TypeStartCapture, TypeReset:
	case "":
		return Request{}, fmt.Errorf("%w: missing type", ErrMalformed)
	default:
		return Request{}, fmt.Errorf("%w: %q", ErrUnknownMessage, in.Type)
	}
	return req, nil
}

func toSamples(in []WireSample) ([]types.Sample, error) {
	out := make([]types.Sample, len(in))
	for i, w := range in {
		if len(w.Channels) != types.ChannelCount {
			return nil, fmt.Errorf("%w: sample %d has %d channels", ErrMalformed, i, len(w.Channels))
		}
		out[i].Sequence = w.Sequence
		out[i].Timestamp = TimeFrom(w.Timestamp)
		copy(out[i].Channels[:], w.Channels)
		if len(w.Accel) == len(out[i].Accel) {
			copy(out[i].Accel[:], w.Accel)
		}
	}
	return out, nil
}

// windowFrom reads an optional metadata.windowSeconds. Zero lets the engine
// derive the window from the sample count.
func windowFrom(meta map[string]any) time.Duration {
	v, ok := meta["windowSeconds"].(float64)
	if !ok || v <= 0 {
		return 0
	}
	return time.Duration(v * float64(time.Second))
}
