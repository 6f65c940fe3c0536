package scaler

import (
	"math"
	"testing"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/framing"
)

func closeTo(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-12*math.Max(math.Abs(a), math.Abs(b))
}

func TestCanonicalFactor(t *testing.T) {
	if math.Abs(MicrovoltsPerCount-0.02235) > 1e-5 {
		t.Fatalf("unexpected canonical factor %v", MicrovoltsPerCount)
	}
	if New(0).Factor() != MicrovoltsPerCount || New(-1).Factor() != MicrovoltsPerCount {
		t.Fatalf("non-positive factor should fall back to canonical")
	}
	if New(LegacyScale).Factor() != LegacyScale {
		t.Fatalf("explicit factor not kept")
	}
}

func TestScale_Zero(t *testing.T) {
	got := Default().Scale([8]int32{})
	for i, v := range got {
		if v != 0 {
			t.Fatalf("channel %d: expected 0, got %v", i, v)
		}
	}
}

func TestScale_Linearity(t *testing.T) {
	s := Default()
	raw := [8]int32{1, -1, 1000, -1000, 12345, -54321, 100000, -4000}
	base := s.Scale(raw)

	for _, k := range []int32{-3, 0, 2, 7, 50} {
		var scaled [8]int32
		for i, v := range raw {
			scaled[i] = k * v
		}
		got := s.Scale(scaled)
		for i := range got {
			if !closeTo(got[i], float64(k)*base[i]) {
				t.Fatalf("k=%d channel %d: %v != %v", k, i, got[i], float64(k)*base[i])
			}
		}
	}
}

func TestScale_NoPlausibilityClamp(t *testing.T) {
	got := Default().Scale([8]int32{8388607, -8388608})
	if got[0] < 187000 || got[1] > -187000 {
		t.Fatalf("full-scale values should pass through unclamped: %v", got[:2])
	}
}

func TestSample(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	f := framing.Encode(9, [8]int32{100, 0, 0, 0, 0, 0, 0, -100}, [6]byte{0x00, 0x10, 0xff, 0xf0, 0, 0})
	s := Default().Sample(f, ts)
	if s.Sequence != 9 || !s.Timestamp.Equal(ts) {
		t.Fatalf("unexpected header: %+v", s)
	}
	if !closeTo(s.Accel[0], 0.002) || !closeTo(s.Accel[1], -0.002) || s.Accel[2] != 0 {
		t.Fatalf("unexpected accel: %v", s.Accel)
	}
	if !closeTo(s.Channels[0], 100*MicrovoltsPerCount) || !closeTo(s.Channels[7], -100*MicrovoltsPerCount) {
		t.Fatalf("unexpected channels: %v", s.Channels)
	}
}

func TestScaleAccel(t *testing.T) {
	got := ScaleAccel([3]int16{16, -16, 0})
	if !closeTo(got[0], 0.002) || !closeTo(got[1], -0.002) || got[2] != 0 {
		t.Fatalf("unexpected accel: %v", got)
	}
}
