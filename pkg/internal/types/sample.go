package types

import (
	"errors"
	"time"
)

// ChannelCount is the fixed number of electrode channels carried by every frame.
const ChannelCount = 8

// NominalSampleRate is the amplifier's fixed output rate in Hz.
const NominalSampleRate = 250.0

// ChannelLabels are the 10-20 electrode positions wired to channels 1..8.
var ChannelLabels = [ChannelCount]string{"Fp1", "Fp2", "C3", "C4", "P7", "P8", "O1", "O2"}

// ErrBufferFrozen is returned when appending to a capture buffer whose window has closed.
var ErrBufferFrozen = errors.New("capture buffer is frozen")

// Sample is one decoded, time-stamped, calibrated reading across all channels.
type Sample struct {
	Sequence  uint8
	Timestamp time.Time
	Channels  [ChannelCount]float64 // microvolts
	Accel     [3]float64            // g; zero on frames without an accelerometer reading
}

// CaptureBuffer is the ordered, append-only set of samples collected for one capture window.
// It is owned by a single writer until Freeze is called; after that it is read-only.
type CaptureBuffer struct {
	Index    int
	OpenedAt time.Time
	ClosedAt time.Time

	samples []Sample
	frozen  bool
}

// NewCaptureBuffer opens an empty buffer for the window with the given index.
func NewCaptureBuffer(index int, openedAt time.Time) *CaptureBuffer {
	return &CaptureBuffer{Index: index, OpenedAt: openedAt}
}

// NewFrozenBuffer wraps an externally supplied sample list (e.g. an analyze request)
// as a closed buffer spanning the given duration.
func NewFrozenBuffer(samples []Sample, window time.Duration) *CaptureBuffer {
	cp := make([]Sample, len(samples))
	copy(cp, samples)
	var opened time.Time
	if len(cp) > 0 {
		opened = cp[0].Timestamp
	}
	return &CaptureBuffer{
		OpenedAt: opened,
		ClosedAt: opened.Add(window),
		samples:  cp,
		frozen:   true,
	}
}

// Append adds a sample to an open buffer.
func (b *CaptureBuffer) Append(s Sample) error {
	if b.frozen {
		return ErrBufferFrozen
	}
	b.samples = append(b.samples, s)
	return nil
}

// Freeze closes the buffer at the given instant. Further appends fail.
func (b *CaptureBuffer) Freeze(at time.Time) {
	if b.frozen {
		return
	}
	b.frozen = true
	b.ClosedAt = at
}

// Frozen reports whether the window has closed.
func (b *CaptureBuffer) Frozen() bool { return b.frozen }

// Len returns the number of captured samples.
func (b *CaptureBuffer) Len() int { return len(b.samples) }

// Samples returns the captured samples in arrival order. Callers must not modify the slice.
func (b *CaptureBuffer) Samples() []Sample { return b.samples }

// Window returns the wall-clock span of a frozen buffer, or zero while it is still open.
func (b *CaptureBuffer) Window() time.Duration {
	if !b.frozen || b.ClosedAt.Before(b.OpenedAt) {
		return 0
	}
	return b.ClosedAt.Sub(b.OpenedAt)
}
