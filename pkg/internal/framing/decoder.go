package framing

import (
	"bytes"
	"iter"
)

// compactThreshold bounds how many consumed bytes may sit at the head of the buffer.
const compactThreshold = 4096

// Stats reports decoder counters since construction or the last Reset.
type Stats struct {
	Frames   uint64
	Skipped  uint64
	Buffered int
}

// Decoder is a resynchronizing parser over an irregularly chunked byte stream.
// Bytes are appended with Write; complete frames are taken with Next or All.
// A candidate is committed only when the start marker and the end marker at
// offset 32 both match; otherwise the decoder advances one byte and rescans.
// A Decoder is not safe for concurrent use.
type Decoder struct {
	buf     []byte
	off     int
	frames  uint64
	skipped uint64
}

// NewDecoder returns an empty decoder.
func NewDecoder() *Decoder {
	return &Decoder{buf: make([]byte, 0, 4*FrameSize)}
}

// Write appends bytes to the pending stream. It never fails.
func (d *Decoder) Write(p []byte) (int, error) {
	d.buf = append(d.buf, p...)
	return len(p), nil
}

// Next returns the next complete frame, or false when more input is needed.
func (d *Decoder) Next() (RawFrame, bool) {
	var frame RawFrame
	for {
		pending := d.buf[d.off:]
		idx := bytes.IndexByte(pending, StartMarker)
		if idx < 0 {
			d.skipped += uint64(len(pending))
			d.off = len(d.buf)
			d.compact()
			return frame, false
		}
		if idx > 0 {
			d.skipped += uint64(idx)
			d.off += idx
			pending = pending[idx:]
		}
		if len(pending) < FrameSize {
			d.compact()
			return frame, false
		}
		if pending[FrameSize-1] != EndMarker {
			d.skipped++
			d.off++
			continue
		}
		copy(frame[:], pending[:FrameSize])
		d.off += FrameSize
		d.frames++
		d.compact()
		return frame, true
	}
}

// All yields every frame currently decodable. Ranging again after more Writes
// resumes where the previous iteration stopped.
func (d *Decoder) All() iter.Seq[RawFrame] {
	return func(yield func(RawFrame) bool) {
		for {
			f, ok := d.Next()
			if !ok || !yield(f) {
				return
			}
		}
	}
}

// Reset discards buffered bytes and counters, e.g. after the source is reopened.
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
	d.off = 0
	d.frames = 0
	d.skipped = 0
}

// Stats returns the current counters.
func (d *Decoder) Stats() Stats {
	return Stats{Frames: d.frames, Skipped: d.skipped, Buffered: len(d.buf) - d.off}
}

func (d *Decoder) compact() {
	if d.off == len(d.buf) {
		d.buf = d.buf[:0]
		d.off = 0
		return
	}
	if d.off < compactThreshold {
		return
	}
	n := copy(d.buf, d.buf[d.off:])
	d.buf = d.buf[:n]
	d.off = 0
}
