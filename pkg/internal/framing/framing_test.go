package framing

import (
	"math/rand"
	"testing"
)

func feed(d *Decoder, p []byte) []RawFrame {
	_, _ = d.Write(p)
	var out []RawFrame
	for f := range d.All() {
		out = append(out, f)
	}
	return out
}

func testFrames(n int) []RawFrame {
	out := make([]RawFrame, 0, n)
	for i := 0; i < n; i++ {
		var raw [8]int32
		for c := range raw {
			raw[c] = int32((i+1)*(c+1)*1009) - 40000
		}
		out = append(out, Encode(uint8(i), raw, [6]byte{0, 1, 0, 2, 0xFF, 0xF0}))
	}
	return out
}

func streamWithNoise(frames []RawFrame, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	var stream []byte
	for _, f := range frames {
		for j := r.Intn(4); j > 0; j-- {
			stream = append(stream, byte(r.Intn(0x90)))
		}
		stream = append(stream, f[:]...)
	}
	return stream
}

func decodeChunked(stream []byte, sizes []int) []RawFrame {
	d := NewDecoder()
	var out []RawFrame
	for i, k := 0, 0; i < len(stream); k++ {
		n := sizes[k%len(sizes)]
		if i+n > len(stream) {
			n = len(stream) - i
		}
		out = append(out, feed(d, stream[i:i+n])...)
		i += n
	}
	return out
}

func TestDecoder_ChunkSizeIndependence(t *testing.T) {
	frames := testFrames(50)
	stream := streamWithNoise(frames, 7)

	byteAtATime := decodeChunked(stream, []int{1})
	if len(byteAtATime) != len(frames) {
		t.Fatalf("expected %d frames, got %d", len(frames), len(byteAtATime))
	}
	for i := range frames {
		if byteAtATime[i] != frames[i] {
			t.Fatalf("frame %d mismatch", i)
		}
	}

	chunkings := [][]int{{2}, {7, 1, 64}, {33}, {32, 34}, {len(stream)}, {5, 100, 3, 17}}
	for _, sizes := range chunkings {
		got := decodeChunked(stream, sizes)
		if len(got) != len(byteAtATime) {
			t.Fatalf("chunks %v: expected %d frames, got %d", sizes, len(byteAtATime), len(got))
		}
		for i := range got {
			if got[i] != byteAtATime[i] {
				t.Fatalf("chunks %v: frame %d differs", sizes, i)
			}
		}
	}
}

func TestDecoder_StartMarkerInPayload(t *testing.T) {
	raw := [8]int32{0xA0A0A0, 0x00A000, -0x5F5F60, 0xA0, 0, 0, 0, 0}
	frames := []RawFrame{
		Encode(1, raw, [6]byte{0xA0, 0, 0xA0, 0, 0xA0, 0}),
		Encode(2, raw, [6]byte{}),
		Encode(3, raw, [6]byte{0xA0, 0xA0, 0xA0, 0xA0, 0xA0, 0xA0}),
	}
	var stream []byte
	for _, f := range frames {
		stream = append(stream, f[:]...)
	}

	got := decodeChunked(stream, []int{1})
	if len(got) != len(frames) {
		t.Fatalf("expected %d frames, got %d", len(frames), len(got))
	}
	for i := range frames {
		if got[i].Sequence() != frames[i].Sequence() {
			t.Fatalf("frame %d: expected seq %d, got %d", i, frames[i].Sequence(), got[i].Sequence())
		}
	}
}

func TestDecoder_RecoversFromTruncatedFrame(t *testing.T) {
	frames := testFrames(2)
	stream := append([]byte{}, frames[0][:20]...)
	stream = append(stream, frames[1][:]...)

	d := NewDecoder()
	got := feed(d, stream)
	if len(got) != 1 || got[0] != frames[1] {
		t.Fatalf("expected only the complete frame, got %d frames", len(got))
	}
	st := d.Stats()
	if st.Skipped != 20 {
		t.Fatalf("expected 20 skipped bytes, got %d", st.Skipped)
	}
	if st.Frames != 1 || st.Buffered != 0 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestDecoder_PartialFrameWaits(t *testing.T) {
	f := testFrames(1)[0]
	d := NewDecoder()
	if got := feed(d, f[:32]); len(got) != 0 {
		t.Fatalf("expected no frames from a partial write, got %d", len(got))
	}
	if d.Stats().Buffered != 32 {
		t.Fatalf("expected 32 buffered bytes, got %d", d.Stats().Buffered)
	}
	got := feed(d, f[32:])
	if len(got) != 1 || got[0] != f {
		t.Fatalf("expected the completed frame")
	}
}

func TestDecoder_DiscardsNoise(t *testing.T) {
	d := NewDecoder()
	noise := []byte{0x01, 0x02, 0xC0, 0x55, 0x7F}
	if got := feed(d, noise); len(got) != 0 {
		t.Fatalf("expected no frames")
	}
	st := d.Stats()
	if st.Skipped != uint64(len(noise)) || st.Buffered != 0 {
		t.Fatalf("unexpected stats: %+v", st)
	}

	d.Reset()
	if d.Stats() != (Stats{}) {
		t.Fatalf("expected zero stats after reset, got %+v", d.Stats())
	}
}

func TestDecoder_AllResumes(t *testing.T) {
	frames := testFrames(3)
	d := NewDecoder()
	_, _ = d.Write(frames[0][:])

	count := 0
	for range d.All() {
		count++
	}
	_, _ = d.Write(frames[1][:])
	_, _ = d.Write(frames[2][:])
	for range d.All() {
		count++
	}
	if count != 3 {
		t.Fatalf("expected 3 frames across iterations, got %d", count)
	}
}

func TestDecoder_CompactsLongStreams(t *testing.T) {
	frames := testFrames(300)
	stream := streamWithNoise(frames, 3)
	d := NewDecoder()
	total := 0
	for i := 0; i < len(stream); i += 1000 {
		end := i + 1000
		if end > len(stream) {
			end = len(stream)
		}
		total += len(feed(d, stream[i:end]))
		if cap(d.buf) > 4*compactThreshold {
			t.Fatalf("buffer grew unbounded: cap=%d", cap(d.buf))
		}
	}
	if total != len(frames) {
		t.Fatalf("expected %d frames, got %d", len(frames), total)
	}
}

func TestRawFrame_Fields(t *testing.T) {
	raw := [8]int32{0, 1, -1, 8388607, -8388608, 123456, -123456, 42}
	f := Encode(200, raw, [6]byte{0x00, 0x10, 0xFF, 0xF0, 0x7F, 0xFF})

	if f[0] != StartMarker || f[FrameSize-1] != EndMarker {
		t.Fatalf("markers not set")
	}
	if f.Sequence() != 200 {
		t.Fatalf("expected sequence 200, got %d", f.Sequence())
	}
	if got := f.Channels(); got != raw {
		t.Fatalf("channel round trip mismatch: %v", got)
	}
	if got := f.Accel(); got != [3]int16{16, -16, 32767} {
		t.Fatalf("unexpected accel: %v", got)
	}
	if got := f.Aux(); got[4] != 0x7F {
		t.Fatalf("unexpected aux: %v", got)
	}
}

func TestSequenceGap(t *testing.T) {
	cases := []struct {
		prev, next, want uint8
	}{
		{0, 1, 0},
		{10, 13, 2},
		{255, 0, 0},
		{254, 1, 2},
	}
	for _, tc := range cases {
		if got := SequenceGap(tc.prev, tc.next); got != tc.want {
			t.Fatalf("SequenceGap(%d,%d) = %d, want %d", tc.prev, tc.next, got, tc.want)
		}
	}
}
