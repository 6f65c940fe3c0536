package framing

import "encoding/binary"

// Wire layout of one amplifier frame.
const (
	FrameSize   = 33
	StartMarker = 0xA0
	EndMarker   = 0xC0

	seqOffset     = 1
	channelOffset = 2
	channelWidth  = 3
	auxOffset     = 26
	auxSize       = 6
	channels      = 8
)

// RawFrame is one validated 33-byte frame: start marker, sequence counter,
// 8 big-endian 24-bit channels, 6 auxiliary bytes, end marker.
type RawFrame [FrameSize]byte

// Sequence returns the modulo-256 frame counter.
func (f RawFrame) Sequence() uint8 { return f[seqOffset] }

// Channel returns the sign-extended 24-bit count for channel i (0-based).
func (f RawFrame) Channel(i int) int32 {
	off := channelOffset + channelWidth*i
	v := int32(f[off])<<16 | int32(f[off+1])<<8 | int32(f[off+2])
	if v&0x800000 != 0 {
		v -= 0x1000000
	}
	return v
}

// Channels returns all eight raw counts.
func (f RawFrame) Channels() [channels]int32 {
	var out [channels]int32
	for i := range out {
		out[i] = f.Channel(i)
	}
	return out
}

// Aux returns the auxiliary payload bytes.
func (f RawFrame) Aux() [auxSize]byte {
	var out [auxSize]byte
	copy(out[:], f[auxOffset:auxOffset+auxSize])
	return out
}

// Accel interprets the auxiliary bytes as a big-endian X/Y/Z accelerometer triplet.
func (f RawFrame) Accel() [3]int16 {
	var out [3]int16
	for i := range out {
		out[i] = int16(binary.BigEndian.Uint16(f[auxOffset+2*i:]))
	}
	return out
}

// Encode builds a frame from its parts. Channel values are truncated to 24 bits.
func Encode(seq uint8, raw [channels]int32, aux [auxSize]byte) RawFrame {
	var f RawFrame
	f[0] = StartMarker
	f[seqOffset] = seq
	for i, v := range raw {
		off := channelOffset + channelWidth*i
		u := uint32(v) & 0xFFFFFF
		f[off] = byte(u >> 16)
		f[off+1] = byte(u >> 8)
		f[off+2] = byte(u)
	}
	copy(f[auxOffset:], aux[:])
	f[FrameSize-1] = EndMarker
	return f
}

// SequenceGap returns how many frames were lost between two consecutive counters,
// assuming forward progress modulo 256.
func SequenceGap(prev, next uint8) uint8 {
	return next - prev - 1
}
