package device

import (
	"context"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/framing"
	"github.com/joeydtaylor/synapse/pkg/internal/scaler"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

// corruption is injected ahead of a frame. The trailing bytes keep the start
// marker from validating against the real frame that follows.
var corruption = []byte{framing.StartMarker, 0x55, framing.EndMarker}

// SimulatedSource synthesizes a board emitting an alpha rhythm with noise.
type SimulatedSource struct {
	rate         float64
	alphaHz      float64
	amplitudes   [types.ChannelCount]float64
	noise        float64
	corruptEvery int
	maxChunk     int
	frameLimit   int
	seed         uint64
	realtime     bool
}

func NewSimulatedSource(options ...types.Option[*SimulatedSource]) *SimulatedSource {
	s := &SimulatedSource{
		rate:     types.NominalSampleRate,
		alphaHz:  10,
		noise:    3,
		maxChunk: 96,
		seed:     1,
		realtime: true,
	}
	for c := range s.amplitudes {
		s.amplitudes[c] = 25
	}
	// Fp2 runs hotter than Fp1 so the asymmetry term is exercised.
	s.amplitudes[1] = 35
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *SimulatedSource) Name() string { return "simulated" }

func (s *SimulatedSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &simReader{
		src:   s,
		rng:   rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15)),
		start: time.Now(),
		done:  make(chan struct{}),
	}, nil
}

// Frame returns the encoded frame n, without noise.
func (s *SimulatedSource) Frame(n int) framing.RawFrame {
	return s.frame(n, nil)
}

func (s *SimulatedSource) frame(n int, rng *rand.Rand) framing.RawFrame {
	t := float64(n) / s.rate
	var raw [types.ChannelCount]int32
	for c := range raw {
		v := s.amplitudes[c] * math.Sin(2*math.Pi*s.alphaHz*t+float64(c)*math.Pi/8)
		if rng != nil && s.noise > 0 {
			v += rng.NormFloat64() * s.noise
		}
		raw[c] = clampCounts(math.Round(v / scaler.MicrovoltsPerCount))
	}
	return framing.Encode(uint8(n), raw, [6]byte{})
}

func clampCounts(v float64) int32 {
	const maxCounts = 1<<23 - 1
	switch {
	case v > maxCounts:
		return maxCounts
	case v < -maxCounts-1:
		return -maxCounts - 1
	}
	return int32(v)
}

type simReader struct {
	src   *SimulatedSource
	rng   *rand.Rand
	start time.Time

	next    int
	pending []byte

	closeOnce sync.Once
	done      chan struct{}
}

func (r *simReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(r.pending) == 0 {
		select {
		case <-r.done:
			return 0, os.ErrClosed
		default:
		}
		if r.src.frameLimit > 0 && r.next >= r.src.frameLimit {
			return 0, io.EOF
		}
		if err := r.pace(); err != nil {
			return 0, err
		}
		r.fill()
	}

	n := len(r.pending)
	if r.src.maxChunk > 0 {
		n = min(n, 1+r.rng.IntN(r.src.maxChunk))
	}
	n = copy(p, r.pending[:n])
	r.pending = r.pending[n:]
	return n, nil
}

// pace blocks until frame r.next is due on the wall clock.
func (r *simReader) pace() error {
	if !r.src.realtime {
		return nil
	}
	due := r.start.Add(time.Duration(float64(r.next) / r.src.rate * float64(time.Second)))
	wait := time.Until(due)
	if wait <= 0 {
		return nil
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-r.done:
		return os.ErrClosed
	case <-t.C:
		return nil
	}
}

// fill encodes every frame that is due, at least one.
func (r *simReader) fill() {
	due := r.next + 1
	if r.src.realtime {
		elapsed := time.Since(r.start).Seconds()
		due = max(due, int(elapsed*r.src.rate)+1)
	}
	if r.src.frameLimit > 0 {
		due = min(due, r.src.frameLimit)
	}
	for ; r.next < due; r.next++ {
		if r.src.corruptEvery > 0 && r.next > 0 && r.next%r.src.corruptEvery == 0 {
			r.pending = append(r.pending, corruption...)
		}
		f := r.src.frame(r.next, r.rng)
		r.pending = append(r.pending, f[:]...)
	}
}

func (r *simReader) Close() error {
	r.closeOnce.Do(func() { close(r.done) })
	return nil
}

func WithSimulatedRate(hz float64) types.Option[*SimulatedSource] {
	return func(s *SimulatedSource) {
		if hz > 0 {
			s.rate = hz
		}
	}
}

func WithAlphaFrequency(hz float64) types.Option[*SimulatedSource] {
	return func(s *SimulatedSource) { s.alphaHz = hz }
}

// WithAmplitude sets the peak microvolts of one channel.
func WithAmplitude(channel int, uv float64) types.Option[*SimulatedSource] {
	return func(s *SimulatedSource) {
		if channel >= 0 && channel < types.ChannelCount {
			s.amplitudes[channel] = uv
		}
	}
}

func WithNoise(stddevUV float64) types.Option[*SimulatedSource] {
	return func(s *SimulatedSource) { s.noise = stddevUV }
}

// WithCorruption injects a false start marker ahead of every n-th frame.
func WithCorruption(every int) types.Option[*SimulatedSource] {
	return func(s *SimulatedSource) { s.corruptEvery = every }
}

// WithMaxChunk bounds the size of each Read. Zero returns whole frames.
func WithMaxChunk(n int) types.Option[*SimulatedSource] {
	return func(s *SimulatedSource) { s.maxChunk = n }
}

// WithFrameLimit ends the stream with io.EOF after n frames.
func WithFrameLimit(n int) types.Option[*SimulatedSource] {
	return func(s *SimulatedSource) { s.frameLimit = n }
}

func WithSeed(seed uint64) types.Option[*SimulatedSource] {
	return func(s *SimulatedSource) { s.seed = seed }
}

// WithRealtime toggles wall-clock pacing.
func WithRealtime(on bool) types.Option[*SimulatedSource] {
	return func(s *SimulatedSource) { s.realtime = on }
}
