// Package session drives timed capture windows for the single-capture and
// multi-stimulus flows.
//
// Machine holds all capture state and is advanced with explicit timestamps, so
// every transition is deterministic. Controller owns one Machine, feeds it
// samples from a stream subscription and wall-clock timer expiries, and
// publishes the resulting events.
package session

import (
	"errors"
	"fmt"
	"time"
)

// State is the capture session phase.
type State int

const (
	Idle State = iota
	InitialCountdown
	Capturing
	InterStimulus
	Analyzing
	Results
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InitialCountdown:
		return "countdown"
	case Capturing:
		return "capturing"
	case InterStimulus:
		return "inter_stimulus"
	case Analyzing:
		return "analyzing"
	case Results:
		return "results"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Mode selects the capture flow.
type Mode int

const (
	ModeNone Mode = iota
	ModeSingle
	ModeStimulus
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeStimulus:
		return "stimulus"
	default:
		return "none"
	}
}

var (
	// ErrSessionActive is returned when a start is requested while a capture is in progress.
	ErrSessionActive = errors.New("capture session already in progress")

	// ErrInvalidStimulusCount is returned for a stimulus session with fewer than one stimulus.
	ErrInvalidStimulusCount = errors.New("stimulus count must be at least 1")

	// ErrControllerStopped is returned by Controller requests after Run has exited.
	ErrControllerStopped = errors.New("session controller stopped")
)

// Config holds the timing of both flows.
type Config struct {
	CountdownTicks int
	CountdownTick  time.Duration
	Window         time.Duration
	Gap            time.Duration
	Stimuli        int
}

// DefaultConfig returns the standard timing: a 5 x 1 s countdown, 5 s windows,
// a 2 s inter-stimulus gap, and 5 stimuli.
func DefaultConfig() Config {
	return Config{
		CountdownTicks: 5,
		CountdownTick:  time.Second,
		Window:         5 * time.Second,
		Gap:            2 * time.Second,
		Stimuli:        5,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.CountdownTicks < 0 {
		c.CountdownTicks = 0
	}
	if c.CountdownTick <= 0 {
		c.CountdownTick = d.CountdownTick
	}
	if c.Window <= 0 {
		c.Window = d.Window
	}
	if c.Gap < 0 {
		c.Gap = 0
	}
	if c.Stimuli <= 0 {
		c.Stimuli = d.Stimuli
	}
	return c
}
