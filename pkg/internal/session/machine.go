package session

import (
	"fmt"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/analysis"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"github.com/joeydtaylor/synapse/pkg/internal/utils"
)

// Analyzer reduces one frozen buffer.
type Analyzer interface {
	Analyze(buf *types.CaptureBuffer) (types.AnalysisResult, error)
}

// Machine is the capture session state machine. It is not safe for concurrent use;
// Controller serializes access to it.
type Machine struct {
	cfg      Config
	analyzer Analyzer
	newID    func() string

	state     State
	mode      Mode
	id        string
	total     int
	index     int
	remaining int
	deadline  time.Time

	current *types.CaptureBuffer
	buffers []*types.CaptureBuffer
	results []types.AnalysisResult
}

// NewMachine returns an idle machine.
func NewMachine(cfg Config, analyzer Analyzer) *Machine {
	return &Machine{
		cfg:      cfg.normalized(),
		analyzer: analyzer,
		newID:    utils.GenerateID,
	}
}

// Config returns the effective timing.
func (m *Machine) Config() Config { return m.cfg }

// State returns the current phase.
func (m *Machine) State() State { return m.state }

// Snapshot returns a copy of the machine's observable state.
func (m *Machine) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID: m.id,
		Mode:      m.mode,
		State:     m.state,
		Index:     m.index,
		Total:     m.total,
		Remaining: m.remaining,
		Deadline:  m.deadline,
	}
	if m.current != nil && !m.current.Frozen() {
		snap.Buffered = m.current.Len()
	}
	return snap
}

// NextDeadline returns the instant of the next timed transition, if any.
func (m *Machine) NextDeadline() (time.Time, bool) {
	if m.deadline.IsZero() {
		return time.Time{}, false
	}
	return m.deadline, true
}

// Buffers returns the capture buffers of the current session.
func (m *Machine) Buffers() []*types.CaptureBuffer { return m.buffers }

// Results returns the analysis results of a session in the Results state.
func (m *Machine) Results() []types.AnalysisResult { return m.results }

// StartSingle opens a single capture window at now, skipping the countdown.
func (m *Machine) StartSingle(now time.Time) ([]Event, error) {
	if err := m.begin(ModeSingle, 1); err != nil {
		return nil, err
	}
	events := []Event{m.event(EventStatus, now, "capture started")}
	return append(events, m.openWindow(0, now)...), nil
}

// StartStimulusSession begins a countdown followed by n capture windows.
// A non-positive n selects the configured stimulus count.
func (m *Machine) StartStimulusSession(now time.Time, n int) ([]Event, error) {
	if n <= 0 {
		n = m.cfg.Stimuli
	}
	if err := m.begin(ModeStimulus, n); err != nil {
		return nil, err
	}
	events := []Event{m.event(EventStatus, now, fmt.Sprintf("stimulus session started with %d stimuli", n))}
	if m.cfg.CountdownTicks == 0 {
		return append(events, m.openWindow(0, now)...), nil
	}
	m.state = InitialCountdown
	m.remaining = m.cfg.CountdownTicks
	m.deadline = now.Add(m.cfg.CountdownTick)
	ev := m.event(EventCountdown, now, "")
	ev.Remaining = m.remaining
	return append(events, ev), nil
}

// Observe advances the clock to the sample's timestamp and appends the sample
// to the open window if the timestamp lies within it.
func (m *Machine) Observe(s types.Sample) []Event {
	events := m.Advance(s.Timestamp)
	if m.state != Capturing || m.current == nil {
		return events
	}
	if s.Timestamp.Before(m.current.OpenedAt) || !s.Timestamp.Before(m.deadline) {
		return events
	}
	// current is frozen only in closeWindow, which also clears it.
	_ = m.current.Append(s)
	return events
}

// Advance applies every timed transition due at or before now, in order.
func (m *Machine) Advance(now time.Time) []Event {
	var events []Event
	for !m.deadline.IsZero() && !now.Before(m.deadline) {
		at := m.deadline
		switch m.state {
		case InitialCountdown:
			m.remaining--
			if m.remaining > 0 {
				m.deadline = at.Add(m.cfg.CountdownTick)
				ev := m.event(EventCountdown, at, "")
				ev.Remaining = m.remaining
				events = append(events, ev)
				continue
			}
			events = append(events, m.openWindow(0, at)...)
		case Capturing:
			events = append(events, m.closeWindow(at)...)
		case InterStimulus:
			events = append(events, m.openWindow(m.index+1, at)...)
		default:
			m.deadline = time.Time{}
		}
	}
	return events
}

// Reset cancels any pending window and discards every buffer. It is valid in any state.
func (m *Machine) Reset(now time.Time) []Event {
	prev := m.state
	ev := m.event(EventStatus, now, "session reset")
	ev.State = Idle
	m.clear()
	if prev == Idle {
		ev.Message = "idle"
	}
	return []Event{ev}
}

func (m *Machine) begin(mode Mode, total int) error {
	switch m.state {
	case Idle:
	case Results:
		m.clear()
	default:
		return ErrSessionActive
	}
	if total < 1 {
		return ErrInvalidStimulusCount
	}
	m.mode = mode
	m.total = total
	m.id = m.newID()
	m.buffers = make([]*types.CaptureBuffer, 0, total)
	return nil
}

func (m *Machine) openWindow(index int, at time.Time) []Event {
	m.state = Capturing
	m.index = index
	m.remaining = 0
	m.current = types.NewCaptureBuffer(index, at)
	m.buffers = append(m.buffers, m.current)
	m.deadline = at.Add(m.cfg.Window)

	if m.mode != ModeStimulus {
		return nil
	}
	ev := m.event(EventStimulus, at, "")
	ev.Index = index
	ev.Total = m.total
	return []Event{ev}
}

func (m *Machine) closeWindow(at time.Time) []Event {
	m.current.Freeze(at)
	done := m.event(EventCaptureComplete, at, "")
	done.Index = m.index
	done.Total = m.total
	done.Samples = m.current.Len()
	events := []Event{done}
	m.current = nil

	if m.mode == ModeStimulus && m.index+1 < m.total {
		if m.cfg.Gap == 0 {
			return append(events, m.openWindow(m.index+1, at)...)
		}
		m.state = InterStimulus
		m.deadline = at.Add(m.cfg.Gap)
		return events
	}

	m.deadline = time.Time{}
	return append(events, m.finish(at)...)
}

// finish runs the analysis once per buffer. Any empty buffer yields a capture
// failure and returns the machine to Idle instead of producing a score.
func (m *Machine) finish(at time.Time) []Event {
	m.state = Analyzing
	events := []Event{m.event(EventStatus, at, "analyzing")}

	results := make([]types.AnalysisResult, 0, len(m.buffers))
	var failed []Event
	for _, buf := range m.buffers {
		res, err := m.analyzer.Analyze(buf)
		if err != nil {
			ev := m.event(EventCaptureFailed, at, err.Error())
			ev.Index = buf.Index
			ev.Total = m.total
			ev.Samples = buf.Len()
			failed = append(failed, ev)
			continue
		}
		res.Index = buf.Index
		results = append(results, res)
	}

	if len(failed) > 0 {
		for i := range failed {
			failed[i].State = Idle
		}
		m.clear()
		return append(events, failed...)
	}

	m.state = Results
	m.results = results
	for i := range results {
		ev := m.event(EventResult, at, "")
		ev.Index = results[i].Index
		ev.Total = m.total
		ev.Samples = results[i].SampleCount
		ev.Result = &results[i]
		events = append(events, ev)
	}

	if m.mode == ModeStimulus {
		scores := make([]float64, len(results))
		for i, r := range results {
			scores[i] = r.Composite.Score
		}
		out := &Outcome{
			SessionID: m.id,
			Results:   results,
			Scores:    scores,
			Winner:    analysis.SelectWinner(scores),
		}
		ev := m.event(EventSessionResult, at, "")
		ev.Total = m.total
		ev.Index = out.Winner
		ev.Outcome = out
		events = append(events, ev)
	}
	return events
}

func (m *Machine) clear() {
	m.state = Idle
	m.mode = ModeNone
	m.id = ""
	m.total = 0
	m.index = 0
	m.remaining = 0
	m.deadline = time.Time{}
	m.current = nil
	m.buffers = nil
	m.results = nil
}

func (m *Machine) event(kind EventKind, at time.Time, msg string) Event {
	return Event{
		Kind:      kind,
		SessionID: m.id,
		Mode:      m.mode,
		State:     m.state,
		At:        at,
		Index:     m.index,
		Total:     m.total,
		Message:   msg,
	}
}
