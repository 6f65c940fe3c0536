package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"github.com/joeydtaylor/synapse/pkg/internal/utils"
)

// SampleFeed is the controller's view of a stream subscription.
type SampleFeed interface {
	Drain(dst []types.Sample) []types.Sample
	Ready() <-chan struct{}
	Done() <-chan struct{}
}

type commandKind int

const (
	cmdStartSingle commandKind = iota
	cmdStartSession
	cmdReset
	cmdSnapshot
)

type command struct {
	kind  commandKind
	n     int
	reply chan commandReply
}

type commandReply struct {
	err  error
	snap Snapshot
}

// Controller is the event loop that owns a Machine. All machine access happens on
// the goroutine running Run; other goroutines talk to it through request methods.
type Controller struct {
	componentMetadata types.ComponentMetadata
	machine           *Machine
	feed              SampleFeed
	emit              Emitter
	clock             func() time.Time
	meter             types.Meter

	cmds    chan command
	stopped chan struct{}
	running int32
	scratch []types.Sample

	loggers     []types.Logger
	loggersLock sync.Mutex
}

// NewController wires a machine to a sample feed.
func NewController(machine *Machine, feed SampleFeed, options ...types.Option[*Controller]) *Controller {
	c := &Controller{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateID(),
			Type: "SESSION_CONTROLLER",
		},
		machine: machine,
		feed:    feed,
		emit:    func(Event) {},
		clock:   time.Now,
		cmds:    make(chan command),
		stopped: make(chan struct{}),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Run services samples, timers, and requests until ctx ends or the feed closes.
func (c *Controller) Run(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&c.running, 0, 1) {
		return ErrSessionActive
	}
	defer close(c.stopped)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	var timerC <-chan time.Time

	c.NotifyLoggers(types.InfoLevel, "Session controller started",
		"component", c.componentMetadata,
		"event", "Start",
		"result", "SUCCESS",
	)

	for {
		select {
		case <-ctx.Done():
			c.machine.Reset(c.clock())
			return ctx.Err()
		case <-c.feed.Done():
			c.pump()
			c.dispatch(c.machine.Reset(c.clock()))
			return nil
		case <-c.feed.Ready():
			c.pump()
		case <-timerC:
			now := c.clock()
			c.pump()
			c.dispatch(c.machine.Advance(now))
		case cmd := <-c.cmds:
			c.handle(cmd)
		}

		if deadline, ok := c.machine.NextDeadline(); ok {
			wait := deadline.Sub(c.clock())
			if wait < 0 {
				wait = 0
			}
			timer.Reset(wait)
			timerC = timer.C
		} else {
			timer.Stop()
			timerC = nil
		}
	}
}

// StartCapture begins a single capture window.
func (c *Controller) StartCapture(ctx context.Context) error {
	reply, err := c.request(ctx, command{kind: cmdStartSingle})
	if err != nil {
		return err
	}
	return reply.err
}

// StartSession begins a multi-stimulus session of n stimuli; n <= 0 uses the configured count.
func (c *Controller) StartSession(ctx context.Context, n int) error {
	reply, err := c.request(ctx, command{kind: cmdStartSession, n: n})
	if err != nil {
		return err
	}
	return reply.err
}

// Reset cancels the current session and returns to Idle.
func (c *Controller) Reset(ctx context.Context) error {
	reply, err := c.request(ctx, command{kind: cmdReset})
	if err != nil {
		return err
	}
	return reply.err
}

// Snapshot returns the machine state as seen by the event loop.
func (c *Controller) Snapshot(ctx context.Context) (Snapshot, error) {
	reply, err := c.request(ctx, command{kind: cmdSnapshot})
	if err != nil {
		return Snapshot{}, err
	}
	return reply.snap, nil
}

func (c *Controller) request(ctx context.Context, cmd command) (commandReply, error) {
	cmd.reply = make(chan commandReply, 1)
	select {
	case c.cmds <- cmd:
	case <-c.stopped:
		return commandReply{}, ErrControllerStopped
	case <-ctx.Done():
		return commandReply{}, ctx.Err()
	}
	select {
	case r := <-cmd.reply:
		return r, nil
	case <-ctx.Done():
		return commandReply{}, ctx.Err()
	}
}

func (c *Controller) handle(cmd command) {
	now := c.clock()
	c.pump()
	c.dispatch(c.machine.Advance(now))

	var (
		events []Event
		reply  commandReply
	)
	switch cmd.kind {
	case cmdStartSingle:
		events, reply.err = c.machine.StartSingle(now)
	case cmdStartSession:
		events, reply.err = c.machine.StartStimulusSession(now, cmd.n)
	case cmdReset:
		events = c.machine.Reset(now)
	case cmdSnapshot:
		reply.snap = c.machine.Snapshot()
	}
	if reply.err != nil {
		c.NotifyLoggers(types.WarnLevel, "Session request rejected",
			"component", c.componentMetadata,
			"event", "Request",
			"result", "FAILURE",
			"state", c.machine.State().String(),
			"error", reply.err,
		)
	}
	c.dispatch(events)
	cmd.reply <- reply
}

// pump drains every pending sample into the machine in publish order. Each sample
// first advances the machine to its own timestamp, so a window that expired
// between samples closes before later samples are considered.
func (c *Controller) pump() {
	c.scratch = c.feed.Drain(c.scratch[:0])
	for _, s := range c.scratch {
		c.dispatch(c.machine.Observe(s))
	}
}

func (c *Controller) dispatch(events []Event) {
	for _, ev := range events {
		c.record(ev)
		c.emit(ev)
	}
}

func (c *Controller) record(ev Event) {
	switch ev.Kind {
	case EventCaptureComplete:
		if c.meter != nil {
			c.meter.IncrementCount(types.MetricCapturesCompleted)
		}
		c.NotifyLoggers(types.InfoLevel, "Capture window closed",
			"component", c.componentMetadata,
			"event", "CaptureComplete",
			"result", "SUCCESS",
			"session_id", ev.SessionID,
			"index", ev.Index,
			"samples", ev.Samples,
		)
	case EventCaptureFailed:
		if c.meter != nil {
			c.meter.IncrementCount(types.MetricCaptureFailures)
		}
		c.NotifyLoggers(types.WarnLevel, "Capture failed",
			"component", c.componentMetadata,
			"event", "CaptureFailed",
			"result", "FAILURE",
			"session_id", ev.SessionID,
			"index", ev.Index,
			"error", ev.Message,
		)
	case EventSessionResult:
		c.NotifyLoggers(types.InfoLevel, "Stimulus session complete",
			"component", c.componentMetadata,
			"event", "SessionResult",
			"result", "SUCCESS",
			"session_id", ev.SessionID,
			"winner", ev.Index,
		)
	default:
		c.NotifyLoggers(types.DebugLevel, "Session event",
			"component", c.componentMetadata,
			"event", string(ev.Kind),
			"state", ev.State.String(),
			"session_id", ev.SessionID,
		)
	}
}
