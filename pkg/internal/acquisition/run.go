package acquisition

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/framing"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

// Run opens the source and pumps it until ctx ends. A failure of the first open
// is returned at once. After that, read and open failures are reported through
// the status callback and retried with exponential backoff.
func (l *Loop) Run(ctx context.Context) error {
	name := l.source.Name()
	rc, err := l.source.Open(ctx)
	if err != nil {
		l.count(types.MetricDeviceErrors, 1)
		l.NotifyLoggers(types.ErrorLevel, "Device open failed",
			"component", l.componentMetadata,
			"event", "Open",
			"result", "FAILURE",
			"device", name,
			"error", err,
		)
		return fmt.Errorf("open %s: %w", name, err)
	}
	l.NotifyLoggers(types.InfoLevel, "Device connected",
		"component", l.componentMetadata,
		"event", "Open",
		"result", "SUCCESS",
		"device", name,
	)
	l.status(name, true, "device connected")

	for {
		err := l.pump(ctx, rc)
		_ = rc.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, io.EOF) && l.stopOnEOF {
			l.NotifyLoggers(types.InfoLevel, "Device stream ended",
				"component", l.componentMetadata,
				"event", "EOF",
				"result", "SUCCESS",
				"device", name,
			)
			l.status(name, false, "device stream ended")
			return nil
		}

		l.count(types.MetricDeviceErrors, 1)
		l.NotifyLoggers(types.WarnLevel, "Device read failed",
			"component", l.componentMetadata,
			"event", "Read",
			"result", "FAILURE",
			"device", name,
			"error", err,
		)
		l.status(name, false, fmt.Sprintf("device lost: %v", err))

		rc, err = l.reopen(ctx)
		if err != nil {
			return err
		}
		l.count(types.MetricDeviceReconnects, 1)
		l.NotifyLoggers(types.InfoLevel, "Device reconnected",
			"component", l.componentMetadata,
			"event", "Reopen",
			"result", "SUCCESS",
			"device", name,
		)
		l.status(name, true, "device reconnected")
	}
}

// reopen retries Open with backoff starting at the initial step, doubling up to
// the cap. It returns only on success or when ctx ends.
func (l *Loop) reopen(ctx context.Context) (io.ReadCloser, error) {
	step := l.initialBackoff
	for {
		if err := sleepCtx(ctx, step); err != nil {
			return nil, err
		}
		rc, err := l.source.Open(ctx)
		if err == nil {
			l.resetDecoder()
			return rc, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		l.count(types.MetricDeviceErrors, 1)
		l.NotifyLoggers(types.WarnLevel, "Device reopen failed",
			"component", l.componentMetadata,
			"event", "Reopen",
			"result", "FAILURE",
			"device", l.source.Name(),
			"backoff", step.String(),
			"error", err,
		)
		step *= 2
		if step > l.maxBackoff {
			step = l.maxBackoff
		}
	}
}

// pump reads until the stream fails. Closing the stream on cancellation
// unblocks a pending Read.
func (l *Loop) pump(ctx context.Context, rc io.ReadCloser) error {
	stop := context.AfterFunc(ctx, func() { _ = rc.Close() })
	defer stop()

	buf := make([]byte, l.readSize)
	for {
		n, err := rc.Read(buf)
		if n > 0 {
			l.count(types.MetricBytesRead, uint64(n))
			_, _ = l.decoder.Write(buf[:n])
			l.drain()
		}
		if err != nil {
			return err
		}
	}
}

func (l *Loop) drain() {
	var frames uint64
	for f := range l.decoder.All() {
		seq := f.Sequence()
		if l.haveSeq {
			l.count(types.MetricSequenceGaps, uint64(framing.SequenceGap(l.lastSeq, seq)))
		}
		l.lastSeq, l.haveSeq = seq, true
		l.publisher.Publish(l.scaler.Sample(f, l.clock()))
		frames++
	}
	l.count(types.MetricFramesDecoded, frames)

	skipped := l.decoder.Stats().Skipped
	l.count(types.MetricBytesSkipped, skipped-l.lastSkipped)
	l.lastSkipped = skipped
}

// resetDecoder drops any partial frame from the previous stream.
func (l *Loop) resetDecoder() {
	l.decoder.Reset()
	l.haveSeq = false
	l.lastSkipped = 0
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
