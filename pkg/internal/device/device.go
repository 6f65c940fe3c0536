// Package device provides byte-stream sources for the acquisition loop: the
// OpenBCI serial dongle, a synthetic board, and arbitrary readers for replay.
package device

import (
	"context"
	"errors"
	"time"
)

const (
	DefaultBaudRate  = 115200
	DefaultInitDelay = 500 * time.Millisecond
)

// DefaultInitCommands stop any running stream, restore channel defaults, then begin streaming.
var DefaultInitCommands = []string{"s", "d", "b"}

var ErrNoPort = errors.New("no serial port configured")

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
