package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/joeydtaylor/synapse/pkg/builder"
)

// Runs a three-stimulus session against the built-in simulator without any
// network listener and prints each event as it happens.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := builder.NewLogger(builder.LoggerWithLevel("warn"))
	meter := builder.NewMeter(ctx)
	bus := builder.NewBus(builder.BusWithMeter(meter))

	source := builder.NewSimulatedSource(
		builder.SimulatedWithRealtime(true),
		builder.SimulatedWithCorruption(500),
	)
	loop := builder.NewAcquisitionLoop(source, bus,
		builder.AcquisitionWithLogger(logger),
		builder.AcquisitionWithMeter(meter),
	)

	feed, err := bus.Subscribe("session", 4096)
	if err != nil {
		fmt.Printf("subscribe error: %v\n", err)
		return
	}

	finished := make(chan struct{})
	var finish sync.Once
	cfg := builder.DefaultSessionConfig()
	cfg.CountdownTicks = 3
	cfg.Window = 2 * time.Second
	cfg.Gap = time.Second

	controller := builder.NewSessionController(cfg, builder.NewAnalysisEngine(builder.AnalysisWithMeter(meter)), feed,
		builder.SessionWithLogger(logger),
		builder.SessionWithMeter(meter),
		builder.SessionWithEmitter(func(ev builder.SessionEvent) {
			fmt.Printf("[%s] %s\n", ev.Kind, describe(ev))
			if ev.Kind == builder.SessionEventSessionResult || ev.Kind == builder.SessionEventCaptureFailed {
				finish.Do(func() { close(finished) })
			}
		}),
	)

	go func() {
		if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Printf("acquisition error: %v\n", err)
		}
	}()
	go func() { _ = controller.Run(ctx) }()

	if err := controller.StartSession(ctx, 3); err != nil {
		fmt.Printf("start error: %v\n", err)
		return
	}

	select {
	case <-finished:
	case <-ctx.Done():
		fmt.Println("timed out")
	}

	snap := meter.Snapshot()
	fmt.Printf("frames=%d skipped=%d published=%d captures=%d\n",
		snap.Counts[builder.MetricFramesDecoded],
		snap.Counts[builder.MetricBytesSkipped],
		snap.Counts[builder.MetricSamplesPublished],
		snap.Counts[builder.MetricCapturesCompleted],
	)
}

func describe(ev builder.SessionEvent) string {
	switch ev.Kind {
	case builder.SessionEventCountdown:
		return fmt.Sprintf("%d", ev.Remaining)
	case builder.SessionEventStimulus:
		return fmt.Sprintf("stimulus %d of %d", ev.Index+1, ev.Total)
	case builder.SessionEventCaptureComplete:
		return fmt.Sprintf("window %d captured %d samples", ev.Index, ev.Samples)
	case builder.SessionEventResult:
		if ev.Result != nil {
			c := ev.Result.Composite
			return fmt.Sprintf("window %d scored %.0f (%s)", ev.Result.Index, c.Score, c.Label)
		}
	case builder.SessionEventSessionResult:
		if ev.Outcome != nil {
			return fmt.Sprintf("scores %v, winner %d", ev.Outcome.Scores, ev.Outcome.Winner)
		}
	}
	return ev.Message
}
