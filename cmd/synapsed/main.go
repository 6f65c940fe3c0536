// synapsed streams OpenBCI Cyton samples to websocket consumers and runs
// capture sessions against them.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joeydtaylor/synapse/pkg/builder"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// sessionFeedCapacity holds about 16 s of samples at 250 Hz.
const sessionFeedCapacity = 4096

const (
	kafkaBreakerThreshold = 5
	kafkaBreakerWindow    = 10 * time.Second
	kafkaBreakerCooldown  = 30 * time.Second
)

type options struct {
	address        string
	endpoint       string
	origins        []string
	device         string
	baud           int
	simulate       bool
	initCommands   []string
	logLevel       string
	logFile        string
	window         time.Duration
	countdown      time.Duration
	countdownTicks int
	gap            time.Duration
	stimuli        int
	sampleBuffer   int
	maxConns       int
	statusInterval time.Duration
	kafkaBrokers   []string
	kafkaTopic     string
}

var opts options

var rootCmd = &cobra.Command{
	Use:   "synapsed",
	Short: "Stream EEG samples from an OpenBCI board to websocket consumers",
	Long: `synapsed reads the Cyton binary stream from a serial dongle (or a built-in
simulator), decodes and scales each frame to microvolts, and relays the samples
to every connected websocket consumer. Consumers can request buffer analysis
and drive timed capture sessions.

Every flag defaults from a SYNAPSE_* environment variable.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !opts.simulate && opts.device == "" {
			return errors.New("a --device path is required unless --simulate is set")
		}
		return run(cmd.Context(), opts)
	},
}

func init() {
	defaults := builder.DefaultSessionConfig()
	f := rootCmd.Flags()

	f.StringVar(&opts.address, "addr", builder.EnvOr("SYNAPSE_ADDR", ":8080"), "websocket listen address")
	f.StringVar(&opts.endpoint, "endpoint", builder.EnvOr("SYNAPSE_ENDPOINT", "/ws"), "websocket path")
	f.StringSliceVar(&opts.origins, "allowed-origins", builder.EnvListOr("SYNAPSE_ALLOWED_ORIGINS", nil), "accepted Origin patterns")
	f.StringVarP(&opts.device, "device", "d", builder.EnvOr("SYNAPSE_DEVICE", ""), "serial device path, e.g. /dev/ttyUSB0")
	f.IntVar(&opts.baud, "baud", builder.EnvIntOr("SYNAPSE_BAUD", 115200), "serial baud rate")
	f.BoolVar(&opts.simulate, "simulate", builder.EnvBoolOr("SYNAPSE_SIMULATE", false), "use the built-in signal simulator instead of a device")
	f.StringSliceVar(&opts.initCommands, "init-commands", builder.EnvListOr("SYNAPSE_INIT_COMMANDS", []string{"s", "d", "b"}), "commands written to the board after opening the port")
	f.StringVar(&opts.logLevel, "log-level", builder.EnvOr("SYNAPSE_LOG_LEVEL", "info"), "debug, info, warn or error")
	f.StringVar(&opts.logFile, "log-file", builder.EnvOr("SYNAPSE_LOG_FILE", ""), "also write warnings and errors to this file")
	f.DurationVar(&opts.window, "window", builder.EnvDurationOr("SYNAPSE_WINDOW", defaults.Window), "capture window length")
	f.DurationVar(&opts.countdown, "countdown", builder.EnvDurationOr("SYNAPSE_COUNTDOWN_TICK", defaults.CountdownTick), "countdown tick length")
	f.IntVar(&opts.countdownTicks, "countdown-ticks", builder.EnvIntOr("SYNAPSE_COUNTDOWN_TICKS", defaults.CountdownTicks), "countdown ticks before capture")
	f.DurationVar(&opts.gap, "gap", builder.EnvDurationOr("SYNAPSE_GAP", defaults.Gap), "pause between stimulus windows")
	f.IntVar(&opts.stimuli, "stimuli", builder.EnvIntOr("SYNAPSE_STIMULI", defaults.Stimuli), "default stimuli per session")
	f.IntVar(&opts.sampleBuffer, "sample-buffer", builder.EnvIntOr("SYNAPSE_SAMPLE_BUFFER", builder.DefaultBusCapacity), "samples buffered per consumer before the oldest are dropped")
	f.IntVar(&opts.maxConns, "max-connections", builder.EnvIntOr("SYNAPSE_MAX_CONNECTIONS", 0), "concurrent consumer cap, 0 for none")
	f.DurationVar(&opts.statusInterval, "status-interval", builder.EnvDurationOr("SYNAPSE_STATUS_INTERVAL", 10*time.Second), "health broadcast period, 0 to disable")
	f.StringSliceVar(&opts.kafkaBrokers, "kafka-brokers", builder.EnvListOr("SYNAPSE_KAFKA_BROKERS", nil), "kafka brokers for sample forwarding")
	f.StringVar(&opts.kafkaTopic, "kafka-topic", builder.EnvOr("SYNAPSE_KAFKA_TOPIC", "synapse.samples"), "kafka topic for samples and session events")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "synapsed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options) error {
	logger := builder.NewLogger(
		builder.LoggerWithLevel(o.logLevel),
		builder.LoggerWithService("synapsed"),
	)
	defer func() { _ = logger.Flush() }()
	if o.logFile != "" {
		sink := builder.SinkConfig{
			Type:   builder.FileSink,
			Config: map[string]interface{}{"path": o.logFile, "level": "warn"},
		}
		if err := logger.AddSink("file", sink); err != nil {
			return err
		}
		defer func() { _ = logger.RemoveSink("file") }()
	}

	meter := builder.NewMeter(ctx, builder.MeterWithLogger(logger))
	defer meter.Stop()

	bus := builder.NewBus(
		builder.BusWithLogger(logger),
		builder.BusWithMeter(meter),
		builder.BusWithDefaultCapacity(o.sampleBuffer),
	)
	engine := builder.NewAnalysisEngine(
		builder.AnalysisWithLogger(logger),
		builder.AnalysisWithMeter(meter),
	)

	server := builder.NewWebSocketServer(bus,
		builder.WebSocketServerWithLogger(logger),
		builder.WebSocketServerWithMeter(meter),
		builder.WebSocketServerWithAddress(o.address),
		builder.WebSocketServerWithEndpoint(o.endpoint),
		builder.WebSocketServerWithAllowedOrigins(o.origins...),
		builder.WebSocketServerWithSampleBuffer(o.sampleBuffer),
		builder.WebSocketServerWithMaxConnections(o.maxConns),
		builder.WebSocketServerWithStatusInterval(o.statusInterval),
		builder.WebSocketServerWithHealthSource(func() any { return meter.Snapshot() }),
	)

	source := newSource(o, logger)
	emitters := []builder.SessionEmitter{server.EmitSessionEvent}

	var forwarder *builder.KafkaForwarder
	if len(o.kafkaBrokers) > 0 {
		forwarder = builder.NewKafkaForwarder(
			builder.NewKafkaWriter(o.kafkaBrokers, o.kafkaTopic),
			builder.KafkaForwarderWithLogger(logger),
			builder.KafkaForwarderWithMeter(meter),
			builder.KafkaForwarderWithDevice(source.Name()),
			builder.KafkaForwarderWithCircuitBreaker(builder.NewCircuitBreaker(
				kafkaBreakerThreshold, kafkaBreakerWindow, kafkaBreakerCooldown,
				builder.CircuitBreakerWithLogger(logger),
				builder.CircuitBreakerWithComponentMetadata("kafka", ""),
			)),
		)
		defer func() { _ = forwarder.Close() }()
		emitters = append(emitters, forwarder.EmitSessionEvent)
	}

	feed, err := bus.Subscribe("session", sessionFeedCapacity)
	if err != nil {
		return err
	}
	controller := builder.NewSessionController(
		builder.SessionConfig{
			CountdownTicks: o.countdownTicks,
			CountdownTick:  o.countdown,
			Window:         o.window,
			Gap:            o.gap,
			Stimuli:        o.stimuli,
		},
		engine,
		feed,
		builder.SessionWithLogger(logger),
		builder.SessionWithMeter(meter),
		builder.SessionWithEmitters(emitters...),
	)
	server.SetHandler(builder.NewRequestHandler(engine, controller))

	loop := builder.NewAcquisitionLoop(source, bus,
		builder.AcquisitionWithLogger(logger),
		builder.AcquisitionWithMeter(meter),
		builder.AcquisitionWithStatus(server.EmitDeviceStatus),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return quiet(loop.Run(gctx)) })
	g.Go(func() error { return quiet(controller.Run(gctx)) })
	g.Go(func() error { return quiet(server.Serve(gctx)) })
	g.Go(func() error {
		meter.Monitor(gctx)
		return nil
	})
	if forwarder != nil {
		sub, err := bus.Subscribe("kafka", o.sampleBuffer)
		if err != nil {
			return err
		}
		g.Go(func() error { return quiet(forwarder.Run(gctx, sub)) })
	}

	logger.Info("synapsed started",
		"event", "Start",
		"device", source.Name(),
		"address", o.address,
		"endpoint", o.endpoint,
		"kafka", len(o.kafkaBrokers) > 0,
	)

	err = g.Wait()
	_ = bus.Close()
	if err != nil {
		logger.Error("synapsed stopped", "event", "Stop", "result", "FAILURE", "error", err)
		return err
	}
	logger.Info("synapsed stopped", "event", "Stop", "result", "SUCCESS")
	return nil
}

func newSource(o options, logger builder.Logger) builder.Source {
	if o.simulate {
		return builder.NewSimulatedSource(builder.SimulatedWithRealtime(true))
	}
	return builder.NewSerialSource(o.device,
		builder.SerialWithBaudRate(uint(o.baud)),
		builder.SerialWithInitCommands(o.initCommands...),
		builder.SerialWithLogger(logger),
	)
}

// quiet treats cancellation as a clean stop.
func quiet(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
