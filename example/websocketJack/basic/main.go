package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joeydtaylor/synapse/pkg/builder"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println("[signal] shutting down...")
		cancel()
	}()

	logger := builder.NewLogger(builder.LoggerWithDevelopment(true))
	bus := builder.NewBus(builder.BusWithLogger(logger))
	engine := builder.NewAnalysisEngine(builder.AnalysisWithLogger(logger))

	server := builder.NewWebSocketServer(
		bus,
		builder.WebSocketServerWithLogger(logger),
		builder.WebSocketServerWithAddress(":8080"),
		builder.WebSocketServerWithEndpoint("/ws"),
		builder.WebSocketServerWithHandler(builder.NewRequestHandler(engine, nil)),
	)

	loop := builder.NewAcquisitionLoop(
		builder.NewSimulatedSource(builder.SimulatedWithRealtime(true)),
		bus,
		builder.AcquisitionWithLogger(logger),
		builder.AcquisitionWithStatus(server.EmitDeviceStatus),
	)
	go func() {
		if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Printf("acquisition error: %v\n", err)
			cancel()
		}
	}()

	fmt.Println("WebSocket server listening on ws://localhost:8080/ws")
	fmt.Println(`Samples stream as {"type":"sample",...}; send {"type":"analyze","buffer":[...]} for a score`)

	if err := server.Serve(ctx); err != nil && ctx.Err() == nil {
		fmt.Printf("server error: %v\n", err)
	}
}
