package builder

import (
	"context"
	"io"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/device"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

type SerialSource = device.SerialSource

type SimulatedSource = device.SimulatedSource

type ReaderSource = device.ReaderSource

// NewSerialSource opens the amplifier dongle at port.
func NewSerialSource(port string, options ...types.Option[*device.SerialSource]) *device.SerialSource {
	return device.NewSerialSource(port, options...)
}

// SerialWithBaudRate sets the port speed.
func SerialWithBaudRate(baud uint) types.Option[*device.SerialSource] {
	return device.WithBaudRate(baud)
}

// SerialWithInitCommands sets the commands written after the port opens.
func SerialWithInitCommands(cmds ...string) types.Option[*device.SerialSource] {
	return device.WithInitCommands(cmds...)
}

// SerialWithInitDelay sets the pause after each init command.
func SerialWithInitDelay(d time.Duration) types.Option[*device.SerialSource] {
	return device.WithInitDelay(d)
}

// SerialWithInterCharacterTimeout sets the read timeout between bytes.
func SerialWithInterCharacterTimeout(d time.Duration) types.Option[*device.SerialSource] {
	return device.WithInterCharacterTimeout(d)
}

// SerialWithLogger attaches one or more loggers to the source.
func SerialWithLogger(loggers ...types.Logger) types.Option[*device.SerialSource] {
	return device.WithSerialLogger(loggers...)
}

// NewSimulatedSource produces encoded frames without hardware.
func NewSimulatedSource(options ...types.Option[*device.SimulatedSource]) *device.SimulatedSource {
	return device.NewSimulatedSource(options...)
}

// SimulatedWithRate sets the frame rate in Hz.
func SimulatedWithRate(hz float64) types.Option[*device.SimulatedSource] {
	return device.WithSimulatedRate(hz)
}

// SimulatedWithAlphaFrequency sets the dominant sine frequency.
func SimulatedWithAlphaFrequency(hz float64) types.Option[*device.SimulatedSource] {
	return device.WithAlphaFrequency(hz)
}

// SimulatedWithAmplitude sets one channel's sine amplitude in microvolts.
func SimulatedWithAmplitude(channel int, uv float64) types.Option[*device.SimulatedSource] {
	return device.WithAmplitude(channel, uv)
}

// SimulatedWithNoise sets the noise standard deviation in microvolts.
func SimulatedWithNoise(stddevUV float64) types.Option[*device.SimulatedSource] {
	return device.WithNoise(stddevUV)
}

// SimulatedWithCorruption injects junk bytes before every nth frame.
func SimulatedWithCorruption(every int) types.Option[*device.SimulatedSource] {
	return device.WithCorruption(every)
}

// SimulatedWithFrameLimit ends each stream with io.EOF after n frames.
func SimulatedWithFrameLimit(n int) types.Option[*device.SimulatedSource] {
	return device.WithFrameLimit(n)
}

// SimulatedWithSeed fixes the noise sequence.
func SimulatedWithSeed(seed uint64) types.Option[*device.SimulatedSource] {
	return device.WithSeed(seed)
}

// SimulatedWithRealtime paces output at the frame rate.
func SimulatedWithRealtime(on bool) types.Option[*device.SimulatedSource] {
	return device.WithRealtime(on)
}

// NewReaderSource wraps any reader factory, such as a replay pipe.
func NewReaderSource(name string, open func(ctx context.Context) (io.Reader, error)) *device.ReaderSource {
	return device.NewReaderSource(name, open)
}

// NewFileSource replays a recorded byte stream from path.
func NewFileSource(path string) *device.ReaderSource {
	return device.NewFileSource(path)
}
