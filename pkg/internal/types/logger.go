package types

// LogLevel orders log severities. Higher values are more severe.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	DPanicLevel // panics only in development mode
	PanicLevel
	FatalLevel
)

// SinkType names an output a Logger can tee entries into.
type SinkType string

const (
	FileSink   SinkType = "file"
	StdoutSink SinkType = "stdout"
	StderrSink SinkType = "stderr"
)

// SinkConfig describes one extra log output. File sinks need a "path" entry in
// Config; any sink may carry a "level" entry to filter above the logger level.
type SinkConfig struct {
	Type   SinkType
	Config map[string]interface{}
}

// Logger is the structured logger every component reports through. Arguments
// after msg are alternating string keys and values.
type Logger interface {
	GetLevel() LogLevel
	SetLevel(LogLevel)

	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	DPanic(msg string, keysAndValues ...interface{})
	Panic(msg string, keysAndValues ...interface{})
	Fatal(msg string, keysAndValues ...interface{})

	// Flush writes any buffered entries.
	Flush() error

	AddSink(identifier string, config SinkConfig) error
	RemoveSink(identifier string) error
	ListSinks() ([]string, error)
}
