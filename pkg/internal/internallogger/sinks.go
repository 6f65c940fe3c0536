package internallogger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type sinkEntry struct {
	core  zapcore.Core
	close func() error
}

// AddSink attaches an output. Config keys: "path" (file sinks) and "level",
// which raises the sink above the shared level but never lowers it.
func (z *ZapLoggerAdapter) AddSink(identifier string, config types.SinkConfig) error {
	ws, closer, err := openSink(config)
	if err != nil {
		return err
	}

	enabler := zapcore.LevelEnabler(z.atomicLevel)
	if name, ok := config.Config["level"].(string); ok && name != "" {
		floor := ConvertLevel(parseLogLevel(name))
		shared := z.atomicLevel
		enabler = zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= floor && shared.Enabled(l)
		})
	}

	z.mu.Lock()
	defer z.mu.Unlock()
	if prev, ok := z.sinks[identifier]; ok && prev.close != nil {
		_ = prev.close()
	}
	z.sinks[identifier] = sinkEntry{core: z.newCore(ws, enabler), close: closer}
	z.rebuildLoggerLocked()
	return nil
}

func openSink(config types.SinkConfig) (zapcore.WriteSyncer, func() error, error) {
	switch config.Type {
	case types.FileSink:
		path, _ := config.Config["path"].(string)
		if path == "" {
			return nil, nil, fmt.Errorf("file sink requires a path")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return zapcore.AddSync(file), file.Close, nil
	case types.StdoutSink:
		return zapcore.Lock(os.Stdout), nil, nil
	case types.StderrSink:
		return zapcore.Lock(os.Stderr), nil, nil
	}
	return nil, nil, fmt.Errorf("unsupported sink type: %s", config.Type)
}

// RemoveSink detaches an output and closes it if it owns a file.
func (z *ZapLoggerAdapter) RemoveSink(identifier string) error {
	z.mu.Lock()
	defer z.mu.Unlock()

	entry, ok := z.sinks[identifier]
	if !ok {
		return fmt.Errorf("sink not found: %s", identifier)
	}
	delete(z.sinks, identifier)
	z.rebuildLoggerLocked()
	if entry.close != nil {
		return entry.close()
	}
	return nil
}

// ListSinks returns sink identifiers in sorted order.
func (z *ZapLoggerAdapter) ListSinks() ([]string, error) {
	z.mu.Lock()
	defer z.mu.Unlock()

	ids := make([]string, 0, len(z.sinks))
	for id := range z.sinks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
