package internallogger_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeydtaylor/synapse/pkg/internal/internallogger"
	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"github.com/joeydtaylor/synapse/pkg/logschema"
)

func TestNewLogger_DefaultLevel(t *testing.T) {
	logger := internallogger.NewLogger()
	if got := logger.GetLevel(); got != types.InfoLevel {
		t.Fatalf("expected InfoLevel, got %v", got)
	}
}

func TestNewLogger_WithLevel(t *testing.T) {
	logger := internallogger.NewLogger(internallogger.LoggerWithLevel("debug"))
	if got := logger.GetLevel(); got != types.DebugLevel {
		t.Fatalf("expected DebugLevel, got %v", got)
	}

	logger = internallogger.NewLogger(internallogger.LoggerWithLevel("unknown"))
	if got := logger.GetLevel(); got != types.InfoLevel {
		t.Fatalf("expected InfoLevel on unknown level, got %v", got)
	}
}

func TestLogger_SetLevel(t *testing.T) {
	logger := internallogger.NewLogger()
	logger.SetLevel(types.ErrorLevel)
	if got := logger.GetLevel(); got != types.ErrorLevel {
		t.Fatalf("expected ErrorLevel, got %v", got)
	}
}

func TestLogger_AddRemoveListSinks(t *testing.T) {
	logger := internallogger.NewLogger(internallogger.LoggerWithLevel("debug"))

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "app.log")

	if err := logger.AddSink("file", types.SinkConfig{Type: "file", Config: map[string]interface{}{"path": path}}); err != nil {
		t.Fatalf("AddSink(file) error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}

	if err := logger.AddSink("stdout", types.SinkConfig{Type: "stdout"}); err != nil {
		t.Fatalf("AddSink(stdout) error: %v", err)
	}

	sinks, err := logger.ListSinks()
	if err != nil {
		t.Fatalf("ListSinks error: %v", err)
	}
	if len(sinks) != 2 {
		t.Fatalf("expected 2 sinks, got %d", len(sinks))
	}

	if err := logger.RemoveSink("stdout"); err != nil {
		t.Fatalf("RemoveSink error: %v", err)
	}
	if err := logger.RemoveSink("missing"); err == nil {
		t.Fatalf("expected error removing missing sink")
	}
}

func TestLogger_AddSinkInvalidConfig(t *testing.T) {
	logger := internallogger.NewLogger()

	if err := logger.AddSink("file", types.SinkConfig{Type: "file", Config: map[string]interface{}{}}); err == nil {
		t.Fatalf("expected error for missing file path")
	}
	if err := logger.AddSink("network", types.SinkConfig{Type: "network"}); err == nil {
		t.Fatalf("expected error for unsupported sink type")
	}
}

func TestLogger_LogHandlesOddKeys(t *testing.T) {
	logger := internallogger.NewLogger(internallogger.LoggerWithLevel("debug"))

	logger.Log(types.InfoLevel, "odd keys", "key", "value", "orphan")
	logger.Log(types.InfoLevel, "non-string key", 123, "value")
}

func TestLogger_Flush(t *testing.T) {
	logger := internallogger.NewLogger()
	if err := logger.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}
}

func TestLogger_OptionsCoverage(t *testing.T) {
	logger := internallogger.NewLogger(
		internallogger.LoggerWithDevelopment(true),
		internallogger.ZapAdapterWithCallerSkip(1),
	)
	logger.Info("options")
}

func TestLogger_FileSinkWritesSchemaFields(t *testing.T) {
	logger := internallogger.NewLogger(internallogger.LoggerWithLevel("debug"))
	path := filepath.Join(t.TempDir(), "sink", "synapse.log")

	if err := logger.AddSink("file", types.SinkConfig{Type: "file", Config: map[string]interface{}{"path": path}}); err != nil {
		t.Fatalf("AddSink(file) error: %v", err)
	}

	meta := types.ComponentMetadata{ID: "dec-1", Type: "DECODER", Name: "frames"}
	logger.Warn("resync", "component", meta, "event", "Resync", "error", errors.New("bad end marker"))
	if err := logger.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}
	if err := logger.RemoveSink("file"); err != nil {
		t.Fatalf("RemoveSink error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := strings.TrimSpace(string(raw))
	var rec logschema.LogRecord
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, line)
	}
	if rec[logschema.FieldSchema] != logschema.SchemaID {
		t.Fatalf("expected schema %q, got %v", logschema.SchemaID, rec[logschema.FieldSchema])
	}
	if rec[logschema.FieldMessage] != "resync" {
		t.Fatalf("unexpected msg: %v", rec[logschema.FieldMessage])
	}
	comp, ok := rec[logschema.FieldComponent].(map[string]interface{})
	if !ok || comp["type"] != "DECODER" {
		t.Fatalf("expected component map, got %v", rec[logschema.FieldComponent])
	}
	if rec[logschema.FieldError] != "bad end marker" {
		t.Fatalf("expected error field, got %v", rec[logschema.FieldError])
	}
}

func TestLogger_SetLevelGatesSinks(t *testing.T) {
	logger := internallogger.NewLogger()
	path := filepath.Join(t.TempDir(), "gated.log")
	if err := logger.AddSink("file", types.SinkConfig{Type: "file", Config: map[string]interface{}{"path": path}}); err != nil {
		t.Fatalf("AddSink(file) error: %v", err)
	}

	logger.SetLevel(types.ErrorLevel)
	logger.Info("dropped")
	logger.Error("kept")
	_ = logger.Flush()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(raw), "dropped") {
		t.Fatalf("info entry should be gated at error level")
	}
	if !strings.Contains(string(raw), "kept") {
		t.Fatalf("error entry missing from sink")
	}
}

func TestLogger_SinkLevelRaisesFloor(t *testing.T) {
	logger := internallogger.NewLogger(internallogger.LoggerWithLevel("debug"))
	path := filepath.Join(t.TempDir(), "warn.log")
	cfg := types.SinkConfig{Type: types.FileSink, Config: map[string]interface{}{"path": path, "level": "warning"}}
	if err := logger.AddSink("warn", cfg); err != nil {
		t.Fatalf("AddSink error: %v", err)
	}

	logger.Debug("frame decoded")
	logger.Warn("resync")
	if err := logger.RemoveSink("warn"); err != nil {
		t.Fatalf("RemoveSink error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(raw), "frame decoded") {
		t.Fatalf("debug entry should not reach a warn sink")
	}
	if !strings.Contains(string(raw), "resync") {
		t.Fatalf("warn entry missing from sink")
	}
}

func TestLogger_EncodesAnalysisResult(t *testing.T) {
	logger := internallogger.NewLogger(internallogger.LoggerWithService("synapsed"))
	path := filepath.Join(t.TempDir(), "results.log")
	if err := logger.AddSink("file", types.SinkConfig{Type: types.FileSink, Config: map[string]interface{}{"path": path}}); err != nil {
		t.Fatalf("AddSink error: %v", err)
	}

	res := types.AnalysisResult{Index: 2, SampleCount: 250, WindowSeconds: 1}
	res.Composite.Score = 72.5
	res.Composite.Label = "Interested"
	logger.Info("stimulus analyzed", "result", res)
	if err := logger.RemoveSink("file"); err != nil {
		t.Fatalf("RemoveSink error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var rec map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(raw))), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["service"] != "synapsed" {
		t.Fatalf("expected service field, got %v", rec["service"])
	}
	got, ok := rec["result"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected result object, got %v", rec["result"])
	}
	if got["index"] != float64(2) || got["samples"] != float64(250) || got["category"] != "Interested" {
		t.Fatalf("unexpected result encoding: %v", got)
	}
}

func TestLogger_ListSinksSorted(t *testing.T) {
	logger := internallogger.NewLogger()
	for _, id := range []string{"b", "a"} {
		if err := logger.AddSink(id, types.SinkConfig{Type: types.StderrSink}); err != nil {
			t.Fatalf("AddSink(%s) error: %v", id, err)
		}
	}
	ids, _ := logger.ListSinks()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("unexpected sink order: %v", ids)
	}
}
