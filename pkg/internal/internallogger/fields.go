package internallogger

import (
	"fmt"
	"sort"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// fieldsFromMap returns the map as fields in key order so base fields print
// the same way on every line.
func fieldsFromMap(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if key != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		out = append(out, toField(key, fields[key]))
	}
	return out
}

// fieldsFromPairs converts alternating key/value arguments. Non-string keys
// and a trailing key without a value are dropped.
func fieldsFromPairs(keysAndValues []interface{}) []zap.Field {
	limit := len(keysAndValues) &^ 1
	fields := make([]zap.Field, 0, limit/2)
	for i := 0; i < limit; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, toField(key, keysAndValues[i+1]))
	}
	return fields
}

func toField(key string, value interface{}) zap.Field {
	switch v := value.(type) {
	case types.ComponentMetadata:
		return zap.Object(key, componentObject(v))
	case *types.ComponentMetadata:
		if v == nil {
			return zap.Skip()
		}
		return zap.Object(key, componentObject(*v))
	case types.AnalysisResult:
		return zap.Object(key, resultObject(v))
	case *types.AnalysisResult:
		if v == nil {
			return zap.Skip()
		}
		return zap.Object(key, resultObject(*v))
	case types.Sample:
		return zap.Object(key, sampleObject(v))
	case time.Time:
		return zap.Time(key, v)
	case time.Duration:
		return zap.Duration(key, v)
	case error:
		return zap.NamedError(key, v)
	case fmt.Stringer:
		return zap.Stringer(key, v)
	}
	return zap.Any(key, value)
}

func componentObject(meta types.ComponentMetadata) zapcore.ObjectMarshalerFunc {
	return func(enc zapcore.ObjectEncoder) error {
		enc.AddString("id", meta.ID)
		enc.AddString("type", meta.Type)
		if meta.Name != "" {
			enc.AddString("name", meta.Name)
		}
		return nil
	}
}

func resultObject(res types.AnalysisResult) zapcore.ObjectMarshalerFunc {
	return func(enc zapcore.ObjectEncoder) error {
		enc.AddInt("index", res.Index)
		enc.AddInt("samples", res.SampleCount)
		enc.AddFloat64("window_s", res.WindowSeconds)
		enc.AddFloat64("score", res.Composite.Score)
		enc.AddString("category", res.Composite.Label)
		return nil
	}
}

func sampleObject(s types.Sample) zapcore.ObjectMarshalerFunc {
	return func(enc zapcore.ObjectEncoder) error {
		enc.AddUint8("seq", s.Sequence)
		enc.AddTime("ts", s.Timestamp)
		return nil
	}
}
