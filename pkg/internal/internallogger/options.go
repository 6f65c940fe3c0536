package internallogger

import "github.com/joeydtaylor/synapse/pkg/logschema"

// LoggerWithLevel sets the starting level by name. Unknown names mean info.
func LoggerWithLevel(levelStr string) LoggerOption {
	return func(s *loggerSettings) {
		s.level = ConvertLevel(parseLogLevel(levelStr))
	}
}

// LoggerWithDevelopment makes DPanic entries panic.
func LoggerWithDevelopment(dev bool) LoggerOption {
	return func(s *loggerSettings) {
		s.development = dev
	}
}

// LoggerWithFields attaches fields to every log line.
func LoggerWithFields(fields map[string]interface{}) LoggerOption {
	return func(s *loggerSettings) {
		for key, value := range fields {
			if key != "" {
				s.fields[key] = value
			}
		}
	}
}

// LoggerWithService tags every line with the emitting process name.
func LoggerWithService(name string) LoggerOption {
	return LoggerWithFields(map[string]interface{}{"service": name})
}

// LoggerWithSchema overrides the schema identifier field.
func LoggerWithSchema(schema string) LoggerOption {
	return func(s *loggerSettings) {
		s.fields[logschema.FieldSchema] = schema
	}
}

// ZapAdapterWithCallerSkip skips extra frames when wrapped by another helper.
func ZapAdapterWithCallerSkip(skip int) LoggerOption {
	return func(s *loggerSettings) {
		s.callerSkip += skip
	}
}
