package logschema

// Log schema constants for Synapse structured logs.
const (
	SchemaID    = "synapse.log.v1"
	FieldSchema = "log_schema"

	FieldTimestamp = "ts"
	FieldLevel     = "level"
	FieldMessage   = "msg"
	FieldLogger    = "logger"
	FieldCaller    = "caller"
	FieldStack     = "stack"

	FieldComponent = "component"
	FieldEvent     = "event"
	FieldResult    = "result"
	FieldError     = "error"
	FieldSession   = "session_id"
	FieldConn      = "conn_id"
	FieldDevice    = "device"
)

// Result values used in the "result" field.
const (
	ResultSuccess = "SUCCESS"
	ResultFailure = "FAILURE"
)

// LogRecord is a generic map representation of a log entry.
type LogRecord map[string]interface{}
