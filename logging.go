package restddb

import (
	"time"

	"github.com/rs/zerolog"
)

// Log event names
const (
	// Call-level events
	EventCallStarted       = "call_started"
	EventCallSucceeded     = "call_succeeded"
	EventCallFailed        = "call_failed"
	EventKeySchemaViolated = "key_schema_violation"

	// Schema events
	EventSchemaResolved         = "schema_resolved"
	EventSchemaResolutionFailed = "schema_resolution_failed"
)

// LogCallStarted logs when a verb starts execution
func LogCallStarted(logger zerolog.Logger, callID string, verb Verb, table string) {
	logger.Debug().
		Str("event", EventCallStarted).
		Str("call_id", callID).
		Str("verb", verb.String()).
		Str("table", table).
		Msg("Call started")
}

// LogCallSucceeded logs a call resolved with an Ok
func LogCallSucceeded(logger zerolog.Logger, callID string, statusCode int, duration time.Duration) {
	logger.Info().
		Str("event", EventCallSucceeded).
		Str("call_id", callID).
		Int("status", statusCode).
		Dur("duration", duration).
		Msg("Call succeeded")
}

// LogCallFailed logs a call resolved with an Err. Server-range failures
// are logged at error level, client-range ones at warn level.
func LogCallFailed(logger zerolog.Logger, callID string, e *Err, duration time.Duration) {
	ev := logger.Warn()
	if e.StatusRange() == StatusRangeServer {
		ev = logger.Error()
	}

	ev = ev.
		Str("event", EventCallFailed).
		Str("call_id", callID).
		Int("status", e.DefaultStatusCode()).
		Str("error_type", e.ErrorType().String()).
		Bool("backend", e.IsBackendError()).
		Dur("duration", duration)

	if be := e.BackendError(); be != nil {
		ev = ev.Str("backend_code", be.Code).Int("backend_status", be.StatusCode)
	}

	ev.Msg(e.Message())
}

// LogKeySchemaViolation logs an Id rejected before reaching the store
func LogKeySchemaViolation(logger zerolog.Logger, callID string, schema KeySchema, err error) {
	logger.Warn().
		Str("event", EventKeySchemaViolated).
		Str("call_id", callID).
		Str("key_schema", schema.String()).
		Err(err).
		Msg("Key schema violation")
}

// LogSchemaResolved logs the first successful key schema resolution
func LogSchemaResolved(logger zerolog.Logger, table string, schema KeySchema) {
	logger.Info().
		Str("event", EventSchemaResolved).
		Str("table", table).
		Str("key_schema", schema.String()).
		Msg("Key schema resolved")
}

// LogSchemaResolutionFailed logs a failed key schema lookup
func LogSchemaResolutionFailed(logger zerolog.Logger, table string, err error) {
	logger.Error().
		Str("event", EventSchemaResolutionFailed).
		Str("table", table).
		Err(err).
		Msg("Key schema resolution failed")
}

// CallLogger creates a logger enriched with call context
func CallLogger(baseLogger zerolog.Logger, callID string, verb Verb, table string) zerolog.Logger {
	return baseLogger.With().
		Str("call_id", callID).
		Str("verb", verb.String()).
		Str("table", table).
		Logger()
}
