package restddb

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	entry := map[string]any{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestLogCallFailed_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	server := NewErr().WithBackendError(NewBackendError(ErrCodeServiceUnavailable, 503, "down")).MustBuild()
	LogCallFailed(logger, "c1", server, time.Millisecond)

	entry := lastEntry(t, &buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, EventCallFailed, entry["event"])
	assert.Equal(t, "ServiceUnavailable", entry["error_type"])
	assert.Equal(t, ErrCodeServiceUnavailable, entry["backend_code"])
	assert.Equal(t, float64(503), entry["backend_status"])

	client := NewErr().WithErrorType(NotFound).WithMessage("item not found").MustBuild()
	LogCallFailed(logger, "c2", client, time.Millisecond)

	entry = lastEntry(t, &buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "item not found", entry["message"])
	assert.NotContains(t, entry, "backend_code")
}

func TestCallLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := CallLogger(zerolog.New(&buf), "c1", VerbPatch, "items")

	LogCallSucceeded(logger, "c1", 200, time.Millisecond)

	entry := lastEntry(t, &buf)
	assert.Equal(t, "PATCH", entry["verb"])
	assert.Equal(t, "items", entry["table"])
	assert.Equal(t, float64(200), entry["status"])
}
