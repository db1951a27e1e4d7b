package twilio_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
	"github.com/stretchr/testify/assert"
)

func TestSlogLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := twilio.NewSlogLogger(slog.New(handler))

	logger.Debug("Fetching page", map[string]interface{}{"page": 2})
	logger.Error("API Response Error", map[string]interface{}{"status_code": 500})

	output := buf.String()
	assert.Contains(t, output, "level=DEBUG")
	assert.Contains(t, output, `msg="Fetching page"`)
	assert.Contains(t, output, "page=2")
	assert.Contains(t, output, "level=ERROR")
	assert.Contains(t, output, "status_code=500")
}

func TestNewSlogLogger_NilUsesDefault(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, twilio.NewSlogLogger(nil))
}
