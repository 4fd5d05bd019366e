package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/farmsim-go/internal/application/logging"
)

func TestSlogLogger_WritesLevelAndMetadata(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger.Log(logging.LevelWarn, "crop skipped", map[string]interface{}{"crop_type": "quinoa"})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "crop skipped", line["msg"])
	assert.Equal(t, "quinoa", line["crop_type"])
}

func TestLoggerFromContext(t *testing.T) {
	assert.NotNil(t, logging.LoggerFromContext(context.Background()))

	logger := logging.NewSlogLogger(nil)
	ctx := logging.WithLogger(context.Background(), logger)

	assert.Same(t, logger, logging.LoggerFromContext(ctx))
}
