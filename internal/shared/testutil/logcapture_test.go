package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCapture(t *testing.T) {
	capture := NewLogCapture()
	logger := capture.Logger()

	logger.Info("pipeline refreshed", slog.Int("series_count", 13))
	logger.Warn("rate limit exceeded")

	records := capture.Records()
	require.Len(t, records, 2)
	assert.Equal(t, slog.LevelInfo, records[0].Level)
	assert.Equal(t, "pipeline refreshed", records[0].Message)
	assert.EqualValues(t, 13, records[0].Attrs["series_count"])
	assert.Equal(t, slog.LevelWarn, records[1].Level)

	assert.True(t, capture.Contains("rate limit"))
	assert.False(t, capture.Contains("no such message"))
}

func TestLogCaptureDebugEnabled(t *testing.T) {
	capture := NewLogCapture()
	capture.Logger().Debug("noisy detail")

	require.Len(t, capture.Records(), 1)
}
