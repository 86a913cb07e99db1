package internal

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		logger := NewLogger(&bytes.Buffer{}, tt.level)
		assert.Equal(t, tt.want, logger.GetLevel(), "level %q", tt.level)
	}
}

func TestNewLoggerWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")

	logger.Debug().Msg("hidden")
	logger.Info().Str("run_id", "abc").Msg("classified")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "classified")
	assert.Contains(t, buf.String(), "run_id")
	assert.Contains(t, buf.String(), "abc")
}
