package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env     string
		enabled slog.Level
		muted   slog.Level
	}{
		{env: envLocal, enabled: slog.LevelDebug, muted: slog.LevelDebug - 1},
		{env: envDev, enabled: slog.LevelInfo, muted: slog.LevelDebug},
		{env: envProd, enabled: slog.LevelWarn, muted: slog.LevelInfo},
		{env: "unknown", enabled: slog.LevelError, muted: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Parallel()

			log := setupLogger(tt.env)

			assert.True(t, log.Enabled(context.Background(), tt.enabled))
			assert.False(t, log.Enabled(context.Background(), tt.muted))
		})
	}
}

func TestDropTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, dropTime(nil, slog.String(slog.TimeKey, "now")))
	assert.Equal(t, slog.String("msg", "kept"), dropTime(nil, slog.String("msg", "kept")))
}

func TestStartupMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Web service running at http://localhost:3000", startupMessage(3000))
}
