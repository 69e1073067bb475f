package logger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/splitledger/internal/config"
	"github.com/phrazzld/splitledger/internal/platform/logger"
)

func TestSetup(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{LogLevel: level})
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}

	t.Run("invalid level falls back to info", func(t *testing.T) {
		log, err := logger.Setup(config.ServerConfig{LogLevel: "loud"})
		require.NoError(t, err)
		assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
		assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
	})
}

func TestContextLogger(t *testing.T) {
	base := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("round-trips through the context", func(t *testing.T) {
		ctx := logger.WithLogger(context.Background(), base)
		assert.Same(t, base, logger.FromContext(ctx))
	})

	t.Run("falls back to the default logger", func(t *testing.T) {
		assert.NotNil(t, logger.FromContext(context.Background()))
	})

	t.Run("falls back to the provided logger", func(t *testing.T) {
		fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
		got := logger.FromContextOrDefault(context.Background(), fallback)
		assert.Same(t, fallback, got)

		ctx := logger.WithLogger(context.Background(), base)
		assert.Same(t, base, logger.FromContextOrDefault(ctx, fallback))
	})
}
