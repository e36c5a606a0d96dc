package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskboardhq/taskboard-api/internal/platform/logger"
)

func TestWithLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := logger.WithLogger(context.Background(), log)
	assert.Same(t, log, logger.FromContext(ctx))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
}

func TestFromContextOrDefault(t *testing.T) {
	var buf bytes.Buffer
	def := slog.New(slog.NewJSONHandler(&buf, nil))

	t.Run("uses the given fallback", func(t *testing.T) {
		assert.Same(t, def, logger.FromContextOrDefault(context.Background(), def))
	})

	t.Run("nil context", func(t *testing.T) {
		assert.Same(t, def, logger.FromContextOrDefault(nil, def)) //nolint:staticcheck
	})

	t.Run("stored logger wins over the fallback", func(t *testing.T) {
		stored := slog.New(slog.NewJSONHandler(&buf, nil))
		ctx := logger.WithLogger(context.Background(), stored)
		assert.Same(t, stored, logger.FromContextOrDefault(ctx, def))
	})
}
