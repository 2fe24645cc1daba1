package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cashier/pkg/logger"
)

type owner string

func (o owner) String() string { return string(o) }

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json by default", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("hello")

		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText))
		log.Info("hello")
		assert.Contains(t, buf.String(), "level=INFO")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		assert.Empty(t, buf.String())
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})

	t.Run("from config", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.FromConfig(logger.Config{Level: "DEBUG", Format: "json", Service: "billing"}),
		)
		log.Debug("visible")

		entry := decode(t, buf)
		assert.Equal(t, "DEBUG", entry["level"])
		assert.Equal(t, "billing", entry["service"])
	})
}

func TestWithAttrs(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf))

	ctx := logger.WithAttrs(context.Background(), logger.Event("subscription.create"))
	ctx = logger.WithAttrs(ctx, logger.RequestID("req-1"))
	log.With(logger.Component("test")).InfoContext(ctx, "handled")

	entry := decode(t, buf)
	assert.Equal(t, "subscription.create", entry["event"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "test", entry["component"])
	assert.Len(t, logger.AttrsFromContext(ctx), 2)
	assert.Nil(t, logger.AttrsFromContext(context.Background()))
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, logger.ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("verbose"))
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "error", logger.Error(errors.New("boom")).Key)
	assert.Equal(t, slog.Attr{}, logger.Errors(nil, nil))
	assert.Equal(t, "errors", logger.Errors(nil, errors.New("x")).Key)
	assert.Equal(t, slog.Attr{}, logger.SubscriptionCode(""))
	assert.Equal(t, "SUB_1", logger.SubscriptionCode("SUB_1").Value.String())
	assert.Equal(t, "customer_code", logger.CustomerCode("CUS_1").Key)
	assert.Equal(t, "user:42", logger.Owner(owner("user:42")).Value.String())
	assert.Equal(t, slog.Attr{}, logger.Plan(""))
	assert.Equal(t, int64(3), logger.Attempts(3).Value.Int64())
}
