package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cashier/pkg/config"
)

type billingConfig struct {
	Currency string        `env:"CURRENCY" envDefault:"NGN"`
	Secret   string        `env:"SECRET,required"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"10s"`
	Plans    []string      `env:"PLANS" envSeparator:","`
}

func writeEnv(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("defaults and environment", func(t *testing.T) {
		t.Parallel()
		var cfg billingConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{
			"SECRET": "sk_test",
			"PLANS":  "PLN_basic,PLN_pro",
		}))
		require.NoError(t, err)
		assert.Equal(t, "NGN", cfg.Currency)
		assert.Equal(t, "sk_test", cfg.Secret)
		assert.Equal(t, 10*time.Second, cfg.Timeout)
		assert.Equal(t, []string{"PLN_basic", "PLN_pro"}, cfg.Plans)
	})

	t.Run("missing required", func(t *testing.T) {
		t.Parallel()
		var cfg billingConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("prefix", func(t *testing.T) {
		t.Parallel()
		var cfg billingConfig
		err := config.Load(&cfg,
			config.WithPrefix("CASHIER_"),
			config.WithEnvironment(map[string]string{"CASHIER_SECRET": "sk", "CASHIER_CURRENCY": "GHS"}),
		)
		require.NoError(t, err)
		assert.Equal(t, "GHS", cfg.Currency)
	})

	t.Run("env files with precedence", func(t *testing.T) {
		t.Parallel()
		base := writeEnv(t, ".env", "SECRET=from_file\nCURRENCY=ZAR\nTIMEOUT=5s\n")
		local := writeEnv(t, ".env.local", "CURRENCY=KES\n")

		var cfg billingConfig
		err := config.Load(&cfg,
			config.WithEnvFiles(base, local),
			config.WithEnvironment(map[string]string{"TIMEOUT": "1m"}),
		)
		require.NoError(t, err)
		assert.Equal(t, "from_file", cfg.Secret)
		assert.Equal(t, "KES", cfg.Currency)
		assert.Equal(t, time.Minute, cfg.Timeout)
	})

	t.Run("missing env file", func(t *testing.T) {
		t.Parallel()
		var cfg billingConfig
		err := config.Load(&cfg, config.WithEnvFiles(filepath.Join(t.TempDir(), "nope.env")))
		assert.ErrorIs(t, err, config.ErrReadingEnv)
	})

	t.Run("nil pointer", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, config.Load[billingConfig](nil), config.ErrNilPointer)
	})
}

func TestMustLoad(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		var cfg billingConfig
		config.MustLoad(&cfg, config.WithEnvironment(map[string]string{}))
	})
	assert.NotPanics(t, func() {
		var cfg billingConfig
		config.MustLoad(&cfg, config.WithEnvironment(map[string]string{"SECRET": "x"}))
	})
}
