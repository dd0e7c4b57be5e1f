package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/warp/bed-engine/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "beds.db", cfg.DBPath)
	assert.Equal(t, 100, cfg.MCTSIterations)
	assert.Equal(t, 0.9, cfg.MCTSDiscount)
	assert.Equal(t, 1, cfg.MCTSParallelism)
	assert.Equal(t, 5, cfg.Suggestions)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("MCTS_ITERATIONS", "250")
	t.Setenv("MCTS_DISCOUNT", "0.5")
	t.Setenv("SEED", "42")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("DEMO_HOSPITAL", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, 250, cfg.MCTSIterations)
	assert.Equal(t, 0.5, cfg.MCTSDiscount)
	assert.Equal(t, uint64(42), cfg.RandSeed())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.DemoHospital)
}

func TestValidate(t *testing.T) {
	base := func() *config.Config {
		cfg, err := config.Load()
		require.NoError(t, err)
		return cfg
	}

	cases := []struct {
		name   string
		key    string
		mutate func(*config.Config)
	}{
		{"discount above one", "MCTS_DISCOUNT", func(c *config.Config) { c.MCTSDiscount = 1.5 }},
		{"negative discount", "MCTS_DISCOUNT", func(c *config.Config) { c.MCTSDiscount = -0.1 }},
		{"zero iterations", "MCTS_ITERATIONS", func(c *config.Config) { c.MCTSIterations = 0 }},
		{"zero parallelism", "MCTS_PARALLELISM", func(c *config.Config) { c.MCTSParallelism = 0 }},
		{"zero suggestions", "SUGGESTIONS", func(c *config.Config) { c.Suggestions = 0 }},
		{"bad level", "LOG_LEVEL", func(c *config.Config) { c.LogLevel = "loud" }},
		{"bad format", "LOG_FORMAT", func(c *config.Config) { c.LogFormat = "xml" }},
		{"no db", "DB_PATH", func(c *config.Config) { c.DBPath = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := config.NewLogger("warn", "console")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = config.NewLogger("nonsense", "json")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel), "unknown level falls back to info")
}
