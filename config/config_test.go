package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/fixtick/engine"
	"github.com/lixenwraith/fixtick/parameter"
)

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	return Load(NewViper(), NewFlagSet("test"), args)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtick.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, parameter.DefaultSlowMotionDivisor, cfg.SlowMotion)
	assert.Equal(t, parameter.DefaultMaxCatchUpIterations, cfg.MaxCatchUp)
	assert.Equal(t, parameter.DefaultCatchUpPolicy, cfg.CatchUpPolicy)
	assert.True(t, cfg.FrameSkipping)
	assert.Equal(t, parameter.LogicIntervalMs, cfg.TickInterval)
	assert.Equal(t, parameter.BeatIntervalMs, cfg.BeatInterval)
	assert.Equal(t, parameter.BlinkIntervalMs, cfg.BlinkInterval)
	assert.True(t, cfg.Audio)
	assert.False(t, cfg.Debug)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, "slow-motion: 3\nmax-catch-up: 4\ncatch-up-policy: carry\n")

	t.Run("file over default", func(t *testing.T) {
		cfg, err := load(t, "--config", path)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.SlowMotion)
		assert.Equal(t, 4, cfg.MaxCatchUp)
		assert.Equal(t, "carry", cfg.CatchUpPolicy)
		assert.Equal(t, path, cfg.File)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("FIXTICK_MAX_CATCH_UP", "2")
		cfg, err := load(t, "--config", path)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.MaxCatchUp)
		assert.Equal(t, 3, cfg.SlowMotion)
	})

	t.Run("flag over file", func(t *testing.T) {
		cfg, err := load(t, "--config", path, "-s", "6", "--catch-up-policy", "drop")
		require.NoError(t, err)
		assert.Equal(t, 6, cfg.SlowMotion)
		assert.Equal(t, "drop", cfg.CatchUpPolicy)
	})
}

func TestLoadErrors(t *testing.T) {
	t.Run("unknown flag", func(t *testing.T) {
		_, err := load(t, "--no-such-flag")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := load(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := load(t, "--slow-motion", "0", "--catch-up-policy", "spiral", "--tick-interval", "-1")
		require.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), KeySlowMotion)
		assert.Contains(t, err.Error(), "spiral")
		assert.Contains(t, err.Error(), KeyTickInterval)
	})
}

func TestValidate(t *testing.T) {
	valid := Config{
		SlowMotion:    1,
		MaxCatchUp:    0,
		CatchUpPolicy: "drop",
		TickInterval:  1,
		BeatInterval:  1,
		BlinkInterval: 1,
	}
	assert.NoError(t, valid.Validate(), "zero catch-up ceiling means unbounded")

	bad := valid
	bad.MaxCatchUp = -1
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = valid
	bad.BeatInterval = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)
}

func TestSettings(t *testing.T) {
	cfg := Config{SlowMotion: 5, MaxCatchUp: 3, CatchUpPolicy: "carry"}

	assert.Equal(t, engine.Settings{
		SlowMotionDivisor:    5,
		MaxCatchUpIterations: 3,
		CatchUpPolicy:        engine.CatchUpCarry,
	}, cfg.Settings())
}

func TestDump(t *testing.T) {
	cfg, err := load(t, "--slow-motion", "3", "--metrics-addr", ":9100")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cfg.Dump(&buf))

	out := buf.String()
	assert.Contains(t, out, "slow-motion: 3\n")
	assert.NotContains(t, out, "dump-config")

	// Dumped output is itself a loadable config file
	path := writeConfig(t, out)
	reloaded, err := load(t, "--config", path)
	require.NoError(t, err)
	reloaded.File = ""
	assert.Equal(t, cfg, reloaded)
}
