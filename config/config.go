// Package config loads timing and demo configuration from flags, environment and an optional file
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/fixtick/engine"
	"github.com/lixenwraith/fixtick/parameter"
)

// ApplicationName names the config file, the environment prefix and the search paths
const ApplicationName = "fixtick"

// Flag and configuration keys
const (
	KeyConfigFile    = "config"
	KeyDumpConfig    = "dump-config"
	KeySlowMotion    = "slow-motion"
	KeyMaxCatchUp    = "max-catch-up"
	KeyCatchUpPolicy = "catch-up-policy"
	KeyFrameSkipping = "frame-skipping"
	KeyTickInterval  = "tick-interval"
	KeyBeatInterval  = "beat-interval"
	KeyBlinkInterval = "blink-interval"
	KeyAudio         = "audio"
	KeyDebug         = "debug"
	KeyMetricsAddr   = "metrics-addr"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the effective configuration after flags, environment and file are merged
type Config struct {
	SlowMotion    int    `mapstructure:"slow-motion" yaml:"slow-motion"`
	MaxCatchUp    int    `mapstructure:"max-catch-up" yaml:"max-catch-up"`
	CatchUpPolicy string `mapstructure:"catch-up-policy" yaml:"catch-up-policy"`
	FrameSkipping bool   `mapstructure:"frame-skipping" yaml:"frame-skipping"`
	TickInterval  int    `mapstructure:"tick-interval" yaml:"tick-interval"`
	BeatInterval  int    `mapstructure:"beat-interval" yaml:"beat-interval"`
	BlinkInterval int    `mapstructure:"blink-interval" yaml:"blink-interval"`
	Audio         bool   `mapstructure:"audio" yaml:"audio"`
	Debug         bool   `mapstructure:"debug" yaml:"debug"`
	MetricsAddr   string `mapstructure:"metrics-addr" yaml:"metrics-addr"`

	// Command switches, not part of the persisted configuration
	File        string `mapstructure:"config" yaml:"-"`
	PrintConfig bool   `mapstructure:"dump-config" yaml:"-"`
}

// NewFlagSet defines every configuration flag with its built-in default
func NewFlagSet(name string) *pflag.FlagSet {
	f := pflag.NewFlagSet(name, pflag.ContinueOnError)

	f.StringP(KeyConfigFile, "c", "", "Configuration file (yaml, toml or json)")
	f.Bool(KeyDumpConfig, false, "Print the effective configuration as yaml and exit")
	f.IntP(KeySlowMotion, "s", parameter.DefaultSlowMotionDivisor, "Slow-motion divisor, game time runs at 1/divisor of real time")
	f.Int(KeyMaxCatchUp, parameter.DefaultMaxCatchUpIterations, "Maximum catch-up firings per poll, 0 for unbounded")
	f.String(KeyCatchUpPolicy, parameter.DefaultCatchUpPolicy, "Backlog handling at the catch-up ceiling: drop or carry")
	f.Bool(KeyFrameSkipping, true, "Let timers catch up on missed intervals")
	f.Int(KeyTickInterval, parameter.LogicIntervalMs, "Logic timer interval in milliseconds")
	f.Int(KeyBeatInterval, parameter.BeatIntervalMs, "Metronome interval in milliseconds")
	f.Int(KeyBlinkInterval, parameter.BlinkIntervalMs, "Cursor blink interval in milliseconds")
	f.Bool(KeyAudio, true, "Play the metronome click")
	f.BoolP(KeyDebug, "d", false, "Write debug log to logs/")
	f.String(KeyMetricsAddr, "", "Serve Prometheus metrics on this address, e.g. :9100")

	return f
}

// NewViper produces a Viper instance following the application conventions
// Config files are searched under /etc/fixtick, $HOME/.fixtick and the working directory
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(ApplicationName)
	v.AddConfigPath(fmt.Sprintf("/etc/%s", ApplicationName))
	v.AddConfigPath(fmt.Sprintf("$HOME/.%s", ApplicationName))
	v.AddConfigPath(".")

	v.SetEnvPrefix(ApplicationName)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// ParseAndBind parses flagSet with arguments and binds it to v
// If arguments is nil, os.Args[1:] is used instead
func ParseAndBind(v *viper.Viper, flagSet *pflag.FlagSet, arguments []string) error {
	if arguments == nil {
		arguments = os.Args[1:]
	}

	if err := flagSet.Parse(arguments); err != nil {
		return err
	}

	return v.BindPFlags(flagSet)
}

// Load parses arguments, reads the config file if any and returns the validated configuration
// Precedence: explicit flag, environment (FIXTICK_*), config file, flag default
func Load(v *viper.Viper, flagSet *pflag.FlagSet, arguments []string) (*Config, error) {
	if err := ParseAndBind(v, flagSet, arguments); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every out-of-range value, each wrapping ErrInvalidConfig
func (c *Config) Validate() error {
	var errs []error

	if c.SlowMotion < 1 {
		errs = append(errs, fmt.Errorf("%w: %s must be >= 1, got %d", ErrInvalidConfig, KeySlowMotion, c.SlowMotion))
	}
	if c.MaxCatchUp < 0 {
		errs = append(errs, fmt.Errorf("%w: %s must be >= 0, got %d", ErrInvalidConfig, KeyMaxCatchUp, c.MaxCatchUp))
	}
	if _, ok := engine.ParseCatchUpPolicy(c.CatchUpPolicy); !ok {
		errs = append(errs, fmt.Errorf("%w: unknown %s %q", ErrInvalidConfig, KeyCatchUpPolicy, c.CatchUpPolicy))
	}

	intervals := []struct {
		key   string
		value int
	}{
		{KeyTickInterval, c.TickInterval},
		{KeyBeatInterval, c.BeatInterval},
		{KeyBlinkInterval, c.BlinkInterval},
	}
	for _, iv := range intervals {
		if iv.value <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be > 0, got %d", ErrInvalidConfig, iv.key, iv.value))
		}
	}

	return errors.Join(errs...)
}

// Settings projects the engine timing settings
func (c *Config) Settings() engine.Settings {
	policy, _ := engine.ParseCatchUpPolicy(c.CatchUpPolicy)
	return engine.Settings{
		SlowMotionDivisor:    c.SlowMotion,
		MaxCatchUpIterations: c.MaxCatchUp,
		CatchUpPolicy:        policy,
	}
}

// Dump writes the configuration as yaml
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
