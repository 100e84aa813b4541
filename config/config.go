// Package config loads settings from defaults, an optional config file,
// DICEFLIP_ environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/diceflip/negamax"
)

const (
	ConfigDebug              = "debug"
	ConfigCPUProfile         = "cpu-profile"
	ConfigMemProfile         = "mem-profile"
	ConfigMaxDepth           = "max-depth"
	ConfigResultsPath        = "results-path"
	ConfigResultsFormat      = "results-format"
	ConfigAutoplay           = "autoplay"
	ConfigTranspositionTable = "transposition-table"
)

var ErrBadConfig = errors.New("bad config")

// Keys that must hold a boolean.
var boolKeys = []string{ConfigDebug, ConfigAutoplay, ConfigTranspositionTable}

type Config struct {
	*viper.Viper
}

func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigCPUProfile, "")
	c.SetDefault(ConfigMemProfile, "")
	c.SetDefault(ConfigMaxDepth, negamax.MaxDepth)
	c.SetDefault(ConfigResultsPath, "results.txt")
	c.SetDefault(ConfigResultsFormat, "text")
	c.SetDefault(ConfigAutoplay, true)
	c.SetDefault(ConfigTranspositionTable, true)
}

// Load reads the config. args are command-line arguments without the
// program name; anything that is not a --flag is left for the caller in
// Args().
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.setDefaults()

	fs := pflag.NewFlagSet("diceflip", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigCPUProfile, "", "file to write a CPU profile to")
	fs.String(ConfigMemProfile, "", "file to write a memory profile to")
	fs.Int(ConfigMaxDepth, negamax.MaxDepth, fmt.Sprintf("search depth (1-%d)", negamax.MaxDepth))
	fs.String(ConfigResultsPath, "results.txt", "where enumerate writes its results")
	fs.String(ConfigResultsFormat, "text", "results format: text, yaml or sqlite")
	fs.Bool(ConfigAutoplay, true, "play every enumerated game out and cross-check the winner")
	fs.Bool(ConfigTranspositionTable, true, "use the transposition table")
	fs.String("config", "", "config file (yaml, json or toml)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix("diceflip")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if cfgFile, _ := fs.GetString("config"); cfgFile != "" {
		c.SetConfigFile(cfgFile)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
	} else {
		c.SetConfigName("diceflip")
		c.AddConfigPath(".")
		if err := c.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("read config file: %w", err)
			}
		}
	}
	c.Set("args", fs.Args())
	return c.Validate()
}

// Args returns the positional arguments left over by Load.
func (c *Config) Args() []string {
	return c.GetStringSlice("args")
}

// Validate checks values that would otherwise only fail deep inside a run.
func (c *Config) Validate() error {
	if d := c.GetInt(ConfigMaxDepth); d < 1 || d > negamax.MaxDepth {
		return fmt.Errorf("%w: %s must be 1-%d, got %d", ErrBadConfig, ConfigMaxDepth, negamax.MaxDepth, d)
	}
	for _, k := range boolKeys {
		if _, err := cast.ToBoolE(c.Get(k)); err != nil {
			return fmt.Errorf("%w: %s must be true or false, got %v", ErrBadConfig, k, c.Get(k))
		}
	}
	switch f := c.GetString(ConfigResultsFormat); f {
	case "text", "yaml", "sqlite":
	default:
		return fmt.Errorf("%w: unknown %s %q", ErrBadConfig, ConfigResultsFormat, f)
	}
	return nil
}

// SanitizedSettings returns every setting, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	delete(settings, "args")
	return settings
}
