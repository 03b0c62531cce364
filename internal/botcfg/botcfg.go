// Package botcfg loads the bot behavior configuration file and hot-reloads
// it when the file changes on disk. Secrets and runtime settings live in the
// environment; this file only carries tunable behavior.
package botcfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"stampbot/internal/timestamp"
)

// PollConfig tunes the !poll command.
type PollConfig struct {
	MaxOptions int `yaml:"max_options"`
}

// ClearConfig tunes the !clear command.
type ClearConfig struct {
	MaxMessages int `yaml:"max_messages"`
}

// TimestampConfig tunes the /timestamp command.
type TimestampConfig struct {
	DefaultStyle string `yaml:"default_style"`
}

// Config is the top-level behavior configuration.
type Config struct {
	CommandPrefix string          `yaml:"command_prefix"`
	StatusText    string          `yaml:"status_text"`
	Poll          PollConfig      `yaml:"poll"`
	Clear         ClearConfig     `yaml:"clear"`
	Timestamp     TimestampConfig `yaml:"timestamp"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		CommandPrefix: "!",
		StatusText:    "/timestamp | !poll",
		Poll:          PollConfig{MaxOptions: 10},
		Clear:         ClearConfig{MaxMessages: 100},
		Timestamp:     TimestampConfig{DefaultStyle: string(timestamp.DefaultStyle)},
	}
}

// Load reads a behavior configuration from a YAML file. Missing fields take
// their defaults; a default_style outside the supported set is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bot config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse bot config: %w", err)
	}

	applyDefaults(&cfg)

	if !timestamp.ValidStyle(timestamp.Style(cfg.Timestamp.DefaultStyle)) {
		return nil, fmt.Errorf("bot config: unknown timestamp default_style %q", cfg.Timestamp.DefaultStyle)
	}
	if cfg.Poll.MaxOptions < 1 {
		return nil, fmt.Errorf("bot config: poll.max_options must be at least 1")
	}
	if cfg.Clear.MaxMessages < 1 {
		return nil, fmt.Errorf("bot config: clear.max_messages must be at least 1")
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.CommandPrefix == "" {
		cfg.CommandPrefix = def.CommandPrefix
	}
	if cfg.StatusText == "" {
		cfg.StatusText = def.StatusText
	}
	if cfg.Poll.MaxOptions == 0 {
		cfg.Poll.MaxOptions = def.Poll.MaxOptions
	}
	if cfg.Clear.MaxMessages == 0 {
		cfg.Clear.MaxMessages = def.Clear.MaxMessages
	}
	if cfg.Timestamp.DefaultStyle == "" {
		cfg.Timestamp.DefaultStyle = def.Timestamp.DefaultStyle
	}
}
