// Package config loads runtime configuration from the environment, with an
// optional .env file for local development. Secrets (the bot token, the
// MongoDB URI) only ever come from here; tunable bot behavior lives in the
// separate YAML file handled by the botcfg package.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the stampbot process configuration.
type Config struct {
	AppEnv          string
	BotToken        string
	MongoURI        string
	MongoDatabase   string
	Port            int
	LogLevel        string
	BotConfigPath   string
	UsageLogPath    string
	GracefulTimeout time.Duration
}

// Load reads configuration from the environment and an optional .env file in
// the working directory. DISCORD_BOT_TOKEN and MONGO_URI are required;
// everything else has a default.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MONGO_DATABASE", "discord_bot_db")
	v.SetDefault("BOT_CONFIG", "bot.yaml")
	v.SetDefault("USAGE_LOG", "")
	v.SetDefault("GRACEFUL_TIMEOUT", "5s")

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read .env file: %w", err)
		}
	}

	cfg := &Config{
		AppEnv:          v.GetString("APP_ENV"),
		BotToken:        v.GetString("DISCORD_BOT_TOKEN"),
		MongoURI:        v.GetString("MONGO_URI"),
		MongoDatabase:   v.GetString("MONGO_DATABASE"),
		Port:            v.GetInt("PORT"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		BotConfigPath:   v.GetString("BOT_CONFIG"),
		UsageLogPath:    v.GetString("USAGE_LOG"),
		GracefulTimeout: v.GetDuration("GRACEFUL_TIMEOUT"),
	}

	if cfg.BotToken == "" || cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI and/or DISCORD_BOT_TOKEN environment variables not set")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT %d out of range", cfg.Port)
	}
	if cfg.GracefulTimeout <= 0 {
		return nil, errors.New("GRACEFUL_TIMEOUT must be a positive duration")
	}

	return cfg, nil
}
