// Command stampbot runs the Discord bot and the keep-alive web server in one
// process. Secrets and runtime settings come from the environment (or a
// local .env file); tunable bot behavior comes from a hot-reloaded YAML file.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"stampbot/internal/bot"
	"stampbot/internal/botcfg"
	"stampbot/internal/config"
	"stampbot/internal/logger"
	"stampbot/internal/store"
	"stampbot/internal/usage"
	"stampbot/internal/web"
)

const connectTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "Path to the bot behavior config file (overrides BOT_CONFIG)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "stampbot: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		return err
	}
	defer log.Sync()

	if configPath == "" {
		configPath = cfg.BotConfigPath
	}

	behavior, err := botcfg.Load(configPath)
	if err != nil {
		log.Warn("could not load bot config, using defaults", zap.String("path", configPath), zap.Error(err))
		behavior = botcfg.Default()
	}

	watcher, err := botcfg.NewWatcher(configPath, behavior, log)
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, connectTimeout)
	st, err := store.Connect(connectCtx, cfg.MongoURI, cfg.MongoDatabase, log)
	connectCancel()
	if err != nil {
		return err
	}

	usageLog, err := usage.NewLogger(cfg.UsageLogPath)
	if err != nil {
		return err
	}

	b, err := bot.New(cfg.BotToken, st, watcher, usageLog, log)
	if err != nil {
		return err
	}
	watcher.OnReload(b.ApplyConfig)

	if err := watcher.Start(ctx); err != nil {
		log.Warn("config hot-reload disabled", zap.Error(err))
	}

	webServer := web.NewServer(fmt.Sprintf(":%d", cfg.Port), b.Ready, cfg.UsageLogPath, log)

	webErr := make(chan error, 1)
	go func() {
		if err := webServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			webErr <- err
		}
	}()

	if err := b.Start(); err != nil {
		return err
	}
	log.Info("discord bot started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-webErr:
		log.Error("web server failed", zap.Error(err))
	}

	// Shut down in reverse start order, bounded by the graceful timeout.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.GracefulTimeout)
	defer shutdownCancel()

	if err := b.Shutdown(); err != nil {
		log.Error("close discord session", zap.Error(err))
	}
	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.Error("stop web server", zap.Error(err))
	}
	if err := watcher.Stop(); err != nil {
		log.Error("stop config watcher", zap.Error(err))
	}
	if err := usageLog.Close(); err != nil {
		log.Error("close usage log", zap.Error(err))
	}
	if err := st.Close(shutdownCtx); err != nil {
		log.Error("close settings store", zap.Error(err))
	}

	log.Info("shutdown complete")
	return nil
}
