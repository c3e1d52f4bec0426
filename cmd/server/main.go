package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/retrodesk/internal/infrastructure/config"
	"github.com/GriffinCanCode/retrodesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/retrodesk/internal/infrastructure/server"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := pflag.NewFlagSet("retrodesk-server", pflag.ContinueOnError)
	flags.StringVar(&cfg.Server.Port, "port", cfg.Server.Port, "listen port")
	flags.StringVar(&cfg.Server.Host, "host", cfg.Server.Host, "listen host")
	flags.BoolVar(&cfg.Logging.Development, "dev", cfg.Logging.Development, "colored console logs at debug level")
	flags.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "debug, info, warn or error")
	flags.StringVar(&cfg.Desktop.CatalogDir, "catalog", cfg.Desktop.CatalogDir, "directory of yaml/toml app manifests")
	flags.IntVar(&cfg.Paint.HistoryCap, "history-cap", cfg.Paint.HistoryCap, "segments kept for late joiners")
	flags.BoolVar(&cfg.Paint.ResetMonthly, "reset-monthly", cfg.Paint.ResetMonthly, "clear the canvas on the first of each month (UTC)")
	flags.StringSliceVar(&cfg.CORS.AllowedOrigins, "origin", cfg.CORS.AllowedOrigins, "allowed browser origin (repeatable)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg := logging.DefaultConfig()
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if flags.Changed("log-level") || !cfg.Logging.Development {
		logCfg.Level = cfg.Logging.Level
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Error("Failed to create server", zap.Error(err))
		_ = logger.Sync()
		return err
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("Server error", zap.Error(err))
		return err
	}
	logger.Info("Server stopped")
	return nil
}
