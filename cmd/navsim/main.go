package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/udisondev/lanenav/internal/nav"
)

var VERSION = "UNKNOWN"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := RootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// RootCmd assembles the navsim command tree.
func RootCmd() *cobra.Command {
	var logLevel string
	c := &cobra.Command{
		Use:           "navsim",
		Short:         "lane navigation planner and movement simulator",
		Version:       VERSION,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(logLevel)
		},
	}
	c.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug|info|warn|error")
	c.AddCommand(
		PlanCmd(),
		SimulateCmd(),
		ScenarioCmd(),
		EncodeCmd(),
	)
	return c
}

// setupLogging installs the default slog handler and toggles the
// per-request navigation debug logs.
func setupLogging(level string) {
	logLevel := parseLogLevel(level)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))
	nav.EnableDebugLogging(logLevel == slog.LevelDebug)
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
