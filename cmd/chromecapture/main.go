package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	_ "go.uber.org/automaxprocs"

	"github.com/pagesnap/chromecapture/api"
	"github.com/pagesnap/chromecapture/capture"
	"github.com/pagesnap/chromecapture/config"
)

func main() {
	flags, fs, err := parseFlags(os.Args)
	if err != nil {
		os.Exit(2)
	}

	// ── 1. Load configuration: env defaults, optional YAML overlay ──
	cfg := config.Load()
	if flags.configFile != "" {
		if err := config.LoadFile(cfg, flags.configFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if fs.Changed("port") {
		cfg.Server.Port = flags.port
	}

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)

	if serverMode(os.Args, fs.Changed("port")) {
		runServer(cfg)
		return
	}
	runOnce(cfg, flags, fs)
}

// runServer is server mode: temp output directory, shared browser session,
// HTTP listener, signal-driven cleanup.
func runServer(cfg *config.Config) {
	tmpDir, err := os.MkdirTemp("", "chromecapture-")
	if err != nil {
		slog.Error("failed to create temp output directory", "error", err)
		os.Exit(1)
	}
	cfg.Capture.OutputDir = tmpDir

	session := capture.NewSession(cfg.Browser)
	capturer := capture.New(session, cfg.Capture)

	router := api.NewRouter(capturer, cfg, time.Now())
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	slog.Info("chromecapture starting",
		"addr", addr,
		"version", api.Version,
		"outputDir", tmpDir,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			session.Close()
			_ = os.RemoveAll(tmpDir)
			os.Exit(1)
		}
	}()

	// Interrupt, termination, and user-defined signals all trigger the
	// same cleanup: drain the server, kill Chrome, remove the temp dir.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	session.Close()
	if err := os.RemoveAll(tmpDir); err != nil {
		slog.Warn("failed to remove temp output directory", "dir", tmpDir, "error", err)
	}
	slog.Info("chromecapture stopped")
}

// runOnce is one-shot CLI mode: a single render, then exit. The output file
// stays on disk.
func runOnce(cfg *config.Config, flags *cliFlags, fs *flag.FlagSet) {
	req := captureRequest(flags, fs)
	req.Defaults()
	if err := req.Validate(); err != nil {
		slog.Error("invalid arguments", "error", err)
		os.Exit(1)
	}

	if flags.out != "" {
		cfg.Capture.OutputDir = flags.out
	}
	if cfg.Capture.OutputDir == "" {
		exe, err := os.Executable()
		if err != nil {
			slog.Error("failed to resolve executable directory", "error", err)
			os.Exit(1)
		}
		cfg.Capture.OutputDir = filepath.Dir(exe)
	}

	session := capture.NewSession(cfg.Browser)
	capturer := capture.New(session, cfg.Capture)

	result, err := capturer.Render(context.Background(), req)
	session.Close()
	if err != nil {
		slog.Error("capture failed", "url", req.URL, "error", err)
		os.Exit(1)
	}
	slog.Info("saved", "file", result.FileName, "path", result.Path)
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
