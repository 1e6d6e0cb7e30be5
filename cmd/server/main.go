package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/config"
	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/logging"
	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/template"
	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	// The template is loaded once and never mutated; per-request overrides
	// produce fresh Template values instead of patching this one.
	tpl, err := template.Load(cfg.Template.Path)
	if err != nil {
		slog.Error("failed to load template", "error", err)
		os.Exit(1)
	}

	slog.Info("template loaded",
		"source", tpl.Source,
		"version", tpl.Version,
		"columns", len(tpl.Columns),
	)

	server := web.NewServer(cfg, tpl)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
