package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ldi-tools/canvascan/internal/config"
	"github.com/ldi-tools/canvascan/internal/database"
	"github.com/ldi-tools/canvascan/internal/database/repository"
	"github.com/ldi-tools/canvascan/internal/scan"
	"github.com/ldi-tools/canvascan/internal/server"
	"github.com/ldi-tools/canvascan/internal/settings"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error("mkdir db dir", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	dir, err := settings.DefaultDir()
	if err != nil {
		logger.Error("settings dir", "error", err)
		os.Exit(1)
	}

	s := &server.Server{
		Log:         logger,
		Exec:        &scan.MockExecutor{},
		Scans:       repository.NewScanRepo(db),
		Settings:    settings.NewStore(&settings.FileStorage{Dir: dir}),
		DownloadDir: cfg.Server.DownloadDir,
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("stopped")
}
