package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ldi-tools/canvascan/internal/canvas"
	"github.com/ldi-tools/canvascan/internal/config"
	"github.com/ldi-tools/canvascan/internal/database"
	"github.com/ldi-tools/canvascan/internal/database/repository"
	"github.com/ldi-tools/canvascan/internal/scan"
	"github.com/ldi-tools/canvascan/internal/settings"
	"github.com/ldi-tools/canvascan/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	scanRepo := repository.NewScanRepo(db)

	dir, err := settings.DefaultDir()
	if err != nil {
		log.Fatalf("settings dir: %v", err)
	}
	store := &settings.Store{
		Storage: &settings.FileStorage{Dir: dir},
		// The TUI asks through its own confirm modal before calling Reset.
		Confirm: settings.ConfirmFunc(func(string) bool { return true }),
	}

	orch := scan.NewOrchestrator(executor(cfg))
	orch.Timeout = cfg.Scan.Timeout
	orch.PresentationDelay = cfg.Scan.PresentationDelay

	p := tea.NewProgram(tui.New(ctx, cfg, orch, scanRepo, store), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func executor(cfg config.Config) scan.Executor {
	if cfg.Scan.Executor == "remote" {
		return &canvas.RemoteExecutor{Client: canvas.NewClient(cfg.Server.BaseURL)}
	}
	return &scan.MockExecutor{}
}
