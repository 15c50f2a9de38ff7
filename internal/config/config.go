package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Scan     ScanConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings for the scan history store.
type DatabaseConfig struct {
	Path string
}

// ServerConfig holds the API server / remote backend settings.
type ServerConfig struct {
	Addr        string
	BaseURL     string `mapstructure:"base_url"`
	DownloadDir string `mapstructure:"download_dir"`
}

// ScanConfig holds orchestration settings.
type ScanConfig struct {
	// Executor selects "mock" or "remote".
	Executor string
	// CourseID is the course scanned by default.
	CourseID string `mapstructure:"course_id"`
	Timeout  time.Duration
	// PresentationDelay lets the loading indicator play before results land.
	PresentationDelay time.Duration `mapstructure:"presentation_delay"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Timezone   string
	TimeFormat string `mapstructure:"time_format"`
}

// Load reads configuration from file and env. Env var overrides use prefix CANVASCAN_.
func Load() (Config, error) {
	v := viper.New()

	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "canvascan")
	v.SetDefault("database.path", filepath.Join(dataDir, "canvascan.db"))
	v.SetDefault("server.addr", ":8085")
	v.SetDefault("server.base_url", "http://localhost:8085")
	v.SetDefault("server.download_dir", filepath.Join(dataDir, "downloads"))
	v.SetDefault("scan.executor", "mock")
	v.SetDefault("scan.course_id", "demo-course")
	v.SetDefault("scan.timeout", 30*time.Second)
	v.SetDefault("scan.presentation_delay", 1200*time.Millisecond)
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("ui.time_format", "2 Jan 2006 3:04 PM")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("CANVASCAN_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "canvascan"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CANVASCAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory
// if needed. Used by the TUI settings view for non-sensitive preferences.
func Save(cfg Config) error {
	path := os.Getenv("CANVASCAN_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "canvascan", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("server.base_url", cfg.Server.BaseURL)
	v.Set("server.download_dir", cfg.Server.DownloadDir)
	v.Set("scan.executor", cfg.Scan.Executor)
	v.Set("scan.course_id", cfg.Scan.CourseID)
	v.Set("scan.timeout", cfg.Scan.Timeout.String())
	v.Set("scan.presentation_delay", cfg.Scan.PresentationDelay.String())
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.time_format", cfg.UI.TimeFormat)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Location resolves the configured timezone, falling back to local time.
func (c Config) Location() *time.Location {
	if c.UI.Timezone == "" || strings.EqualFold(c.UI.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.UI.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
