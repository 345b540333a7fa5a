package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/kidplan/internal/schedule"
	"github.com/five82/kidplan/internal/storage"
)

// Config is the resolved kidplan configuration.
type Config struct {
	DataDir          string
	Storage          string
	ShareBaseURL     string
	User             string
	CarineName       string
	RobertName       string
	WeekStart        time.Weekday
	StorageWarnAfter int
	LogLevel         string
	LogFile          string
}

const (
	defaultConfigPath       = "~/.config/kidplan/config.toml"
	defaultDataDir          = "~/.local/share/kidplan"
	defaultLogFile          = "~/.local/state/kidplan/kidplan.log"
	defaultShareBaseURL     = "https://kidplan.app/"
	defaultCarineName       = "Carine"
	defaultRobertName       = "Robert"
	defaultStorageWarnAfter = 3
	defaultLogLevel         = "info"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		DataDir:          mustExpand(defaultDataDir),
		Storage:          storage.BackendFile,
		ShareBaseURL:     defaultShareBaseURL,
		User:             defaultUser(),
		CarineName:       defaultCarineName,
		RobertName:       defaultRobertName,
		WeekStart:        time.Monday,
		StorageWarnAfter: defaultStorageWarnAfter,
		LogLevel:         defaultLogLevel,
		LogFile:          mustExpand(defaultLogFile),
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		DataDir          string `toml:"data_dir"`
		Storage          string `toml:"storage"`
		ShareBaseURL     string `toml:"share_base_url"`
		User             string `toml:"user"`
		CarineName       string `toml:"carine_name"`
		RobertName       string `toml:"robert_name"`
		WeekStart        string `toml:"week_start"`
		StorageWarnAfter int    `toml:"storage_warn_after"`
		LogLevel         string `toml:"log_level"`
		LogFile          string `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.DataDir); v != "" {
		cfg.DataDir = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.Storage)); v != "" {
		if v != storage.BackendFile && v != storage.BackendSQLite {
			return Config{}, fmt.Errorf("storage %q: want %q or %q", raw.Storage, storage.BackendFile, storage.BackendSQLite)
		}
		cfg.Storage = v
	}
	if v := strings.TrimSpace(raw.ShareBaseURL); v != "" {
		cfg.ShareBaseURL = v
	}
	if v := strings.TrimSpace(raw.User); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.CarineName); v != "" {
		cfg.CarineName = v
	}
	if v := strings.TrimSpace(raw.RobertName); v != "" {
		cfg.RobertName = v
	}
	switch strings.ToLower(strings.TrimSpace(raw.WeekStart)) {
	case "", "monday":
	case "sunday":
		cfg.WeekStart = time.Sunday
	default:
		return Config{}, fmt.Errorf("week_start %q: want monday or sunday", raw.WeekStart)
	}
	if raw.StorageWarnAfter > 0 {
		cfg.StorageWarnAfter = raw.StorageWarnAfter
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}

	return cfg, nil
}

// ParentName returns the display name for a parent.
func (c Config) ParentName(p schedule.Parent) string {
	switch p {
	case schedule.ParentCarine:
		if c.CarineName != "" {
			return c.CarineName
		}
		return defaultCarineName
	case schedule.ParentRobert:
		if c.RobertName != "" {
			return c.RobertName
		}
		return defaultRobertName
	}
	return "Nobody"
}

// JournalPath returns the edit history file inside the data directory.
func (c Config) JournalPath() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir + "/history.jsonl")
	}
	return filepath.Join(c.DataDir, "history.jsonl")
}

func defaultUser() string {
	if u := strings.TrimSpace(os.Getenv("USER")); u != "" {
		return u
	}
	return "unknown"
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
