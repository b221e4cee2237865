package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Cache     CacheConfig     `yaml:"cache"`
	Log       LogConfig       `yaml:"log"`
	Display   DisplayConfig   `yaml:"display"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type CacheConfig struct {
	Version  string `yaml:"version"`
	MemoryMB int    `yaml:"memory_mb"`
}

// MemoryBytes is the hot cache size in bytes.
func (c CacheConfig) MemoryBytes() int {
	return c.MemoryMB * 1024 * 1024
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type DisplayConfig struct {
	TimestampLayout string `yaml:"timestamp_layout"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Host: "127.0.0.1", Port: 8080},
		Storage:   StorageConfig{Path: filepath.Join(StateDir(), "pplog.db")},
		Cache:     CacheConfig{Version: "v1", MemoryMB: 8},
		Log:       LogConfig{Level: "info", Format: "text"},
		Display:   DisplayConfig{TimestampLayout: "2006-01-02 15:04:05"},
		Tailscale: TailscaleConfig{Hostname: "pplog"},
	}
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. Env vars use the prefix PPLOG_:
//
//	PPLOG_SERVER_HOST, PPLOG_SERVER_PORT, PPLOG_STORAGE_PATH,
//	PPLOG_CACHE_VERSION, PPLOG_CACHE_MEMORY_MB,
//	PPLOG_LOG_LEVEL, PPLOG_LOG_FORMAT, PPLOG_LOG_FILE,
//	PPLOG_TIMESTAMP_LAYOUT,
//	PPLOG_TAILSCALE_ENABLED, PPLOG_TAILSCALE_HOSTNAME, PPLOG_TAILSCALE_STATE_DIR
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return finish(cfg)
}

// Resolve loads path if given. With an empty path it loads DefaultPath
// when that file exists and falls back to Default otherwise.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	cfg, err := Load(DefaultPath())
	if errors.Is(err, fs.ErrNotExist) {
		return finish(Default())
	}
	return cfg, err
}

func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)
	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Log.File = expandHome(cfg.Log.File)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PPLOG_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PPLOG_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PPLOG_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("PPLOG_CACHE_VERSION"); v != "" {
		cfg.Cache.Version = v
	}
	if v := os.Getenv("PPLOG_CACHE_MEMORY_MB"); v != "" {
		if mb, err := strconv.Atoi(v); err == nil {
			cfg.Cache.MemoryMB = mb
		}
	}
	if v := os.Getenv("PPLOG_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PPLOG_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("PPLOG_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("PPLOG_TIMESTAMP_LAYOUT"); v != "" {
		cfg.Display.TimestampLayout = v
	}
	if v := os.Getenv("PPLOG_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("PPLOG_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("PPLOG_TAILSCALE_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Cache.Version == "" {
		return fmt.Errorf("cache.version is required")
	}
	if c.Cache.MemoryMB < 0 {
		return fmt.Errorf("cache.memory_mb must not be negative")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Display.TimestampLayout == "" {
		return fmt.Errorf("display.timestamp_layout is required")
	}
	// A layout without any reference-time element formats every date identically.
	probe := time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)
	if probe.Format(c.Display.TimestampLayout) == c.Display.TimestampLayout {
		return fmt.Errorf("display.timestamp_layout %q has no date or time fields", c.Display.TimestampLayout)
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
