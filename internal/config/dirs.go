package config

import (
	"os"
	"path/filepath"
)

// ConfigDir returns the pplog configuration directory.
// Resolution order: XDG_CONFIG_HOME/pplog > ~/.config/pplog.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pplog")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "pplog")
	}
	return filepath.Join(home, ".config", "pplog")
}

// StateDir returns the directory holding the database.
// Resolution order: PPLOG_STATE_DIR > XDG_STATE_HOME/pplog > ~/.local/state/pplog.
func StateDir() string {
	if dir := os.Getenv("PPLOG_STATE_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "pplog")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".local", "state", "pplog")
	}
	return filepath.Join(home, ".local", "state", "pplog")
}

// DefaultPath is where Resolve looks for a config file.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
