// Package cli implements the pplogctl command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/claude/pplog/internal/config"
	"github.com/claude/pplog/internal/logging"
	"github.com/claude/pplog/internal/storage"
	"github.com/claude/pplog/internal/tracker"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pplogctl",
	Short: "Log Push/Pull/Legs training days from the terminal",
	Long: `pplogctl works directly on the local workout database. It logs the day
that is due next, shows history and volume progress, moves backups in and
out, and can expose the log to MCP clients over stdio.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: "+config.DefaultPath()+")")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(mcpCmd)
}

// workspace is an open database with a loaded tracker.
type workspace struct {
	cfg     *config.Config
	db      *storage.DB
	tracker *tracker.Tracker
	logs    io.Closer
}

func (w *workspace) Close() error {
	w.logs.Close()
	return w.db.Close()
}

// openWorkspace resolves the config, migrates and opens the database, and
// loads the tracker. Logs only go to the configured file so they never
// interleave with command output.
func openWorkspace(ctx context.Context) (*workspace, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return nil, err
	}

	log, closer := logging.Discard(), io.Closer(nopCloser{})
	if cfg.Log.File != "" {
		log, closer = logging.New(logging.Params{
			Level: cfg.Log.Level,
			JSON:  cfg.Log.Format == "json",
			File:  cfg.Log.File,
		})
	}

	db, err := storage.OpenMigrated(ctx, cfg.Storage.Path)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tr := tracker.New(db,
		tracker.WithDateLayout(cfg.Display.TimestampLayout),
		tracker.WithLogger(log),
	)
	if err := tr.Load(ctx); err != nil {
		db.Close()
		closer.Close()
		return nil, fmt.Errorf("loading state: %w", err)
	}
	return &workspace{cfg: cfg, db: db, tracker: tr, logs: closer}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
