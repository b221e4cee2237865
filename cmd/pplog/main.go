package main

import (
	"context"
	"flag"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"tailscale.com/tsnet"

	"github.com/claude/pplog"
	"github.com/claude/pplog/internal/config"
	"github.com/claude/pplog/internal/logging"
	"github.com/claude/pplog/internal/mcp"
	"github.com/claude/pplog/internal/metrics"
	"github.com/claude/pplog/internal/offline"
	"github.com/claude/pplog/internal/server"
	"github.com/claude/pplog/internal/storage"
	"github.com/claude/pplog/internal/tracker"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (default: "+config.DefaultPath()+")")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	cfg, err := config.Resolve(*configPath)
	if err != nil {
		boot, _ := logging.New(logging.Params{Level: "info"})
		boot.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log, logCloser := logging.New(logging.Params{
		Level:  cfg.Log.Level,
		JSON:   cfg.Log.Format == "json",
		File:   cfg.Log.File,
		Stdout: true,
	})
	defer logCloser.Close()
	log.Info("pplog starting", "version", Version, "db", cfg.Storage.Path)

	if err := storage.RunMigrations(cfg.Storage.Path); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	ctx := context.Background()
	db, err := storage.Open(ctx, cfg.Storage.Path)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	reg := metrics.SetupPrometheus()
	m := metrics.NewManager("pplog", "server", reg)

	tr := tracker.New(db,
		tracker.WithDateLayout(cfg.Display.TimestampLayout),
		tracker.WithMetrics(m),
		tracker.WithLogger(log),
	)
	if err := tr.Load(ctx); err != nil {
		log.Error("failed to load state", "error", err)
		os.Exit(1)
	}
	cursor, day := tr.Current()
	log.Info("state loaded", "day_number", cursor, "day", day.Name, "records", len(tr.History()))

	webDist, err := fs.Sub(pplog.WebFS, "web/dist")
	if err != nil {
		log.Error("failed to load embedded frontend", "error", err)
		os.Exit(1)
	}

	// A failed install keeps whatever bucket was active before, so only
	// activate once the new bucket is complete.
	cache := offline.New(cfg.Cache.Version, offline.DefaultManifest, db, offline.FSOrigin{FS: webDist},
		cfg.Cache.MemoryBytes(), m, log)
	if err := cache.Install(ctx); err != nil {
		log.Warn("offline cache install failed", "bucket", cache.Bucket(), "error", err)
	} else if deleted, err := cache.Activate(ctx); err != nil {
		log.Warn("offline cache activate failed", "bucket", cache.Bucket(), "error", err)
	} else {
		log.Info("offline cache active", "bucket", cache.Bucket(), "deleted", deleted)
	}

	srv := server.New(tr, m, log)
	srv.SetMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv.SetMCP(mcpserver.NewStreamableHTTPServer(mcp.New(mcp.TrackerSource{Tracker: tr}, Version, log)))
	srv.SetFrontend(webDist, cache)

	// Start server: tsnet or plain HTTP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := cfg.Server.Addr()
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "local (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
