package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/pplog/internal/metrics"
	"github.com/claude/pplog/internal/offline"
	"github.com/claude/pplog/internal/tracker"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	tracker *tracker.Tracker
	metrics *metrics.Manager
	log     *slog.Logger
	router  chi.Router
	pages   *pages
	whois   whoIser
}

// New creates a new Server with all routes configured.
func New(tr *tracker.Tracker, m *metrics.Manager, log *slog.Logger) *Server {
	s := &Server{
		tracker: tr,
		metrics: m,
		log:     log,
		router:  chi.NewRouter(),
		pages:   loadPages(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log, s.metrics))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)

		r.Get("/program", s.handleProgram)
		r.Get("/program/current", s.handleCurrentDay)

		r.Get("/session", s.handleGetSession)
		r.Put("/session", s.handlePutSession)
		r.Delete("/session", s.handleResetSession)

		r.Post("/days/complete", s.handleCompleteDay)

		r.Get("/history", s.handleHistory)
		r.Get("/history/{id}", s.handleGetRecord)

		r.Get("/progress", s.handleProgressAll)
		r.Get("/progress/{day}", s.handleProgress)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
	})

	s.router.Get("/app", s.handlePage)
	s.router.Post("/app/session", s.handlePageSession)
	s.router.Post("/app/reset", s.handlePageReset)
	s.router.Post("/app/import", s.handlePageImport)
}

// SetMetricsHandler mounts the Prometheus scrape endpoint.
func (s *Server) SetMetricsHandler(h http.Handler) {
	s.router.Handle("/metrics", h)
}

// SetMCP mounts the streamable HTTP MCP endpoint.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}

// SetFrontend mounts the embedded app shell on every path no route claims.
// When cache is non-nil the shell is served cache-first. It sits behind the
// router's middleware, so cache hits are logged and counted like any other
// request.
func (s *Server) SetFrontend(webFS fs.FS, cache *offline.Cache) {
	fileServer := http.FileServerFS(webFS)

	var shell http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		if r.URL.Path == "/" {
			fileServer.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
	if cache != nil {
		shell = cache.Middleware(shell)
	}
	s.router.NotFound(shell.ServeHTTP)
}
