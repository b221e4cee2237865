package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("PPLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("PPLog workout log for a fixed Push/Pull/Legs rotation. Query the day that is due next, completed days, and per-day volume progress. Read-only."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetCurrentDay, Handler: h.getCurrentDay},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolGetProgress, Handler: h.getProgress},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resProgram, Handler: h.programCatalog},
		server.ServerResource{Resource: resRecentHistory, Handler: h.recentHistory},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resProgram = mcp.NewResource(
	"pplog://program",
	"Program",
	mcp.WithResourceDescription("The three training days with their exercises and per-set rep targets"),
	mcp.WithMIMEType("application/json"),
)

var resRecentHistory = mcp.NewResource(
	"pplog://recent_history",
	"Recent History",
	mcp.WithResourceDescription("The last six completed days, newest first"),
	mcp.WithMIMEType("application/json"),
)
