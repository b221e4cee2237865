package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/claude/pplog/internal/logging"
	"github.com/claude/pplog/internal/mcp"
)

var mcpRemote string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the log to MCP clients over stdio",
	Long: `Run an MCP server on stdin/stdout. By default it reads the local
database; with --remote it proxies a running pplog server's REST API.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpRemote, "remote", "", "base URL of a pplog server (e.g. http://pplog.tailnet.ts.net)")
}

func runMCP(cmd *cobra.Command, args []string) error {
	if mcpRemote != "" {
		return server.ServeStdio(mcp.New(mcp.NewHTTPClient(mcpRemote), version, logging.Discard()))
	}

	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	defer ws.Close()
	return server.ServeStdio(mcp.New(mcp.TrackerSource{Tracker: ws.tracker}, version, logging.Discard()))
}
