// Package mcp exposes desktop control as MCP tools over stdio, so that
// agents and editors can switch desktops and place windows through the
// same state and X machinery as the CLI verbs.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/vdesk/internal/desktop"
)

const (
	ServerName    = "vdesk"
	ServerVersion = "0.1.0"
)

// Server is the MCP server wrapping a desktop manager.
type Server struct {
	mcpServer *mcpsdk.Server
	mgr       *desktop.Manager
	log       *slog.Logger
}

// NewServer creates an MCP server over an established manager.
func NewServer(mgr *desktop.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{mgr: mgr, log: logger}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves MCP on stdio, blocking until the transport closes.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("mcp server starting", "name", ServerName, "version", ServerVersion)
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_desktop",
		Description: "Switch to a virtual desktop by number (1-based). Windows assigned to other desktops are hidden; windows on the target desktop or marked sticky are shown.",
	}, s.handleSwitchDesktop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "next_desktop",
		Description: "Switch to the next desktop, wrapping from the last back to the first. Returns the new current desktop.",
	}, s.handleNextDesktop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "prev_desktop",
		Description: "Switch to the previous desktop, wrapping from the first to the last. Returns the new current desktop.",
	}, s.handlePrevDesktop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window to a desktop or make it sticky (visible on every desktop). The window may be given as a hex or decimal X11 id, or 'active' for the currently focused window.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_desktop_count",
		Description: "Change the number of virtual desktops. Windows assigned beyond the new count stay assigned and reappear if the count is raised again.",
	}, s.handleSetDesktopCount)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_desktops",
		Description: "List all desktops and mark the current one.",
	}, s.handleListDesktops)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "current_desktop",
		Description: "Report the current desktop number and the total desktop count.",
	}, s.handleCurrentDesktop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List all managed top-level windows with their names, desktop assignments, and visibility.",
	}, s.handleListWindows)
}
