package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/graphdesk/internal/config"
	"github.com/kolapsis/graphdesk/internal/mcp/handlers"
)

// Deps holds shared dependencies injected into MCP handlers.
type Deps struct {
	Graph   handlers.Graph
	Publish handlers.Publisher
	Planner config.PlannerConfig
	Version string
}

// NewServer creates and configures the MCP server with all tools registered.
func NewServer(deps *Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"Graphdesk",
		deps.Version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)

	registerTools(s, deps)

	return s
}
