package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/graphdesk/internal/graph"
)

// GetPlannerTasks returns a handler that lists Planner tasks with an
// optional status filter.
func GetPlannerTasks(g Graph, defaultPlanID string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		planID, _ := args["plan_id"].(string)
		if planID == "" {
			planID = defaultPlanID
		}
		if planID == "" {
			return mcp.NewToolResultError("plan_id is required (no default plan configured)"), nil
		}

		status, _ := args["status"].(string)
		if status != "" && !graph.ValidStatus(status) {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid status: %s (must be notStarted, inProgress or completed)", status)), nil
		}

		tasks, err := g.ListPlannerTasks(ctx, planID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list tasks: %s", err)), nil
		}
		tasks = graph.FilterByStatus(tasks, status)

		if len(tasks) == 0 {
			return mcp.NewToolResultText("No tasks found."), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "📋 Planner tasks (%d found)\n\n", len(tasks))
		for _, t := range tasks {
			writeTaskLine(&sb, t)
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
