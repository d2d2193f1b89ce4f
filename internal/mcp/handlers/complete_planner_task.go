package handlers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/graphdesk/internal/events"
	"github.com/kolapsis/graphdesk/internal/graph"
)

// CompletePlannerTask returns a handler that marks a task as 100% complete.
func CompletePlannerTask(g Graph, pub Publisher) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		taskID, _ := args["task_id"].(string)
		if taskID == "" {
			return mcp.NewToolResultError("task_id is required"), nil
		}

		current, err := g.GetPlannerTask(ctx, taskID)
		if err != nil {
			if graph.IsNotFound(err) {
				return mcp.NewToolResultError(fmt.Sprintf("Task not found: %s", taskID)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get task: %s", err)), nil
		}

		if current.PercentComplete >= 100 {
			return mcp.NewToolResultText(fmt.Sprintf("✅ **%s** is already completed.", current.Title)), nil
		}

		percent := 100
		t, err := g.UpdatePlannerTask(ctx, taskID, current.ETag, graph.UpdatePlannerTaskRequest{
			PercentComplete: &percent,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to complete task: %s", err)), nil
		}

		pub.Broadcast(events.KindUpdated, t)

		return mcp.NewToolResultText(fmt.Sprintf("✅ **%s** marked as completed.", t.Title)), nil
	}
}
