package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/graphdesk/internal/graph"
)

// GetPlannerTask returns a handler that fetches a single task and its
// description.
func GetPlannerTask(g Graph) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		taskID, _ := args["task_id"].(string)
		if taskID == "" {
			return mcp.NewToolResultError("task_id is required"), nil
		}

		t, err := g.GetPlannerTask(ctx, taskID)
		if err != nil {
			if graph.IsNotFound(err) {
				return mcp.NewToolResultError(fmt.Sprintf("Task not found: %s", taskID)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get task: %s", err)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s **%s**\n\n", statusIcon(t.PercentComplete), t.Title)
		fmt.Fprintf(&sb, "ID: %s\n", t.ID)
		fmt.Fprintf(&sb, "Plan: %s | Bucket: %s\n", t.PlanID, t.BucketID)
		fmt.Fprintf(&sb, "Progress: %d%%\n", t.PercentComplete)
		if t.DueDateTime != nil {
			fmt.Fprintf(&sb, "Due: %s\n", t.DueDateTime.Format("2006-01-02 15:04"))
		}
		if t.CreatedDateTime != nil {
			fmt.Fprintf(&sb, "Created: %s\n", t.CreatedDateTime.Format("2006-01-02"))
		}

		// Details are a separate Graph resource and may be missing on
		// freshly created tasks.
		if details, err := g.GetPlannerTaskDetails(ctx, taskID); err == nil && details.Description != "" {
			fmt.Fprintf(&sb, "\n%s\n", details.Description)
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
