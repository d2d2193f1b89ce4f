package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/graphdesk/internal/events"
	"github.com/kolapsis/graphdesk/internal/graph"
)

// UpdatePlannerTask returns a handler that patches the provided fields
// of an existing task.
func UpdatePlannerTask(g Graph, pub Publisher) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		taskID, _ := args["task_id"].(string)
		if taskID == "" {
			return mcp.NewToolResultError("task_id is required"), nil
		}

		var update graph.UpdatePlannerTaskRequest
		changed := false

		if title, ok := args["title"].(string); ok && title != "" {
			update.Title = &title
			changed = true
		}
		if pc, ok := args["percent_complete"].(float64); ok {
			if pc < 0 || pc > 100 {
				return mcp.NewToolResultError("percent_complete must be between 0 and 100"), nil
			}
			percent := int(pc)
			update.PercentComplete = &percent
			changed = true
		}
		if bucketID, ok := args["bucket_id"].(string); ok && bucketID != "" {
			update.BucketID = &bucketID
			changed = true
		}
		due, err := parseTimeArg(args, "due_date")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if due != nil {
			update.DueDateTime = due
			changed = true
		}

		description, _ := args["description"].(string)
		if !changed && description == "" {
			return mcp.NewToolResultError("nothing to update: provide at least one field"), nil
		}

		// The etag from the current task version is required for the patch.
		current, err := g.GetPlannerTask(ctx, taskID)
		if err != nil {
			if graph.IsNotFound(err) {
				return mcp.NewToolResultError(fmt.Sprintf("Task not found: %s", taskID)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get task: %s", err)), nil
		}

		t := current
		if changed {
			t, err = g.UpdatePlannerTask(ctx, taskID, current.ETag, update)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update task: %s", err)), nil
			}
		}

		if description != "" {
			if derr := setDescription(ctx, g, taskID, description); derr != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update description: %s", derr)), nil
			}
		}

		pub.Broadcast(events.KindUpdated, t)

		var sb strings.Builder
		sb.WriteString("✅ Task updated\n\n")
		writeTaskLine(&sb, *t)
		return mcp.NewToolResultText(sb.String()), nil
	}
}
