package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/graphdesk/internal/config"
	"github.com/kolapsis/graphdesk/internal/events"
	"github.com/kolapsis/graphdesk/internal/graph"
)

// CreatePlannerTask returns a handler that creates a Planner task and
// notifies SSE subscribers.
func CreatePlannerTask(g Graph, pub Publisher, defaults config.PlannerConfig) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		title, _ := args["title"].(string)
		if title == "" {
			return mcp.NewToolResultError("title is required"), nil
		}

		planID, _ := args["plan_id"].(string)
		if planID == "" {
			planID = defaults.DefaultPlanID
		}
		bucketID, _ := args["bucket_id"].(string)
		if bucketID == "" {
			bucketID = defaults.DefaultBucketID
		}
		if planID == "" || bucketID == "" {
			return mcp.NewToolResultError("plan_id and bucket_id are required (no defaults configured)"), nil
		}

		due, err := parseTimeArg(args, "due_date")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		create := graph.CreatePlannerTaskRequest{
			PlanID:      planID,
			BucketID:    bucketID,
			Title:       title,
			DueDateTime: due,
			AssigneeIDs: stringSlice(args, "assignee_ids"),
		}

		t, err := g.CreatePlannerTask(ctx, create)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create task: %s", err)), nil
		}

		// The description lives on the task details resource, which has
		// its own etag and only exists after the task is created.
		if description, _ := args["description"].(string); description != "" {
			if derr := setDescription(ctx, g, t.ID, description); derr != nil {
				slog.Warn("task created but description not set", "task_id", t.ID, "error", derr)
			}
		}

		pub.Broadcast(events.KindCreated, t)

		var sb strings.Builder
		sb.WriteString("✅ Task created\n\n")
		writeTaskLine(&sb, *t)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func setDescription(ctx context.Context, g Graph, taskID, description string) error {
	details, err := g.GetPlannerTaskDetails(ctx, taskID)
	if err != nil {
		return err
	}
	return g.UpdatePlannerTaskDetails(ctx, taskID, details.ETag, description)
}
