package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/graphdesk/internal/graph"
)

// CreateEvent returns a handler that creates a calendar event.
func CreateEvent(g Graph) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		subject, _ := args["subject"].(string)
		if subject == "" {
			return mcp.NewToolResultError("subject is required"), nil
		}

		start, err := requireTimeArg(args, "start")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		end, err := requireTimeArg(args, "end")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !end.After(start) {
			return mcp.NewToolResultError("end must be after start"), nil
		}

		create := graph.CreateEventRequest{
			Subject:   subject,
			Start:     start,
			End:       end,
			Attendees: stringSlice(args, "attendees"),
		}
		if body, ok := args["body"].(string); ok {
			create.Body = body
		}
		if location, ok := args["location"].(string); ok {
			create.Location = location
		}

		e, err := g.CreateEvent(ctx, create)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %s", err)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "📅 Event created: **%s**\n", e.Subject)
		if e.Start != nil {
			fmt.Fprintf(&sb, "  Start: %s (%s)\n", e.Start.DateTime, e.Start.TimeZone)
		}
		fmt.Fprintf(&sb, "  ID: %s\n", e.ID)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func requireTimeArg(args map[string]any, key string) (time.Time, error) {
	t, err := parseTimeArg(args, key)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, fmt.Errorf("%s is required", key)
	}
	return *t, nil
}
