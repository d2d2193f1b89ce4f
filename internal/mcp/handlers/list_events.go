package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const defaultEventWindow = 7 * 24 * time.Hour

// ListEvents returns a handler that lists calendar events in a window.
func ListEvents(g Graph) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		start, err := parseTimeArg(args, "start")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		end, err := parseTimeArg(args, "end")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		from := time.Now().UTC()
		if start != nil {
			from = *start
		}
		to := from.Add(defaultEventWindow)
		if end != nil {
			to = *end
		}
		if !to.After(from) {
			return mcp.NewToolResultError("end must be after start"), nil
		}

		top := defaultListTop
		if n, ok := args["top"].(float64); ok && n > 0 {
			top = int(n)
		}

		items, err := g.ListEvents(ctx, from, to, top)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %s", err)), nil
		}

		if len(items) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No events between %s and %s.",
				from.Format("2006-01-02"), to.Format("2006-01-02"))), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "📅 Events (%d found)\n\n", len(items))
		for _, e := range items {
			sb.WriteString(fmt.Sprintf("**%s**\n", e.Subject))
			if e.Start != nil {
				sb.WriteString(fmt.Sprintf("  Start: %s (%s)\n", e.Start.DateTime, e.Start.TimeZone))
			}
			if e.End != nil {
				sb.WriteString(fmt.Sprintf("  End: %s (%s)\n", e.End.DateTime, e.End.TimeZone))
			}
			if e.Location != nil && e.Location.DisplayName != "" {
				sb.WriteString(fmt.Sprintf("  Location: %s\n", e.Location.DisplayName))
			}
			sb.WriteString(fmt.Sprintf("  ID: %s\n", e.ID))
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
