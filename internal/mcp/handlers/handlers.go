// Package handlers implements the MCP tool handlers.
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kolapsis/graphdesk/internal/events"
	"github.com/kolapsis/graphdesk/internal/graph"
)

// Graph is the Microsoft Graph surface the handlers consume.
type Graph interface {
	ListPlannerTasks(ctx context.Context, planID string) ([]graph.PlannerTask, error)
	GetPlannerTask(ctx context.Context, taskID string) (*graph.PlannerTask, error)
	GetPlannerTaskDetails(ctx context.Context, taskID string) (*graph.PlannerTaskDetails, error)
	CreatePlannerTask(ctx context.Context, req graph.CreatePlannerTaskRequest) (*graph.PlannerTask, error)
	UpdatePlannerTask(ctx context.Context, taskID, etag string, req graph.UpdatePlannerTaskRequest) (*graph.PlannerTask, error)
	UpdatePlannerTaskDetails(ctx context.Context, taskID, etag, description string) error
	ListContacts(ctx context.Context, top int, search string) ([]graph.Contact, error)
	CreateContact(ctx context.Context, c *graph.Contact) (*graph.Contact, error)
	ListEvents(ctx context.Context, start, end time.Time, top int) ([]graph.Event, error)
	CreateEvent(ctx context.Context, req graph.CreateEventRequest) (*graph.Event, error)
}

// Publisher notifies connected SSE subscribers about task changes.
type Publisher interface {
	Broadcast(kind events.Kind, payload any)
}

func statusIcon(percent int) string {
	switch {
	case percent >= 100:
		return "✅"
	case percent > 0:
		return "🔄"
	default:
		return "⬜"
	}
}

func writeTaskLine(sb *strings.Builder, t graph.PlannerTask) {
	sb.WriteString(fmt.Sprintf("%s **%s** (%d%%)\n", statusIcon(t.PercentComplete), t.Title, t.PercentComplete))
	if t.DueDateTime != nil {
		sb.WriteString(fmt.Sprintf("  Due: %s\n", t.DueDateTime.Format("2006-01-02")))
	}
	sb.WriteString(fmt.Sprintf("  ID: %s\n", t.ID))
}

func stringSlice(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseTimeArg(args map[string]any, key string) (*time.Time, error) {
	s, ok := args[key].(string)
	if !ok || s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC 3339 timestamp: %w", key, err)
	}
	return &t, nil
}
