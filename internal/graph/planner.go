package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Task status filter values exposed by tools and the HTTP API.
const (
	StatusNotStarted = "notStarted"
	StatusInProgress = "inProgress"
	StatusCompleted  = "completed"
)

// ValidStatus reports whether s is a recognized task status filter.
func ValidStatus(s string) bool {
	return s == StatusNotStarted || s == StatusInProgress || s == StatusCompleted
}

// FilterByStatus returns the tasks whose percentComplete matches the
// given status: notStarted is 0, completed is 100, inProgress is
// anything in between. An empty status returns tasks unchanged.
// Planner task listings do not reliably support server-side filtering
// on percentComplete, so this client-side rule is the authoritative one.
func FilterByStatus(tasks []PlannerTask, status string) []PlannerTask {
	if status == "" {
		return tasks
	}

	filtered := make([]PlannerTask, 0, len(tasks))
	for _, t := range tasks {
		switch status {
		case StatusNotStarted:
			if t.PercentComplete == 0 {
				filtered = append(filtered, t)
			}
		case StatusInProgress:
			if t.PercentComplete > 0 && t.PercentComplete < 100 {
				filtered = append(filtered, t)
			}
		case StatusCompleted:
			if t.PercentComplete == 100 {
				filtered = append(filtered, t)
			}
		}
	}
	return filtered
}

// ListPlannerTasks returns all tasks in a plan.
func (c *Client) ListPlannerTasks(ctx context.Context, planID string) ([]PlannerTask, error) {
	var resp listResponse[PlannerTask]
	path := fmt.Sprintf("/planner/plans/%s/tasks", url.PathEscape(planID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// GetPlannerTask returns a single task by ID.
func (c *Client) GetPlannerTask(ctx context.Context, taskID string) (*PlannerTask, error) {
	var task PlannerTask
	path := fmt.Sprintf("/planner/tasks/%s", url.PathEscape(taskID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetPlannerTaskDetails returns a task's extended properties
// (description, preview type).
func (c *Client) GetPlannerTaskDetails(ctx context.Context, taskID string) (*PlannerTaskDetails, error) {
	var details PlannerTaskDetails
	path := fmt.Sprintf("/planner/tasks/%s/details", url.PathEscape(taskID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// CreatePlannerTaskRequest are the writable fields for a new task.
type CreatePlannerTaskRequest struct {
	PlanID      string
	BucketID    string
	Title       string
	DueDateTime *time.Time
	AssigneeIDs []string
}

// CreatePlannerTask creates a task and returns the created resource.
func (c *Client) CreatePlannerTask(ctx context.Context, req CreatePlannerTaskRequest) (*PlannerTask, error) {
	body := map[string]any{
		"planId":   req.PlanID,
		"bucketId": req.BucketID,
		"title":    req.Title,
	}
	if req.DueDateTime != nil {
		body["dueDateTime"] = req.DueDateTime.UTC().Format(time.RFC3339)
	}
	if len(req.AssigneeIDs) > 0 {
		assignments := make(map[string]PlannerAssignment, len(req.AssigneeIDs))
		for _, id := range req.AssigneeIDs {
			assignments[id] = PlannerAssignment{
				ODataType: "#microsoft.graph.plannerAssignment",
				OrderHint: " !",
			}
		}
		body["assignments"] = assignments
	}

	var task PlannerTask
	if err := c.do(ctx, http.MethodPost, "/planner/tasks", nil, nil, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdatePlannerTaskRequest holds the fields to patch; nil fields are
// left untouched.
type UpdatePlannerTaskRequest struct {
	Title           *string
	BucketID        *string
	PercentComplete *int
	DueDateTime     *time.Time
}

// UpdatePlannerTask patches a task. Planner requires the task's current
// ETag in If-Match; a stale ETag yields a 412 from Graph.
func (c *Client) UpdatePlannerTask(ctx context.Context, taskID, etag string, req UpdatePlannerTaskRequest) (*PlannerTask, error) {
	body := map[string]any{}
	if req.Title != nil {
		body["title"] = *req.Title
	}
	if req.BucketID != nil {
		body["bucketId"] = *req.BucketID
	}
	if req.PercentComplete != nil {
		body["percentComplete"] = *req.PercentComplete
	}
	if req.DueDateTime != nil {
		body["dueDateTime"] = req.DueDateTime.UTC().Format(time.RFC3339)
	}

	headers := map[string]string{
		"If-Match": etag,
		"Prefer":   "return=representation",
	}

	var task PlannerTask
	path := fmt.Sprintf("/planner/tasks/%s", url.PathEscape(taskID))
	if err := c.do(ctx, http.MethodPatch, path, nil, headers, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdatePlannerTaskDetails patches a task's description. The etag must
// come from the details resource, not the task itself.
func (c *Client) UpdatePlannerTaskDetails(ctx context.Context, taskID, etag, description string) error {
	headers := map[string]string{"If-Match": etag}
	body := map[string]any{"description": description}

	path := fmt.Sprintf("/planner/tasks/%s/details", url.PathEscape(taskID))
	return c.do(ctx, http.MethodPatch, path, nil, headers, body, nil)
}
