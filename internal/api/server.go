// Package api exposes the HTTP proxy surface for Planner tasks and the
// event stream consumed by browser dashboards.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/kolapsis/graphdesk/internal/events"
	"github.com/kolapsis/graphdesk/internal/graph"
)

// PlannerService is the slice of the Graph client the API needs.
// Defined consumer-side per Go convention.
type PlannerService interface {
	ListPlannerTasks(ctx context.Context, planID string) ([]graph.PlannerTask, error)
	GetPlannerTask(ctx context.Context, taskID string) (*graph.PlannerTask, error)
	GetPlannerTaskDetails(ctx context.Context, taskID string) (*graph.PlannerTaskDetails, error)
	CreatePlannerTask(ctx context.Context, req graph.CreatePlannerTaskRequest) (*graph.PlannerTask, error)
}

// Publisher fans out task-change notifications to event-stream subscribers.
type Publisher interface {
	Broadcast(kind events.Kind, payload any)
}

// Deps holds the collaborators injected into the router.
type Deps struct {
	Planner     PlannerService
	Broadcaster *events.Broadcaster
	Publish     Publisher
	PlanID      string
	Token       string
}

// NewRouter builds the HTTP surface: /events plus the /api/planner
// endpoints. Every response carries permissive CORS headers; every
// endpoint requires the configured bearer token.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	r.Use(RequireToken(deps.Token))

	r.Get("/events", events.Handler(deps.Broadcaster).ServeHTTP)

	r.Route("/api/planner/tasks", func(r chi.Router) {
		r.Get("/", deps.handleListTasks)
		r.Post("/", deps.handleCreateTask)
		r.Get("/{id}", deps.handleGetTask)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found", "")
	})

	return r
}

// RequireToken validates the static bearer token on every request.
// When token is empty, authentication is disabled. CORS preflights
// never carry credentials and pass through.
func RequireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized - No access token provided", "")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") ||
				subtle.ConstantTimeCompare([]byte(parts[1]), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, "Unauthorized - Invalid token", "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (d *Deps) handleListTasks(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !graph.ValidStatus(status) {
		writeError(w, http.StatusBadRequest, "Invalid status filter",
			"status must be one of notStarted, inProgress, completed")
		return
	}

	tasks, err := d.Planner.ListPlannerTasks(r.Context(), d.PlanID)
	if err != nil {
		slog.Error("listing planner tasks", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to fetch tasks", err.Error())
		return
	}

	tasks = graph.FilterByStatus(tasks, status)
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": tasks,
		"count": len(tasks),
	})
}

func (d *Deps) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	task, err := d.Planner.GetPlannerTask(r.Context(), id)
	if err != nil {
		if graph.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Task not found", "")
			return
		}
		slog.Error("fetching planner task", "task_id", id, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to fetch task", err.Error())
		return
	}

	resp := map[string]any{"task": task}
	if details, err := d.Planner.GetPlannerTaskDetails(r.Context(), id); err == nil {
		resp["description"] = details.Description
	}

	writeJSON(w, http.StatusOK, resp)
}

type createTaskBody struct {
	Title       string `json:"title"`
	PlanID      string `json:"planId"`
	BucketID    string `json:"bucketId"`
	DueDateTime string `json:"dueDateTime"`
}

func (d *Deps) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var body createTaskBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	var missing []string
	if body.Title == "" {
		missing = append(missing, "title")
	}
	if body.PlanID == "" {
		missing = append(missing, "planId")
	}
	if body.BucketID == "" {
		missing = append(missing, "bucketId")
	}
	if len(missing) > 0 {
		// Always report the full field contract, not just what was absent.
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":    "Missing required fields",
			"missing":  missing,
			"required": []string{"title", "planId", "bucketId"},
		})
		return
	}

	req := graph.CreatePlannerTaskRequest{
		PlanID:   body.PlanID,
		BucketID: body.BucketID,
		Title:    body.Title,
	}
	if body.DueDateTime != "" {
		due, err := time.Parse(time.RFC3339, body.DueDateTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid dueDateTime", "must be RFC 3339")
			return
		}
		req.DueDateTime = &due
	}

	task, err := d.Planner.CreatePlannerTask(r.Context(), req)
	if err != nil {
		slog.Error("creating planner task", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to create task", err.Error())
		return
	}

	if d.Publish != nil {
		d.Publish.Broadcast(events.KindCreated, task)
	}

	writeJSON(w, http.StatusCreated, map[string]any{"task": task})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	body := map[string]any{"error": msg}
	if details != "" {
		body["details"] = details
	}
	writeJSON(w, status, body)
}
