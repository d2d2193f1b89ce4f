package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolapsis/graphdesk/internal/events"
	"github.com/kolapsis/graphdesk/internal/graph"
)

type fakePlanner struct {
	tasks     []graph.PlannerTask
	created   *graph.CreatePlannerTaskRequest
	listErr   error
	createErr error
}

func (f *fakePlanner) ListPlannerTasks(_ context.Context, _ string) ([]graph.PlannerTask, error) {
	return f.tasks, f.listErr
}

func (f *fakePlanner) GetPlannerTask(_ context.Context, taskID string) (*graph.PlannerTask, error) {
	for _, t := range f.tasks {
		if t.ID == taskID {
			return &t, nil
		}
	}
	return nil, &graph.Error{StatusCode: http.StatusNotFound, Code: "ItemNotFound", Message: "not found"}
}

func (f *fakePlanner) GetPlannerTaskDetails(_ context.Context, taskID string) (*graph.PlannerTaskDetails, error) {
	return &graph.PlannerTaskDetails{ID: taskID, Description: "details for " + taskID}, nil
}

func (f *fakePlanner) CreatePlannerTask(_ context.Context, req graph.CreatePlannerTaskRequest) (*graph.PlannerTask, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &req
	return &graph.PlannerTask{ID: "new-task", Title: req.Title, PlanID: req.PlanID, BucketID: req.BucketID}, nil
}

const testToken = "secret-token"

func newTestRouter(planner *fakePlanner, b *events.Broadcaster) http.Handler {
	return NewRouter(&Deps{
		Planner:     planner,
		Broadcaster: b,
		Publish:     b,
		PlanID:      "plan-1",
		Token:       testToken,
	})
}

func doReq(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *strings.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	} else {
		reqBody = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reqBody)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAPI_MissingAuth_Returns401(t *testing.T) {
	t.Parallel()
	h := newTestRouter(&fakePlanner{}, events.NewBroadcaster())

	rec := doReq(t, h, "GET", "/api/planner/tasks", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized - No access token provided"}`, rec.Body.String())
}

func TestAPI_WrongToken_Returns401(t *testing.T) {
	t.Parallel()
	h := newTestRouter(&fakePlanner{}, events.NewBroadcaster())

	rec := doReq(t, h, "GET", "/api/planner/tasks", "wrong", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token")
}

func TestAPI_Preflight_Returns200WithCORS(t *testing.T) {
	t.Parallel()
	h := newTestRouter(&fakePlanner{}, events.NewBroadcaster())

	req := httptest.NewRequest("OPTIONS", "/api/planner/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Body.String())
}

func TestAPI_ListTasks_ReturnsAll(t *testing.T) {
	t.Parallel()
	planner := &fakePlanner{tasks: []graph.PlannerTask{
		{ID: "t1", Title: "One", PercentComplete: 0},
		{ID: "t2", Title: "Two", PercentComplete: 100},
	}}
	h := newTestRouter(planner, events.NewBroadcaster())

	rec := doReq(t, h, "GET", "/api/planner/tasks", testToken, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Tasks []graph.PlannerTask `json:"tasks"`
		Count int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestAPI_ListTasks_StatusCompleted_FiltersTo100Percent(t *testing.T) {
	t.Parallel()
	planner := &fakePlanner{tasks: []graph.PlannerTask{
		{ID: "t1", PercentComplete: 0},
		{ID: "t2", PercentComplete: 50},
		{ID: "t3", PercentComplete: 100},
	}}
	h := newTestRouter(planner, events.NewBroadcaster())

	rec := doReq(t, h, "GET", "/api/planner/tasks?status=completed", testToken, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Tasks []graph.PlannerTask `json:"tasks"`
		Count int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "t3", resp.Tasks[0].ID)
	assert.Equal(t, 100, resp.Tasks[0].PercentComplete)
}

func TestAPI_ListTasks_InvalidStatus_Returns400(t *testing.T) {
	t.Parallel()
	h := newTestRouter(&fakePlanner{}, events.NewBroadcaster())

	rec := doReq(t, h, "GET", "/api/planner/tasks?status=done", testToken, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid status filter")
}

func TestAPI_ListTasks_UpstreamFailure_Returns502(t *testing.T) {
	t.Parallel()
	planner := &fakePlanner{listErr: errors.New("boom")}
	h := newTestRouter(planner, events.NewBroadcaster())

	rec := doReq(t, h, "GET", "/api/planner/tasks", testToken, "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "details")
}

func TestAPI_GetTask_ReturnsTaskWithDescription(t *testing.T) {
	t.Parallel()
	planner := &fakePlanner{tasks: []graph.PlannerTask{{ID: "t1", Title: "One"}}}
	h := newTestRouter(planner, events.NewBroadcaster())

	rec := doReq(t, h, "GET", "/api/planner/tasks/t1", testToken, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"One"`)
	assert.Contains(t, rec.Body.String(), "details for t1")
}

func TestAPI_GetTask_Unknown_Returns404(t *testing.T) {
	t.Parallel()
	h := newTestRouter(&fakePlanner{}, events.NewBroadcaster())

	rec := doReq(t, h, "GET", "/api/planner/tasks/nope", testToken, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Task not found")
}

func TestAPI_CreateTask_EmptyBody_Returns400WithRequiredFields(t *testing.T) {
	t.Parallel()
	h := newTestRouter(&fakePlanner{}, events.NewBroadcaster())

	rec := doReq(t, h, "POST", "/api/planner/tasks", testToken, "{}")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"required":["title","planId","bucketId"]`)
}

func TestAPI_CreateTask_CreatesAndBroadcasts(t *testing.T) {
	t.Parallel()
	planner := &fakePlanner{}
	b := events.NewBroadcaster()
	h := newTestRouter(planner, b)

	var stream strings.Builder
	_, _, err := b.Subscribe(&stream)
	require.NoError(t, err)

	rec := doReq(t, h, "POST", "/api/planner/tasks", testToken,
		`{"title":"Ship it","planId":"p1","bucketId":"b1"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, planner.created)
	assert.Equal(t, "Ship it", planner.created.Title)

	assert.Contains(t, stream.String(), "event: created\n")
	assert.Contains(t, stream.String(), `"id":"new-task"`)
}

func TestAPI_UnknownRoute_Returns404JSON(t *testing.T) {
	t.Parallel()
	h := newTestRouter(&fakePlanner{}, events.NewBroadcaster())

	rec := doReq(t, h, "GET", "/api/unknown", testToken, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())
}

func TestAPI_EventsEndpoint_StreamsBroadcasts(t *testing.T) {
	t.Parallel()
	b := events.NewBroadcaster()
	h := newTestRouter(&fakePlanner{}, b)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	t.Cleanup(b.Close)

	req, err := http.NewRequest("GET", srv.URL+"/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+testToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readFrame := func() (string, string) {
		t.Helper()
		var eventLine, dataLine string
		deadline := time.After(5 * time.Second)
		for dataLine == "" {
			select {
			case <-deadline:
				t.Fatal("timed out waiting for frame")
			default:
			}
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimSuffix(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				eventLine = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				dataLine = strings.TrimPrefix(line, "data: ")
			}
		}
		return eventLine, dataLine
	}

	event, data := readFrame()
	assert.Equal(t, "connected", event)
	assert.Contains(t, data, "subscriberId")

	b.Broadcast(events.KindCreated, map[string]string{"id": "t1"})
	event, data = readFrame()
	assert.Equal(t, "created", event)
	assert.Contains(t, data, `"id":"t1"`)
	assert.Contains(t, data, `"timestamp"`)
}
