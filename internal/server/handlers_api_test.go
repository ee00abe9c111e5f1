package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/B-Paul-JC/task-manager-server/internal/config"
	"github.com/B-Paul-JC/task-manager-server/internal/domain"
	apperrors "github.com/B-Paul-JC/task-manager-server/internal/errors"
	"github.com/B-Paul-JC/task-manager-server/internal/realtime"
)

// fakeStore implements domain.Store with canned data and call recording.
type fakeStore struct {
	teams    []domain.Team
	tasks    []domain.Task
	teamErr  error
	taskErr  error
	inserted []domain.NewTask
	updated  []domain.Task
	deleted  []int64
}

func (f *fakeStore) FetchTeams(_ context.Context) ([]domain.Team, error) {
	return f.teams, f.teamErr
}

func (f *fakeStore) FetchTeam(_ context.Context, teamID string) (domain.Team, error) {
	if f.teamErr != nil {
		return domain.Team{}, f.teamErr
	}
	for _, team := range f.teams {
		if team.ID == teamID {
			return team, nil
		}
	}
	return domain.Team{}, apperrors.NotFoundError("team not found").WithContext("team_id", teamID)
}

func (f *fakeStore) InsertTeam(_ context.Context, team domain.Team) error {
	f.teams = append(f.teams, team)
	return f.teamErr
}

func (f *fakeStore) DeleteTeam(_ context.Context, _ string) error {
	return f.teamErr
}

func (f *fakeStore) FetchTasksByTeamAndStatus(_ context.Context, _, _ string) ([]domain.Task, error) {
	return f.tasks, f.taskErr
}

func (f *fakeStore) InsertTask(_ context.Context, task domain.NewTask) (int64, error) {
	if f.taskErr != nil {
		return 0, f.taskErr
	}
	f.inserted = append(f.inserted, task)
	return int64(len(f.inserted)), nil
}

func (f *fakeStore) UpdateTask(_ context.Context, task domain.Task) error {
	if f.taskErr != nil {
		return f.taskErr
	}
	f.updated = append(f.updated, task)
	return nil
}

func (f *fakeStore) UpdateTaskStatus(_ context.Context, taskID int64, status string) error {
	if f.taskErr != nil {
		return f.taskErr
	}
	f.updated = append(f.updated, domain.Task{ID: taskID, Status: status})
	return nil
}

func (f *fakeStore) DeleteTask(_ context.Context, taskID int64) error {
	if f.taskErr != nil {
		return f.taskErr
	}
	f.deleted = append(f.deleted, taskID)
	return nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(_ context.Context) error { return f.err }

func testServer(t *testing.T, store *fakeStore, pinger fakePinger) *Server {
	t.Helper()

	cfg := &config.Config{
		AppEnv:                  "development",
		Port:                    "0",
		AppURL:                  "http://localhost:5173",
		MaxWebSocketConnections: 100,
		MaxConnectionsPerIP:     10,
		ConnectionRate:          100,
		ConnectionBurst:         100,
	}

	hub := realtime.NewHub(clockwork.NewRealClock())
	t.Cleanup(func() { hub.Stop() })

	return NewServer(cfg, store, hub, pinger)
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func TestCreateTask_Success(t *testing.T) {
	store := &fakeStore{}
	srv := testServer(t, store, fakePinger{})

	rec := doJSON(t, srv, http.MethodPost, "/api/tasks/create",
		`{"title":"Ship it","description":"Release v2","teamId":"team1","priority":"URGENT"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Task created successfully!", resp["message"])
	assert.EqualValues(t, 1, resp["taskId"])

	require.Len(t, store.inserted, 1)
	assert.Equal(t, "Ship it", store.inserted[0].Title)
	assert.Equal(t, "team1", store.inserted[0].TeamAssigned)
}

func TestCreateTask_MissingFields(t *testing.T) {
	srv := testServer(t, &fakeStore{}, fakePinger{})

	rec := doJSON(t, srv, http.MethodPost, "/api/tasks/create", `{"title":"Ship it"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.TypeValidation, resp.Type)
	assert.Equal(t, "Missing required fields", resp.Error)
}

func TestGetTasks_Success(t *testing.T) {
	store := &fakeStore{tasks: []domain.Task{
		{ID: 1, Title: "Ship it", TeamAssigned: "team1", Status: domain.StatusPending},
	}}
	srv := testServer(t, store, fakePinger{})

	rec := doJSON(t, srv, http.MethodPost, "/api/tasks/get",
		`{"teamAssigned":"team1","status":"PENDING"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Tasks []domain.Task `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, "Ship it", resp.Tasks[0].Title)
}

func TestGetTasks_StoreFailureIsInternal(t *testing.T) {
	store := &fakeStore{taskErr: errors.New("db down")}
	srv := testServer(t, store, fakePinger{})

	rec := doJSON(t, srv, http.MethodPost, "/api/tasks/get",
		`{"teamAssigned":"team1","status":"PENDING"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.TypeInternal, resp.Type)
}

func TestUpdateTask_Success(t *testing.T) {
	store := &fakeStore{}
	srv := testServer(t, store, fakePinger{})

	rec := doJSON(t, srv, http.MethodPost, "/api/tasks/update",
		`{"taskId":7,"teamAssigned":"team1","taskStatus":"COMPLETED"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.updated, 1)
	assert.Equal(t, int64(7), store.updated[0].ID)
	assert.Equal(t, domain.StatusCompleted, store.updated[0].Status)
}

func TestUpdateTask_RejectsUnknownStatus(t *testing.T) {
	srv := testServer(t, &fakeStore{}, fakePinger{})

	rec := doJSON(t, srv, http.MethodPost, "/api/tasks/update",
		`{"taskId":7,"teamAssigned":"team1","taskStatus":"DONE"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unknown task status", resp.Error)
	assert.Equal(t, "DONE", resp.Context["status"])
}

func TestDeleteTask_Success(t *testing.T) {
	store := &fakeStore{}
	srv := testServer(t, store, fakePinger{})

	rec := doJSON(t, srv, http.MethodPost, "/api/tasks/delete", `{"id":3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{3}, store.deleted)
}

func TestAddTeam_Success(t *testing.T) {
	store := &fakeStore{}
	srv := testServer(t, store, fakePinger{})

	rec := doJSON(t, srv, http.MethodPost, "/api/teams/add",
		`{"teamName":"Platform","teamAddress":"Building 4"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["teamId"])

	require.Len(t, store.teams, 1)
	assert.Equal(t, "Platform", store.teams[0].Name)
	assert.Equal(t, resp["teamId"], store.teams[0].ID)
}

func TestGetTeam_NotFound(t *testing.T) {
	srv := testServer(t, &fakeStore{}, fakePinger{})

	rec := doJSON(t, srv, http.MethodPost, "/api/teams/get", `{"id":"nope"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.TypeNotFound, resp.Type)
}

func TestGetAllTeams_Success(t *testing.T) {
	store := &fakeStore{teams: []domain.Team{{ID: "team1", Name: "Platform"}}}
	srv := testServer(t, store, fakePinger{})

	rec := doJSON(t, srv, http.MethodPost, "/api/teams/all", `{}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Teams []domain.Team `json:"teams"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, store.teams, resp.Teams)
}

func TestReadiness_Healthy(t *testing.T) {
	srv := testServer(t, &fakeStore{}, fakePinger{})

	rec := doJSON(t, srv, http.MethodGet, "/health/ready", "")

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReadiness_DatabaseDown(t *testing.T) {
	srv := testServer(t, &fakeStore{}, fakePinger{err: errors.New("connection refused")})

	rec := doJSON(t, srv, http.MethodGet, "/health/ready", "")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "postgres", resp["failed_check"])
}

func TestLiveness_ReportsUptime(t *testing.T) {
	srv := testServer(t, &fakeStore{}, fakePinger{})

	rec := doJSON(t, srv, http.MethodGet, "/health/live", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestVersion_Responds(t *testing.T) {
	srv := testServer(t, &fakeStore{}, fakePinger{})

	rec := doJSON(t, srv, http.MethodGet, "/version", "")

	require.Equal(t, http.StatusOK, rec.Code)
}
