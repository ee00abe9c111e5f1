package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/B-Paul-JC/task-manager-server/internal/domain"
	apperrors "github.com/B-Paul-JC/task-manager-server/internal/errors"
	"github.com/B-Paul-JC/task-manager-server/internal/realtime"
)

// jsonError maps any error onto the structured error response shape.
func jsonError(c echo.Context, err error) error {
	structured := apperrors.AsStructuredError(err)
	if structured.Type == apperrors.TypeInternal {
		slog.Error("Request failed", "path", c.Request().URL.Path, "error", err)
	}
	return c.JSON(structured.HTTPStatus(), structured.ToResponse())
}

// --- Task handlers ---

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TeamID      string     `json:"teamId"`
	Priority    string     `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apperrors.ValidationError("invalid request body"))
	}
	if req.Title == "" || req.TeamID == "" || req.Description == "" || req.Priority == "" {
		return jsonError(c, apperrors.ValidationError("Missing required fields"))
	}

	id, err := s.store.InsertTask(c.Request().Context(), domain.NewTask{
		Title:        req.Title,
		Description:  req.Description,
		TeamAssigned: req.TeamID,
		Priority:     req.Priority,
		Deadline:     req.Deadline,
	})
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Task created successfully!",
		"taskId":  id,
	})
}

type getTasksRequest struct {
	TeamAssigned string `json:"teamAssigned"`
	Status       string `json:"status"`
}

func (s *Server) handleGetTasks(c echo.Context) error {
	var req getTasksRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apperrors.ValidationError("invalid request body"))
	}
	if req.TeamAssigned == "" || req.Status == "" {
		return jsonError(c, apperrors.ValidationError("Missing required fields"))
	}

	tasks, err := s.store.FetchTasksByTeamAndStatus(c.Request().Context(), req.TeamAssigned, req.Status)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"tasks": tasks})
}

type updateTaskRequest struct {
	TaskID         int64      `json:"taskId"`
	Title          string     `json:"taskTitle"`
	Description    string     `json:"taskDescription"`
	TeamAssigned   string     `json:"teamAssigned"`
	Status         string     `json:"taskStatus"`
	Priority       string     `json:"taskPriority"`
	StartDate      *time.Time `json:"taskStartDate"`
	CompletionDate *time.Time `json:"taskCompletionDate"`
	Deadline       *time.Time `json:"taskDeadline"`
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apperrors.ValidationError("invalid request body"))
	}
	if req.TaskID == 0 || req.TeamAssigned == "" {
		return jsonError(c, apperrors.ValidationError("Missing required fields"))
	}
	if req.Status != "" && !domain.ValidStatus(req.Status) {
		return jsonError(c, apperrors.ValidationError("unknown task status").WithContext("status", req.Status))
	}

	err := s.store.UpdateTask(c.Request().Context(), domain.Task{
		ID:             req.TaskID,
		Title:          req.Title,
		Description:    req.Description,
		TeamAssigned:   req.TeamAssigned,
		Status:         req.Status,
		Priority:       req.Priority,
		StartDate:      req.StartDate,
		CompletionDate: req.CompletionDate,
		Deadline:       req.Deadline,
	})
	if err != nil {
		return jsonError(c, err)
	}

	// Notify room members watching this task category.
	if req.Status != "" {
		s.hub.RelayTaskMutation(req.TeamAssigned, req.Status, realtime.TaskMutationEvent(req.TaskID, req.Status))
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Task updated successfully!"})
}

type deleteTaskRequest struct {
	ID int64 `json:"id"`
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	var req deleteTaskRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apperrors.ValidationError("invalid request body"))
	}
	if req.ID == 0 {
		return jsonError(c, apperrors.ValidationError("Missing required fields"))
	}

	if err := s.store.DeleteTask(c.Request().Context(), req.ID); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Task deleted successfully!"})
}

// --- Team handlers ---

type addTeamRequest struct {
	TeamName    string `json:"teamName"`
	TeamAddress string `json:"teamAddress"`
}

func (s *Server) handleAddTeam(c echo.Context) error {
	var req addTeamRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apperrors.ValidationError("invalid request body"))
	}
	if req.TeamName == "" || req.TeamAddress == "" {
		return jsonError(c, apperrors.ValidationError("Missing required fields"))
	}

	team := domain.Team{
		ID:      uuid.NewString(),
		Name:    req.TeamName,
		Address: req.TeamAddress,
	}
	if err := s.store.InsertTeam(c.Request().Context(), team); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"message": "Team created successfully!",
		"teamId":  team.ID,
	})
}

type teamIDRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleGetTeam(c echo.Context) error {
	var req teamIDRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apperrors.ValidationError("invalid request body"))
	}
	if req.ID == "" {
		return jsonError(c, apperrors.ValidationError("Missing required fields"))
	}

	team, err := s.store.FetchTeam(c.Request().Context(), req.ID)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"team": team})
}

func (s *Server) handleDeleteTeam(c echo.Context) error {
	var req teamIDRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apperrors.ValidationError("invalid request body"))
	}
	if req.ID == "" {
		return jsonError(c, apperrors.ValidationError("Missing required fields"))
	}

	if err := s.store.DeleteTeam(c.Request().Context(), req.ID); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Team deleted successfully!"})
}

func (s *Server) handleGetAllTeams(c echo.Context) error {
	teams, err := s.store.FetchTeams(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"teams": teams})
}
