package domain

import "context"

// TeamStore provides read and write access to teams.
type TeamStore interface {
	FetchTeams(ctx context.Context) ([]Team, error)
	FetchTeam(ctx context.Context, teamID string) (Team, error)
	InsertTeam(ctx context.Context, team Team) error
	DeleteTeam(ctx context.Context, teamID string) error
}

// TaskStore provides read and write access to tasks.
type TaskStore interface {
	FetchTasksByTeamAndStatus(ctx context.Context, teamID, status string) ([]Task, error)
	InsertTask(ctx context.Context, task NewTask) (int64, error)
	UpdateTask(ctx context.Context, task Task) error
	UpdateTaskStatus(ctx context.Context, taskID int64, status string) error
	DeleteTask(ctx context.Context, taskID int64) error
}

// Store is the full persistent-data collaborator consumed by the HTTP
// handlers and the realtime session layer.
type Store interface {
	TeamStore
	TaskStore
}
