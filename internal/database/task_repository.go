package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/B-Paul-JC/task-manager-server/internal/domain"
	apperrors "github.com/B-Paul-JC/task-manager-server/internal/errors"
)

// taskColumns must match the Scan order in scanTask.
const taskColumns = `task_id, title, description, team_assigned, status, priority, creation_date, start_date, completion_date, deadline`

// TaskRepo implements domain.TaskStore backed by PostgreSQL.
type TaskRepo struct {
	pool *pgxpool.Pool
}

// NewTaskRepo creates a TaskRepo from the shared connection pool.
func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

func (r *TaskRepo) FetchTasksByTeamAndStatus(ctx context.Context, teamID, status string) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM team_tasks WHERE team_assigned = $1 AND status = $2 ORDER BY creation_date`,
		teamID, status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.TeamAssigned, &t.Status, &t.Priority,
			&t.CreationDate, &t.StartDate, &t.CompletionDate, &t.Deadline,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepo) InsertTask(ctx context.Context, task domain.NewTask) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO team_tasks (title, description, team_assigned, status, priority, deadline)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING task_id`,
		task.Title, task.Description, task.TeamAssigned, domain.StatusPending, task.Priority, task.Deadline,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert task: %w", err)
	}
	return id, nil
}

func (r *TaskRepo) UpdateTask(ctx context.Context, task domain.Task) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE team_tasks
		 SET title = $1, description = $2, team_assigned = $3, status = $4, priority = $5,
		     start_date = $6, completion_date = $7, deadline = $8
		 WHERE task_id = $9`,
		task.Title, task.Description, task.TeamAssigned, task.Status, task.Priority,
		task.StartDate, task.CompletionDate, task.Deadline, task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundError("task not found").WithContext("task_id", task.ID)
	}
	return nil
}

func (r *TaskRepo) UpdateTaskStatus(ctx context.Context, taskID int64, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE team_tasks SET status = $1 WHERE task_id = $2`, status, taskID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundError("task not found").WithContext("task_id", taskID)
	}
	return nil
}

// DeleteTask soft-deletes by flipping the status to DELETED; the row stays
// for audit purposes.
func (r *TaskRepo) DeleteTask(ctx context.Context, taskID int64) error {
	return r.UpdateTaskStatus(ctx, taskID, domain.StatusDeleted)
}
