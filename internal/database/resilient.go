package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"

	"github.com/B-Paul-JC/task-manager-server/internal/domain"
	"github.com/B-Paul-JC/task-manager-server/internal/metrics"
)

// Store combines the team and task repositories into the full
// domain.Store collaborator.
type Store struct {
	*TeamRepo
	*TaskRepo
}

// NewStore builds the combined store from one shared pool.
func NewStore(pool *pgxpool.Pool) Store {
	return Store{
		TeamRepo: NewTeamRepo(pool),
		TaskRepo: NewTaskRepo(pool),
	}
}

// ResilientStore decorates a domain.Store with a circuit breaker on reads
// and request collapsing on the team list. Every successful handshake
// fetches the team list, so simultaneous connects would otherwise each hit
// the database; singleflight folds them into one query.
type ResilientStore struct {
	inner   domain.Store
	breaker *gobreaker.CircuitBreaker
	group   singleflight.Group
}

// NewResilientStore wraps inner with breaker-guarded reads.
func NewResilientStore(inner domain.Store) *ResilientStore {
	settings := gobreaker.Settings{
		Name:    "store",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Store circuit breaker state changed", "from", from.String(), "to", to.String())
			metrics.StoreBreakerState.Set(breakerStateValue(to))
		},
	}
	return &ResilientStore{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

func observe(operation string, start time.Time) {
	metrics.StoreRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// --- Reads (breaker-guarded) ---

func (s *ResilientStore) FetchTeams(ctx context.Context) ([]domain.Team, error) {
	defer observe("fetch_teams", time.Now())

	result, err, _ := s.group.Do("teams", func() (any, error) {
		return s.breaker.Execute(func() (any, error) {
			return s.inner.FetchTeams(ctx)
		})
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Team), nil
}

func (s *ResilientStore) FetchTeam(ctx context.Context, teamID string) (domain.Team, error) {
	defer observe("fetch_team", time.Now())

	result, err := s.breaker.Execute(func() (any, error) {
		return s.inner.FetchTeam(ctx, teamID)
	})
	if err != nil {
		return domain.Team{}, err
	}
	return result.(domain.Team), nil
}

func (s *ResilientStore) FetchTasksByTeamAndStatus(ctx context.Context, teamID, status string) ([]domain.Task, error) {
	defer observe("fetch_tasks", time.Now())

	result, err := s.breaker.Execute(func() (any, error) {
		return s.inner.FetchTasksByTeamAndStatus(ctx, teamID, status)
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Task), nil
}

// --- Writes (pass-through; a failing write should surface immediately and
// must not open the breaker for readers) ---

func (s *ResilientStore) InsertTeam(ctx context.Context, team domain.Team) error {
	defer observe("insert_team", time.Now())
	return s.inner.InsertTeam(ctx, team)
}

func (s *ResilientStore) DeleteTeam(ctx context.Context, teamID string) error {
	defer observe("delete_team", time.Now())
	return s.inner.DeleteTeam(ctx, teamID)
}

func (s *ResilientStore) InsertTask(ctx context.Context, task domain.NewTask) (int64, error) {
	defer observe("insert_task", time.Now())
	return s.inner.InsertTask(ctx, task)
}

func (s *ResilientStore) UpdateTask(ctx context.Context, task domain.Task) error {
	defer observe("update_task", time.Now())
	return s.inner.UpdateTask(ctx, task)
}

func (s *ResilientStore) UpdateTaskStatus(ctx context.Context, taskID int64, status string) error {
	defer observe("update_task_status", time.Now())
	return s.inner.UpdateTaskStatus(ctx, taskID, status)
}

func (s *ResilientStore) DeleteTask(ctx context.Context, taskID int64) error {
	defer observe("delete_task", time.Now())
	return s.inner.DeleteTask(ctx, taskID)
}
