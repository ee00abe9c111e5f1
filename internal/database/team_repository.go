package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/B-Paul-JC/task-manager-server/internal/domain"
	apperrors "github.com/B-Paul-JC/task-manager-server/internal/errors"
)

// TeamRepo implements domain.TeamStore backed by PostgreSQL.
type TeamRepo struct {
	pool *pgxpool.Pool
}

// NewTeamRepo creates a TeamRepo from the shared connection pool.
func NewTeamRepo(pool *pgxpool.Pool) *TeamRepo {
	return &TeamRepo{pool: pool}
}

func (r *TeamRepo) FetchTeams(ctx context.Context) ([]domain.Team, error) {
	rows, err := r.pool.Query(ctx, `SELECT team_id, team_name FROM teams ORDER BY team_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	teams := []domain.Team{}
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *TeamRepo) FetchTeam(ctx context.Context, teamID string) (domain.Team, error) {
	var t domain.Team
	err := r.pool.QueryRow(ctx,
		`SELECT team_id, team_name, team_address FROM teams WHERE team_id = $1`, teamID,
	).Scan(&t.ID, &t.Name, &t.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Team{}, apperrors.NotFoundError("team not found").WithContext("team_id", teamID)
	}
	if err != nil {
		return domain.Team{}, fmt.Errorf("failed to query team: %w", err)
	}
	return t, nil
}

func (r *TeamRepo) InsertTeam(ctx context.Context, team domain.Team) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO teams (team_id, team_name, team_address) VALUES ($1, $2, $3)`,
		team.ID, team.Name, team.Address,
	)
	if err != nil {
		return fmt.Errorf("failed to insert team: %w", err)
	}
	return nil
}

func (r *TeamRepo) DeleteTeam(ctx context.Context, teamID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE team_id = $1`, teamID)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundError("team not found").WithContext("team_id", teamID)
	}
	return nil
}
