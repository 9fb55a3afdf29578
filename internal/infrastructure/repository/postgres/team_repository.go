package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/bardown/lacrosse-tracker/internal/domain/team"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	var row teamTableModel
	query := `SELECT * FROM teams WHERE public_id = $1`
	if err := r.db.GetContext(ctx, &row, query, teamID); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}
	return mapTeamRow(row), true, nil
}

func (r *TeamRepository) FindByExternalID(ctx context.Context, externalID string) (team.Team, bool, error) {
	var row teamTableModel
	query := `SELECT * FROM teams WHERE external_id = $1 OR statbroadcast_id = $1 LIMIT 1`
	if err := r.db.GetContext(ctx, &row, query, externalID); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("find team by external id: %w", err)
	}
	return mapTeamRow(row), true, nil
}

func (r *TeamRepository) FindByNames(ctx context.Context, names []string) (team.Team, bool, error) {
	if len(names) == 0 {
		return team.Team{}, false, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM teams WHERE LOWER(name) IN (?) LIMIT 1`, lowered(names))
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build find team by names query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(query), args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("find team by names: %w", err)
	}
	return mapTeamRow(row), true, nil
}

func (r *TeamRepository) FindByAbbreviation(ctx context.Context, abbreviation string) (team.Team, bool, error) {
	var row teamTableModel
	query := `SELECT * FROM teams WHERE UPPER(abbreviation) = UPPER($1) LIMIT 1`
	if err := r.db.GetContext(ctx, &row, query, abbreviation); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("find team by abbreviation: %w", err)
	}
	return mapTeamRow(row), true, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	query := `
		INSERT INTO teams (
			public_id, conference_public_id, name, abbreviation,
			wins, losses, ranking, external_id, statbroadcast_id, logo_url,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (public_id) DO UPDATE SET
			conference_public_id = EXCLUDED.conference_public_id,
			name = EXCLUDED.name,
			abbreviation = EXCLUDED.abbreviation,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			ranking = EXCLUDED.ranking,
			external_id = EXCLUDED.external_id,
			statbroadcast_id = EXCLUDED.statbroadcast_id,
			logo_url = EXCLUDED.logo_url,
			updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.ConferenceID, item.Name, item.Abbreviation,
		item.Wins, item.Losses, intPtrToNullInt64(item.Ranking),
		item.ExternalID, item.StatBroadcastID, item.LogoURL,
	)
	if err != nil {
		return fmt.Errorf("upsert team: %w", err)
	}
	return nil
}

func mapTeamRow(row teamTableModel) team.Team {
	return team.Team{
		ID:              row.PublicID,
		ConferenceID:    row.ConferenceID,
		Name:            row.Name,
		Abbreviation:    row.Abbreviation,
		Wins:            row.Wins,
		Losses:          row.Losses,
		Ranking:         nullInt64ToIntPtr(row.Ranking),
		ExternalID:      row.ExternalID,
		StatBroadcastID: row.StatBroadcastID,
		LogoURL:         row.LogoURL,
	}
}

func lowered(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, strings.ToLower(value))
	}
	return out
}
