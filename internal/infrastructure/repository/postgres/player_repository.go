package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bardown/lacrosse-tracker/internal/domain/player"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) FindByName(ctx context.Context, teamID, lastName, firstName string) (player.Player, bool, error) {
	var row playerTableModel
	query := `
		SELECT * FROM players
		WHERE team_public_id = $1
		  AND LOWER(last_name) = LOWER($2)
		  AND LOWER(first_name) = LOWER($3)
		LIMIT 1`
	if err := r.db.GetContext(ctx, &row, query, teamID, lastName, firstName); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("find player by name: %w", err)
	}
	return mapPlayerRow(row), true, nil
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) error {
	query := `
		INSERT INTO players (public_id, team_public_id, first_name, last_name, number, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (public_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.TeamID, item.FirstName, item.LastName,
		ptrToNullString(item.Number), item.Position,
	)
	if err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

func (r *PlayerRepository) Update(ctx context.Context, item player.Player) error {
	query := `
		UPDATE players SET
			team_public_id = $2,
			first_name = $3,
			last_name = $4,
			number = $5,
			position = $6,
			updated_at = NOW()
		WHERE public_id = $1`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.TeamID, item.FirstName, item.LastName,
		ptrToNullString(item.Number), item.Position,
	)
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	return nil
}

func mapPlayerRow(row playerTableModel) player.Player {
	return player.Player{
		ID:        row.PublicID,
		TeamID:    row.TeamID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Number:    nullStringToPtr(row.Number),
		Position:  row.Position,
	}
}
