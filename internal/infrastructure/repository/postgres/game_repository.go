package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bardown/lacrosse-tracker/internal/domain/game"
)

type GameRepository struct {
	db  *sqlx.DB
	loc *time.Location
}

// NewGameRepository builds a game store anchored to the given location for
// calendar-day matching. A nil location means time.Local.
func NewGameRepository(db *sqlx.DB, loc *time.Location) *GameRepository {
	if loc == nil {
		loc = time.Local
	}
	return &GameRepository{db: db, loc: loc}
}

func (r *GameRepository) FindByExternalID(ctx context.Context, externalID string) (game.Game, bool, error) {
	var row gameTableModel
	query := `SELECT * FROM games WHERE external_id = $1 OR statbroadcast_id = $1 LIMIT 1`
	if err := r.db.GetContext(ctx, &row, query, externalID); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("find game by external id: %w", err)
	}
	return mapGameRow(row), true, nil
}

func (r *GameRepository) FindByTeamsOnDay(ctx context.Context, homeTeamID, awayTeamID string, day time.Time) (game.Game, bool, error) {
	var row gameTableModel
	query := `
		SELECT * FROM games
		WHERE home_team_public_id = $1
		  AND away_team_public_id = $2
		  AND (start_time AT TIME ZONE $3)::date = $4::date
		LIMIT 1`
	target := day.In(r.loc).Format("2006-01-02")
	if err := r.db.GetContext(ctx, &row, query, homeTeamID, awayTeamID, r.loc.String(), target); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("find game by teams and day: %w", err)
	}
	return mapGameRow(row), true, nil
}

func (r *GameRepository) ListLive(ctx context.Context) ([]game.Game, error) {
	var rows []gameTableModel
	query := `SELECT * FROM games WHERE status = $1 ORDER BY start_time`
	if err := r.db.SelectContext(ctx, &rows, query, game.StatusLive); err != nil {
		return nil, fmt.Errorf("select live games: %w", err)
	}
	return mapGameRows(rows), nil
}

func (r *GameRepository) ListNeedingBoxScores(ctx context.Context) ([]game.Game, error) {
	var rows []gameTableModel
	query := `
		SELECT * FROM games
		WHERE status IN ($1, $2)
		  AND statbroadcast_id <> ''
		ORDER BY start_time`
	if err := r.db.SelectContext(ctx, &rows, query, game.StatusLive, game.StatusFinal); err != nil {
		return nil, fmt.Errorf("select games needing box scores: %w", err)
	}
	return mapGameRows(rows), nil
}

func (r *GameRepository) Upsert(ctx context.Context, item game.Game) error {
	query := `
		INSERT INTO games (
			public_id, home_team_public_id, away_team_public_id,
			home_score, away_score, status, period, clock,
			start_time, season, external_id, statbroadcast_id,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		ON CONFLICT (public_id) DO UPDATE SET
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			status = EXCLUDED.status,
			period = EXCLUDED.period,
			clock = EXCLUDED.clock,
			external_id = EXCLUDED.external_id,
			statbroadcast_id = EXCLUDED.statbroadcast_id,
			updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.HomeTeamID, item.AwayTeamID,
		item.HomeScore, item.AwayScore, item.Status,
		ptrToNullString(item.Period), ptrToNullString(item.Clock),
		item.StartTime, item.Season, item.ExternalID, item.StatBroadcastID,
	)
	if err != nil {
		return fmt.Errorf("upsert game: %w", err)
	}
	return nil
}

func (r *GameRepository) UpsertQuarterScore(ctx context.Context, item game.QuarterScore) error {
	query := `
		INSERT INTO quarter_scores (public_id, game_public_id, quarter, home_score, away_score)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (game_public_id, quarter) DO UPDATE SET
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.GameID, item.Quarter, item.HomeScore, item.AwayScore,
	)
	if err != nil {
		return fmt.Errorf("upsert quarter score: %w", err)
	}
	return nil
}

func mapGameRow(row gameTableModel) game.Game {
	return game.Game{
		ID:              row.PublicID,
		HomeTeamID:      row.HomeTeamID,
		AwayTeamID:      row.AwayTeamID,
		HomeScore:       row.HomeScore,
		AwayScore:       row.AwayScore,
		Status:          row.Status,
		Period:          nullStringToPtr(row.Period),
		Clock:           nullStringToPtr(row.Clock),
		StartTime:       row.StartTime,
		Season:          row.Season,
		ExternalID:      row.ExternalID,
		StatBroadcastID: row.StatBroadcastID,
	}
}

func mapGameRows(rows []gameTableModel) []game.Game {
	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapGameRow(row))
	}
	return out
}
