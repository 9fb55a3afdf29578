package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bardown/lacrosse-tracker/internal/domain/stats"
)

type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) UpsertGameStats(ctx context.Context, item stats.GameStats) error {
	query := `
		INSERT INTO game_stats (
			public_id, game_public_id, team_public_id, is_home,
			goals, assists, shots, shots_on_goal, saves, ground_balls,
			faceoffs_won, faceoffs_lost, turnovers, penalties, penalty_minutes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (game_public_id, team_public_id) DO UPDATE SET
			is_home = EXCLUDED.is_home,
			goals = EXCLUDED.goals,
			assists = EXCLUDED.assists,
			shots = EXCLUDED.shots,
			shots_on_goal = EXCLUDED.shots_on_goal,
			saves = EXCLUDED.saves,
			ground_balls = EXCLUDED.ground_balls,
			faceoffs_won = EXCLUDED.faceoffs_won,
			faceoffs_lost = EXCLUDED.faceoffs_lost,
			turnovers = EXCLUDED.turnovers,
			penalties = EXCLUDED.penalties,
			penalty_minutes = EXCLUDED.penalty_minutes`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.GameID, item.TeamID, item.IsHome,
		item.Goals, item.Assists, item.Shots, intPtrToNullInt64(item.ShotsOnGoal),
		item.Saves, item.GroundBalls, item.FaceoffsWon, item.FaceoffsLost,
		item.Turnovers, item.Penalties, intPtrToNullInt64(item.PenaltyMinutes),
	)
	if err != nil {
		return fmt.Errorf("upsert game stats: %w", err)
	}
	return nil
}

func (r *StatsRepository) UpsertPlayerGameStats(ctx context.Context, item stats.PlayerGameStats) error {
	query := `
		INSERT INTO player_game_stats (
			public_id, game_public_id, player_public_id,
			goals, assists, points, shots, saves, ground_balls,
			faceoffs_won, faceoffs_lost, turnovers, caused_turnovers,
			penalties, penalty_minutes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (game_public_id, player_public_id) DO UPDATE SET
			goals = EXCLUDED.goals,
			assists = EXCLUDED.assists,
			points = EXCLUDED.points,
			shots = EXCLUDED.shots,
			saves = EXCLUDED.saves,
			ground_balls = EXCLUDED.ground_balls,
			faceoffs_won = EXCLUDED.faceoffs_won,
			faceoffs_lost = EXCLUDED.faceoffs_lost,
			turnovers = EXCLUDED.turnovers,
			caused_turnovers = EXCLUDED.caused_turnovers,
			penalties = EXCLUDED.penalties,
			penalty_minutes = EXCLUDED.penalty_minutes`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.GameID, item.PlayerID,
		item.Goals, item.Assists, item.Points, item.Shots,
		intPtrToNullInt64(item.Saves), intPtrToNullInt64(item.GroundBalls),
		intPtrToNullInt64(item.FaceoffsWon), intPtrToNullInt64(item.FaceoffsLost),
		intPtrToNullInt64(item.Turnovers), intPtrToNullInt64(item.CausedTurnovers),
		intPtrToNullInt64(item.Penalties), intPtrToNullInt64(item.PenaltyMinutes),
	)
	if err != nil {
		return fmt.Errorf("upsert player game stats: %w", err)
	}
	return nil
}

func (r *StatsRepository) HasPlayerStats(ctx context.Context, gameID string) (bool, error) {
	var count int
	query := `SELECT COUNT(1) FROM player_game_stats WHERE game_public_id = $1`
	if err := r.db.GetContext(ctx, &count, query, gameID); err != nil {
		return false, fmt.Errorf("count player game stats: %w", err)
	}
	return count > 0, nil
}
