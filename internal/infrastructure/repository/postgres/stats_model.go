package postgres

import "database/sql"

type gameStatsTableModel struct {
	ID             int64         `db:"id"`
	PublicID       string        `db:"public_id"`
	GameID         string        `db:"game_public_id"`
	TeamID         string        `db:"team_public_id"`
	IsHome         bool          `db:"is_home"`
	Goals          int           `db:"goals"`
	Assists        int           `db:"assists"`
	Shots          int           `db:"shots"`
	ShotsOnGoal    sql.NullInt64 `db:"shots_on_goal"`
	Saves          int           `db:"saves"`
	GroundBalls    int           `db:"ground_balls"`
	FaceoffsWon    int           `db:"faceoffs_won"`
	FaceoffsLost   int           `db:"faceoffs_lost"`
	Turnovers      int           `db:"turnovers"`
	Penalties      int           `db:"penalties"`
	PenaltyMinutes sql.NullInt64 `db:"penalty_minutes"`
}

type playerGameStatsTableModel struct {
	ID              int64         `db:"id"`
	PublicID        string        `db:"public_id"`
	GameID          string        `db:"game_public_id"`
	PlayerID        string        `db:"player_public_id"`
	Goals           int           `db:"goals"`
	Assists         int           `db:"assists"`
	Points          int           `db:"points"`
	Shots           int           `db:"shots"`
	Saves           sql.NullInt64 `db:"saves"`
	GroundBalls     sql.NullInt64 `db:"ground_balls"`
	FaceoffsWon     sql.NullInt64 `db:"faceoffs_won"`
	FaceoffsLost    sql.NullInt64 `db:"faceoffs_lost"`
	Turnovers       sql.NullInt64 `db:"turnovers"`
	CausedTurnovers sql.NullInt64 `db:"caused_turnovers"`
	Penalties       sql.NullInt64 `db:"penalties"`
	PenaltyMinutes  sql.NullInt64 `db:"penalty_minutes"`
}
