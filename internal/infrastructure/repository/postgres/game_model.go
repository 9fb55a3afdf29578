package postgres

import (
	"database/sql"
	"time"
)

type gameTableModel struct {
	ID              int64          `db:"id"`
	PublicID        string         `db:"public_id"`
	HomeTeamID      string         `db:"home_team_public_id"`
	AwayTeamID      string         `db:"away_team_public_id"`
	HomeScore       int            `db:"home_score"`
	AwayScore       int            `db:"away_score"`
	Status          string         `db:"status"`
	Period          sql.NullString `db:"period"`
	Clock           sql.NullString `db:"clock"`
	StartTime       time.Time      `db:"start_time"`
	Season          int            `db:"season"`
	ExternalID      string         `db:"external_id"`
	StatBroadcastID string         `db:"statbroadcast_id"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type quarterScoreTableModel struct {
	ID        int64  `db:"id"`
	PublicID  string `db:"public_id"`
	GameID    string `db:"game_public_id"`
	Quarter   int    `db:"quarter"`
	HomeScore int    `db:"home_score"`
	AwayScore int    `db:"away_score"`
}
