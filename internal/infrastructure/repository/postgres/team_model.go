package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID              int64         `db:"id"`
	PublicID        string        `db:"public_id"`
	ConferenceID    string        `db:"conference_public_id"`
	Name            string        `db:"name"`
	Abbreviation    string        `db:"abbreviation"`
	Wins            int           `db:"wins"`
	Losses          int           `db:"losses"`
	Ranking         sql.NullInt64 `db:"ranking"`
	ExternalID      string        `db:"external_id"`
	StatBroadcastID string        `db:"statbroadcast_id"`
	LogoURL         string        `db:"logo_url"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
}
