package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	ID        int64          `db:"id"`
	PublicID  string         `db:"public_id"`
	TeamID    string         `db:"team_public_id"`
	FirstName string         `db:"first_name"`
	LastName  string         `db:"last_name"`
	Number    sql.NullString `db:"number"`
	Position  string         `db:"position"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}
