package postgres

import "time"

type conferenceTableModel struct {
	ID           int64     `db:"id"`
	PublicID     string    `db:"public_id"`
	Name         string    `db:"name"`
	Abbreviation string    `db:"abbreviation"`
	NCAAName     string    `db:"ncaa_name"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
