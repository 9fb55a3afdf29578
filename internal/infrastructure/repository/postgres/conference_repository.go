package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bardown/lacrosse-tracker/internal/domain/conference"
)

type ConferenceRepository struct {
	db *sqlx.DB
}

func NewConferenceRepository(db *sqlx.DB) *ConferenceRepository {
	return &ConferenceRepository{db: db}
}

func (r *ConferenceRepository) ListAll(ctx context.Context) ([]conference.Conference, error) {
	var rows []conferenceTableModel
	query := `SELECT * FROM conferences ORDER BY id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select conferences: %w", err)
	}

	out := make([]conference.Conference, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapConferenceRow(row))
	}
	return out, nil
}

func (r *ConferenceRepository) GetByID(ctx context.Context, conferenceID string) (conference.Conference, bool, error) {
	var row conferenceTableModel
	query := `SELECT * FROM conferences WHERE public_id = $1`
	if err := r.db.GetContext(ctx, &row, query, conferenceID); err != nil {
		if isNotFound(err) {
			return conference.Conference{}, false, nil
		}
		return conference.Conference{}, false, fmt.Errorf("get conference by id: %w", err)
	}
	return mapConferenceRow(row), true, nil
}

func (r *ConferenceRepository) FindByAbbreviation(ctx context.Context, abbreviation string) (conference.Conference, bool, error) {
	var row conferenceTableModel
	query := `SELECT * FROM conferences WHERE UPPER(abbreviation) = UPPER($1)`
	if err := r.db.GetContext(ctx, &row, query, abbreviation); err != nil {
		if isNotFound(err) {
			return conference.Conference{}, false, nil
		}
		return conference.Conference{}, false, fmt.Errorf("find conference by abbreviation: %w", err)
	}
	return mapConferenceRow(row), true, nil
}

func (r *ConferenceRepository) FindByName(ctx context.Context, name string) (conference.Conference, bool, error) {
	var row conferenceTableModel
	query := `SELECT * FROM conferences WHERE LOWER(name) = LOWER($1)`
	if err := r.db.GetContext(ctx, &row, query, name); err != nil {
		if isNotFound(err) {
			return conference.Conference{}, false, nil
		}
		return conference.Conference{}, false, fmt.Errorf("find conference by name: %w", err)
	}
	return mapConferenceRow(row), true, nil
}

func (r *ConferenceRepository) First(ctx context.Context) (conference.Conference, bool, error) {
	var row conferenceTableModel
	query := `SELECT * FROM conferences ORDER BY id LIMIT 1`
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		if isNotFound(err) {
			return conference.Conference{}, false, nil
		}
		return conference.Conference{}, false, fmt.Errorf("get first conference: %w", err)
	}
	return mapConferenceRow(row), true, nil
}

func (r *ConferenceRepository) Create(ctx context.Context, item conference.Conference) error {
	query := `
		INSERT INTO conferences (public_id, name, abbreviation, ncaa_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (public_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, item.ID, item.Name, item.Abbreviation, item.NCAAName); err != nil {
		return fmt.Errorf("insert conference: %w", err)
	}
	return nil
}

func mapConferenceRow(row conferenceTableModel) conference.Conference {
	return conference.Conference{
		ID:           row.PublicID,
		Name:         row.Name,
		Abbreviation: row.Abbreviation,
		NCAAName:     row.NCAAName,
	}
}
