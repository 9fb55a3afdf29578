package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type seedConference struct {
	publicID     string
	name         string
	abbreviation string
	ncaaName     string
}

// seedConferences is the Division I men's lacrosse conference set. The
// public ids are stable so reseeding is idempotent.
var seedConferences = []seedConference{
	{publicID: "conf-acc", name: "ACC", abbreviation: "ACC", ncaaName: "acc"},
	{publicID: "conf-bigeast", name: "Big East", abbreviation: "BIGEAST", ncaaName: "big east"},
	{publicID: "conf-b1g", name: "Big Ten", abbreviation: "B1G", ncaaName: "big ten"},
	{publicID: "conf-patriot", name: "Patriot", abbreviation: "PATRIOT", ncaaName: "patriot"},
	{publicID: "conf-ivy", name: "Ivy League", abbreviation: "IVY", ncaaName: "ivy league"},
	{publicID: "conf-caa", name: "CAA", abbreviation: "CAA", ncaaName: "caa"},
	{publicID: "conf-maac", name: "MAAC", abbreviation: "MAAC", ncaaName: "maac"},
	{publicID: "conf-ae", name: "America East", abbreviation: "AE", ncaaName: "america east"},
	{publicID: "conf-a10", name: "Atlantic 10", abbreviation: "A10", ncaaName: "atlantic 10"},
	{publicID: "conf-nec", name: "NEC", abbreviation: "NEC", ncaaName: "nec"},
	{publicID: "conf-socon", name: "SoCon", abbreviation: "SOCON", ncaaName: "southern"},
	{publicID: "conf-asun", name: "ASUN", abbreviation: "ASUN", ncaaName: "asun"},
}

// SeedConferences inserts the Division I conference set, skipping rows that
// already exist.
func SeedConferences(ctx context.Context, db *sqlx.DB) error {
	query := `
		INSERT INTO conferences (public_id, name, abbreviation, ncaa_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (public_id) DO NOTHING`

	for _, item := range seedConferences {
		if _, err := db.ExecContext(ctx, query, item.publicID, item.name, item.abbreviation, item.ncaaName); err != nil {
			return fmt.Errorf("seed conference %s: %w", item.abbreviation, err)
		}
	}
	return nil
}
