package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PgLocations implements LocationSource over the locations table. It serves
// the ILIKE fallback when Meilisearch is not available and feeds reindexing.
type PgLocations struct {
	db *sql.DB
}

// NewPgLocations creates a PostgreSQL location source.
func NewPgLocations(db *sql.DB) *PgLocations {
	return &PgLocations{db: db}
}

// SearchLocations looks up locations whose name, city, or postcode matches
// the query. Prefix matches on name sort first.
func (p *PgLocations) SearchLocations(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	pattern := "%" + query + "%"
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, city, postcode
		FROM locations
		WHERE name ILIKE $1 OR city ILIKE $1 OR postcode ILIKE $1
		ORDER BY (name ILIKE $2 || '%') DESC, name ASC
		LIMIT $3`,
		pattern, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search locations: %w", err)
	}
	defer rows.Close()

	var out []Suggestion
	for rows.Next() {
		var s Suggestion
		if err := rows.Scan(&s.ID, &s.Name, &s.City, &s.Postcode); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpsertLocation inserts a location by name, returning the canonical row.
// Re-submitting a known name keeps the original id.
func (p *PgLocations) UpsertLocation(ctx context.Context, l LocationRecord) (LocationRecord, error) {
	row := p.db.QueryRowContext(ctx, `
		INSERT INTO locations (id, name, city, postcode)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, city, postcode`,
		l.ID, l.Name, l.City, l.Postcode)
	var out LocationRecord
	if err := row.Scan(&out.ID, &out.Name, &out.City, &out.Postcode); err != nil {
		return LocationRecord{}, fmt.Errorf("upsert location: %w", err)
	}
	return out, nil
}

// ListLocations loads every location, for full reindex into Meilisearch.
func (p *PgLocations) ListLocations(ctx context.Context) ([]LocationRecord, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, city, postcode
		FROM locations
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []LocationRecord
	for rows.Next() {
		var l LocationRecord
		if err := rows.Scan(&l.ID, &l.Name, &l.City, &l.Postcode); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
