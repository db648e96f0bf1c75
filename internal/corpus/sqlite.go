package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/propseek/propseek/internal/models"
)

// SQLiteSource reads listings from an external SQLite catalog. The schema is
// owned by the upstream ingestion system; this source only selects from it.
type SQLiteSource struct {
	db *sql.DB
}

// OpenSQLite opens the listings database at path read-only.
func OpenSQLite(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open listings database: %w", err)
	}
	return &SQLiteSource{db: db}, nil
}

// Load reads every listing. Metadata is stored as a JSON column; rows with
// malformed metadata keep their text fields and get nil metadata.
func (s *SQLiteSource) Load(ctx context.Context) ([]models.Listing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, COALESCE(metadata, '') FROM listings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var listing models.Listing
		var rawMeta string
		if err := rows.Scan(&listing.ID, &listing.Title, &listing.Content, &rawMeta); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		if rawMeta != "" {
			var meta map[string]interface{}
			if json.Unmarshal([]byte(rawMeta), &meta) == nil {
				listing.Metadata = meta
			}
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}
	return listings, nil
}

// Close releases the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
