// Package corpus provides listing sources that feed the retrieval indexes:
// a JSON file loader, a read-only SQLite source, and a file watcher for
// live re-indexing. Listing persistence itself belongs to upstream systems;
// this package only reads.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/propseek/propseek/internal/models"
)

// LoadFile reads a JSON array of listings from path.
func LoadFile(path string) ([]models.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}
	var listings []models.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("failed to parse corpus file: %w", err)
	}
	return listings, nil
}
