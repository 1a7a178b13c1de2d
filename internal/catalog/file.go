package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileSource loads the corpus from a JSON file containing an array of
// records. Intended for local development and tests.
type FileSource struct {
	Path string
}

// Load reads and decodes the whole catalog file.
func (s *FileSource) Load(ctx context.Context) ([]Record, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file %s: %w", s.Path, err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing catalog file %s: %w", s.Path, err)
	}
	return records, nil
}
