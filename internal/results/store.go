package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/local/pdfmeta/internal/metadata"
)

// Store persists extraction records as a single human-readable JSON array,
// rewritten in full on every append so a killed process leaves a
// consistent file reflecting all fully processed PDFs.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Append loads the existing array (starting fresh if the file is missing
// or unreadable), appends one record, and writes the whole array back.
func (s *Store) Append(rec metadata.Record) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create results directory: %w", err)
		}
	}

	var records []metadata.Record
	if data, err := os.ReadFile(s.path); err == nil {
		if err := json.Unmarshal(data, &records); err != nil {
			log.Warn().Str("path", s.path).Err(err).Msg("results file unreadable, starting fresh")
			records = nil
		}
	}

	records = append(records, rec)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
