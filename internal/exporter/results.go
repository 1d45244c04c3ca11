package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"tonepulse/internal/config"
)

// WriteResultsJSON writes the flattened statistics map to the results
// directory as indented JSON.
func (w *CSVWriter) WriteResultsJSON(results map[string]string) error {
	fullPath := filepath.Join(w.paths.ResultsDir, config.ResultsJSONName)

	slog.Info("Writing results JSON",
		slog.String("full_path", fullPath),
		slog.Int("key_count", len(results)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
