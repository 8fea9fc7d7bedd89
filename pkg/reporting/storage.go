package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Storage handles persistence of a run report to disk, adapted from the
// teacher's test-report storage (history/cleanup trimmed: a PHOLD run
// produces exactly one report file, not a rolling history).
type Storage struct {
	outputDir string
	logger    *Logger
}

// NewStorage creates a storage instance rooted at outputDir.
func NewStorage(outputDir string, logger *Logger) (*Storage, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Storage{outputDir: outputDir, logger: logger}, nil
}

// SaveReport writes report as indented JSON named by its run ID and returns
// the path written.
func (s *Storage) SaveReport(report *RunReport) (string, error) {
	filename := fmt.Sprintf("phold-%s.json", report.RunID)
	path := filepath.Join(s.outputDir, filename)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	s.logger.Info("run report saved", "path", path)
	return path, nil
}
