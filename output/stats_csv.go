package output

import (
	"fmt"
	"os"

	"github.com/Quason/scene-classification/internal/classification"
	"github.com/gocarina/gocsv"
)

// WriteStatsCSV writes one row per class with its pixel count and fraction.
func WriteStatsCSV(path string, stats []classification.ClassCount) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create stats file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&stats, file); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	return nil
}

// ReadStatsCSV loads a file written by WriteStatsCSV.
func ReadStatsCSV(path string) ([]classification.ClassCount, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var stats []classification.ClassCount
	if err := gocsv.UnmarshalFile(file, &stats); err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}
	return stats, nil
}
