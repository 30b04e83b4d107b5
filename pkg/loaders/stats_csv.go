package loaders

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/df07/go-resolution-raycaster/pkg/renderer"
)

var resolutionCSVHeader = []string{"triangle", "texel_area", "hits", "rate", "normalized"}

// WriteResolutionCSV writes one row per triangle. The rate column is empty
// for triangles that received no hits.
func WriteResolutionCSV(w io.Writer, stats *renderer.ResolutionStats) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(resolutionCSVHeader); err != nil {
		return err
	}

	for i, tri := range stats.Triangles {
		rate := ""
		if tri.HasRate {
			rate = strconv.FormatFloat(tri.Rate, 'g', -1, 64)
		}
		record := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(tri.Area, 'g', -1, 64),
			strconv.Itoa(tri.Hits),
			rate,
			strconv.FormatFloat(tri.Normalized, 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// SaveResolutionCSV writes the per-triangle resolution stats to filename
func SaveResolutionCSV(filename string, stats *renderer.ResolutionStats) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create stats file: %w", err)
	}

	if err := WriteResolutionCSV(file, stats); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return file.Close()
}
