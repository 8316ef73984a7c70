package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/meridianlab/sasgrid/internal/coord"
	"github.com/meridianlab/sasgrid/internal/grid"
)

// header is the fixed column order of an exported grid table.
var header = []string{"Id", "tile_code", "x_min", "x_max", "y_min", "y_max", "geometry"}

// CSV writes grid tables as ';'-delimited text files.
type CSV struct {
	log *slog.Logger
}

// NewCSV creates a new CSV exporter with the provided logger.
func NewCSV(log *slog.Logger) *CSV {
	return &CSV{log: log}
}

// Filename returns the output file name for a labelled step size, e.g.
// Filename("0p50", 0.5) == "sasg_0p50-v0_0p5-d_sa_2025.csv". The step
// segment uses the same p-for-decimal rendering as the tile codes.
func Filename(label string, step float64) string {
	return fmt.Sprintf("sasg_%s-v0_%s-d_sa_2025.csv", label, coord.Encode(step, coord.AxisNone))
}

// Export serializes a grid table to path as ';'-delimited text with a
// header row and one row per cell. Fields are written with Go's default
// float formatting and no quoting beyond the csv defaults; the geometry
// field never contains the delimiter, so it is written verbatim.
//
// Returns a wrapped error when the destination cannot be created or
// written.
func (e *CSV) Export(table grid.Table, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = ';'

	if err = writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(header))
	for _, cell := range table {
		row[0] = strconv.Itoa(cell.ID)
		row[1] = cell.TileCode
		row[2] = formatFloat(cell.XMin)
		row[3] = formatFloat(cell.XMax)
		row[4] = formatFloat(cell.YMin)
		row[5] = formatFloat(cell.YMax)
		row[6] = cell.Geometry
		if err = writer.Write(row); err != nil {
			return fmt.Errorf("failed to write cell %d: %w", cell.ID, err)
		}
	}

	writer.Flush()
	if err = writer.Error(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	e.log.Debug("Exported grid table", "path", path, "cells", len(table))

	return nil
}

// formatFloat renders a bound with locale-independent '.' decimals.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Preview returns the first n rows of a table as a single printable string,
// mirroring the header layout of the exported file. Used for progress
// logging on large grids.
func Preview(table grid.Table, n int) string {
	if n > len(table) {
		n = len(table)
	}

	var b strings.Builder
	b.WriteString(strings.Join(header, ";"))
	for _, cell := range table[:n] {
		b.WriteString("\n")
		b.WriteString(strconv.Itoa(cell.ID))
		b.WriteString(";")
		b.WriteString(cell.TileCode)
		b.WriteString(";")
		b.WriteString(formatFloat(cell.XMin))
		b.WriteString(";")
		b.WriteString(formatFloat(cell.XMax))
		b.WriteString(";")
		b.WriteString(formatFloat(cell.YMin))
		b.WriteString(";")
		b.WriteString(formatFloat(cell.YMax))
		b.WriteString(";")
		b.WriteString(cell.Geometry)
	}

	return b.String()
}
