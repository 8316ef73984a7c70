package repository

import (
	"context"
	"fmt"

	"github.com/meridianlab/sasgrid/internal/grid"
)

// geohashPrecision is the length of the center geohash stored per cell.
const geohashPrecision = 9

// Init creates the grid_cells table if it does not exist yet. One row per
// cell, keyed by the step label and the cell id within that label.
func (r *Repository) Init(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS grid_cells (
			label TEXT NOT NULL,
			cell_id INTEGER NOT NULL,
			tile_code TEXT NOT NULL,
			x_min DOUBLE PRECISION NOT NULL,
			x_max DOUBLE PRECISION NOT NULL,
			y_min DOUBLE PRECISION NOT NULL,
			y_max DOUBLE PRECISION NOT NULL,
			geometry TEXT NOT NULL,
			center_geohash TEXT NOT NULL,
			PRIMARY KEY (label, cell_id)
		);
	`

	_, err := r.db.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create grid_cells table: %w", err)
	}

	return nil
}

// SaveTable replaces the stored cells for the given step label with the
// provided table. Any previously stored generation under the same label is
// deleted first, so re-running the generator stays idempotent.
func (r *Repository) SaveTable(ctx context.Context, label string, table grid.Table) error {
	deleteQuery := `DELETE FROM grid_cells WHERE label = $1;`
	insertQuery := `
		INSERT INTO grid_cells (
			label, cell_id, tile_code, x_min, x_max, y_min, y_max, geometry, center_geohash
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`

	if _, err := r.db.Exec(ctx, deleteQuery, label); err != nil {
		return fmt.Errorf("failed to delete previous cells for label %q: %w", label, err)
	}

	for _, cell := range table {
		_, err := r.db.Exec(ctx, insertQuery,
			label, cell.ID, cell.TileCode,
			cell.XMin, cell.XMax, cell.YMin, cell.YMax,
			cell.Geometry, cell.Geohash(geohashPrecision),
		)
		if err != nil {
			return fmt.Errorf("failed to insert cell %d for label %q: %w", cell.ID, label, err)
		}
	}

	r.log.DebugContext(ctx, "Saved grid table", "label", label, "cells", len(table))

	return nil
}

// LoadTable retrieves the stored cells for a step label in enumeration
// order. The returned table is empty when the label has never been saved.
func (r *Repository) LoadTable(ctx context.Context, label string) (grid.Table, error) {
	query := `
		SELECT cell_id, tile_code, x_min, x_max, y_min, y_max, geometry
		FROM grid_cells
		WHERE label = $1
		ORDER BY cell_id ASC;
	`

	rows, err := r.db.Query(ctx, query, label)
	if err != nil {
		return nil, fmt.Errorf("failed to query cells for label %q: %w", label, err)
	}
	defer rows.Close()

	var table grid.Table
	for rows.Next() {
		var cell grid.Cell
		if errScan := rows.Scan(
			&cell.ID, &cell.TileCode,
			&cell.XMin, &cell.XMax, &cell.YMin, &cell.YMax,
			&cell.Geometry,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan cell row: %w", errScan)
		}
		table = append(table, cell)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return table, nil
}
