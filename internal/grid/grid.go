package grid

import (
	"fmt"
	"strconv"

	"github.com/meridianlab/sasgrid/internal/coord"
	"github.com/mmcloughlin/geohash"
	"github.com/paulmach/orb"
)

// Cell is one rectangular tile of a generated grid.
type Cell struct {
	ID       int     // ID is the 1-based identifier in enumeration order.
	TileCode string  // TileCode encodes the four bounds, e.g. "w110-w109p75-s60-s59p75".
	XMin     float64 // XMin is the left boundary.
	XMax     float64 // XMax is the right boundary.
	YMin     float64 // YMin is the bottom boundary.
	YMax     float64 // YMax is the top boundary.
	Geometry string  // Geometry is the closed WKT polygon ring of the cell.
}

// Table is an ordered grid of cells, one per (x, y) bin, in x-major order.
type Table []Cell

// Bounds is the axis-aligned box a grid is generated over.
type Bounds struct {
	XMin float64
	XMax float64
	YMin float64
	YMax float64
}

// Polygon returns the cell ring as an orb geometry, visiting the corners in
// the same order as the WKT representation.
func (c Cell) Polygon() orb.Polygon {
	return orb.Polygon{{
		{c.XMin, c.YMin},
		{c.XMin, c.YMax},
		{c.XMax, c.YMax},
		{c.XMax, c.YMin},
		{c.XMin, c.YMin},
	}}
}

// Geohash returns the geohash of the cell center at the given precision.
func (c Cell) Geohash(precision uint) string {
	center := c.Polygon().Bound().Center()
	return geohash.EncodeWithPrecision(center.Lat(), center.Lon(), precision)
}

// formatFloat renders a coordinate in Go's default shortest form, never with
// an exponent.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// TileCode builds the textual cell identifier from its four bounds. Each
// bound is hemisphere-encoded on its own axis and the tokens are joined with
// '-' in the fixed order xMin, xMax, yMin, yMax.
func TileCode(xMin, xMax, yMin, yMax float64) string {
	return coord.Encode(xMin, coord.AxisX) + "-" +
		coord.Encode(xMax, coord.AxisX) + "-" +
		coord.Encode(yMin, coord.AxisY) + "-" +
		coord.Encode(yMax, coord.AxisY)
}

// RectangleWKT returns the WKT polygon for a rectangle as a closed
// five-point ring: (xMin,yMin) -> (xMin,yMax) -> (xMax,yMax) -> (xMax,yMin)
// -> (xMin,yMin). With x growing rightward and y upward the winding is
// counter-clockwise; downstream consumers rely on this exact ordering and on
// the ", " separator between points.
func RectangleWKT(xMin, xMax, yMin, yMax float64) string {
	return fmt.Sprintf("POLYGON((%s %s, %s %s, %s %s, %s %s, %s %s))",
		formatFloat(xMin), formatFloat(yMin),
		formatFloat(xMin), formatFloat(yMax),
		formatFloat(xMax), formatFloat(yMax),
		formatFloat(xMax), formatFloat(yMin),
		formatFloat(xMin), formatFloat(yMin))
}

// boundaries returns the ascending axis values min, min+step, ... strictly
// below max, plus max itself when the range divides evenly into steps.
// Values are computed as min + i*step rather than accumulated, so long
// sequences do not drift. A trailing partial band is dropped.
func boundaries(min, max, step float64) []float64 {
	if step <= 0 || min >= max {
		return nil
	}

	var vals []float64
	for i := 0; ; i++ {
		v := min + float64(i)*step
		if v >= max {
			if v == max {
				vals = append(vals, v)
			}
			break
		}
		vals = append(vals, v)
	}

	return vals
}

// Generate enumerates the axis-aligned cells covering bounds at the given
// step. Cells are emitted in x-major, y-minor order: all y bands of the
// first x band, then the next x band, and so on, with ids assigned
// sequentially from 1. Each cell carries its tile code and WKT geometry.
//
// Degenerate input (step <= 0, an inverted box, or a range too small for
// one full step) yields an empty table rather than an error. The result is
// fully deterministic for identical arguments.
func Generate(step float64, b Bounds) Table {
	xs := boundaries(b.XMin, b.XMax, step)
	ys := boundaries(b.YMin, b.YMax, step)
	if len(xs) < 2 || len(ys) < 2 {
		return Table{}
	}

	table := make(Table, 0, (len(xs)-1)*(len(ys)-1))
	id := 1
	for i := 0; i < len(xs)-1; i++ {
		for j := 0; j < len(ys)-1; j++ {
			xMin, xMax := xs[i], xs[i+1]
			yMin, yMax := ys[j], ys[j+1]
			table = append(table, Cell{
				ID:       id,
				TileCode: TileCode(xMin, xMax, yMin, yMax),
				XMin:     xMin,
				XMax:     xMax,
				YMin:     yMin,
				YMax:     yMax,
				Geometry: RectangleWKT(xMin, xMax, yMin, yMax),
			})
			id++
		}
	}

	return table
}
