package grid_test

import (
	"testing"

	"github.com/meridianlab/sasgrid/internal/grid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectangleWKT(t *testing.T) {
	t.Parallel()

	got := grid.RectangleWKT(0, 1, 0, 1)
	assert.Equal(t, "POLYGON((0 0, 0 1, 1 1, 1 0, 0 0))", got)
}

func TestRectangleWKT_ParsesAsClosedRing(t *testing.T) {
	t.Parallel()

	geom, err := wkt.Unmarshal(grid.RectangleWKT(-110, -109.75, -60, -59.75))
	require.NoError(t, err)

	poly, ok := geom.(orb.Polygon)
	require.True(t, ok)
	require.Len(t, poly, 1)

	ring := poly[0]
	require.Len(t, ring, 5)
	assert.Equal(t, ring[0], ring[4])
	assert.True(t, ring.Closed())
}

func TestTileCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                   string
		xMin, xMax, yMin, yMax float64
		want                   string
	}{
		{"south-western cell", -10, -9, -5, -4, "w10-w9-s5-s4"},
		{"fractional bounds", -110, -109.75, -60, -59.75, "w110-w109p75-s60-s59p75"},
		{"north-eastern cell", 2, 3, 1, 2, "e2-e3-n1-n2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, grid.TileCode(tt.xMin, tt.xMax, tt.yMin, tt.yMax))
		})
	}
}

func TestGenerate_TilesBoxCompletely(t *testing.T) {
	t.Parallel()

	table := grid.Generate(1, grid.Bounds{XMin: 0, XMax: 3, YMin: 0, YMax: 2})
	require.Len(t, table, 6)

	first := table[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, grid.Cell{
		ID:       1,
		TileCode: "e0-e1-n0-n1",
		XMin:     0,
		XMax:     1,
		YMin:     0,
		YMax:     1,
		Geometry: "POLYGON((0 0, 0 1, 1 1, 1 0, 0 0))",
	}, first)

	last := table[5]
	assert.Equal(t, 6, last.ID)
	assert.Equal(t, 2.0, last.XMin)
	assert.Equal(t, 3.0, last.XMax)
	assert.Equal(t, 1.0, last.YMin)
	assert.Equal(t, 2.0, last.YMax)

	// x-major, y-minor: the second cell sits above the first.
	assert.Equal(t, 0.0, table[1].XMin)
	assert.Equal(t, 1.0, table[1].YMin)

	// No gaps, no overlaps: every band start is the previous band's end
	// and ids are strictly sequential.
	for i, cell := range table {
		assert.Equal(t, i+1, cell.ID)
		assert.Less(t, cell.XMin, cell.XMax)
		assert.Less(t, cell.YMin, cell.YMax)
	}
}

func TestGenerate_RangeTooSmall(t *testing.T) {
	t.Parallel()

	table := grid.Generate(0.25, grid.Bounds{XMin: 0, XMax: 0.1, YMin: 0, YMax: 1})
	assert.Empty(t, table)
}

func TestGenerate_DegenerateInput(t *testing.T) {
	t.Parallel()

	bounds := grid.Bounds{XMin: 0, XMax: 3, YMin: 0, YMax: 2}

	assert.Empty(t, grid.Generate(0, bounds))
	assert.Empty(t, grid.Generate(-1, bounds))
	assert.Empty(t, grid.Generate(1, grid.Bounds{XMin: 3, XMax: 0, YMin: 0, YMax: 2}))
	assert.Empty(t, grid.Generate(1, grid.Bounds{XMin: 0, XMax: 3, YMin: 2, YMax: 2}))
}

func TestGenerate_DropsTrailingPartialBand(t *testing.T) {
	t.Parallel()

	// 2.5 is not a multiple of the step, so the x band [2, 2.5) is dropped.
	table := grid.Generate(1, grid.Bounds{XMin: 0, XMax: 2.5, YMin: 0, YMax: 2})
	require.Len(t, table, 4)
	assert.Equal(t, 2.0, table[len(table)-1].XMax)
}

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	bounds := grid.Bounds{XMin: -110, XMax: -18, YMin: -60, YMax: 18}
	first := grid.Generate(2, bounds)
	second := grid.Generate(2, bounds)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestGenerate_DefaultBoundsCellCount(t *testing.T) {
	t.Parallel()

	// 92 degrees of longitude and 78 of latitude at a 1 degree step.
	table := grid.Generate(1, grid.Bounds{XMin: -110, XMax: -18, YMin: -60, YMax: 18})
	assert.Len(t, table, 92*78)
}

func TestCell_Polygon(t *testing.T) {
	t.Parallel()

	cell := grid.Generate(1, grid.Bounds{XMin: 0, XMax: 3, YMin: 0, YMax: 2})[0]
	poly := cell.Polygon()

	require.Len(t, poly, 1)
	assert.True(t, poly[0].Closed())
	assert.Equal(t, orb.Point{0, 0}, poly[0][0])
	assert.Equal(t, orb.Point{1, 1}, poly.Bound().Max)
}

func TestCell_Geohash(t *testing.T) {
	t.Parallel()

	cell := grid.Cell{XMin: -0.5, XMax: 0.5, YMin: -0.5, YMax: 0.5}
	hash := cell.Geohash(5)

	assert.Len(t, hash, 5)
	// Center of the cell is (0, 0), whose geohash starts with "s".
	assert.Equal(t, "s", hash[:1])
}
