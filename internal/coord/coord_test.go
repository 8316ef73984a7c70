package coord_test

import (
	"testing"

	"github.com/meridianlab/sasgrid/internal/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value float64
		axis  coord.Axis
		want  string
	}{
		{"positive longitude", 10.5, coord.AxisX, "e10p5"},
		{"negative longitude", -110, coord.AxisX, "w110"},
		{"positive latitude", 18, coord.AxisY, "n18"},
		{"negative latitude", -59.75, coord.AxisY, "s59p75"},
		{"zero is northern", 0, coord.AxisY, "n0"},
		{"zero is eastern", 0, coord.AxisX, "e0"},
		{"no axis omits hemisphere", 0.25, coord.AxisNone, "0p25"},
		{"no axis drops sign", -3, coord.AxisNone, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, coord.Encode(tt.value, tt.axis))
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
		want  float64
	}{
		{"north is positive", "n45p67", 45.67},
		{"south is negative", "s60", -60},
		{"east is positive", "e0p5", 0.5},
		{"west is negative", "w110", -110},
		{"uppercase accepted", "W18p25", -18.25},
		{"integer magnitude", "N7", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := coord.Decode(tt.token)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestDecode_InvalidHemisphere(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"", "x10", "10p5", "-5", "pn5"} {
		_, err := coord.Decode(token)
		require.Error(t, err, "token %q", token)
		require.ErrorIs(t, err, coord.ErrInvalidHemisphere)
	}
}

func TestDecode_InvalidNumber(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"n", "n10p5p5", "wabc", "e-5", "s "} {
		_, err := coord.Decode(token)
		require.Error(t, err, "token %q", token)
		require.ErrorIs(t, err, coord.ErrInvalidNumber)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	magnitudes := []float64{0, 0.25, 0.1, 1, 9.75, 18, 59.99, 110, 12345.6789}
	for _, axis := range []coord.Axis{coord.AxisX, coord.AxisY} {
		for _, m := range magnitudes {
			for _, value := range []float64{m, -m} {
				got, err := coord.Decode(coord.Encode(value, axis))
				require.NoError(t, err)
				assert.InDelta(t, value, got, 1e-12, "value %v axis %v", value, axis)
			}
		}
	}
}
