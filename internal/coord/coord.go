package coord

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Axis identifies which geographic axis a coordinate belongs to. The axis
// selects the hemisphere alphabet used by Encode: east/west for x,
// north/south for y.
type Axis int

const (
	// AxisNone encodes a bare magnitude with no hemisphere prefix.
	AxisNone Axis = iota
	// AxisX is the longitude axis.
	AxisX
	// AxisY is the latitude axis.
	AxisY
)

// Common errors for the coordinate codec.
var (
	ErrInvalidHemisphere = errors.New("invalid hemisphere letter")
	ErrInvalidNumber     = errors.New("invalid coordinate magnitude")
)

// hemisphere returns the prefix letter for a coordinate on this axis.
// Non-negative values fall on the northern/eastern side.
func (a Axis) hemisphere(negative bool) string {
	switch a {
	case AxisX:
		if negative {
			return "w"
		}
		return "e"
	case AxisY:
		if negative {
			return "s"
		}
		return "n"
	default:
		return ""
	}
}

// sign maps a hemisphere letter to its mathematical sign. The second return
// value is false for letters outside the n/s/e/w alphabet.
func sign(letter rune) (float64, bool) {
	switch letter {
	case 'n', 'e':
		return 1, true
	case 's', 'w':
		return -1, true
	default:
		return 0, false
	}
}

// Encode formats a coordinate as a hemisphere-prefixed token with 'p' in
// place of the decimal point, e.g. Encode(-10.5, AxisX) == "w10p5".
// AxisNone omits the hemisphere prefix and yields the bare magnitude.
func Encode(value float64, axis Axis) string {
	magnitude := strconv.FormatFloat(math.Abs(value), 'f', -1, 64)
	return axis.hemisphere(value < 0) + strings.ReplaceAll(magnitude, ".", "p")
}

// Decode parses a token produced by Encode back into a signed float.
// Matching is case-insensitive: the first rune must be one of n/s/e/w and
// maps to the sign, the remainder (with 'p' standing in for the decimal
// point) must parse as a non-negative decimal.
//
// Returns ErrInvalidHemisphere for an unrecognized direction letter and
// ErrInvalidNumber for a malformed magnitude.
func Decode(s string) (float64, error) {
	lowered := strings.ToLower(s)
	if lowered == "" {
		return 0, fmt.Errorf("%w: empty token", ErrInvalidHemisphere)
	}

	runes := []rune(lowered)
	sgn, ok := sign(runes[0])
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHemisphere, string(runes[0]))
	}

	magnitude := strings.ReplaceAll(string(runes[1:]), "p", ".")
	value, err := strconv.ParseFloat(magnitude, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, magnitude)
	}

	return sgn * value, nil
}
