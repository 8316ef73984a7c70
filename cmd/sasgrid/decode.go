package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/meridianlab/sasgrid/internal/coord"
	"github.com/meridianlab/sasgrid/internal/grid"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <tile-code>",
	Short: "Decode a tile code or a single coordinate token back into numbers",
	Long: `Decode turns the hemisphere-encoded text form back into numeric values.

Given a full four-part tile code (xMin-xMax-yMin-yMax) it prints the cell
bounds and the WKT polygon. Given a single token (e.g. "w109p75") it prints
the signed coordinate value.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	tokens := strings.Split(args[0], "-")

	values := make([]float64, len(tokens))
	for i, token := range tokens {
		value, err := coord.Decode(token)
		if err != nil {
			return fmt.Errorf("token %q: %w", token, err)
		}
		values[i] = value
	}

	switch len(values) {
	case 1:
		cmd.Println(formatValue(values[0]))
	case 4:
		cmd.Printf("x_min=%s x_max=%s y_min=%s y_max=%s\n",
			formatValue(values[0]), formatValue(values[1]),
			formatValue(values[2]), formatValue(values[3]))
		cmd.Println(grid.RectangleWKT(values[0], values[1], values[2], values[3]))
	default:
		return fmt.Errorf("expected a single token or a 4-part tile code, got %d parts", len(values))
	}

	return nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
