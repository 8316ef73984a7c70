package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sasgrid",
	Short: "Regular grid generator for geographic bounding boxes",
	Long: `Sasgrid generates a regular rectangular grid over a geographic bounding
box and exports each cell as a WKT polygon with a hemisphere-encoded tile
code, one ';'-delimited CSV file per configured step size.

Commands:
- generate: build and export the grid tables for every configured step size
- decode: turn a tile code (or a single coordinate token) back into numbers

Configuration comes from built-in defaults, an optional YAML file named by
SASG_CONFIG, and SASG_*/DB_* environment variables.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()

	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("output-dir", "o", "", "Output directory for CSV files (overrides configuration)")
}
