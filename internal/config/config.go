package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the grid generator.
//
// Fields:
// - Env: The current environment (e.g., local, dev, prod), selects the log handler.
// - OutputDir: The directory the CSV files are written into.
// - Workers: The number of concurrent workers, one step size per worker.
// - HealthPort: The monitoring server port; 0 disables the server.
// - Steps: Mapping of step label to step size in degrees.
// - Bounds: The bounding box the grids are generated over.
// - Database: Optional PostgreSQL sink configuration.
type Config struct {
	Env        string             // Env is the current environment: local, dev, prod.
	OutputDir  string             // OutputDir is where exported CSV files land.
	Workers    int                // The number of concurrent workers, one step size each.
	HealthPort int                // The monitoring server port, 0 to disable.
	Steps      map[string]float64 // Step label -> step size in degrees.
	Bounds     BoundsConfig       // Bounding box for grid generation.
	Database   PostgresConfig     // Database holds the postgres sink configuration.
}

// BoundsConfig is the axis-aligned bounding box grids are generated over.
type BoundsConfig struct {
	XMin float64 `mapstructure:"x_min"` // Left boundary.
	XMax float64 `mapstructure:"x_max"` // Right boundary.
	YMin float64 `mapstructure:"y_min"` // Bottom boundary.
	YMax float64 `mapstructure:"y_max"` // Top boundary.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// Enabled reports whether the Postgres sink is configured. The sink is
// optional: the CSV files are the primary output.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

// DefaultSteps is the fixed mapping of step label to step size in degrees
// used when no configuration overrides it.
var DefaultSteps = map[string]float64{
	"0p25": 0.25,
	"0p50": 0.5,
	"1p00": 1.0,
	"2p00": 2.0,
	"3p00": 3.0,
}

// DefaultBounds is the South America bounding box grids are generated over
// by default.
var DefaultBounds = BoundsConfig{XMin: -110, XMax: -18, YMin: -60, YMax: 18}

// MustLoad loads the configuration from built-in defaults, an optional YAML
// file named by SASG_CONFIG, and SASG_*/DB_* environment variables, in that
// order of precedence. It panics on malformed values.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("env", "production")
	v.SetDefault("output_dir", "./out")
	v.SetDefault("workers", 2)
	v.SetDefault("health_port", 0)
	v.SetDefault("steps", stepsDefault())
	v.SetDefault("bounds.x_min", DefaultBounds.XMin)
	v.SetDefault("bounds.x_max", DefaultBounds.XMax)
	v.SetDefault("bounds.y_min", DefaultBounds.YMin)
	v.SetDefault("bounds.y_max", DefaultBounds.YMax)

	v.SetEnvPrefix("SASG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Database credentials keep their conventional names.
	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.user", "DB_USERNAME")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.name", "DB_NAME")

	if path := os.Getenv("SASG_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file: " + err.Error())
		}
	}

	workers := v.GetInt("workers")
	if workers < 1 {
		panic("failed to parse workers from configuration, must be a positive integer")
	}

	return &Config{
		Env:        v.GetString("env"),
		OutputDir:  v.GetString("output_dir"),
		Workers:    workers,
		HealthPort: v.GetInt("health_port"),
		Steps:      mustParseSteps(v.GetStringMapString("steps")),
		Bounds: BoundsConfig{
			XMin: v.GetFloat64("bounds.x_min"),
			XMax: v.GetFloat64("bounds.x_max"),
			YMin: v.GetFloat64("bounds.y_min"),
			YMax: v.GetFloat64("bounds.y_max"),
		},
		Database: PostgresConfig{
			Host:     v.GetString("database.host"),
			Port:     withDefault(v.GetString("database.port"), "5432"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			Name:     v.GetString("database.name"),
		},
	}
}

// stepsDefault renders DefaultSteps as the string map viper expects for a
// string-map key.
func stepsDefault() map[string]string {
	m := make(map[string]string, len(DefaultSteps))
	for label, step := range DefaultSteps {
		m[label] = strconv.FormatFloat(step, 'f', -1, 64)
	}

	return m
}

// mustParseSteps converts the raw step mapping into step sizes, panicking on
// values that do not parse as positive decimals.
func mustParseSteps(raw map[string]string) map[string]float64 {
	steps := make(map[string]float64, len(raw))
	for label, value := range raw {
		step, err := strconv.ParseFloat(value, 64)
		if err != nil || step <= 0 {
			panic("failed to parse step size for label " + label + ", must be a positive decimal")
		}
		steps[label] = step
	}

	return steps
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
