// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file and COURTSIDE_* environment variables on top.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"math"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Workers sets the number of per-team timeline workers.
	Workers int `koanf:"workers"`

	// MetricsTextfile, when set, receives a Prometheus textfile export after each run.
	MetricsTextfile string `koanf:"metrics_textfile"`

	Input    InputConfig    `koanf:"input"`
	Output   OutputConfig   `koanf:"output"`
	Lag      LagConfig      `koanf:"lag"`
	Rolling  RollingConfig  `koanf:"rolling"`
	Rest     RestConfig     `koanf:"rest"`
	Momentum MomentumConfig `koanf:"momentum"`
	Boundary BoundaryConfig `koanf:"boundary"`
	Split    SplitConfig    `koanf:"split"`
	Postgres PostgresConfig `koanf:"postgres"`
	Redis    RedisConfig    `koanf:"redis"`
}

// InputConfig locates the team-game table.
type InputConfig struct {
	// Path is the CSV file to read; "-" reads stdin.
	Path string `koanf:"path"`
	// Layout is auto, team (two rows per game) or game (one row per game).
	Layout string `koanf:"layout"`
}

// OutputConfig controls the training table.
type OutputConfig struct {
	// Path is the CSV file to write; "-" writes stdout.
	Path string `koanf:"path"`
	// Lowercase lowercases every column name on output.
	Lowercase bool `koanf:"lowercase"`
	// SplitDir, when set, receives train/validation/test CSV files.
	SplitDir string `koanf:"split_dir"`
}

// LagConfig configures the prior-game columns.
type LagConfig struct {
	Columns      []string `koanf:"columns"`
	SeasonScoped bool     `koanf:"season_scoped"`
	// Fill is none (leave null) or zero.
	Fill string `koanf:"fill"`
	// SeasonGames divides GP_PRIOR into SEASON_PROGRESS; 0 disables it.
	SeasonGames int `koanf:"season_games"`
}

// RollingConfig configures trailing-window means.
type RollingConfig struct {
	Stats        []string `koanf:"stats"`
	Windows      []int    `koanf:"windows"`
	SeasonScoped bool     `koanf:"season_scoped"`
}

// RestConfig configures schedule features.
type RestConfig struct {
	// FillFirstGame substitutes FirstGameDaysRest on a team's first game of a season.
	FillFirstGame     bool    `koanf:"fill_first_game"`
	FirstGameDaysRest float64 `koanf:"first_game_days_rest"`
	OptimalMin        float64 `koanf:"optimal_min"`
	OptimalMax        float64 `koanf:"optimal_max"`
	OverRested        float64 `koanf:"over_rested"`
	Windows           []int   `koanf:"windows"`
	AverageWindow     int     `koanf:"average_window"`
}

// MomentumConfig configures short-vs-long win form.
type MomentumConfig struct {
	ShortWindow int `koanf:"short_window"`
	LongWindow  int `koanf:"long_window"`
}

// BoundaryConfig configures the season-boundary filter.
type BoundaryConfig struct {
	// FirstGames is the number of opening games per team and season to drop.
	FirstGames int `koanf:"first_games"`
}

// SplitConfig holds chronological split ratios.
type SplitConfig struct {
	Train      float64 `koanf:"train"`
	Validation float64 `koanf:"validation"`
	Test       float64 `koanf:"test"`
}

// PostgresConfig configures the optional training-table sink.
type PostgresConfig struct {
	DSN   string `koanf:"dsn"`
	Table string `koanf:"table"`
}

// RedisConfig configures the optional run-summary stream.
type RedisConfig struct {
	URL    string `koanf:"url"`
	Stream string `koanf:"stream"`
}

// DefaultLagColumns are the season-to-date statistics shifted into _PRIOR columns.
var DefaultLagColumns = []string{ //nolint:gochecknoglobals // default manifest
	"GP", "W", "L", "W_PCT", "MIN",
	"OFF_RATING", "DEF_RATING", "NET_RATING",
	"E_OFF_RATING", "E_DEF_RATING", "E_NET_RATING",
	"AST_PCT", "AST_TO", "AST_RATIO",
	"DREB_PCT", "REB_PCT", "TS_PCT",
	"E_PACE", "PACE", "PACE_PER40", "POSS", "PIE",
	"EFG_PCT_FF", "FTA_RATE", "TM_TOV_PCT_FF", "OREB_PCT_FF",
	"OPP_EFG_PCT", "OPP_FTA_RATE", "OPP_TOV_PCT", "OPP_OREB_PCT",
}

// DefaultRollingStats are the per-game statistics averaged over trailing windows.
// WIN and PTS resolve to the game result and final score.
var DefaultRollingStats = []string{ //nolint:gochecknoglobals // default manifest
	"WIN", "PTS",
	"NET_RATING", "OFF_RATING", "DEF_RATING", "W_PCT",
	"EFG_PCT", "TOV_PCT", "OREB_PCT", "FTA_RATE",
	"OPP_EFG_PCT", "OPP_TOV_PCT", "DREB_PCT", "OPP_FTA_RATE",
	"PACE", "TS_PCT", "AST_PCT", "PIE",
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Workers:   1,
		Input:     InputConfig{Path: "-", Layout: "auto"},
		Output:    OutputConfig{Path: "-"},
		Lag: LagConfig{
			Columns:      append([]string(nil), DefaultLagColumns...),
			SeasonScoped: true,
			Fill:         "none",
			SeasonGames:  82,
		},
		Rolling: RollingConfig{
			Stats:        append([]string(nil), DefaultRollingStats...),
			Windows:      []int{5, 10},
			SeasonScoped: true,
		},
		Rest: RestConfig{
			FillFirstGame:     true,
			FirstGameDaysRest: 3,
			OptimalMin:        2,
			OptimalMax:        3,
			OverRested:        4,
			Windows:           []int{5, 10},
			AverageWindow:     10,
		},
		Momentum: MomentumConfig{ShortWindow: 5, LongWindow: 10},
		Boundary: BoundaryConfig{FirstGames: 1},
		Split:    SplitConfig{Train: 0.70, Validation: 0.15, Test: 0.15},
		Postgres: PostgresConfig{Table: "matchup_features"},
		Redis:    RedisConfig{Stream: "courtside:runs"},
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return invalid("log_format must be text or json, got %q", c.LogFormat)
	}
	switch c.Input.Layout {
	case "auto", "team", "game":
	default:
		return invalid("input.layout must be auto, team or game, got %q", c.Input.Layout)
	}
	if c.Input.Path == "" {
		return invalid("input.path must not be empty")
	}
	if c.Output.Path == "" {
		return invalid("output.path must not be empty")
	}
	if c.Workers < 1 {
		return invalid("workers must be >= 1, got %d", c.Workers)
	}
	switch c.Lag.Fill {
	case "none", "zero":
	default:
		return invalid("lag.fill must be none or zero, got %q", c.Lag.Fill)
	}
	if c.Lag.SeasonGames < 0 {
		return invalid("lag.season_games must be >= 0, got %d", c.Lag.SeasonGames)
	}
	for _, w := range c.Rolling.Windows {
		if w < 1 {
			return invalid("rolling.windows must be positive, got %d", w)
		}
	}
	for _, w := range c.Rest.Windows {
		if w < 1 {
			return invalid("rest.windows must be positive, got %d", w)
		}
	}
	if c.Rest.AverageWindow < 1 {
		return invalid("rest.average_window must be >= 1, got %d", c.Rest.AverageWindow)
	}
	if c.Rest.OptimalMin > c.Rest.OptimalMax {
		return invalid("rest.optimal_min %.0f exceeds rest.optimal_max %.0f", c.Rest.OptimalMin, c.Rest.OptimalMax)
	}
	if c.Momentum.ShortWindow < 1 || c.Momentum.ShortWindow >= c.Momentum.LongWindow {
		return invalid("momentum windows must satisfy 1 <= short < long, got %d/%d",
			c.Momentum.ShortWindow, c.Momentum.LongWindow)
	}
	if c.Boundary.FirstGames < 0 {
		return invalid("boundary.first_games must be >= 0, got %d", c.Boundary.FirstGames)
	}
	if c.Split.Train <= 0 || c.Split.Validation < 0 || c.Split.Test < 0 {
		return invalid("split ratios must be non-negative with a positive train share")
	}
	if sum := c.Split.Train + c.Split.Validation + c.Split.Test; math.Abs(sum-1) > 1e-9 {
		return invalid("split ratios must sum to 1, got %.4f", sum)
	}
	if c.Postgres.DSN != "" && c.Postgres.Table == "" {
		return invalid("postgres.table must be set when postgres.dsn is")
	}
	if c.Redis.URL != "" && c.Redis.Stream == "" {
		return invalid("redis.stream must be set when redis.url is")
	}
	return nil
}
