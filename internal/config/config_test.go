package config_test

import (
	"errors"
	"testing"

	"github.com/okian/courtside/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Lag.Fill, convey.ShouldEqual, "none")
			convey.So(cfg.Lag.SeasonGames, convey.ShouldEqual, 82)
			convey.So(cfg.Lag.Columns, convey.ShouldContain, "W_PCT")
			convey.So(cfg.Rolling.Stats, convey.ShouldContain, "WIN")
			convey.So(cfg.Rest.FirstGameDaysRest, convey.ShouldEqual, 3)
			convey.So(cfg.Momentum.ShortWindow, convey.ShouldEqual, 5)
			convey.So(cfg.Momentum.LongWindow, convey.ShouldEqual, 10)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the default manifest is a copy", func() {
			cfg.Lag.Columns[0] = "CHANGED"
			convey.So(config.DefaultLagColumns[0], convey.ShouldEqual, "GP")
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid configurations", t, func() {
		cases := map[string]func(*config.Config){
			"log_format":          func(c *config.Config) { c.LogFormat = "xml" },
			"workers":             func(c *config.Config) { c.Workers = 0 },
			"lag.fill":            func(c *config.Config) { c.Lag.Fill = "mean" },
			"lag.season_games":    func(c *config.Config) { c.Lag.SeasonGames = -1 },
			"rolling.windows":     func(c *config.Config) { c.Rolling.Windows = []int{5, 0} },
			"rest.optimal_min":    func(c *config.Config) { c.Rest.OptimalMin = 5 },
			"momentum windows":    func(c *config.Config) { c.Momentum.ShortWindow = 10 },
			"boundary":            func(c *config.Config) { c.Boundary.FirstGames = -1 },
			"sum to 1":            func(c *config.Config) { c.Split.Test = 0.5 },
			"postgres.table":      func(c *config.Config) { c.Postgres.DSN = "postgres://x"; c.Postgres.Table = "" },
			"redis.stream":        func(c *config.Config) { c.Redis.URL = "redis://x"; c.Redis.Stream = "" },
			"output.path":         func(c *config.Config) { c.Output.Path = "" },
			"rest.average_window": func(c *config.Config) { c.Rest.AverageWindow = 0 },
		}

		for want, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, want)
		}
	})
}
