package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/courtside/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Workers, convey.ShouldEqual, 1)
				convey.So(cfg.Input.Layout, convey.ShouldEqual, "auto")
				convey.So(cfg.Rolling.Windows, convey.ShouldResemble, []int{5, 10})
				convey.So(cfg.Boundary.FirstGames, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("COURTSIDE_WORKERS", "4")
			_ = os.Setenv("COURTSIDE_LOG_LEVEL", "debug")
			_ = os.Setenv("COURTSIDE_LAG__FILL", "zero")
			_ = os.Setenv("COURTSIDE_REST__FIRST_GAME_DAYS_REST", "2")
			_ = os.Setenv("COURTSIDE_ROLLING__WINDOWS", "3,7")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should override defaults, nested keys included", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Workers, convey.ShouldEqual, 4)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.Lag.Fill, convey.ShouldEqual, "zero")
				convey.So(cfg.Rest.FirstGameDaysRest, convey.ShouldEqual, 2)
				convey.So(cfg.Rolling.Windows, convey.ShouldResemble, []int{3, 7})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
workers: 8
input:
  path: seasons.csv
  layout: team
lag:
  columns: [W_PCT, NET_RATING]
rolling:
  stats: [WIN]
  windows: [3]
momentum:
  short_window: 2
  long_window: 3
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("COURTSIDE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then lists are replaced rather than merged", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Workers, convey.ShouldEqual, 8)
				convey.So(cfg.Input.Path, convey.ShouldEqual, "seasons.csv")
				convey.So(cfg.Input.Layout, convey.ShouldEqual, "team")
				convey.So(cfg.Lag.Columns, convey.ShouldResemble, []string{"W_PCT", "NET_RATING"})
				convey.So(cfg.Rolling.Stats, convey.ShouldResemble, []string{"WIN"})
				convey.So(cfg.Rolling.Windows, convey.ShouldResemble, []int{3})
				convey.So(cfg.Rest.AverageWindow, convey.ShouldEqual, 10) // From defaults
			})
		})

		convey.Convey("When both an explicit path and env vars are given", func() {
			tmpFile := createTempConfigFile("workers: 8\noutput:\n  lowercase: true\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("COURTSIDE_WORKERS", "2")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, tmpFile)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Workers, convey.ShouldEqual, 2)
				convey.So(cfg.Output.Lowercase, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			cfg, err := config.Load(ctx, tmpFile)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.Load(ctx, "/non/existent/file.yaml")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("COURTSIDE_WORKERS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the loaded values fail validation", func() {
			_ = os.Setenv("COURTSIDE_INPUT__LAYOUT", "wide")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "input.layout")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"COURTSIDE_CONFIG",
		"COURTSIDE_WORKERS",
		"COURTSIDE_LOG_LEVEL",
		"COURTSIDE_LAG__FILL",
		"COURTSIDE_REST__FIRST_GAME_DAYS_REST",
		"COURTSIDE_ROLLING__WINDOWS",
		"COURTSIDE_INPUT__LAYOUT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "courtside-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
