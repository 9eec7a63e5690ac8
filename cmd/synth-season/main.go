package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/courtside/internal/adapters/csvio"
	"github.com/okian/courtside/internal/synth"
	"github.com/okian/courtside/pkg/logger"
)

func main() {
	defaults := synth.DefaultConfig()
	var (
		teams     = flag.Int("teams", defaults.Teams, "Teams per season")
		games     = flag.Int("games", defaults.Games, "Rounds per season; every team plays once per round")
		seasons   = flag.Int("seasons", defaults.Seasons, "Consecutive seasons")
		startYear = flag.Int("start-year", defaults.StartYear, "Calendar year the first season opens")
		seed      = flag.Uint64("seed", defaults.Seed, "Random seed; equal seeds give equal output")
		neutral   = flag.Float64("neutral", 0.01, "Share of games at a neutral venue")
		duplicate = flag.Float64("duplicate", 0, "Share of rows emitted twice")
		out       = flag.String("out", "-", "Output CSV, - for stdout")
		format    = flag.String("log-format", "text", "Log format: text or json")
	)
	flag.Parse()

	// Setup logging
	if err := logger.InitWith(os.Stderr, *format); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := synth.Config{
		Teams:     *teams,
		Games:     *games,
		Seasons:   *seasons,
		StartYear: *startYear,
		Seed:      *seed,
		Neutral:   *neutral,
		Duplicate: *duplicate,
	}
	rows, _, err := synth.Generate(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
	if err := csvio.WriteObservationsFile(*out, rows, synth.Columns()); err != nil {
		os.Stderr.WriteString("Write failed: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
