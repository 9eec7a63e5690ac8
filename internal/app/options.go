package app

import (
	"slices"
	"time"

	"github.com/okian/courtside/internal/config"
	"github.com/okian/courtside/internal/domain/features"
	"github.com/okian/courtside/internal/domain/h2h"
	"github.com/okian/courtside/internal/domain/schema"
	"github.com/okian/courtside/pkg/logger"
)

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithManifest sets the lag and rolling statistic lists. The lists are
// copied; the caller's slices are never modified.
func WithManifest(m schema.Manifest) Option {
	return func(p *Pipeline) {
		m.LagColumns = slices.Clone(m.LagColumns)
		m.RollingStats = slices.Clone(m.RollingStats)
		m.RollingWindows = slices.Clone(m.RollingWindows)
		p.manifest = m
	}
}

// WithLagFill sets the first-game policy of the lag stage.
func WithLagFill(f features.Fill) Option {
	return func(p *Pipeline) {
		if f != "" {
			p.lagFill = f
		}
	}
}

// WithSeasonGames sets the season length behind SEASON_PROGRESS. 0 disables
// the column.
func WithSeasonGames(n int) Option {
	return func(p *Pipeline) {
		if n >= 0 {
			p.seasonGames = n
		}
	}
}

// WithRest sets the rest stage thresholds and windows.
func WithRest(r features.Rest) Option {
	return func(p *Pipeline) {
		p.rest = r
	}
}

// WithMomentumWindows sets the short and long win-form windows.
func WithMomentumWindows(short, long int) Option {
	return func(p *Pipeline) {
		if short > 0 && long > 0 {
			p.momentum = features.Momentum{ShortWindow: short, LongWindow: long}
		}
	}
}

// WithFirstGames sets how many opening games per team and season are removed.
func WithFirstGames(n int) Option {
	return func(p *Pipeline) {
		if n >= 0 {
			p.firstGames = n
		}
	}
}

// WithLedger continues head-to-head history from an earlier run.
func WithLedger(l *h2h.Ledger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.ledger = l
		}
	}
}

// WithExecutor sets how per-team timeline jobs are run.
func WithExecutor(e features.Executor) Option {
	return func(p *Pipeline) {
		if e != nil {
			p.exec = e
		}
	}
}

// WithWorkers fans timeline jobs out over n pool workers. n <= 1 runs them
// sequentially. An explicit WithExecutor takes precedence.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		p.workers = n
	}
}

// WithClock sets the time source used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// FromConfig maps a loaded configuration onto pipeline options.
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithManifest(schema.Manifest{
			LagColumns:          cfg.Lag.Columns,
			LagSeasonScoped:     cfg.Lag.SeasonScoped,
			RollingStats:        cfg.Rolling.Stats,
			RollingWindows:      cfg.Rolling.Windows,
			RollingSeasonScoped: cfg.Rolling.SeasonScoped,
		}),
		WithLagFill(features.Fill(cfg.Lag.Fill)),
		WithSeasonGames(cfg.Lag.SeasonGames),
		WithRest(features.Rest{
			FillFirstGame:     cfg.Rest.FillFirstGame,
			FirstGameDaysRest: cfg.Rest.FirstGameDaysRest,
			OptimalMin:        cfg.Rest.OptimalMin,
			OptimalMax:        cfg.Rest.OptimalMax,
			OverRested:        cfg.Rest.OverRested,
			Windows:           cfg.Rest.Windows,
			AverageWindow:     cfg.Rest.AverageWindow,
		}),
		WithMomentumWindows(cfg.Momentum.ShortWindow, cfg.Momentum.LongWindow),
		WithFirstGames(cfg.Boundary.FirstGames),
		WithWorkers(cfg.Workers),
	}
}
