// Package app wires the feature stages into a single leakage-free run,
// from raw team observations to the final matchup table.
package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/okian/courtside/internal/adapters/pool"
	"github.com/okian/courtside/internal/domain/boundary"
	"github.com/okian/courtside/internal/domain/dedupe"
	"github.com/okian/courtside/internal/domain/features"
	"github.com/okian/courtside/internal/domain/h2h"
	"github.com/okian/courtside/internal/domain/matchup"
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/reshape"
	"github.com/okian/courtside/internal/domain/schema"
	"github.com/okian/courtside/internal/domain/validate"
	"github.com/okian/courtside/pkg/logger"
	"github.com/okian/courtside/pkg/metrics"
)

// Stage names used in reports and metrics.
const (
	StageDedupe        = "dedupe"
	StageReshape       = "reshape"
	StageAssemble      = "assemble"
	StageHeadToHead    = "h2h"
	StageDifferentials = "differentials"
	StageBoundary      = "boundary"
	StageValidate      = "validate"
)

// Pipeline runs the stages in their fixed order.
type Pipeline struct {
	logger      logger.Logger
	manifest    schema.Manifest
	lagFill     features.Fill
	seasonGames int
	rest        features.Rest
	momentum    features.Momentum
	firstGames  int
	ledger      *h2h.Ledger
	workers     int
	exec        features.Executor
	now         func() time.Time
}

// Result is the output of a run. Frame is nil when the run failed.
type Result struct {
	Frame  *model.MatchupFrame
	Ledger *h2h.Ledger
	Report *Report
}

// New creates a Pipeline with default settings.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger: logger.Get().Named("pipeline"),
		manifest: schema.Manifest{
			LagSeasonScoped:     true,
			RollingStats:        []string{model.StatWin, model.StatPoints},
			RollingWindows:      []int{5, 10},
			RollingSeasonScoped: true,
		},
		lagFill:     features.FillNone,
		seasonGames: 82,
		rest: features.Rest{
			FillFirstGame:     true,
			FirstGameDaysRest: 3,
			OptimalMin:        2,
			OptimalMax:        3,
			OverRested:        4,
			Windows:           []int{5, 10},
			AverageWindow:     10,
		},
		momentum:   features.Momentum{ShortWindow: 5, LongWindow: 10},
		firstGames: 1,
		ledger:     h2h.NewLedger(),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	// The pool logs through the final pipeline logger.
	if p.exec == nil && p.workers > 1 {
		p.exec = pool.New(p.workers, pool.WithName("timelines"), pool.WithLogger(p.logger))
	}

	// Momentum reads the WIN rolling means.
	p.manifest.Require(model.StatWin, p.momentum.ShortWindow, p.momentum.LongWindow)
	return p
}

// Stages returns the team-level stages in execution order.
func (p *Pipeline) Stages() []features.Stage {
	rest := p.rest
	rest.Exec = p.exec
	momentum := p.momentum
	momentum.Exec = p.exec
	return []features.Stage{
		features.Lag{
			Columns:      p.manifest.LagColumns,
			SeasonScoped: p.manifest.LagSeasonScoped,
			Fill:         p.lagFill,
			Exec:         p.exec,
		},
		features.Progress{SeasonGames: p.seasonGames},
		features.Rolling{
			Stats:        p.manifest.RollingStats,
			Windows:      p.manifest.RollingWindows,
			SeasonScoped: p.manifest.RollingSeasonScoped,
			Exec:         p.exec,
		},
		rest,
		momentum,
	}
}

// Run transforms team observations into the matchup table. stats names the
// ingested statistic columns; nil infers them from the rows. On failure the
// returned Result still carries the report up to the failing stage.
func (p *Pipeline) Run(ctx context.Context, rows []model.TeamGame, stats []string) (res *Result, err error) {
	started := p.now()
	report := &Report{RunID: uuid.NewString(), StartedAt: started, Outcome: OutcomeSuccess}
	res = &Result{Report: report}
	log := p.logger

	defer func() {
		finished := p.now()
		report.Duration = finished.Sub(started)
		if err != nil {
			report.Outcome = OutcomeFailure
			report.Error = err.Error()
			log.Error(ctx, "run failed", logger.String("run_id", report.RunID), logger.Error(err))
		} else {
			log.Info(ctx, "run complete",
				logger.String("run_id", report.RunID),
				logger.Int("games", report.Output),
				logger.Duration("took", report.Duration),
			)
		}
		metrics.RecordRun(report.Outcome, finished.Unix())
	}()

	if len(rows) == 0 {
		return res, ErrNoObservations
	}
	if stats == nil {
		stats = InferStats(rows)
	}

	// Deduplicate.
	mark := p.now()
	deduped := dedupe.Observations(ctx, rows, dedupe.WithLogger(log))
	report.Observations = len(rows)
	report.Duplicates = deduped.Duplicates
	report.Conflicts = len(deduped.Conflicts)
	metrics.RecordObservations(len(rows))
	metrics.RecordDuplicates(deduped.Duplicates)
	p.observe(StageDedupe, len(deduped.Rows), mark)

	// Reshape into games.
	mark = p.now()
	games, summary, err := reshape.Pair(ctx, deduped.Rows, reshape.WithLogger(log))
	if err != nil {
		var structural *reshape.StructuralError
		if errors.As(err, &structural) {
			for kind, n := range structural.Counts {
				metrics.RecordStructuralIssue(string(kind), n)
			}
		}
		return res, fmt.Errorf("%s: %w", StageReshape, err)
	}
	report.Games = summary.Games
	report.NeutralGames = summary.NeutralIDs
	metrics.RecordNeutralGames(summary.NeutralGames)
	p.observe(StageReshape, len(games), mark)
	if summary.NeutralGames > 0 {
		log.Info(ctx, "neutral-venue games", logger.Int("count", summary.NeutralGames))
	}

	frame, err := p.teamFrame(games, stats)
	if err != nil {
		return res, err
	}

	// Team-level features.
	for _, stage := range p.Stages() {
		mark = p.now()
		frame, err = stage.Apply(ctx, frame)
		if err != nil {
			return res, fmt.Errorf("%s: %w", stage.Name(), err)
		}
		p.record(report, stage.Name(), validate.TeamNulls(stage.Name(), frame), mark)
	}

	// Game-level features.
	mark = p.now()
	mf, err := matchup.Assemble(ctx, frame)
	if err != nil {
		return res, fmt.Errorf("%s: %w", StageAssemble, err)
	}
	p.record(report, StageAssemble, validate.MatchupNulls(StageAssemble, mf), mark)

	mark = p.now()
	mf, ledger, err := h2h.Accumulate(p.ledger, mf)
	if err != nil {
		return res, fmt.Errorf("%s: %w", StageHeadToHead, err)
	}
	res.Ledger = ledger
	p.record(report, StageHeadToHead, validate.MatchupNulls(StageHeadToHead, mf), mark)

	mark = p.now()
	mf, err = matchup.Differentials(ctx, mf)
	if err != nil {
		return res, fmt.Errorf("%s: %w", StageDifferentials, err)
	}
	p.record(report, StageDifferentials, validate.MatchupNulls(StageDifferentials, mf), mark)

	// Season boundary.
	mark = p.now()
	mf, bounds, err := boundary.Filter(ctx, mf, p.firstGames)
	report.Boundary = bounds
	for _, s := range bounds.Seasons {
		metrics.UpdateGamesRemoved(s.Season, s.Removed)
	}
	if err != nil {
		return res, fmt.Errorf("%s: %w", StageBoundary, err)
	}
	p.record(report, StageBoundary, validate.MatchupNulls(StageBoundary, mf), mark)
	log.Info(ctx, "season boundary applied",
		logger.Int("first_games", p.firstGames),
		logger.Int("removed", bounds.Removed()),
		logger.Int("kept", bounds.Kept),
	)

	// Final check.
	mark = p.now()
	if err := validate.RequireComplete(mf); err != nil {
		return res, fmt.Errorf("%s: %w", StageValidate, err)
	}
	p.observe(StageValidate, len(mf.Records), mark)

	report.Output = len(mf.Records)
	metrics.UpdateOutputRows(report.Output)
	res.Frame = mf
	return res, nil
}

// teamFrame splits games back into team rows and registers the ingested columns.
func (p *Pipeline) teamFrame(games []model.Matchup, stats []string) (*model.TeamFrame, error) {
	s := schema.New()
	for _, name := range stats {
		role := schema.RoleRawResult
		if p.manifest.IsLagColumn(name) {
			role = schema.RoleSeasonCumulative
		}
		if err := s.Add(schema.Column{Name: name, Role: role, Source: name}); err != nil {
			return nil, fmt.Errorf("register %s: %w", name, err)
		}
	}
	if err := s.Require(p.manifest.LagColumns...); err != nil {
		p.logger.Warn(context.Background(), "lag columns absent from input", logger.Error(err))
	}
	return &model.TeamFrame{Schema: s, Rows: reshape.Split(games)}, nil
}

func (p *Pipeline) record(r *Report, stage string, nulls validate.NullReport, mark time.Time) {
	s := r.addStage(stage, nulls, p.now().Sub(mark))
	metrics.RecordStage(stage, s.Rows, float64(s.Duration.Microseconds())/1000)
	metrics.UpdateNullCells(stage, s.Nulls)
	p.logger.Debug(context.Background(), "stage complete",
		logger.String("stage", stage),
		logger.Int("rows", s.Rows),
		logger.Int("null_cells", s.Nulls),
	)
}

func (p *Pipeline) observe(stage string, rows int, mark time.Time) {
	metrics.RecordStage(stage, rows, float64(p.now().Sub(mark).Microseconds())/1000)
}

// InferStats returns the sorted union of statistic names present in rows.
func InferStats(rows []model.TeamGame) []string {
	seen := make(map[string]struct{})
	for i := range rows {
		for name := range rows[i].Stats {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
