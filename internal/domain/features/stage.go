// Package features derives leakage-free per-team columns from team timelines.
//
// Every stage clones its input, partitions it with timeline.Partition and
// computes each partition independently; a value for a game only reads the
// same team's earlier games.
package features

import (
	"context"
	"database/sql"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/schema"
	"github.com/okian/courtside/internal/domain/timeline"
)

// Stage transforms a team-per-row frame into a new frame with added columns.
type Stage interface {
	Name() string
	Apply(ctx context.Context, in *model.TeamFrame) (*model.TeamFrame, error)
}

// Executor runs independent jobs, possibly in parallel.
type Executor interface {
	Run(ctx context.Context, jobs []func(context.Context) error) error
}

type sequential struct{}

func (sequential) Run(ctx context.Context, jobs []func(context.Context) error) error {
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := job(ctx); err != nil {
			return err
		}
	}
	return nil
}

func executor(e Executor) Executor {
	if e == nil {
		return sequential{}
	}
	return e
}

// perTimeline clones in, registers cols and runs fn once per partition.
func perTimeline(
	ctx context.Context,
	in *model.TeamFrame,
	exec Executor,
	seasonScoped bool,
	cols []schema.Column,
	fn func(rows []model.TeamGame, t timeline.Timeline),
) (*model.TeamFrame, error) {
	out := in.Clone()
	for _, c := range cols {
		if err := out.Schema.Add(c); err != nil {
			return nil, err
		}
	}

	timelines, err := timeline.Partition(out.Rows, seasonScoped)
	if err != nil {
		return nil, err
	}

	jobs := make([]func(context.Context) error, len(timelines))
	for i := range timelines {
		t := timelines[i]
		jobs[i] = func(context.Context) error {
			fn(out.Rows, t)
			return nil
		}
	}
	if err := executor(exec).Run(ctx, jobs); err != nil {
		return nil, err
	}
	return out, nil
}

// prior returns the indexes of up to w games before position j.
func prior(idx []int, j, w int) []int {
	return idx[max(0, j-w):j]
}

// meanOf averages the defined values over the rows at idx, null when there are none.
func meanOf(rows []model.TeamGame, idx []int, get func(*model.TeamGame) (float64, bool)) sql.NullFloat64 {
	sum, n := 0.0, 0
	for _, i := range idx {
		if v, ok := get(&rows[i]); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return model.Null()
	}
	return model.Value(sum / float64(n))
}

// sumOf adds the defined values over the rows at idx, null when there are none.
func sumOf(rows []model.TeamGame, idx []int, get func(*model.TeamGame) (float64, bool)) sql.NullFloat64 {
	sum, n := 0.0, 0
	for _, i := range idx {
		if v, ok := get(&rows[i]); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return model.Null()
	}
	return model.Value(sum)
}

// feature adapts a derived column to a getter.
func feature(name string) func(*model.TeamGame) (float64, bool) {
	return func(g *model.TeamGame) (float64, bool) {
		v := g.Feature(name)
		return v.Float64, v.Valid
	}
}

// orZero reads an undefined value as 0.
func orZero(get func(*model.TeamGame) (float64, bool)) func(*model.TeamGame) (float64, bool) {
	return func(g *model.TeamGame) (float64, bool) {
		if v, ok := get(g); ok {
			return v, true
		}
		return 0, true
	}
}

// stat adapts an ingested statistic to a getter.
func stat(name string) func(*model.TeamGame) (float64, bool) {
	return func(g *model.TeamGame) (float64, bool) {
		return g.Stat(name)
	}
}
