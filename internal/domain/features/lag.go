package features

import (
	"context"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/schema"
	"github.com/okian/courtside/internal/domain/timeline"
)

// Fill is the policy for a partition's first game, which has no predecessor.
type Fill string

const (
	FillNone Fill = "none" // leave null until the boundary filter removes the game
	FillZero Fill = "zero"
)

// Lag adds <COL>_PRIOR: the same team's value from its previous game.
type Lag struct {
	Columns      []string
	SeasonScoped bool
	Fill         Fill
	Exec         Executor
}

func (Lag) Name() string { return "lag" }

// Apply lags every configured column present in the input schema.
func (l Lag) Apply(ctx context.Context, in *model.TeamFrame) (*model.TeamFrame, error) {
	var (
		sources []string
		cols    []schema.Column
	)
	for _, c := range l.Columns {
		if !in.Schema.Has(c) {
			continue
		}
		sources = append(sources, c)
		cols = append(cols, schema.Column{Name: schema.PriorName(c), Role: schema.RolePrior, Source: c})
	}

	first := model.Null()
	if l.Fill == FillZero {
		first = model.Value(0)
	}

	return perTimeline(ctx, in, l.Exec, l.SeasonScoped, cols, func(rows []model.TeamGame, t timeline.Timeline) {
		for j, i := range t.Index {
			for k, src := range sources {
				if j == 0 {
					rows[i].SetFeature(cols[k].Name, first)
					continue
				}
				v := model.Null()
				if prev, ok := rows[t.Index[j-1]].Stat(src); ok {
					v = model.Value(prev)
				}
				rows[i].SetFeature(cols[k].Name, v)
			}
		}
	})
}
