package features

import (
	"context"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/schema"
	"github.com/okian/courtside/internal/domain/timeline"
)

// Rolling adds <STAT>_L<W>: the mean of STAT over the team's last W games,
// excluding the current one. Early games average what is available; the
// first game of a partition is null.
type Rolling struct {
	Stats        []string
	Windows      []int
	SeasonScoped bool
	Exec         Executor
}

func (Rolling) Name() string { return "rolling" }

func (r Rolling) Apply(ctx context.Context, in *model.TeamFrame) (*model.TeamFrame, error) {
	type target struct {
		stat   string
		window int
		name   string
	}
	var (
		targets []target
		cols    []schema.Column
	)
	for _, s := range r.Stats {
		if s != model.StatWin && s != model.StatPoints && !in.Schema.Has(s) {
			continue
		}
		for _, w := range r.Windows {
			name := schema.RollingName(s, w)
			targets = append(targets, target{stat: s, window: w, name: name})
			cols = append(cols, schema.Column{Name: name, Role: schema.RoleRolling, Source: s})
		}
	}

	return perTimeline(ctx, in, r.Exec, r.SeasonScoped, cols, func(rows []model.TeamGame, t timeline.Timeline) {
		for j, i := range t.Index {
			for _, sp := range targets {
				rows[i].SetFeature(sp.name, meanOf(rows, prior(t.Index, j, sp.window), stat(sp.stat)))
			}
		}
	})
}
