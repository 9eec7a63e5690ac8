package features

import (
	"context"
	"fmt"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/schema"
	"github.com/okian/courtside/internal/domain/timeline"
)

// Momentum feature columns.
const (
	MomentumName = "MOMENTUM"
	WinStreak    = "WIN_STREAK"
)

// Momentum derives short-vs-long win form and the streak entering each game.
//
// MOMENTUM is WIN_L<Short> minus WIN_L<Long>, read from columns the Rolling
// stage already produced. WIN_STREAK is positive for consecutive wins,
// negative for losses, and 0 entering a team's first game of a season.
type Momentum struct {
	ShortWindow int
	LongWindow  int
	Exec        Executor
}

func (Momentum) Name() string { return "momentum" }

func (m Momentum) Apply(ctx context.Context, in *model.TeamFrame) (*model.TeamFrame, error) {
	short := schema.RollingName(model.StatWin, m.ShortWindow)
	long := schema.RollingName(model.StatWin, m.LongWindow)
	for _, name := range []string{short, long} {
		if !in.Schema.Has(name) {
			return nil, fmt.Errorf("%w: %s needs %s", ErrMissingDependency, MomentumName, name)
		}
	}

	cols := []schema.Column{
		{Name: MomentumName, Role: schema.RoleMomentum, Source: model.StatWin},
		{Name: WinStreak, Role: schema.RoleMomentum, Source: model.StatWin},
	}

	return perTimeline(ctx, in, m.Exec, true, cols, func(rows []model.TeamGame, t timeline.Timeline) {
		streak := 0
		for _, i := range t.Index {
			g := &rows[i]
			s, l := g.Feature(short), g.Feature(long)
			if s.Valid && l.Valid {
				g.SetFeature(MomentumName, model.Value(s.Float64-l.Float64))
			} else {
				g.SetFeature(MomentumName, model.Null())
			}

			g.SetFeature(WinStreak, model.Value(float64(streak)))
			switch {
			case g.Won && streak > 0:
				streak++
			case g.Won:
				streak = 1
			case streak < 0:
				streak--
			default:
				streak = -1
			}
		}
	})
}
