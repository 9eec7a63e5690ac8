package features

import (
	"context"
	"time"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/schema"
	"github.com/okian/courtside/internal/domain/timeline"
)

// Rest feature columns.
const (
	DaysRest      = "DAYS_REST"
	BackToBack    = "B2B"
	OptimalRest   = "OPTIMAL_REST"
	OverRested    = "OVER_RESTED"
	RestAdvantage = "REST_ADVANTAGE" // differential name of DAYS_REST
)

// Rest derives schedule features per team and season.
//
// DAYS_REST is known before tip-off and is not shifted. Its trailing
// aggregates (B2B_IN_L<W>, AVG_REST_L<W>) exclude the current game and are
// null on a team's first game of the season. An undefined rest counts as
// not back-to-back and is left out of the average.
type Rest struct {
	// FillFirstGame substitutes FirstGameDaysRest for the undefined first-game rest.
	// FirstGameDaysRest is also the average when no earlier rest is defined.
	FillFirstGame     bool
	FirstGameDaysRest float64
	OptimalMin        float64
	OptimalMax        float64
	OverRested        float64
	Windows           []int
	AverageWindow     int
	Exec              Executor
}

func (Rest) Name() string { return "rest" }

func (r Rest) Apply(ctx context.Context, in *model.TeamFrame) (*model.TeamFrame, error) {
	cols := []schema.Column{
		{Name: DaysRest, Role: schema.RoleRest, Source: DaysRest, DiffName: RestAdvantage},
		{Name: BackToBack, Role: schema.RoleRest, Source: DaysRest},
		{Name: OptimalRest, Role: schema.RoleRest, Source: DaysRest},
		{Name: OverRested, Role: schema.RoleRest, Source: DaysRest},
	}
	b2bIn := make([]string, len(r.Windows))
	for k, w := range r.Windows {
		b2bIn[k] = schema.RollingName("B2B_IN", w)
		cols = append(cols, schema.Column{Name: b2bIn[k], Role: schema.RoleRest, Source: BackToBack})
	}
	avgRest := schema.RollingName("AVG_REST", r.AverageWindow)
	cols = append(cols, schema.Column{Name: avgRest, Role: schema.RoleRest, Source: DaysRest})

	return perTimeline(ctx, in, r.Exec, true, cols, func(rows []model.TeamGame, t timeline.Timeline) {
		for j, i := range t.Index {
			days := model.Null()
			switch {
			case j > 0:
				days = model.Value(calendarDays(rows[t.Index[j-1]].GameDate, rows[i].GameDate))
			case r.FillFirstGame:
				days = model.Value(r.FirstGameDaysRest)
			}

			g := &rows[i]
			g.SetFeature(DaysRest, days)
			if days.Valid {
				g.SetFeature(BackToBack, model.Bool(days.Float64 <= 1))
				g.SetFeature(OptimalRest, model.Bool(days.Float64 >= r.OptimalMin && days.Float64 <= r.OptimalMax))
				g.SetFeature(OverRested, model.Bool(days.Float64 >= r.OverRested))
			} else {
				g.SetFeature(BackToBack, model.Null())
				g.SetFeature(OptimalRest, model.Null())
				g.SetFeature(OverRested, model.Null())
			}

			// Earlier rows of this timeline are complete: rows are visited in order.
			for k, w := range r.Windows {
				v := model.Null()
				if j > 0 {
					v = sumOf(rows, prior(t.Index, j, w), orZero(feature(BackToBack)))
				}
				g.SetFeature(b2bIn[k], v)
			}
			avg := model.Null()
			if j > 0 {
				avg = meanOf(rows, prior(t.Index, j, r.AverageWindow), feature(DaysRest))
				if !avg.Valid {
					avg = model.Value(r.FirstGameDaysRest)
				}
			}
			g.SetFeature(avgRest, avg)
		}
	})
}

// calendarDays counts whole days between two civil dates.
func calendarDays(from, to time.Time) float64 {
	return float64(to.Sub(from).Round(time.Hour) / (24 * time.Hour))
}
