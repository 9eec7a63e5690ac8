package features

import (
	"context"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/schema"
)

// Games-played columns.
const (
	GamesPlayed    = "GP"
	SeasonProgress = "SEASON_PROGRESS"
)

// Progress adds SEASON_PROGRESS: GP_PRIOR over the regular-season length.
// It reads the lagged games-played column and runs after Lag.
type Progress struct {
	// SeasonGames is the regular-season length; 0 disables the column.
	SeasonGames int
}

func (Progress) Name() string { return "season_progress" }

// Apply is a no-op when GP was not lagged.
func (p Progress) Apply(_ context.Context, in *model.TeamFrame) (*model.TeamFrame, error) {
	prior := schema.PriorName(GamesPlayed)
	if p.SeasonGames <= 0 || !in.Schema.Has(prior) {
		return in, nil
	}

	out := in.Clone()
	if err := out.Schema.Add(schema.Column{Name: SeasonProgress, Role: schema.RolePrior, Source: prior}); err != nil {
		return nil, err
	}
	n := float64(p.SeasonGames)
	for i := range out.Rows {
		v := out.Rows[i].Feature(prior)
		if v.Valid {
			v = model.Value(v.Float64 / n)
		}
		out.Rows[i].SetFeature(SeasonProgress, v)
	}
	return out, nil
}
