package matchup

import (
	"context"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/schema"
)

// Differentials adds HOME minus AWAY for every paired team-level feature,
// null when either side is null, plus the SPREAD and TOTAL labels.
// Positive values favour the home side.
func Differentials(_ context.Context, in *model.MatchupFrame) (*model.MatchupFrame, error) {
	out := in.Clone()

	type pair struct{ home, away, diff string }
	var pairs []pair
	for _, c := range in.Schema.Columns() {
		if c.Side != schema.Home || !c.Role.TeamFeature() {
			continue
		}
		away := schema.Prefixed(schema.Away, c.Source)
		if !in.Schema.Has(away) {
			continue
		}
		diff := schema.Column{Name: c.Source, DiffName: c.DiffName}.Differential()
		if err := out.Schema.Add(schema.Column{Name: diff, Role: schema.RoleDiff, Source: c.Source}); err != nil {
			return nil, err
		}
		pairs = append(pairs, pair{home: c.Name, away: away, diff: diff})
	}
	for _, name := range []string{LabelSpread, LabelTotal} {
		if err := out.Schema.Add(schema.Column{Name: name, Role: schema.RoleLabel}); err != nil {
			return nil, err
		}
	}

	for i := range out.Records {
		r := &out.Records[i]
		for _, p := range pairs {
			h, a := r.Value(p.home), r.Value(p.away)
			if h.Valid && a.Valid {
				r.SetValue(p.diff, model.Value(h.Float64-a.Float64))
			} else {
				r.SetValue(p.diff, model.Null())
			}
		}
		r.SetValue(LabelSpread, model.Value(r.Spread()))
		r.SetValue(LabelTotal, model.Value(r.Total()))
	}
	return out, nil
}
