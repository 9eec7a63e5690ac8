package h2h

import (
	"fmt"
	"slices"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/schema"
)

// Head-to-head columns.
const (
	GamesPlayed = "H2H_GAMES"
	HomeWinPct  = "H2H_HOME_WIN_PCT"
)

// NeutralPrior is the home win share reported before a pair's first meeting.
const NeutralPrior = 0.5

// Accumulate walks records in global (date, game id) order. For each game it
// first reads the pair's tally into H2H_GAMES and H2H_HOME_WIN_PCT, then
// records the result. The input frame and ledger are not modified; the
// returned ledger continues from ledger.
func Accumulate(ledger *Ledger, in *model.MatchupFrame) (*model.MatchupFrame, *Ledger, error) {
	out := in.Clone()
	for _, c := range []schema.Column{
		{Name: GamesPlayed, Role: schema.RoleHeadToHead},
		{Name: HomeWinPct, Role: schema.RoleHeadToHead},
	} {
		if err := out.Schema.Add(c); err != nil {
			return nil, nil, err
		}
	}

	order := make([]int, len(out.Records))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		ra, rb := &out.Records[a], &out.Records[b]
		return model.CompareGames(ra.GameDate, ra.GameID, rb.GameDate, rb.GameID)
	})

	next := ledger.Clone()
	for j, i := range order {
		r := &out.Records[i]
		if j > 0 && out.Records[order[j-1]].GameID == r.GameID {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateGame, r.GameID)
		}
		if r.HomeTeamID == r.AwayTeamID {
			return nil, nil, fmt.Errorf("%w: game %s team %s", ErrSelfMatchup, r.GameID, r.HomeTeamID)
		}

		k := KeyOf(r.HomeTeamID, r.AwayTeamID)
		t := next.pairs[k]
		r.SetValue(GamesPlayed, model.Value(float64(t.Games)))
		pct := NeutralPrior
		if t.Games > 0 {
			pct = float64(t.WinsFor(k, r.HomeTeamID)) / float64(t.Games)
		}
		r.SetValue(HomeWinPct, model.Value(pct))

		if r.HomeWin {
			next.Record(r.HomeTeamID, r.AwayTeamID)
		} else {
			next.Record(r.AwayTeamID, r.HomeTeamID)
		}
	}
	return out, next, nil
}
