// Package reshape converts between team-per-row and game-per-row forms.
package reshape

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/pkg/logger"
)

type marker int

const (
	markerUnknown marker = iota
	markerHome
	markerAway
)

// Descriptor markers.
const (
	HomeMarker = "vs."
	AwayMarker = "@"
)

func parseMarker(descriptor string) marker {
	fields := strings.Fields(descriptor)
	home, away := slices.Contains(fields, HomeMarker), slices.Contains(fields, AwayMarker)
	switch {
	case home && !away:
		return markerHome
	case away && !home:
		return markerAway
	default:
		return markerUnknown
	}
}

// Summary describes a successful Pair.
type Summary struct {
	Games        int
	NeutralGames int
	// NeutralIDs lists neutral-venue game ids in output order.
	NeutralIDs []string
}

type pairer struct {
	log         logger.Logger
	maxExamples int
}

// Pair groups rows by game and resolves home and away sides.
//
// A game where both descriptors carry the away marker is a neutral-venue game:
// the alphabetically-first abbreviation becomes home and both sides are marked
// Neutral. Every game that cannot be resolved is collected into a
// *StructuralError; no game is dropped. Matchups are ordered by date, then game id.
func Pair(ctx context.Context, rows []model.TeamGame, opts ...Option) ([]model.Matchup, Summary, error) {
	p := &pairer{maxExamples: defaultMaxExamples}
	for _, opt := range opts {
		opt(p)
	}

	var order []string
	groups := make(map[string][]int)
	for i := range rows {
		id := rows[i].GameID
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], i)
	}

	var (
		out      = make([]model.Matchup, 0, len(order))
		summary  Summary
		failures *StructuralError
	)
	for _, id := range order {
		m, issue := p.resolve(rows, groups[id])
		if issue != nil {
			if failures == nil {
				failures = &StructuralError{Counts: make(map[Kind]int)}
			}
			failures.Counts[issue.Kind]++
			if failures.Counts[issue.Kind] <= p.maxExamples {
				failures.Examples = append(failures.Examples, *issue)
			}
			continue
		}
		out = append(out, m)
	}
	if failures != nil {
		return nil, summary, failures
	}

	slices.SortFunc(out, func(a, b model.Matchup) int {
		return model.CompareGames(a.Home.GameDate, a.Home.GameID, b.Home.GameDate, b.Home.GameID)
	})
	summary.Games = len(out)
	for i := range out {
		if out[i].Home.Neutral {
			summary.NeutralGames++
			summary.NeutralIDs = append(summary.NeutralIDs, out[i].GameID())
		}
	}
	if summary.NeutralGames > 0 && p.log != nil {
		p.log.Info(ctx, "neutral-venue games resolved by abbreviation tie-break",
			logger.Int("games", summary.NeutralGames),
			logger.Strings("game_ids", head(summary.NeutralIDs, p.maxExamples)),
		)
	}
	return out, summary, nil
}

func (p *pairer) resolve(rows []model.TeamGame, idx []int) (model.Matchup, *Issue) {
	teams := make([]string, len(idx))
	for i, j := range idx {
		teams[i] = rows[j].TeamID
	}
	issue := func(k Kind, format string, args ...any) *Issue {
		return &Issue{Kind: k, GameID: rows[idx[0]].GameID, Teams: teams, Detail: fmt.Sprintf(format, args...)}
	}

	switch {
	case len(idx) < 2:
		return model.Matchup{}, issue(KindMissingSide, "only one side present")
	case len(idx) > 2:
		return model.Matchup{}, issue(KindExtraRows, "%d rows", len(idx))
	}

	a, b := rows[idx[0]].Clone(), rows[idx[1]].Clone()
	switch {
	case a.TeamID == b.TeamID:
		return model.Matchup{}, issue(KindSameTeam, "team on both sides")
	case !a.GameDate.Equal(b.GameDate):
		return model.Matchup{}, issue(KindDateMismatch, "%s vs %s",
			a.GameDate.Format("2006-01-02"), b.GameDate.Format("2006-01-02"))
	case a.Season != b.Season:
		return model.Matchup{}, issue(KindSeasonMismatch, "%s vs %s", a.Season, b.Season)
	}

	ma, mb := parseMarker(a.Matchup), parseMarker(b.Matchup)
	switch {
	case ma == markerUnknown || mb == markerUnknown:
		return model.Matchup{}, issue(KindUnknownMarker, "%q / %q", a.Matchup, b.Matchup)
	case ma == markerHome && mb == markerHome:
		return model.Matchup{}, issue(KindBothHome, "%q / %q", a.Matchup, b.Matchup)
	case ma == markerAway && mb == markerAway:
		if neutralHomeFirst(&b, &a) {
			a, b = b, a
		}
		a.Neutral, b.Neutral = true, true
	case mb == markerHome:
		a, b = b, a
	}
	a.IsHome, b.IsHome = true, false
	return model.Matchup{Home: a, Away: b}, nil
}

// neutralHomeFirst reports whether x sorts before y for the neutral-venue tie-break.
func neutralHomeFirst(x, y *model.TeamGame) bool {
	if x.TeamAbbreviation != y.TeamAbbreviation {
		return x.TeamAbbreviation < y.TeamAbbreviation
	}
	return x.TeamID < y.TeamID
}

// Split is the inverse of Pair: it returns the team-per-row form, home row first,
// with canonical descriptors. Neutral games carry the away marker on both rows.
func Split(matchups []model.Matchup) []model.TeamGame {
	out := make([]model.TeamGame, 0, 2*len(matchups))
	for i := range matchups {
		home, away := matchups[i].Home.Clone(), matchups[i].Away.Clone()
		home.IsHome, away.IsHome = true, false
		home.Neutral, away.Neutral = matchups[i].Home.Neutral, matchups[i].Home.Neutral
		if home.Neutral {
			home.Matchup = Descriptor(home.TeamAbbreviation, AwayMarker, away.TeamAbbreviation)
		} else {
			home.Matchup = Descriptor(home.TeamAbbreviation, HomeMarker, away.TeamAbbreviation)
		}
		away.Matchup = Descriptor(away.TeamAbbreviation, AwayMarker, home.TeamAbbreviation)
		out = append(out, home, away)
	}
	return out
}

// Descriptor formats a matchup descriptor, e.g. "BOS vs. NYK".
func Descriptor(team, mark, opponent string) string {
	return team + " " + mark + " " + opponent
}

func head(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
