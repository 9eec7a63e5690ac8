// Package boundary removes games at the start of each season, where prior
// and trailing features are undefined by construction.
package boundary

import (
	"context"
	"slices"

	"github.com/okian/courtside/internal/domain/model"
)

// SeasonStats is the removal accounting of one season.
type SeasonStats struct {
	Season  string `json:"season"`
	Teams   int    `json:"teams"`
	Games   int    `json:"games"`
	Removed int    `json:"removed"`
	// Min and Max bound Removed: every team's opening slots sit in removed
	// games and one game holds at most two of them.
	Min     int    `json:"min_removed"`
	Max     int    `json:"max_removed"`
}

// Report summarises a Filter run, seasons in ascending order.
type Report struct {
	FirstGames int           `json:"first_games"`
	Seasons    []SeasonStats `json:"seasons"`
	Kept       int           `json:"kept"`
}

// Removed returns the total number of removed games.
func (r *Report) Removed() int {
	n := 0
	for _, s := range r.Seasons {
		n += s.Removed
	}
	return n
}

// Filter drops every record in which either team is within its first
// firstGames games of the season. Counters are fresh per season. The
// per-season removal count is checked against bounds taken from the
// season's appearances and a *BoundsError returned on violation.
func Filter(_ context.Context, in *model.MatchupFrame, firstGames int) (*model.MatchupFrame, Report, error) {
	return filter(in, firstGames, func() map[string]int { return make(map[string]int) })
}

// filter takes its drop-walk counters from counters, once per season.
func filter(in *model.MatchupFrame, firstGames int, counters func() map[string]int) (*model.MatchupFrame, Report, error) {
	bySeason := make(map[string][]int)
	for i := range in.Records {
		bySeason[in.Records[i].Season] = append(bySeason[in.Records[i].Season], i)
	}
	seasons := make([]string, 0, len(bySeason))
	for s := range bySeason {
		seasons = append(seasons, s)
	}
	slices.Sort(seasons)

	drop := make([]bool, len(in.Records))
	report := Report{FirstGames: firstGames}
	for _, season := range seasons {
		idx := bySeason[season]
		slices.SortFunc(idx, func(a, b int) int {
			ra, rb := &in.Records[a], &in.Records[b]
			return model.CompareGames(ra.GameDate, ra.GameID, rb.GameDate, rb.GameID)
		})

		stats := bounds(in.Records, idx, firstGames)
		stats.Season = season
		played := counters()
		for _, i := range idx {
			r := &in.Records[i]
			if played[r.HomeTeamID] < firstGames || played[r.AwayTeamID] < firstGames {
				drop[i] = true
				stats.Removed++
			}
			played[r.HomeTeamID]++
			played[r.AwayTeamID]++
		}
		report.Seasons = append(report.Seasons, stats)
	}

	out := &model.MatchupFrame{Schema: in.Schema.Clone(), Records: make([]model.MatchupRecord, 0, len(in.Records))}
	for i := range in.Records {
		if !drop[i] {
			out.Records = append(out.Records, in.Records[i].Clone())
		}
	}
	report.Kept = len(out.Records)

	if err := Check(report.Seasons); err != nil {
		return nil, report, err
	}
	return out, report, nil
}

// bounds counts each team's appearances in the season's records at idx.
// A team contributes min(appearances, firstGames) opening slots.
func bounds(records []model.MatchupRecord, idx []int, firstGames int) SeasonStats {
	appearances := make(map[string]int)
	for _, i := range idx {
		appearances[records[i].HomeTeamID]++
		appearances[records[i].AwayTeamID]++
	}
	stats := SeasonStats{Teams: len(appearances), Games: len(idx)}
	for _, n := range appearances {
		stats.Max += min(n, firstGames)
	}
	stats.Min = (stats.Max + 1) / 2
	return stats
}

// Check verifies Min <= Removed <= Max for every season.
func Check(seasons []SeasonStats) error {
	var bad []SeasonStats
	for _, s := range seasons {
		if s.Removed < s.Min || s.Removed > s.Max {
			bad = append(bad, s)
		}
	}
	if len(bad) > 0 {
		return &BoundsError{Seasons: bad}
	}
	return nil
}
