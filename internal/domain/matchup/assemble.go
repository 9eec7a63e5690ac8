// Package matchup joins enriched team rows into game-level records and
// derives differential features and labels.
package matchup

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/schema"
)

// Identifier and label columns of a matchup record.
const (
	ColGameID       = "GAME_ID"
	ColGameDate     = "GAME_DATE"
	ColSeason       = "SEASON"
	ColHomeTeamID   = "HOME_TEAM_ID"
	ColAwayTeamID   = "AWAY_TEAM_ID"
	ColHomeAbbrev   = "HOME_TEAM_ABBREVIATION"
	ColAwayAbbrev   = "AWAY_TEAM_ABBREVIATION"
	ColNeutralVenue = "NEUTRAL_VENUE"

	LabelHomeWin = "HOME_WIN"
	LabelHomePts = "HOME_PTS"
	LabelAwayPts = "AWAY_PTS"
	LabelSpread  = "SPREAD"
	LabelTotal   = "TOTAL"
)

// IdentifierColumns are emitted first, in this order.
var IdentifierColumns = []string{ //nolint:gochecknoglobals // fixed output order
	ColGameID, ColGameDate, ColSeason, ColHomeTeamID, ColAwayTeamID,
	ColHomeAbbrev, ColAwayAbbrev, ColNeutralVenue,
}

// Assemble joins the home and away rows of every game into one record.
//
// Team-level feature columns are copied with HOME_/AWAY_ prefixes; final
// scores and the result are copied unshifted as labels. Every distinct game
// id in the input must produce exactly one record, otherwise a
// *JoinLossError is returned. Records are ordered by date, then game id.
func Assemble(_ context.Context, in *model.TeamFrame) (*model.MatchupFrame, error) {
	type sides struct{ home, away []int }
	games := make(map[string]*sides)
	for i := range in.Rows {
		s, ok := games[in.Rows[i].GameID]
		if !ok {
			s = &sides{}
			games[in.Rows[i].GameID] = s
		}
		if in.Rows[i].IsHome {
			s.home = append(s.home, i)
		} else {
			s.away = append(s.away, i)
		}
	}

	teamCols := in.Schema.TeamFeatures()
	sch, err := recordSchema(teamCols)
	if err != nil {
		return nil, err
	}

	var missing []string
	records := make([]model.MatchupRecord, 0, len(games))
	for id, s := range games {
		if len(s.home) != 1 || len(s.away) != 1 {
			missing = append(missing, id)
			continue
		}
		home, away := &in.Rows[s.home[0]], &in.Rows[s.away[0]]
		if home.Won == away.Won {
			return nil, fmt.Errorf("%w: game %s", ErrConflictingScore, id)
		}

		r := model.MatchupRecord{
			GameID:           id,
			GameDate:         home.GameDate,
			Season:           home.Season,
			HomeTeamID:       home.TeamID,
			AwayTeamID:       away.TeamID,
			HomeAbbreviation: home.TeamAbbreviation,
			AwayAbbreviation: away.TeamAbbreviation,
			Neutral:          home.Neutral,
			HomeWin:          home.Won,
			HomePoints:       home.Points,
			AwayPoints:       away.Points,
			Values:           make(map[string]sql.NullFloat64, 2*len(teamCols)+3),
		}
		for _, c := range teamCols {
			r.Values[schema.Prefixed(schema.Home, c.Name)] = home.Feature(c.Name)
			r.Values[schema.Prefixed(schema.Away, c.Name)] = away.Feature(c.Name)
		}
		r.Values[LabelHomeWin] = model.Bool(r.HomeWin)
		r.Values[LabelHomePts] = model.Value(r.HomePoints)
		r.Values[LabelAwayPts] = model.Value(r.AwayPoints)
		records = append(records, r)
	}

	if len(missing) > 0 || len(records) != len(games) {
		slices.Sort(missing)
		return nil, &JoinLossError{Before: len(games), After: len(records), GameIDs: missing}
	}

	slices.SortFunc(records, func(a, b model.MatchupRecord) int {
		return model.CompareGames(a.GameDate, a.GameID, b.GameDate, b.GameID)
	})
	return &model.MatchupFrame{Schema: sch, Records: records}, nil
}

func recordSchema(teamCols []schema.Column) (*schema.Schema, error) {
	cols := make([]schema.Column, 0, len(IdentifierColumns)+2*len(teamCols)+3)
	for _, name := range IdentifierColumns {
		cols = append(cols, schema.Column{Name: name, Role: schema.RoleIdentifier})
	}
	for _, side := range []schema.Side{schema.Home, schema.Away} {
		for _, c := range teamCols {
			cols = append(cols, schema.Column{
				Name:     schema.Prefixed(side, c.Name),
				Role:     c.Role,
				Source:   c.Name,
				DiffName: c.DiffName,
				Side:     side,
			})
		}
	}
	for _, name := range []string{LabelHomeWin, LabelHomePts, LabelAwayPts} {
		cols = append(cols, schema.Column{Name: name, Role: schema.RoleLabel})
	}

	sch := schema.New()
	for _, c := range cols {
		if err := sch.Add(c); err != nil {
			return nil, err
		}
	}
	return sch, nil
}
