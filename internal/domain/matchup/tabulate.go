package matchup

import (
	"strconv"
	"strings"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/schema"
)

// DateLayout is the GAME_DATE output format.
const DateLayout = "2006-01-02"

// Columns returns the output column order: identifiers, HOME_ features,
// AWAY_ features, head-to-head, differentials, then labels.
func Columns(s *schema.Schema) []schema.Column {
	groups := make([][]schema.Column, 6)
	for _, c := range s.Columns() {
		switch {
		case c.Role == schema.RoleIdentifier:
			groups[0] = append(groups[0], c)
		case c.Role.TeamFeature() && c.Side == schema.Home:
			groups[1] = append(groups[1], c)
		case c.Role.TeamFeature() && c.Side == schema.Away:
			groups[2] = append(groups[2], c)
		case c.Role == schema.RoleHeadToHead:
			groups[3] = append(groups[3], c)
		case c.Role == schema.RoleDiff:
			groups[4] = append(groups[4], c)
		case c.Role == schema.RoleLabel:
			groups[5] = append(groups[5], c)
		}
	}
	var out []schema.Column
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Tabulate renders the frame as a header and string rows. Null cells are empty.
func Tabulate(f *model.MatchupFrame, lowercase bool) ([]string, [][]string) {
	cols := Columns(f.Schema)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Name
		if lowercase {
			header[i] = strings.ToLower(c.Name)
		}
	}

	rows := make([][]string, len(f.Records))
	for i := range f.Records {
		r := &f.Records[i]
		row := make([]string, len(cols))
		for j, c := range cols {
			if c.Role == schema.RoleIdentifier {
				row[j] = identifier(r, c.Name)
				continue
			}
			if v := r.Value(c.Name); v.Valid {
				row[j] = FormatFloat(v.Float64)
			}
		}
		rows[i] = row
	}
	return header, rows
}

func identifier(r *model.MatchupRecord, name string) string {
	switch name {
	case ColGameID:
		return r.GameID
	case ColGameDate:
		return r.GameDate.Format(DateLayout)
	case ColSeason:
		return r.Season
	case ColHomeTeamID:
		return r.HomeTeamID
	case ColAwayTeamID:
		return r.AwayTeamID
	case ColHomeAbbrev:
		return r.HomeAbbreviation
	case ColAwayAbbrev:
		return r.AwayAbbreviation
	case ColNeutralVenue:
		if r.Neutral {
			return "1"
		}
		return "0"
	}
	return ""
}

// FormatFloat renders v in its shortest exact decimal form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
