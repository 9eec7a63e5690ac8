// Package model contains domain models passed between pipeline stages.
package model

import (
	"cmp"
	"database/sql"
	"maps"
	"time"
)

// Pseudo-statistics resolvable through TeamGame.Stat.
const (
	StatPoints = "PTS" // final score
	StatWin    = "WIN" // 1 for a win, 0 for a loss
)

// TeamGame is one team's participation in one game.
// Stats is read-only after ingestion; derived columns go to Features.
type TeamGame struct {
	GameID           string
	TeamID           string
	TeamAbbreviation string
	GameDate         time.Time // civil date at UTC midnight
	Season           string
	Matchup          string // descriptor, e.g. "BOS vs. NYK" or "NYK @ BOS"
	IsHome           bool
	Neutral          bool
	Won              bool
	Points           float64
	Stats            map[string]float64
	Features         map[string]sql.NullFloat64
}

// Stat resolves a statistic by name, including the PTS and WIN pseudo-statistics.
func (g TeamGame) Stat(name string) (float64, bool) {
	switch name {
	case StatPoints:
		return g.Points, true
	case StatWin:
		if g.Won {
			return 1, true
		}
		return 0, true
	}
	v, ok := g.Stats[name]
	return v, ok
}

// Feature returns a derived column, null when absent.
func (g TeamGame) Feature(name string) sql.NullFloat64 {
	return g.Features[name]
}

// SetFeature stores a derived column.
func (g *TeamGame) SetFeature(name string, v sql.NullFloat64) {
	if g.Features == nil {
		g.Features = make(map[string]sql.NullFloat64)
	}
	g.Features[name] = v
}

// Clone copies the row and its Features map. Stats is shared.
func (g TeamGame) Clone() TeamGame {
	c := g
	c.Features = maps.Clone(g.Features)
	if c.Features == nil {
		c.Features = make(map[string]sql.NullFloat64)
	}
	return c
}

// Value wraps f as a defined value.
func Value(f float64) sql.NullFloat64 { return sql.NullFloat64{Float64: f, Valid: true} }

// Null is the undefined value.
func Null() sql.NullFloat64 { return sql.NullFloat64{} }

// Bool encodes b as 1 or 0.
func Bool(b bool) sql.NullFloat64 {
	if b {
		return Value(1)
	}
	return Value(0)
}

// Date returns the civil date y-m-d at UTC midnight.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CompareGames orders games by date, then game id.
func CompareGames(dateA time.Time, idA string, dateB time.Time, idB string) int {
	if c := dateA.Compare(dateB); c != 0 {
		return c
	}
	return cmp.Compare(idA, idB)
}
