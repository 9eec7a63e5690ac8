package model

import (
	"database/sql"
	"maps"
	"time"
)

// Matchup is the canonical home/away pair of one game.
type Matchup struct {
	Home TeamGame
	Away TeamGame
}

// GameID returns the shared game id.
func (m Matchup) GameID() string { return m.Home.GameID }

// MatchupRecord is one game viewed as a single row with two sides.
type MatchupRecord struct {
	GameID           string
	GameDate         time.Time
	Season           string
	HomeTeamID       string
	AwayTeamID       string
	HomeAbbreviation string
	AwayAbbreviation string
	Neutral          bool
	HomeWin          bool
	HomePoints       float64
	AwayPoints       float64
	Values           map[string]sql.NullFloat64
}

// Spread is the home margin of victory.
func (r MatchupRecord) Spread() float64 { return r.HomePoints - r.AwayPoints }

// Total is the combined final score.
func (r MatchupRecord) Total() float64 { return r.HomePoints + r.AwayPoints }

// Value returns a column, null when absent.
func (r MatchupRecord) Value(name string) sql.NullFloat64 { return r.Values[name] }

// SetValue stores a column.
func (r *MatchupRecord) SetValue(name string, v sql.NullFloat64) {
	if r.Values == nil {
		r.Values = make(map[string]sql.NullFloat64)
	}
	r.Values[name] = v
}

// Clone copies the record and its Values map.
func (r MatchupRecord) Clone() MatchupRecord {
	c := r
	c.Values = maps.Clone(r.Values)
	if c.Values == nil {
		c.Values = make(map[string]sql.NullFloat64)
	}
	return c
}
