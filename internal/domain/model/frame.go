package model

import (
	"github.com/okian/courtside/internal/domain/schema"
)

// TeamFrame is a team-per-row table with its column registry.
type TeamFrame struct {
	Schema *schema.Schema
	Rows   []TeamGame
}

// Clone deep-copies the rows' Features and the schema.
func (f *TeamFrame) Clone() *TeamFrame {
	rows := make([]TeamGame, len(f.Rows))
	for i := range f.Rows {
		rows[i] = f.Rows[i].Clone()
	}
	return &TeamFrame{Schema: f.Schema.Clone(), Rows: rows}
}

// MatchupFrame is a game-per-row table with its column registry.
type MatchupFrame struct {
	Schema  *schema.Schema
	Records []MatchupRecord
}

// Clone deep-copies the records' Values and the schema.
func (f *MatchupFrame) Clone() *MatchupFrame {
	recs := make([]MatchupRecord, len(f.Records))
	for i := range f.Records {
		recs[i] = f.Records[i].Clone()
	}
	return &MatchupFrame{Schema: f.Schema.Clone(), Records: recs}
}
