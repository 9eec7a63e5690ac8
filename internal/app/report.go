package app

import (
	"time"

	"github.com/okian/courtside/internal/domain/boundary"
	"github.com/okian/courtside/internal/domain/validate"
)

// Run outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// StageReport describes one stage's output.
type StageReport struct {
	Name     string         `json:"name"`
	Rows     int            `json:"rows"`
	Nulls    int            `json:"null_cells"`
	Columns  map[string]int `json:"null_columns,omitempty"`
	Duration time.Duration  `json:"duration_ns"`
}

// Report summarises a run.
type Report struct {
	RunID        string          `json:"run_id"`
	StartedAt    time.Time       `json:"started_at"`
	Duration     time.Duration   `json:"duration_ns"`
	Outcome      string          `json:"outcome"`
	Error        string          `json:"error,omitempty"`
	Observations int             `json:"observations"`
	Duplicates   int             `json:"duplicates"`
	Conflicts    int             `json:"conflicts"`
	Games        int             `json:"games"`
	NeutralGames []string        `json:"neutral_games,omitempty"`
	Boundary     boundary.Report `json:"boundary"`
	Output       int             `json:"output_rows"`
	Stages       []StageReport   `json:"stages"`
}

// Stage returns the report of the named stage.
func (r *Report) Stage(name string) (StageReport, bool) {
	for _, s := range r.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return StageReport{}, false
}

func (r *Report) addStage(name string, nulls validate.NullReport, took time.Duration) StageReport {
	s := StageReport{Name: name, Rows: nulls.Rows, Nulls: nulls.Total(), Duration: took}
	if len(nulls.Columns) > 0 {
		s.Columns = make(map[string]int, len(nulls.Columns))
		for _, c := range nulls.Columns {
			s.Columns[c] = nulls.Counts[c]
		}
	}
	r.Stages = append(r.Stages, s)
	return s
}
