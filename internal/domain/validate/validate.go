// Package validate counts undefined values per column after each stage.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/schema"
)

// Sentinel error kinds for this package.
var (
	ErrMissingValues = errors.New("missing values in output")
)

// NullReport is the per-column null count of one stage's output.
type NullReport struct {
	Stage string
	Rows  int
	// Columns lists the columns with at least one null, in schema order.
	Columns []string
	Counts  map[string]int
}

// Total returns the number of null cells.
func (r *NullReport) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}

func (r *NullReport) String() string {
	if len(r.Columns) == 0 {
		return r.Stage + ": no nulls"
	}
	parts := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		parts[i] = fmt.Sprintf("%s=%d", c, r.Counts[c])
	}
	return fmt.Sprintf("%s: %d null cells over %d rows (%s)", r.Stage, r.Total(), r.Rows, strings.Join(parts, " "))
}

func newReport(stage string, rows int) NullReport {
	return NullReport{Stage: stage, Rows: rows, Counts: make(map[string]int)}
}

func (r *NullReport) add(col string, n int) {
	if n == 0 {
		return
	}
	r.Columns = append(r.Columns, col)
	r.Counts[col] = n
}

// TeamNulls counts nulls in the derived columns of a team-per-row frame.
func TeamNulls(stage string, f *model.TeamFrame) NullReport {
	r := newReport(stage, len(f.Rows))
	for _, c := range f.Schema.Columns() {
		if c.Role == schema.RoleIdentifier || c.Role.Ingested() {
			continue
		}
		n := 0
		for i := range f.Rows {
			if !f.Rows[i].Feature(c.Name).Valid {
				n++
			}
		}
		r.add(c.Name, n)
	}
	return r
}

// MatchupNulls counts nulls in every non-identifier column of a matchup frame.
func MatchupNulls(stage string, f *model.MatchupFrame) NullReport {
	r := newReport(stage, len(f.Records))
	for _, c := range f.Schema.Columns() {
		if c.Role == schema.RoleIdentifier {
			continue
		}
		n := 0
		for i := range f.Records {
			if !f.Records[i].Value(c.Name).Valid {
				n++
			}
		}
		r.add(c.Name, n)
	}
	return r
}

// MissingValuesError carries the null report that failed the final check.
type MissingValuesError struct {
	Report NullReport
}

func (e *MissingValuesError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingValues, e.Report.String())
}

func (e *MissingValuesError) Unwrap() error { return ErrMissingValues }

// RequireComplete fails when any output column still holds a null.
func RequireComplete(f *model.MatchupFrame) error {
	r := MatchupNulls("final", f)
	if r.Total() > 0 {
		return &MissingValuesError{Report: r}
	}
	return nil
}
