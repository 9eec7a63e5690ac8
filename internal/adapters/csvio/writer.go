package csvio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/okian/courtside/internal/domain/boundary"
	"github.com/okian/courtside/internal/domain/matchup"
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/schema"
	"github.com/okian/courtside/internal/domain/split"
)

const (
	splitSummaryFile  = "split_summary.csv"
	seasonSummaryFile = "season_summary.csv"
)

// WriteTable writes f with the training-table column order.
func WriteTable(w io.Writer, f *model.MatchupFrame, lowercase bool) error {
	header, rows := matchup.Tabulate(f, lowercase)

	cw := gocsv.DefaultCSVWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes f to path, or stdout when path is "-". Files are
// written to a temporary sibling and renamed, so a failed write never
// leaves a partial table behind.
func WriteFile(path string, f *model.MatchupFrame, lowercase bool) error {
	if path == "-" || path == "" {
		return WriteTable(os.Stdout, f, lowercase)
	}
	return atomically(path, func(w io.Writer) error {
		return WriteTable(w, f, lowercase)
	})
}

// splitSummaryRow is one line of the split summary.
type splitSummaryRow struct {
	Part        string  `csv:"part"`
	Games       int     `csv:"games"`
	From        string  `csv:"from"`
	To          string  `csv:"to"`
	HomeWinRate float64 `csv:"home_win_rate"`
}

// seasonSummaryRow is one line of the season-boundary summary.
type seasonSummaryRow struct {
	Season  string `csv:"season"`
	Teams   int    `csv:"teams"`
	Games   int    `csv:"games"`
	Removed int    `csv:"removed"`
	Min     int    `csv:"min_removed"`
	Max     int    `csv:"max_removed"`
}

// WriteSplits writes one table per part plus a summary into dir.
func WriteSplits(dir string, res split.Result, s *schema.Schema, lowercase bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create split dir: %w", err)
	}

	summary := make([]*splitSummaryRow, 0, len(res.Parts))
	for i := range res.Parts {
		part := &res.Parts[i]
		frame := &model.MatchupFrame{Schema: s, Records: part.Records}
		if err := WriteFile(filepath.Join(dir, part.Name+".csv"), frame, lowercase); err != nil {
			return fmt.Errorf("write %s split: %w", part.Name, err)
		}
		row := &splitSummaryRow{Part: part.Name, Games: len(part.Records), HomeWinRate: part.HomeWinRate()}
		if len(part.Records) > 0 {
			row.From = part.From.Format(matchup.DateLayout)
			row.To = part.To.Format(matchup.DateLayout)
		}
		summary = append(summary, row)
	}

	return atomically(filepath.Join(dir, splitSummaryFile), func(w io.Writer) error {
		return gocsv.Marshal(&summary, w)
	})
}

// WriteSeasonSummary writes the per-season removal accounting of a boundary filter run.
func WriteSeasonSummary(w io.Writer, r boundary.Report) error {
	rows := make([]*seasonSummaryRow, 0, len(r.Seasons))
	for _, s := range r.Seasons {
		rows = append(rows, &seasonSummaryRow{
			Season:  s.Season,
			Teams:   s.Teams,
			Games:   s.Games,
			Removed: s.Removed,
			Min:     s.Min,
			Max:     s.Max,
		})
	}
	return gocsv.Marshal(&rows, w)
}

// WriteSeasonSummaryFile writes the season summary into dir.
func WriteSeasonSummaryFile(dir string, r boundary.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create summary dir: %w", err)
	}
	return atomically(filepath.Join(dir, seasonSummaryFile), func(w io.Writer) error {
		return WriteSeasonSummary(w, r)
	})
}

func atomically(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after rename

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

// WriteObservations writes team-per-row observations with the given
// statistic columns after the identifying columns. Absent statistics are
// left empty.
func WriteObservations(w io.Writer, rows []model.TeamGame, stats []string) error {
	header := append([]string{
		ColGameID, ColTeamID, ColAbbreviation, ColGameDate, ColSeason, ColMatchup, ColWL, ColPoints,
	}, stats...)

	cw := gocsv.DefaultCSVWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	line := make([]string, len(header))
	for i := range rows {
		g := &rows[i]
		wl := "L"
		if g.Won {
			wl = "W"
		}
		line = append(line[:0],
			g.GameID, g.TeamID, g.TeamAbbreviation, g.GameDate.Format(matchup.DateLayout),
			g.Season, g.Matchup, wl, matchup.FormatFloat(g.Points),
		)
		for _, s := range stats {
			v, ok := g.Stats[s]
			if !ok {
				line = append(line, "")
				continue
			}
			line = append(line, matchup.FormatFloat(v))
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteObservationsFile writes observations to path, or stdout when path is "-".
func WriteObservationsFile(path string, rows []model.TeamGame, stats []string) error {
	if path == "-" || path == "" {
		return WriteObservations(os.Stdout, rows, stats)
	}
	return atomically(path, func(w io.Writer) error {
		return WriteObservations(w, rows, stats)
	})
}
