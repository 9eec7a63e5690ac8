// Package csvio reads team-game observations from CSV and writes the
// training table, its chronological splits and run summaries back out.
package csvio

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/reshape"
	"github.com/okian/courtside/pkg/logger"
)

// Layout selects how input rows are interpreted.
type Layout string

// Input layouts.
const (
	LayoutAuto Layout = "auto" // game-level when HOME_TEAM_ID is present
	LayoutTeam Layout = "team" // one row per team per game
	LayoutGame Layout = "game" // one row per game, HOME_/AWAY_ prefixed
)

// Input column names.
const (
	ColGameID       = "GAME_ID"
	ColTeamID       = "TEAM_ID"
	ColAbbreviation = "TEAM_ABBREVIATION"
	ColGameDate     = "GAME_DATE"
	ColSeason       = "SEASON"
	ColSeasonID     = "SEASON_ID"
	ColMatchup      = "MATCHUP"
	ColWL           = "WL"
	ColPoints       = "PTS"
	ColHomeWin      = "HOME_WIN"
	ColNeutral      = "NEUTRAL_VENUE"

	homePrefix = "HOME_"
	awayPrefix = "AWAY_"
)

// descriptiveColumns are text columns carried by NBA stats exports that are
// not statistics.
var descriptiveColumns = []string{ //nolint:gochecknoglobals // fixed column list
	"TEAM_NAME", "TEAM_CITY", "SEASON_TYPE", "VIDEO_AVAILABLE", "GAME_STATUS",
}

var dateLayouts = []string{ //nolint:gochecknoglobals // accepted date formats
	time.DateOnly,
	"2006-01-02T15:04:05",
	time.DateTime,
	"Jan 02, 2006",
	"01/02/2006",
}

// Table is the parsed input.
type Table struct {
	Layout Layout
	Rows   []model.TeamGame
	// Stats lists ingested statistic columns in header order.
	Stats []string
}

// Reader parses CSV input into team-game rows.
type Reader struct {
	descriptive map[string]struct{}
	logger      logger.Logger
}

// NewReader creates a reader with configuration options.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		descriptive: make(map[string]struct{}, len(descriptiveColumns)),
		logger:      logger.Get().Named("csvio"),
	}
	for _, c := range descriptiveColumns {
		r.descriptive[c] = struct{}{}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadFile reads path, or stdin when path is "-".
func (r *Reader) ReadFile(ctx context.Context, path string, layout Layout) (*Table, error) {
	if path == "-" || path == "" {
		return r.Read(ctx, os.Stdin, layout)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return r.Read(ctx, f, layout)
}

// Read parses every row of in.
func (r *Reader) Read(ctx context.Context, in io.Reader, layout Layout) (*Table, error) {
	lines, err := gocsv.DefaultCSVReader(in).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}

	header := make([]string, len(lines[0]))
	for i, h := range lines[0] {
		header[i] = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}

	if layout == "" || layout == LayoutAuto {
		layout = LayoutTeam
		if _, ok := idx[homePrefix+ColTeamID]; ok {
			layout = LayoutGame
		}
	}

	var t *Table
	switch layout {
	case LayoutTeam:
		t, err = r.readTeam(header, idx, lines[1:])
	case LayoutGame:
		t, err = r.readGame(header, idx, lines[1:])
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayout, layout)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info(ctx, "input parsed",
		logger.String("layout", string(t.Layout)),
		logger.Int("rows", len(t.Rows)),
		logger.Int("stats", len(t.Stats)),
	)
	return t, nil
}

func (r *Reader) readTeam(header []string, idx map[string]int, lines [][]string) (*Table, error) {
	seasonCol, err := seasonColumn(idx)
	if err != nil {
		return nil, err
	}
	if err := require(idx, ColGameID, ColTeamID, ColAbbreviation, ColGameDate, ColMatchup, ColWL, ColPoints); err != nil {
		return nil, err
	}

	fixed := map[string]struct{}{
		ColGameID: {}, ColTeamID: {}, ColAbbreviation: {}, ColGameDate: {}, ColSeason: {},
		ColSeasonID: {}, ColMatchup: {}, ColWL: {}, ColPoints: {},
	}
	var stats []int
	for i, h := range header {
		if _, ok := fixed[h]; ok {
			continue
		}
		if _, ok := r.descriptive[h]; ok {
			continue
		}
		stats = append(stats, i)
	}

	t := &Table{Layout: LayoutTeam, Rows: make([]model.TeamGame, 0, len(lines))}
	for _, i := range stats {
		t.Stats = append(t.Stats, header[i])
	}

	for n, line := range lines {
		lineNo := n + 2
		cell := func(col string) string { return strings.TrimSpace(line[idx[col]]) }

		date, err := parseDate(cell(ColGameDate))
		if err != nil {
			return nil, &CellError{Line: lineNo, Column: ColGameDate, Value: cell(ColGameDate), Err: err}
		}
		pts, err := parseNumber(cell(ColPoints))
		if err != nil {
			return nil, &CellError{Line: lineNo, Column: ColPoints, Value: cell(ColPoints), Err: err}
		}
		won, err := parseWL(cell(ColWL))
		if err != nil {
			return nil, &CellError{Line: lineNo, Column: ColWL, Value: cell(ColWL), Err: err}
		}

		g := model.TeamGame{
			GameID:           cell(ColGameID),
			TeamID:           cell(ColTeamID),
			TeamAbbreviation: cell(ColAbbreviation),
			GameDate:         date,
			Season:           cell(seasonCol),
			Matchup:          cell(ColMatchup),
			Won:              won,
			Points:           pts,
			Stats:            make(map[string]float64, len(stats)),
		}
		for _, i := range stats {
			if err := setStat(g.Stats, header[i], line[i]); err != nil {
				return nil, &CellError{Line: lineNo, Column: header[i], Value: line[i], Err: err}
			}
		}
		t.Rows = append(t.Rows, g)
	}
	return t, nil
}

func (r *Reader) readGame(header []string, idx map[string]int, lines [][]string) (*Table, error) {
	seasonCol, err := seasonColumn(idx)
	if err != nil {
		return nil, err
	}
	if err := require(idx, ColGameID, ColGameDate,
		homePrefix+ColTeamID, awayPrefix+ColTeamID,
		homePrefix+ColAbbreviation, awayPrefix+ColAbbreviation,
		homePrefix+ColPoints, awayPrefix+ColPoints,
	); err != nil {
		return nil, err
	}

	fixed := map[string]struct{}{
		ColTeamID: {}, ColAbbreviation: {}, ColPoints: {}, ColWL: {}, "WIN": {}, ColMatchup: {},
	}
	type statCol struct {
		index int
		home  bool
		name  string
	}
	var (
		cols  []statCol
		names []string
		seen  = make(map[string]struct{})
	)
	for i, h := range header {
		var (
			name string
			home bool
		)
		switch {
		case strings.HasPrefix(h, homePrefix):
			name, home = strings.TrimPrefix(h, homePrefix), true
		case strings.HasPrefix(h, awayPrefix):
			name = strings.TrimPrefix(h, awayPrefix)
		default:
			continue
		}
		if _, ok := fixed[name]; ok {
			continue
		}
		if _, ok := r.descriptive[name]; ok {
			continue
		}
		cols = append(cols, statCol{index: i, home: home, name: name})
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	matchups := make([]model.Matchup, 0, len(lines))
	for n, line := range lines {
		lineNo := n + 2
		cell := func(col string) string { return strings.TrimSpace(line[idx[col]]) }

		date, err := parseDate(cell(ColGameDate))
		if err != nil {
			return nil, &CellError{Line: lineNo, Column: ColGameDate, Value: cell(ColGameDate), Err: err}
		}
		homePts, err := parseNumber(cell(homePrefix + ColPoints))
		if err != nil {
			return nil, &CellError{Line: lineNo, Column: homePrefix + ColPoints, Value: cell(homePrefix + ColPoints), Err: err}
		}
		awayPts, err := parseNumber(cell(awayPrefix + ColPoints))
		if err != nil {
			return nil, &CellError{Line: lineNo, Column: awayPrefix + ColPoints, Value: cell(awayPrefix + ColPoints), Err: err}
		}
		homeWin, err := gameWinner(idx, cell, homePts, awayPts)
		if err != nil {
			return nil, &CellError{Line: lineNo, Column: ColHomeWin, Value: cell(ColHomeWin), Err: err}
		}
		neutral := false
		if _, ok := idx[ColNeutral]; ok {
			if neutral, err = parseFlag(cell(ColNeutral)); err != nil {
				return nil, &CellError{Line: lineNo, Column: ColNeutral, Value: cell(ColNeutral), Err: err}
			}
		}

		base := model.TeamGame{GameID: cell(ColGameID), GameDate: date, Season: cell(seasonCol), Neutral: neutral}
		home, away := base, base
		home.TeamID, away.TeamID = cell(homePrefix+ColTeamID), cell(awayPrefix+ColTeamID)
		home.TeamAbbreviation, away.TeamAbbreviation = cell(homePrefix+ColAbbreviation), cell(awayPrefix+ColAbbreviation)
		home.Points, away.Points = homePts, awayPts
		home.Won, away.Won = homeWin, !homeWin
		home.Stats, away.Stats = make(map[string]float64, len(names)), make(map[string]float64, len(names))

		for _, c := range cols {
			dst := away.Stats
			if c.home {
				dst = home.Stats
			}
			if err := setStat(dst, c.name, line[c.index]); err != nil {
				return nil, &CellError{Line: lineNo, Column: header[c.index], Value: line[c.index], Err: err}
			}
		}
		matchups = append(matchups, model.Matchup{Home: home, Away: away})
	}

	return &Table{Layout: LayoutGame, Rows: reshape.Split(matchups), Stats: names}, nil
}

func gameWinner(idx map[string]int, cell func(string) string, homePts, awayPts float64) (bool, error) {
	if _, ok := idx[ColHomeWin]; ok {
		return parseFlag(cell(ColHomeWin))
	}
	if _, ok := idx[homePrefix+ColWL]; ok {
		return parseWL(cell(homePrefix + ColWL))
	}
	if homePts == awayPts {
		return false, fmt.Errorf("tied score %v", homePts)
	}
	return homePts > awayPts, nil
}

func seasonColumn(idx map[string]int) (string, error) {
	if _, ok := idx[ColSeason]; ok {
		return ColSeason, nil
	}
	if _, ok := idx[ColSeasonID]; ok {
		return ColSeasonID, nil
	}
	return "", fmt.Errorf("%w: %s", ErrMissingColumn, ColSeason)
}

func require(idx map[string]int, cols ...string) error {
	var missing []string
	for _, c := range cols {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// setStat stores a numeric cell; empty cells stay absent.
func setStat(dst map[string]float64, name, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := parseNumber(raw)
	if err != nil {
		return err
	}
	dst[name] = v
	return nil
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.Date(t.Year(), t.Month(), t.Day()), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func parseWL(s string) (bool, error) {
	switch strings.ToUpper(s) {
	case "W":
		return true, nil
	case "L":
		return false, nil
	}
	return false, fmt.Errorf("want W or L")
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "1.0", "true", "t", "yes", "y", "w":
		return true, nil
	case "0", "0.0", "false", "f", "no", "n", "l", "":
		return false, nil
	}
	return false, fmt.Errorf("want a boolean flag")
}
