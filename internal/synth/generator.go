// Package synth generates deterministic synthetic NBA-style seasons in the
// team-per-row observation format.
package synth

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/reshape"
	"github.com/okian/courtside/pkg/logger"
)

// Generation defaults.
const (
	DefaultTeams     = 30
	DefaultGames     = 82
	DefaultSeasons   = 2
	DefaultStartYear = 2022
	DefaultSeed      = 42

	firstTeamID  = 1610612737
	homeCourt    = 2.5
	basePace     = 99.0
	baseOffense  = 1.12
	strengthSD   = 4.0
	maxRestGap   = 3
	seasonOpenMo = time.October
	seasonOpenDy = 24
)

// ErrInvalidConfig is returned for impossible generation settings.
var ErrInvalidConfig = errors.New("invalid synth config")

var abbreviations = []string{ //nolint:gochecknoglobals // fixed team list
	"ATL", "BOS", "BKN", "CHA", "CHI", "CLE", "DAL", "DEN", "DET", "GSW",
	"HOU", "IND", "LAC", "LAL", "MEM", "MIA", "MIL", "MIN", "NOP", "NYK",
	"OKC", "ORL", "PHI", "PHX", "POR", "SAC", "SAS", "TOR", "UTA", "WAS",
}

// BoxStats are the per-game statistics every generated row carries, in
// output column order.
var BoxStats = []string{ //nolint:gochecknoglobals // fixed column list
	"FGM", "FGA", "FG_PCT", "FG3M", "FG3A", "FG3_PCT", "FTM", "FTA", "FT_PCT",
	"OREB", "DREB", "REB", "AST", "TOV", "STL", "BLK", "PF", "PLUS_MINUS",
	"OFF_RATING", "DEF_RATING", "NET_RATING", "EFG_PCT", "TS_PCT", "TOV_PCT",
	"OREB_PCT", "DREB_PCT", "FTA_RATE", "AST_PCT", "PACE", "PIE",
	"OPP_EFG_PCT", "OPP_TOV_PCT", "OPP_FTA_RATE",
}

// CumulativeStats are season-to-date values that include the game they sit on.
var CumulativeStats = []string{"GP", "W", "L", "W_PCT"} //nolint:gochecknoglobals // fixed column list

// Config controls generation.
type Config struct {
	Teams     int     // teams per season
	Games     int     // scheduled rounds per season; every team plays once per round
	Seasons   int     // consecutive seasons
	StartYear int     // calendar year the first season opens
	Seed      uint64  // PCG seed; equal seeds give equal output
	Neutral   float64 // share of games played at a neutral venue
	Duplicate float64 // share of rows emitted twice, as overlapping exports do
}

// Stats describes a generated data set.
type Stats struct {
	Seasons    int
	Games      int
	Rows       int
	Neutral    int
	Duplicates int
}

// DefaultConfig returns a two-season, 30-team, 82-game league.
func DefaultConfig() Config {
	return Config{
		Teams:     DefaultTeams,
		Games:     DefaultGames,
		Seasons:   DefaultSeasons,
		StartYear: DefaultStartYear,
		Seed:      DefaultSeed,
	}
}

// Validate checks that a league can be scheduled.
func (c Config) Validate() error {
	switch {
	case c.Teams < 2:
		return fmt.Errorf("%w: teams must be at least 2", ErrInvalidConfig)
	case c.Games < 1:
		return fmt.Errorf("%w: games must be positive", ErrInvalidConfig)
	case c.Seasons < 1:
		return fmt.Errorf("%w: seasons must be positive", ErrInvalidConfig)
	case c.Neutral < 0 || c.Neutral > 1:
		return fmt.Errorf("%w: neutral share must be within [0, 1]", ErrInvalidConfig)
	case c.Duplicate < 0 || c.Duplicate > 1:
		return fmt.Errorf("%w: duplicate share must be within [0, 1]", ErrInvalidConfig)
	}
	return nil
}

// Columns returns every statistic column a generated row carries.
func Columns() []string {
	out := make([]string, 0, len(CumulativeStats)+len(BoxStats))
	out = append(out, CumulativeStats...)
	return append(out, BoxStats...)
}

// SeasonName formats the season opening in year, e.g. "2023-24".
func SeasonName(year int) string {
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

type team struct {
	id       string
	abbr     string
	strength float64
}

type record struct{ games, wins int }

// Generate builds cfg.Seasons seasons of team-game rows. Within a season
// every round falls on its own date, so no team plays twice on one day.
func Generate(ctx context.Context, cfg Config) ([]model.TeamGame, Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Stats{}, err
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // reproducible fixtures

	teams := make([]team, cfg.Teams)
	for i := range teams {
		abbr := "T" + strconv.Itoa(i)
		if i < len(abbreviations) {
			abbr = abbreviations[i]
		}
		teams[i] = team{id: strconv.Itoa(firstTeamID + i), abbr: abbr}
	}

	var (
		matchups []model.Matchup
		stats    = Stats{Seasons: cfg.Seasons}
	)
	for s := 0; s < cfg.Seasons; s++ {
		if err := ctx.Err(); err != nil {
			return nil, Stats{}, err
		}
		year := cfg.StartYear + s
		season := SeasonName(year)
		for i := range teams {
			teams[i].strength = rng.NormFloat64() * strengthSD
		}

		records := make(map[string]*record, len(teams))
		for i := range teams {
			records[teams[i].id] = &record{}
		}

		date := model.Date(year, seasonOpenMo, seasonOpenDy)
		order := make([]int, len(teams))
		for i := range order {
			order[i] = i
		}
		serial := 0
		for round := 0; round < cfg.Games; round++ {
			rng.Shuffle(len(order), func(a, b int) { order[a], order[b] = order[b], order[a] })
			for k := 0; k+1 < len(order); k += 2 {
				serial++
				home, away := &teams[order[k]], &teams[order[k+1]]
				neutral := rng.Float64() < cfg.Neutral
				id := fmt.Sprintf("002%02d%05d", year%100, serial)
				m := playGame(rng, id, season, date, home, away, neutral)
				tally(records, &m)
				matchups = append(matchups, m)
				if neutral {
					stats.Neutral++
				}
			}
			date = date.AddDate(0, 0, 1+rng.IntN(maxRestGap))
		}
	}
	stats.Games = len(matchups)

	rows := reshape.Split(matchups)
	out := make([]model.TeamGame, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i])
		if rng.Float64() < cfg.Duplicate {
			out = append(out, rows[i].Clone())
			stats.Duplicates++
		}
	}
	stats.Rows = len(out)

	logger.Get().Info(ctx, "synthetic league generated",
		logger.Int("seasons", stats.Seasons),
		logger.Int("games", stats.Games),
		logger.Int("rows", stats.Rows),
		logger.Int("neutral", stats.Neutral),
		logger.Int("duplicates", stats.Duplicates),
	)
	return out, stats, nil
}

// tally writes the season-to-date record, including this game, onto both rows.
func tally(records map[string]*record, m *model.Matchup) {
	for _, g := range []*model.TeamGame{&m.Home, &m.Away} {
		r := records[g.TeamID]
		r.games++
		if g.Won {
			r.wins++
		}
		g.Stats["GP"] = float64(r.games)
		g.Stats["W"] = float64(r.wins)
		g.Stats["L"] = float64(r.games - r.wins)
		g.Stats["W_PCT"] = round3(float64(r.wins) / float64(r.games))
	}
}

type box struct {
	pts, fgm, fga, fg3m, fg3a, ftm, fta        float64
	oreb, dreb, ast, tov, stl, blk, pf, poss float64
}

func playGame(rng *rand.Rand, id, season string, date time.Time, home, away *team, neutral bool) model.Matchup {
	edge := home.strength - away.strength
	if !neutral {
		edge += homeCourt
	}
	poss := math.Round(basePace + rng.NormFloat64()*4)

	hb := shoot(rng, poss, baseOffense+edge/200)
	ab := shoot(rng, poss, baseOffense-edge/200)
	if hb.pts == ab.pts {
		// overtime decides it
		if rng.IntN(2) == 0 {
			hb.pts += 2
			hb.fgm++
			hb.fga++
		} else {
			ab.pts += 2
			ab.fgm++
			ab.fga++
		}
	}

	base := model.TeamGame{GameID: id, Season: season, GameDate: date, Neutral: neutral}
	h, a := base, base
	h.TeamID, h.TeamAbbreviation, h.IsHome = home.id, home.abbr, true
	a.TeamID, a.TeamAbbreviation = away.id, away.abbr
	h.Points, a.Points = hb.pts, ab.pts
	h.Won, a.Won = hb.pts > ab.pts, ab.pts > hb.pts
	h.Stats, a.Stats = boxStats(&hb, &ab), boxStats(&ab, &hb)
	return model.Matchup{Home: h, Away: a}
}

// shoot draws a box score whose points equal 2·FGM + FG3M + FTM.
func shoot(rng *rand.Rand, poss, efficiency float64) box {
	target := math.Max(70, math.Round(poss*efficiency+rng.NormFloat64()*9))

	b := box{poss: poss}
	b.fg3a = math.Round(34 + rng.NormFloat64()*5)
	b.fg3m = math.Round(b.fg3a * (0.36 + rng.NormFloat64()*0.05))
	b.fta = math.Round(22 + rng.NormFloat64()*5)
	b.ftm = math.Round(b.fta * 0.78)
	if int(target-b.ftm-b.fg3m)%2 != 0 {
		b.ftm++
		b.fta = math.Max(b.fta, b.ftm)
	}
	twos := (target - b.ftm - 3*b.fg3m) / 2
	if twos < 0 {
		twos = 0
	}
	b.fgm = twos + b.fg3m
	b.pts = 2*twos + 3*b.fg3m + b.ftm
	b.fga = math.Max(b.fgm, math.Round(b.fgm/(0.47+rng.NormFloat64()*0.03)))
	b.fga = math.Max(b.fga, b.fg3a+twos)

	b.oreb = math.Round(10 + rng.NormFloat64()*3)
	b.dreb = math.Round(34 + rng.NormFloat64()*4)
	b.ast = math.Round(b.fgm * (0.6 + rng.NormFloat64()*0.05))
	b.tov = math.Round(13 + rng.NormFloat64()*3)
	b.stl = math.Round(7 + rng.NormFloat64()*2)
	b.blk = math.Round(5 + rng.NormFloat64()*2)
	b.pf = math.Round(19 + rng.NormFloat64()*3)
	for _, v := range []*float64{&b.oreb, &b.dreb, &b.ast, &b.tov, &b.stl, &b.blk, &b.pf} {
		*v = math.Max(0, *v)
	}
	return b
}

func boxStats(own, opp *box) map[string]float64 {
	return map[string]float64{
		"FGM":          own.fgm,
		"FGA":          own.fga,
		"FG_PCT":       ratio(own.fgm, own.fga),
		"FG3M":         own.fg3m,
		"FG3A":         own.fg3a,
		"FG3_PCT":      ratio(own.fg3m, own.fg3a),
		"FTM":          own.ftm,
		"FTA":          own.fta,
		"FT_PCT":       ratio(own.ftm, own.fta),
		"OREB":         own.oreb,
		"DREB":         own.dreb,
		"REB":          own.oreb + own.dreb,
		"AST":          own.ast,
		"TOV":          own.tov,
		"STL":          own.stl,
		"BLK":          own.blk,
		"PF":           own.pf,
		"PLUS_MINUS":   own.pts - opp.pts,
		"OFF_RATING":   rating(own.pts, own.poss),
		"DEF_RATING":   rating(opp.pts, own.poss),
		"NET_RATING":   rating(own.pts, own.poss) - rating(opp.pts, own.poss),
		"EFG_PCT":      ratio(own.fgm+0.5*own.fg3m, own.fga),
		"TS_PCT":       ratio(own.pts, 2*(own.fga+0.44*own.fta)),
		"TOV_PCT":      ratio(own.tov, own.poss),
		"OREB_PCT":     ratio(own.oreb, own.oreb+opp.dreb),
		"DREB_PCT":     ratio(own.dreb, own.dreb+opp.oreb),
		"FTA_RATE":     ratio(own.fta, own.fga),
		"AST_PCT":      ratio(own.ast, own.fgm),
		"PACE":         own.poss,
		"PIE":          ratio(own.pts, own.pts+opp.pts),
		"OPP_EFG_PCT":  ratio(opp.fgm+0.5*opp.fg3m, opp.fga),
		"OPP_TOV_PCT":  ratio(opp.tov, opp.poss),
		"OPP_FTA_RATE": ratio(opp.fta, opp.fga),
	}
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return round3(a / b)
}

func rating(pts, poss float64) float64 {
	return math.Round(1000*pts/poss) / 10
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
