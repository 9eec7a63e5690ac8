package csvio_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/courtside/internal/adapters/csvio"
	"github.com/okian/courtside/internal/domain/boundary"
	"github.com/okian/courtside/internal/domain/matchup"
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/reshape"
	"github.com/okian/courtside/internal/domain/schema"
	"github.com/okian/courtside/internal/domain/split"
	logging "github.com/okian/courtside/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const teamCSV = `GAME_ID,TEAM_ID,TEAM_ABBREVIATION,TEAM_NAME,GAME_DATE,SEASON,MATCHUP,WL,PTS,FGM,W_PCT
G1,1,BOS,Boston Celtics,2023-10-25,2023-24,BOS vs. NYK,W,110,40,
G1,2,NYK,New York Knicks,2023-10-25,2023-24,NYK @ BOS,L,104,38,
G2,1,BOS,Boston Celtics,"Oct 27, 2023",2023-24,BOS @ NYK,L,99,35,1
G2,2,NYK,New York Knicks,"Oct 27, 2023",2023-24,NYK vs. BOS,W,101,37,0
`

const gameCSV = `GAME_ID,GAME_DATE,SEASON,HOME_TEAM_ID,HOME_TEAM_ABBREVIATION,HOME_TEAM_NAME,AWAY_TEAM_ID,AWAY_TEAM_ABBREVIATION,HOME_PTS,AWAY_PTS,HOME_WIN,NEUTRAL_VENUE,HOME_FGM,AWAY_FGM
G1,2023-10-25,2023-24,1,BOS,Boston Celtics,2,NYK,110,104,1,0,40,38
G9,2024-01-11,2023-24,3,CHI,Chicago Bulls,4,DET,120,121,0,1,44,45
`

func newReader() *csvio.Reader {
	_ = logging.Init()
	return csvio.NewReader()
}

func TestReadTeamLayout(t *testing.T) {
	Convey("Given a team-level export", t, func() {
		tbl, err := newReader().Read(context.Background(), strings.NewReader(teamCSV), csvio.LayoutAuto)

		Convey("Then every row is parsed with its statistics", func() {
			So(err, ShouldBeNil)
			So(tbl.Layout, ShouldEqual, csvio.LayoutTeam)
			So(tbl.Stats, ShouldResemble, []string{"FGM", "W_PCT"})
			So(len(tbl.Rows), ShouldEqual, 4)

			first := tbl.Rows[0]
			So(first.GameID, ShouldEqual, "G1")
			So(first.TeamAbbreviation, ShouldEqual, "BOS")
			So(first.Won, ShouldBeTrue)
			So(first.Points, ShouldEqual, 110)
			So(first.GameDate, ShouldEqual, model.Date(2023, time.October, 25))
			So(first.Stats["FGM"], ShouldEqual, 40)
		})

		Convey("Then empty cells are absent rather than zero", func() {
			_, ok := tbl.Rows[0].Stat("W_PCT")
			So(ok, ShouldBeFalse)
			v, ok := tbl.Rows[2].Stat("W_PCT")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 1)
		})

		Convey("Then alternate date formats resolve to the civil date", func() {
			So(tbl.Rows[2].GameDate, ShouldEqual, model.Date(2023, time.October, 27))
		})

		Convey("Then the rows pair into games", func() {
			games, _, err := reshape.Pair(context.Background(), tbl.Rows)
			So(err, ShouldBeNil)
			So(len(games), ShouldEqual, 2)
			So(games[1].Home.TeamAbbreviation, ShouldEqual, "NYK")
		})
	})

	Convey("Given a team-level export missing its result column", t, func() {
		in := "GAME_ID,TEAM_ID,TEAM_ABBREVIATION,GAME_DATE,SEASON,MATCHUP,PTS\nG1,1,BOS,2023-10-25,2023-24,BOS vs. NYK,110\n"
		_, err := newReader().Read(context.Background(), strings.NewReader(in), csvio.LayoutTeam)

		Convey("Then the missing column is named", func() {
			So(errors.Is(err, csvio.ErrMissingColumn), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "WL")
		})
	})

	Convey("Given a non-numeric statistic", t, func() {
		in := strings.Replace(teamCSV, ",40,", ",forty,", 1)
		_, err := newReader().Read(context.Background(), strings.NewReader(in), csvio.LayoutTeam)

		Convey("Then the cell is located", func() {
			So(errors.Is(err, csvio.ErrBadValue), ShouldBeTrue)
			var cellErr *csvio.CellError
			So(errors.As(err, &cellErr), ShouldBeTrue)
			So(cellErr.Line, ShouldEqual, 2)
			So(cellErr.Column, ShouldEqual, "FGM")
		})
	})

	Convey("Given an empty input", t, func() {
		_, err := newReader().Read(context.Background(), strings.NewReader(""), csvio.LayoutAuto)
		So(errors.Is(err, csvio.ErrEmptyInput), ShouldBeTrue)
	})

	Convey("Given an unknown layout", t, func() {
		_, err := newReader().Read(context.Background(), strings.NewReader(teamCSV), csvio.Layout("wide"))
		So(errors.Is(err, csvio.ErrUnknownLayout), ShouldBeTrue)
	})
}

func TestReadGameLayout(t *testing.T) {
	Convey("Given a game-level export", t, func() {
		tbl, err := newReader().Read(context.Background(), strings.NewReader(gameCSV), csvio.LayoutAuto)

		Convey("Then each game becomes a home and an away row", func() {
			So(err, ShouldBeNil)
			So(tbl.Layout, ShouldEqual, csvio.LayoutGame)
			So(tbl.Stats, ShouldResemble, []string{"FGM"})
			So(len(tbl.Rows), ShouldEqual, 4)

			home, away := tbl.Rows[0], tbl.Rows[1]
			So(home.IsHome, ShouldBeTrue)
			So(home.Matchup, ShouldEqual, "BOS vs. NYK")
			So(away.Matchup, ShouldEqual, "NYK @ BOS")
			So(home.Won, ShouldBeTrue)
			So(away.Won, ShouldBeFalse)
			So(away.Stats["FGM"], ShouldEqual, 38)
		})

		Convey("Then neutral games round-trip through the neutral tie-break", func() {
			So(tbl.Rows[2].Matchup, ShouldEqual, "CHI @ DET")
			games, summary, err := reshape.Pair(context.Background(), tbl.Rows)
			So(err, ShouldBeNil)
			So(summary.NeutralGames, ShouldEqual, 1)
			So(games[1].Home.TeamAbbreviation, ShouldEqual, "CHI")
			So(games[1].Away.Won, ShouldBeTrue)
		})
	})
}

func sampleFrame() *model.MatchupFrame {
	rows := []model.TeamGame{
		{GameID: "G1", TeamID: "1", TeamAbbreviation: "BOS", GameDate: model.Date(2023, time.October, 25), Season: "2023-24", IsHome: true, Won: true, Points: 110,
			Features: map[string]sql.NullFloat64{"W_PCT_PRIOR": model.Value(0.5)}},
		{GameID: "G1", TeamID: "2", TeamAbbreviation: "NYK", GameDate: model.Date(2023, time.October, 25), Season: "2023-24", Won: false, Points: 104.5,
			Features: map[string]sql.NullFloat64{"W_PCT_PRIOR": model.Null()}},
	}
	in := &model.TeamFrame{
		Schema: schema.New(schema.Column{Name: "W_PCT_PRIOR", Role: schema.RolePrior, Source: "W_PCT"}),
		Rows:   rows,
	}
	f, err := matchup.Assemble(context.Background(), in)
	if err != nil {
		panic(err)
	}
	return f
}

func TestWriteTable(t *testing.T) {
	Convey("Given an assembled frame", t, func() {
		f := sampleFrame()
		var buf bytes.Buffer

		Convey("When it is written", func() {
			So(csvio.WriteTable(&buf, f, false), ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

			Convey("Then identifiers lead and labels trail", func() {
				So(lines[0], ShouldStartWith, "GAME_ID,GAME_DATE,SEASON,HOME_TEAM_ID")
				So(lines[0], ShouldEndWith, "HOME_WIN,HOME_PTS,AWAY_PTS")
				So(lines[1], ShouldEqual, "G1,2023-10-25,2023-24,1,2,BOS,NYK,0,0.5,,1,110,104.5")
			})
		})

		Convey("When lowercasing is requested", func() {
			So(csvio.WriteTable(&buf, f, true), ShouldBeNil)
			So(buf.String(), ShouldStartWith, "game_id,game_date")
		})

		Convey("When written to a file", func() {
			path := filepath.Join(t.TempDir(), "out.csv")
			So(csvio.WriteFile(path, f, false), ShouldBeNil)

			Convey("Then only the final file remains", func() {
				entries, err := os.ReadDir(filepath.Dir(path))
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
				So(entries[0].Name(), ShouldEqual, "out.csv")
			})
		})
	})
}

func TestWriteSummaries(t *testing.T) {
	Convey("Given a split result", t, func() {
		f := sampleFrame()
		res, err := split.Chronological(f.Records, split.Ratios{Train: 1})
		So(err, ShouldBeNil)
		dir := t.TempDir()

		Convey("When splits are written", func() {
			So(csvio.WriteSplits(dir, res, f.Schema, false), ShouldBeNil)

			Convey("Then each part and the summary exist", func() {
				for _, name := range []string{"train.csv", "validation.csv", "test.csv", "split_summary.csv"} {
					_, err := os.Stat(filepath.Join(dir, name))
					So(err, ShouldBeNil)
				}
				summary, err := os.ReadFile(filepath.Join(dir, "split_summary.csv"))
				So(err, ShouldBeNil)
				So(string(summary), ShouldStartWith, "part,games,from,to,home_win_rate")
				So(string(summary), ShouldContainSubstring, "train,1,2023-10-25,2023-10-25,1")
			})
		})
	})

	Convey("Given a boundary report", t, func() {
		r := boundary.Report{FirstGames: 1, Seasons: []boundary.SeasonStats{
			{Season: "2023-24", Teams: 30, Games: 1230, Removed: 22, Min: 15, Max: 30},
		}}
		var buf bytes.Buffer

		Convey("Then the season summary is one row per season", func() {
			So(csvio.WriteSeasonSummary(&buf, r), ShouldBeNil)
			So(buf.String(), ShouldEqual, "season,teams,games,removed,min_removed,max_removed\n2023-24,30,1230,22,15,30\n")
		})
	})
}

func TestObservationRoundTrip(t *testing.T) {
	Convey("Given parsed team-level rows", t, func() {
		r := newReader()
		tbl, err := r.Read(context.Background(), strings.NewReader(teamCSV), csvio.LayoutTeam)
		So(err, ShouldBeNil)

		Convey("When written back and re-read", func() {
			var buf bytes.Buffer
			So(csvio.WriteObservations(&buf, tbl.Rows, tbl.Stats), ShouldBeNil)
			again, err := r.Read(context.Background(), &buf, csvio.LayoutAuto)

			Convey("Then the rows are unchanged", func() {
				So(err, ShouldBeNil)
				So(again.Stats, ShouldResemble, tbl.Stats)
				So(again.Rows, ShouldResemble, tbl.Rows)
			})
		})
	})
}
