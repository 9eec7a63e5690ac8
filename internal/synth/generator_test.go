package synth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/courtside/internal/domain/dedupe"
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/reshape"
	"github.com/okian/courtside/internal/domain/timeline"
	"github.com/okian/courtside/internal/synth"
	logging "github.com/okian/courtside/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func small() synth.Config {
	cfg := synth.DefaultConfig()
	cfg.Teams, cfg.Games, cfg.Seasons = 6, 10, 2
	return cfg
}

func TestGenerate(t *testing.T) {
	Convey("Given a small league", t, func() {
		_ = logging.Init()
		rows, stats, err := synth.Generate(context.Background(), small())

		Convey("Then every team plays once per round", func() {
			So(err, ShouldBeNil)
			So(stats.Games, ShouldEqual, 2*10*3)
			So(stats.Rows, ShouldEqual, len(rows))
			So(len(rows), ShouldEqual, 2*stats.Games)
		})

		Convey("Then the rows pair cleanly and no team plays twice a day", func() {
			games, summary, err := reshape.Pair(context.Background(), rows)
			So(err, ShouldBeNil)
			So(len(games), ShouldEqual, stats.Games)
			So(summary.NeutralGames, ShouldEqual, 0)

			_, err = timeline.Partition(rows, true)
			So(err, ShouldBeNil)
		})

		Convey("Then box scores add up and winners outscore losers", func() {
			for _, g := range rows {
				So(2*g.Stats["FGM"]+g.Stats["FG3M"]+g.Stats["FTM"], ShouldEqual, g.Points)
				So(g.Stats["FGA"], ShouldBeGreaterThanOrEqualTo, g.Stats["FGM"])
			}
			for i := 0; i < len(rows); i += 2 {
				home, away := rows[i], rows[i+1]
				So(home.Won, ShouldNotEqual, away.Won)
				So(home.Won, ShouldEqual, home.Points > away.Points)
			}
		})

		Convey("Then season records include the game they sit on", func() {
			last := map[string]float64{}
			for _, tl := range mustPartition(rows) {
				for j, i := range tl.Index {
					So(rows[i].Stats["GP"], ShouldEqual, float64(j+1))
					last[tl.Key.String()] = rows[i].Stats["W"] + rows[i].Stats["L"]
				}
			}
			So(len(last), ShouldEqual, 12)
		})
	})

	Convey("Given the same seed twice", t, func() {
		_ = logging.Init()
		a, _, errA := synth.Generate(context.Background(), small())
		b, _, errB := synth.Generate(context.Background(), small())

		Convey("Then the output is identical", func() {
			So(errA, ShouldBeNil)
			So(errB, ShouldBeNil)
			So(a, ShouldResemble, b)
		})
	})

	Convey("Given neutral venues and duplicate exports", t, func() {
		_ = logging.Init()
		cfg := small()
		cfg.Neutral, cfg.Duplicate = 0.2, 0.1
		rows, stats, err := synth.Generate(context.Background(), cfg)
		So(err, ShouldBeNil)

		Convey("Then duplicates are exact and neutral games resolve", func() {
			res := dedupe.Observations(context.Background(), rows)
			So(res.Duplicates, ShouldEqual, stats.Duplicates)
			So(len(res.Conflicts), ShouldEqual, 0)

			_, summary, err := reshape.Pair(context.Background(), res.Rows)
			So(err, ShouldBeNil)
			So(summary.NeutralGames, ShouldEqual, stats.Neutral)
		})
	})

	Convey("Given an odd number of teams", t, func() {
		_ = logging.Init()
		cfg := small()
		cfg.Teams = 5
		_, stats, err := synth.Generate(context.Background(), cfg)

		Convey("Then one team sits out each round", func() {
			So(err, ShouldBeNil)
			So(stats.Games, ShouldEqual, 2*10*2)
		})
	})

	Convey("Given impossible settings", t, func() {
		cfg := small()
		cfg.Teams = 1
		_, _, err := synth.Generate(context.Background(), cfg)
		So(errors.Is(err, synth.ErrInvalidConfig), ShouldBeTrue)
	})
}

func mustPartition(rows []model.TeamGame) []timeline.Timeline {
	tls, err := timeline.Partition(rows, true)
	if err != nil {
		panic(err)
	}
	return tls
}

func TestSeasonName(t *testing.T) {
	Convey("Season names span two years", t, func() {
		So(synth.SeasonName(2023), ShouldEqual, "2023-24")
		So(synth.SeasonName(2099), ShouldEqual, "2099-00")
	})
}
