package dedupe_test

import (
	"context"
	"sync"
	"testing"

	"github.com/okian/courtside/internal/domain/dedupe"
	"github.com/okian/courtside/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func observation(game, team string, pts float64) model.TeamGame {
	return model.TeamGame{
		GameID:           game,
		TeamID:           team,
		TeamAbbreviation: team,
		GameDate:         model.Date(2023, 10, 24),
		Season:           "2023-24",
		Matchup:          team + " vs. XYZ",
		Points:           pts,
		Stats:            map[string]float64{"W_PCT": 0.5},
	}
}

func TestTracker(t *testing.T) {
	Convey("Given a new Tracker", t, func() {
		ctx := context.Background()
		tr := dedupe.NewTracker(dedupe.WithCapacity(4))

		Convey("When an observation is new", func() {
			row := observation("G1", "BOS", 100)
			v := tr.Observe(ctx, &row)

			Convey("Then it is recorded", func() {
				So(v, ShouldEqual, dedupe.New)
				So(tr.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the same observation repeats exactly", func() {
			a, b := observation("G1", "BOS", 100), observation("G1", "BOS", 100)
			tr.Observe(ctx, &a)
			v := tr.Observe(ctx, &b)

			Convey("Then it is a duplicate", func() {
				So(v, ShouldEqual, dedupe.Duplicate)
				So(tr.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the key repeats with different contents", func() {
			a, b := observation("G1", "BOS", 100), observation("G1", "BOS", 101)
			tr.Observe(ctx, &a)
			v := tr.Observe(ctx, &b)

			Convey("Then it is a conflict", func() {
				So(v, ShouldEqual, dedupe.Conflict)
			})
		})

		Convey("When observed concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					row := observation("G1", "BOS", 100)
					tr.Observe(ctx, &row)
				}()
			}
			wg.Wait()

			Convey("Then the key is stored once", func() {
				So(tr.Size(), ShouldEqual, 1)
			})
		})
	})
}

func TestObservations(t *testing.T) {
	Convey("Given rows from overlapping season files", t, func() {
		rows := []model.TeamGame{
			observation("G1", "BOS", 100),
			observation("G1", "NYK", 90),
			observation("G1", "BOS", 100),
			observation("G2", "BOS", 95),
			observation("G2", "BOS", 97),
		}

		res := dedupe.Observations(context.Background(), rows)

		Convey("Then exact duplicates are dropped and conflicts kept", func() {
			So(res.Duplicates, ShouldEqual, 1)
			So(len(res.Rows), ShouldEqual, 4)
			So(res.Conflicts, ShouldResemble, []dedupe.Key{{GameID: "G2", TeamID: "BOS"}})
			So(res.Rows[2].GameID, ShouldEqual, "G2")
		})
	})
}
