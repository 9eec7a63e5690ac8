package h2h_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/courtside/internal/domain/h2h"
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/schema"
	. "github.com/smartystreets/goconvey/convey"
)

func meeting(id string, day int, home, away string, homeWin bool) model.MatchupRecord {
	return model.MatchupRecord{
		GameID:     id,
		GameDate:   model.Date(2023, time.November, day),
		Season:     "2023-24",
		HomeTeamID: home,
		AwayTeamID: away,
		HomeWin:    homeWin,
	}
}

func frameOf(recs ...model.MatchupRecord) *model.MatchupFrame {
	return &model.MatchupFrame{Schema: schema.New(), Records: recs}
}

func TestAccumulate(t *testing.T) {
	Convey("Given four meetings between A and B with alternating venues", t, func() {
		in := frameOf(
			meeting("G1", 1, "A", "B", true),   // A wins
			meeting("G2", 5, "B", "A", true),   // B wins
			meeting("G3", 9, "A", "B", true),   // A wins
			meeting("G4", 12, "B", "A", false), // A wins
		)

		out, ledger, err := h2h.Accumulate(nil, in)
		So(err, ShouldBeNil)

		Convey("Then games played before the k-th meeting is k-1", func() {
			for k, r := range out.Records {
				So(r.Value(h2h.GamesPlayed), ShouldResemble, model.Value(float64(k)))
			}
		})

		Convey("Then the home win share reads only earlier meetings", func() {
			So(out.Records[0].Value(h2h.HomeWinPct), ShouldResemble, model.Value(0.5))
			So(out.Records[1].Value(h2h.HomeWinPct), ShouldResemble, model.Value(0.0))   // B home, A won 1/1
			So(out.Records[2].Value(h2h.HomeWinPct), ShouldResemble, model.Value(0.5))   // A home, 1/2
			So(out.Records[3].Value(h2h.HomeWinPct), ShouldResemble, model.Value(1.0/3)) // B home, B won 1/3
		})

		Convey("Then the returned ledger includes every meeting", func() {
			tally := ledger.Lookup("B", "A")
			So(tally.Games, ShouldEqual, 4)
			So(tally.WinsFor(h2h.KeyOf("A", "B"), "A"), ShouldEqual, 3)
			So(ledger.Len(), ShouldEqual, 1)
		})

		Convey("Then the input frame is untouched", func() {
			So(len(in.Records[0].Values), ShouldEqual, 0)
			So(in.Schema.Has(h2h.GamesPlayed), ShouldBeFalse)
		})
	})

	Convey("Given a ledger carried from an earlier run", t, func() {
		prior := h2h.NewLedger()
		prior.Record("A", "B")
		prior.Record("A", "B")

		out, next, err := h2h.Accumulate(prior, frameOf(meeting("G9", 1, "B", "A", true)))
		So(err, ShouldBeNil)

		Convey("Then history spans runs and the original is unchanged", func() {
			So(out.Records[0].Value(h2h.GamesPlayed), ShouldResemble, model.Value(2))
			So(out.Records[0].Value(h2h.HomeWinPct), ShouldResemble, model.Value(0))
			So(prior.Lookup("A", "B").Games, ShouldEqual, 2)
			So(next.Lookup("A", "B").Games, ShouldEqual, 3)
		})
	})

	Convey("Given records out of order", t, func() {
		in := frameOf(
			meeting("G2", 5, "A", "B", true),
			meeting("G1", 1, "A", "B", true),
		)

		out, _, err := h2h.Accumulate(nil, in)
		So(err, ShouldBeNil)

		Convey("Then features follow chronological order, record order is kept", func() {
			So(out.Records[0].GameID, ShouldEqual, "G2")
			So(out.Records[0].Value(h2h.GamesPlayed), ShouldResemble, model.Value(1))
			So(out.Records[1].Value(h2h.GamesPlayed), ShouldResemble, model.Value(0))
		})
	})

	Convey("Given a repeated game id", t, func() {
		_, _, err := h2h.Accumulate(nil, frameOf(meeting("G1", 1, "A", "B", true), meeting("G1", 1, "A", "B", true)))

		Convey("Then it is rejected", func() {
			So(errors.Is(err, h2h.ErrDuplicateGame), ShouldBeTrue)
		})
	})
}
