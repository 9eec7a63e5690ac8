package split_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/split"
	. "github.com/smartystreets/goconvey/convey"
)

func records(n int) []model.MatchupRecord {
	out := make([]model.MatchupRecord, n)
	for i := range out {
		// reverse order to exercise sorting
		day := n - i
		out[i] = model.MatchupRecord{
			GameID:   fmt.Sprintf("G%03d", day),
			GameDate: model.Date(2023, time.October, 1).AddDate(0, 0, day),
			HomeWin:  day%2 == 0,
		}
	}
	return out
}

func TestChronological(t *testing.T) {
	Convey("Given 20 games on distinct days", t, func() {
		res, err := split.Chronological(records(20), split.Ratios{Train: 0.7, Validation: 0.15, Test: 0.15})
		So(err, ShouldBeNil)
		train, val, test := res.Parts[0], res.Parts[1], res.Parts[2]

		Convey("Then the parts are sized by floored ratio with test taking the rest", func() {
			So(len(train.Records), ShouldEqual, 14)
			So(len(val.Records), ShouldEqual, 3)
			So(len(test.Records), ShouldEqual, 3)
		})

		Convey("Then every part is strictly later than the one before", func() {
			So(train.To.Before(val.From), ShouldBeTrue)
			So(val.To.Before(test.From), ShouldBeTrue)
			So(train.Records[0].GameID, ShouldEqual, "G001")
			So(test.Records[2].GameID, ShouldEqual, "G020")
			So(res.Straddles, ShouldBeEmpty)
		})

		Convey("Then win rates are reported per part", func() {
			So(train.HomeWinRate(), ShouldEqual, 0.5)
		})
	})

	Convey("Given two games sharing the cut date", t, func() {
		recs := records(4)
		recs[0].GameDate = recs[1].GameDate // G004 joins G003's date

		res, err := split.Chronological(recs, split.Ratios{Train: 0.75, Test: 0.25})
		So(err, ShouldBeNil)

		Convey("Then the straddle is reported", func() {
			So(len(res.Straddles), ShouldEqual, 1)
			So(res.Parts[1].Records, ShouldBeEmpty)
		})
	})

	Convey("Given ratios that do not sum to one", t, func() {
		_, err := split.Chronological(records(4), split.Ratios{Train: 0.7, Validation: 0.2, Test: 0.2})

		Convey("Then it is rejected", func() {
			So(errors.Is(err, split.ErrInvalidRatios), ShouldBeTrue)
		})
	})
}
