// Package split partitions matchup records into chronological
// train/validation/test sets. Records are never shuffled.
package split

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/okian/courtside/internal/domain/model"
)

// Sentinel error kinds for this package.
var (
	ErrInvalidRatios = errors.New("invalid split ratios")
)

// Part names.
const (
	Train      = "train"
	Validation = "validation"
	Test       = "test"
)

// Ratios are the shares of each part; they must sum to 1.
type Ratios struct {
	Train      float64
	Validation float64
	Test       float64
}

// Part is one contiguous date range of records.
type Part struct {
	Name    string
	Records []model.MatchupRecord
	From    time.Time
	To      time.Time
}

// HomeWinRate is the share of records the home side won.
func (p *Part) HomeWinRate() float64 {
	if len(p.Records) == 0 {
		return 0
	}
	wins := 0
	for i := range p.Records {
		if p.Records[i].HomeWin {
			wins++
		}
	}
	return float64(wins) / float64(len(p.Records))
}

// Result holds the three parts in chronological order.
type Result struct {
	Parts [3]Part
	// Straddles lists dates shared by consecutive non-empty parts. Games on such a date
	// are split by game id.
	Straddles []time.Time
}

// Chronological sorts records by (date, game id) and cuts them by ratio.
// Train and validation sizes are floored; test takes the remainder.
func Chronological(records []model.MatchupRecord, r Ratios) (Result, error) {
	if r.Train < 0 || r.Validation < 0 || r.Test < 0 || math.Abs(r.Train+r.Validation+r.Test-1) > 1e-3 {
		return Result{}, fmt.Errorf("%w: %.3f/%.3f/%.3f", ErrInvalidRatios, r.Train, r.Validation, r.Test)
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b model.MatchupRecord) int {
		return model.CompareGames(a.GameDate, a.GameID, b.GameDate, b.GameID)
	})

	n := len(sorted)
	trainEnd := int(float64(n) * r.Train)
	valEnd := trainEnd + int(float64(n)*r.Validation)

	res := Result{Parts: [3]Part{
		newPart(Train, sorted[:trainEnd]),
		newPart(Validation, sorted[trainEnd:valEnd]),
		newPart(Test, sorted[valEnd:]),
	}}
	var prev *Part
	for i := range res.Parts {
		cur := &res.Parts[i]
		if len(cur.Records) == 0 {
			continue
		}
		if prev != nil && prev.To.Equal(cur.From) {
			res.Straddles = append(res.Straddles, cur.From)
		}
		prev = cur
	}
	return res, nil
}

func newPart(name string, recs []model.MatchupRecord) Part {
	p := Part{Name: name, Records: recs}
	if len(recs) > 0 {
		p.From, p.To = recs[0].GameDate, recs[len(recs)-1].GameDate
	}
	return p
}
