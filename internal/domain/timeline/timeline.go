// Package timeline builds per-team chronological views over a team-per-row table.
//
// Every temporal stage calls Partition first; it sorts each partition by
// (date, game id) and rejects orderings that a shift cannot interpret.
package timeline

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/okian/courtside/internal/domain/model"
)

// Key identifies a partition. Season is empty when the partition spans seasons.
type Key struct {
	TeamID string
	Season string
}

func (k Key) String() string {
	if k.Season == "" {
		return k.TeamID
	}
	return k.TeamID + "/" + k.Season
}

// Timeline is one team's games in chronological order, as indexes into the source rows.
type Timeline struct {
	Key   Key
	Index []int
}

// Len returns the number of games in the timeline.
func (t *Timeline) Len() int { return len(t.Index) }

// Partition groups rows by team (and season when seasonScoped) and sorts each group
// by date, then game id. Timelines are returned sorted by key.
func Partition(rows []model.TeamGame, seasonScoped bool) ([]Timeline, error) {
	groups := make(map[Key][]int)
	for i := range rows {
		k := Key{TeamID: rows[i].TeamID}
		if seasonScoped {
			k.Season = rows[i].Season
		}
		groups[k] = append(groups[k], i)
	}

	out := make([]Timeline, 0, len(groups))
	for k, idx := range groups {
		slices.SortStableFunc(idx, func(a, b int) int {
			ra, rb := &rows[a], &rows[b]
			return model.CompareGames(ra.GameDate, ra.GameID, rb.GameDate, rb.GameID)
		})
		if err := validate(rows, k, idx); err != nil {
			return nil, err
		}
		out = append(out, Timeline{Key: k, Index: idx})
	}
	slices.SortFunc(out, func(a, b Timeline) int {
		if c := cmp.Compare(a.Key.TeamID, b.Key.TeamID); c != 0 {
			return c
		}
		return cmp.Compare(a.Key.Season, b.Key.Season)
	})
	return out, nil
}

// validate requires strictly increasing dates within a sorted partition.
func validate(rows []model.TeamGame, k Key, idx []int) error {
	for j := 1; j < len(idx); j++ {
		prev, cur := &rows[idx[j-1]], &rows[idx[j]]
		if cur.GameDate.After(prev.GameDate) {
			continue
		}
		return fmt.Errorf("%w: team %s has games %s and %s on %s",
			ErrAmbiguousOrder, k, prev.GameID, cur.GameID, cur.GameDate.Format("2006-01-02"))
	}
	return nil
}
