package boundary

import "github.com/okian/courtside/internal/domain/model"

// FilterWithCounters runs Filter with caller-supplied drop-walk counters.
func FilterWithCounters(in *model.MatchupFrame, firstGames int, counters func() map[string]int) (*model.MatchupFrame, Report, error) {
	return filter(in, firstGames, counters)
}
