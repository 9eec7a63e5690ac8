// Package dedupe drops exact duplicate team-game observations.
//
// Overlapping season files repeat rows; an exact repeat of (game, team) is
// dropped once and counted. A repeat whose contents differ is kept so the
// reshaper reports the game as structurally broken.
package dedupe

import (
	"context"
	"maps"
	"sync"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/pkg/logger"
)

// Verdict classifies an observation against those already seen.
type Verdict int

const (
	// New is the first observation of its (game, team) key.
	New Verdict = iota
	// Duplicate repeats an earlier observation exactly.
	Duplicate
	// Conflict shares a key with an earlier observation but differs from it.
	Conflict
)

// Key identifies a team-game observation.
type Key struct {
	GameID string
	TeamID string
}

// Tracker records seen observations. Safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	seen     map[Key]model.TeamGame
	capacity int
	log      logger.Logger
}

// NewTracker creates a tracker with configuration options.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{}
	for _, opt := range opts {
		opt(t)
	}
	t.seen = make(map[Key]model.TeamGame, t.capacity)
	return t
}

// Observe records row and classifies it.
func (t *Tracker) Observe(_ context.Context, row *model.TeamGame) Verdict {
	k := Key{GameID: row.GameID, TeamID: row.TeamID}

	t.mu.Lock()
	defer t.mu.Unlock()

	first, ok := t.seen[k]
	if !ok {
		t.seen[k] = *row
		return New
	}
	if sameObservation(&first, row) {
		return Duplicate
	}
	return Conflict
}

// Size returns the number of distinct keys seen.
func (t *Tracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}

func sameObservation(a, b *model.TeamGame) bool {
	return a.TeamAbbreviation == b.TeamAbbreviation &&
		a.GameDate.Equal(b.GameDate) &&
		a.Season == b.Season &&
		a.Matchup == b.Matchup &&
		a.Won == b.Won &&
		a.Points == b.Points &&
		maps.Equal(a.Stats, b.Stats)
}

// Result is the outcome of Observations.
type Result struct {
	Rows       []model.TeamGame
	Duplicates int
	Conflicts  []Key
}

// Observations returns rows without exact duplicates, preserving input order.
func Observations(ctx context.Context, rows []model.TeamGame, opts ...Option) Result {
	t := NewTracker(append([]Option{WithCapacity(len(rows))}, opts...)...)
	res := Result{Rows: make([]model.TeamGame, 0, len(rows))}
	for i := range rows {
		switch t.Observe(ctx, &rows[i]) {
		case Duplicate:
			res.Duplicates++
			continue
		case Conflict:
			res.Conflicts = append(res.Conflicts, Key{GameID: rows[i].GameID, TeamID: rows[i].TeamID})
		}
		res.Rows = append(res.Rows, rows[i])
	}
	if t.log != nil && (res.Duplicates > 0 || len(res.Conflicts) > 0) {
		t.log.Info(ctx, "duplicate observations",
			logger.Int("dropped", res.Duplicates),
			logger.Int("conflicting", len(res.Conflicts)),
		)
	}
	return res
}
