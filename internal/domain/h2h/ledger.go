// Package h2h tracks pre-game head-to-head records between team pairs.
package h2h

import (
	"maps"
)

// PairKey is an unordered team pair; A sorts before B and is the reference side.
type PairKey struct {
	A string
	B string
}

// KeyOf returns the canonical key for teams x and y.
func KeyOf(x, y string) PairKey {
	if y < x {
		x, y = y, x
	}
	return PairKey{A: x, B: y}
}

// Tally is the running record of one pair.
type Tally struct {
	Games   int
	RefWins int // meetings won by PairKey.A
}

// WinsFor returns the meetings won by team, which must belong to the pair.
func (t Tally) WinsFor(k PairKey, team string) int {
	if team == k.A {
		return t.RefWins
	}
	return t.Games - t.RefWins
}

// Ledger maps team pairs to their running tallies. It spans seasons.
type Ledger struct {
	pairs map[PairKey]Tally
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{pairs: make(map[PairKey]Tally)}
}

// Clone returns an independent copy. A nil ledger clones to an empty one.
func (l *Ledger) Clone() *Ledger {
	if l == nil {
		return NewLedger()
	}
	return &Ledger{pairs: maps.Clone(l.pairs)}
}

// Lookup returns the tally for teams x and y.
func (l *Ledger) Lookup(x, y string) Tally {
	return l.pairs[KeyOf(x, y)]
}

// Record adds one meeting won by winner against loser.
func (l *Ledger) Record(winner, loser string) {
	k := KeyOf(winner, loser)
	t := l.pairs[k]
	t.Games++
	if winner == k.A {
		t.RefWins++
	}
	l.pairs[k] = t
}

// Len returns the number of pairs that have met.
func (l *Ledger) Len() int { return len(l.pairs) }
