package reshape

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Sentinel error kinds for this package.
var (
	ErrStructural = errors.New("structural error")
)

// Kind names a structural problem with one game.
type Kind string

const (
	KindMissingSide    Kind = "missing_side"
	KindExtraRows      Kind = "extra_rows"
	KindSameTeam       Kind = "same_team"
	KindDateMismatch   Kind = "date_mismatch"
	KindSeasonMismatch Kind = "season_mismatch"
	KindBothHome       Kind = "both_home"
	KindUnknownMarker  Kind = "unknown_marker"
)

// Issue is one offending game.
type Issue struct {
	Kind   Kind
	GameID string
	Teams  []string
	Detail string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s game=%s teams=%s %s", i.Kind, i.GameID, strings.Join(i.Teams, ","), i.Detail)
}

// StructuralError reports every game that could not be reshaped.
type StructuralError struct {
	Counts   map[Kind]int
	Examples []Issue
}

// Games returns the number of offending games.
func (e *StructuralError) Games() int {
	n := 0
	for _, c := range e.Counts {
		n += c
	}
	return n
}

func (e *StructuralError) Error() string {
	kinds := make([]string, 0, len(e.Counts))
	for k, c := range e.Counts {
		kinds = append(kinds, fmt.Sprintf("%s=%d", k, c))
	}
	slices.Sort(kinds)
	msg := fmt.Sprintf("%s: %d games (%s)", ErrStructural, e.Games(), strings.Join(kinds, " "))
	if len(e.Examples) > 0 {
		msg += "; e.g. " + e.Examples[0].String()
	}
	return msg
}

func (e *StructuralError) Unwrap() error { return ErrStructural }
