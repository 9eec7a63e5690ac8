package boundary

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds for this package.
var (
	ErrBoundsViolation = errors.New("season-boundary removal out of bounds")
)

// BoundsError lists the seasons whose removal count left its valid range.
type BoundsError struct {
	Seasons []SeasonStats
}

func (e *BoundsError) Error() string {
	parts := make([]string, len(e.Seasons))
	for i, s := range e.Seasons {
		parts[i] = fmt.Sprintf("%s removed=%d want [%d,%d]", s.Season, s.Removed, s.Min, s.Max)
	}
	return fmt.Sprintf("%s: %s", ErrBoundsViolation, strings.Join(parts, "; "))
}

func (e *BoundsError) Unwrap() error { return ErrBoundsViolation }
