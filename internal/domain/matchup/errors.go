package matchup

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds for this package.
var (
	ErrJoinLoss         = errors.New("matchup join lost games")
	ErrConflictingScore = errors.New("both sides report the same result")
)

// JoinLossError lists games that did not produce exactly one record.
type JoinLossError struct {
	Before  int
	After   int
	GameIDs []string
}

func (e *JoinLossError) Error() string {
	ids := e.GameIDs
	if len(ids) > 5 {
		ids = ids[:5]
	}
	return fmt.Sprintf("%s: %d games in, %d records out; missing %s", ErrJoinLoss, e.Before, e.After, strings.Join(ids, ","))
}

func (e *JoinLossError) Unwrap() error { return ErrJoinLoss }
