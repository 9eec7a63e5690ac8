package schema

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Side names a team's side in a game.
type Side string

const (
	Home Side = "HOME"
	Away Side = "AWAY"
)

// Column describes one column.
type Column struct {
	Name string
	Role Role
	// Source is the statistic the column derives from.
	Source string
	// DiffName overrides the default <Name>_DIFF differential name.
	DiffName string
	// Side is set on prefixed matchup columns.
	Side Side
}

// Differential returns the name of the column's HOME minus AWAY differential.
func (c Column) Differential() string {
	if c.DiffName != "" {
		return c.DiffName
	}
	return c.Name + "_DIFF"
}

// Schema is an ordered, duplicate-free column registry.
type Schema struct {
	cols  []Column
	index map[string]int
}

// New builds a schema from cols, panicking on duplicates.
func New(cols ...Column) *Schema {
	s := &Schema{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := s.Add(c); err != nil {
			panic(err)
		}
	}
	return s
}

// Add appends c. Re-adding an identical column is a no-op.
func (s *Schema) Add(c Column) error {
	if i, ok := s.index[c.Name]; ok {
		if s.cols[i] == c {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrDuplicateColumn, c.Name)
	}
	s.index[c.Name] = len(s.cols)
	s.cols = append(s.cols, c)
	return nil
}

// Lookup finds a column by name.
func (s *Schema) Lookup(name string) (Column, bool) {
	if s == nil {
		return Column{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return s.cols[i], true
}

// Has reports whether name is registered.
func (s *Schema) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Require fails with ErrUnknownColumn naming every absent column.
func (s *Schema) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if !s.Has(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, strings.Join(missing, ","))
	}
	return nil
}

// Columns returns a copy of all columns in order.
func (s *Schema) Columns() []Column {
	if s == nil {
		return nil
	}
	return slices.Clone(s.cols)
}

// ByRole returns columns having any of roles, in registry order.
func (s *Schema) ByRole(roles ...Role) []Column {
	if s == nil {
		return nil
	}
	var out []Column
	for _, c := range s.cols {
		if slices.Contains(roles, c.Role) {
			out = append(out, c)
		}
	}
	return out
}

// TeamFeatures returns the derived per-team predictor columns.
func (s *Schema) TeamFeatures() []Column {
	if s == nil {
		return nil
	}
	var out []Column
	for _, c := range s.cols {
		if c.Role.TeamFeature() {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.cols)
}

// Clone returns an independent copy. A nil schema clones to an empty one.
func (s *Schema) Clone() *Schema {
	c := &Schema{index: make(map[string]int)}
	if s == nil {
		return c
	}
	c.cols = slices.Clone(s.cols)
	for k, v := range s.index {
		c.index[k] = v
	}
	return c
}

// Prefixed returns name with the side prefix. Already-prefixed names are returned unchanged.
func Prefixed(side Side, name string) string {
	if HasSidePrefix(name) {
		return name
	}
	return string(side) + "_" + name
}

// HasSidePrefix reports whether name already carries a HOME_ or AWAY_ prefix.
func HasSidePrefix(name string) bool {
	return strings.HasPrefix(name, string(Home)+"_") || strings.HasPrefix(name, string(Away)+"_")
}

// PriorName is the lagged variant of col.
func PriorName(col string) string { return col + "_PRIOR" }

// RollingName is the trailing-window mean of stat over w games.
func RollingName(stat string, w int) string { return stat + "_L" + strconv.Itoa(w) }
