package schema

import (
	"slices"
)

// Manifest is the configurable statistic list for the temporal stages.
type Manifest struct {
	LagColumns          []string
	LagSeasonScoped     bool
	RollingStats        []string
	RollingWindows      []int
	RollingSeasonScoped bool
}

// Require adds stat to the rolling list and windows to the window list when missing.
func (m *Manifest) Require(stat string, windows ...int) {
	if !slices.Contains(m.RollingStats, stat) {
		m.RollingStats = append(m.RollingStats, stat)
	}
	for _, w := range windows {
		if !slices.Contains(m.RollingWindows, w) {
			m.RollingWindows = append(m.RollingWindows, w)
		}
	}
	slices.Sort(m.RollingWindows)
}

// IsLagColumn reports whether col is designated season-cumulative.
func (m *Manifest) IsLagColumn(col string) bool {
	return slices.Contains(m.LagColumns, col)
}
