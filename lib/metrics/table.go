package metrics

import "github.com/icco/depressiondash/models"

// Kind tells a renderer which chart a table feeds.
type Kind string

const (
	KindPie        Kind = "pie"
	KindBar        Kind = "bar"
	KindGroupedBar Kind = "grouped_bar"
	KindStackedBar Kind = "stacked_bar"
	KindLine       Kind = "line"
	KindLollipop   Kind = "lollipop"
)

// Series labels for the depression split.
const (
	SeriesNoDepression = "No Depression"
	SeriesDepression   = "Depression"
)

// Cell is one (category, series) value. Single-series tables leave Series
// empty.
type Cell struct {
	Category string  `json:"category"`
	Series   string  `json:"series,omitempty"`
	Value    float64 `json:"value"`
}

// Table is a grouped count or mean feeding one chart panel. Cells are in
// presentation order.
type Table struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Kind   Kind   `json:"kind"`
	XLabel string `json:"x_label,omitempty"`
	YLabel string `json:"y_label,omitempty"`
	Cells  []Cell `json:"cells"`

	// Excluded counts records that fell outside every category, e.g. ages
	// outside the fixed bands.
	Excluded int `json:"excluded,omitempty"`
}

// Empty reports whether the table has no cells.
func (t Table) Empty() bool {
	return len(t.Cells) == 0
}

// Categories returns distinct categories in order of first appearance.
func (t Table) Categories() []string {
	return distinct(t.Cells, func(c Cell) string { return c.Category })
}

// Series returns distinct series names in order of first appearance.
func (t Table) Series() []string {
	return distinct(t.Cells, func(c Cell) string { return c.Series })
}

// Value returns the value for a (category, series) pair and whether it exists.
func (t Table) Value(category, series string) (float64, bool) {
	for _, c := range t.Cells {
		if c.Category == category && c.Series == series {
			return c.Value, true
		}
	}
	return 0, false
}

// Total sums every cell.
func (t Table) Total() float64 {
	var total float64
	for _, c := range t.Cells {
		total += c.Value
	}
	return total
}

func distinct(cells []Cell, key func(Cell) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range cells {
		k := key(c)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// depressionIndex is 1 for depressed records and 0 otherwise, for use as an
// array index.
func depressionIndex(r models.Record) int {
	if r.Depressed() {
		return 1
	}
	return 0
}

func depressionSeries(depression int) string {
	if depression == 1 {
		return SeriesDepression
	}
	return SeriesNoDepression
}
