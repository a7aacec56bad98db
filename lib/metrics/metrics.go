// Package metrics computes the dashboard's scalar metrics and breakdown
// tables from a filtered dataset. Every function is pure and defined for an
// empty dataset.
package metrics

import (
	"math"

	"github.com/icco/depressiondash/models"
	"github.com/montanaflynn/stats"
)

// NoCity is reported as the top city when no record is depressed.
const NoCity = "N/A"

// MetricSet holds the six scalar values shown at the top of the dashboard.
type MetricSet struct {
	TotalStudents    int     `json:"total_students"`
	DepressionCases  int     `json:"depression_cases"`
	DepressionRate   float64 `json:"depression_rate"`
	HighRisk         int     `json:"high_risk"`
	TopCity          string  `json:"top_city"`
	FamilyHistoryPct float64 `json:"family_history_pct"`
}

// Compute derives the MetricSet. Percentages are 0 when their denominator
// is 0, and TopCity is NoCity when there are no depression cases.
func Compute(f models.FilteredDataset) MetricSet {
	m := MetricSet{
		TotalStudents: f.Len(),
		TopCity:       NoCity,
	}

	withHistory := 0
	for _, r := range f.Records {
		if !r.Depressed() {
			continue
		}
		m.DepressionCases++
		if r.SuicidalThoughts == "Yes" {
			m.HighRisk++
		}
		if r.FamilyHistory == "Yes" {
			withHistory++
		}
	}

	m.DepressionRate = percent(m.DepressionCases, m.TotalStudents)
	m.FamilyHistoryPct = percent(withHistory, m.DepressionCases)

	if cities := depressedCityCounts(f); len(cities) > 0 {
		m.TopCity = cities[0].city
	}

	return m
}

// Dashboard is everything one page render needs.
type Dashboard struct {
	Metrics MetricSet `json:"metrics"`
	Tables  []Table   `json:"tables"`
}

// Breakdowns lists the breakdown functions in panel order.
var Breakdowns = []func(models.FilteredDataset) Table{
	GenderDistribution,
	StressByDepression,
	AgeDistribution,
	DegreeByDepression,
	FamilyHistoryByDepression,
	SleepByDepression,
	TopCities,
	DietByDepression,
}

// Build computes the metrics and every breakdown table.
func Build(f models.FilteredDataset) Dashboard {
	d := Dashboard{
		Metrics: Compute(f),
		Tables:  make([]Table, 0, len(Breakdowns)),
	}
	for _, breakdown := range Breakdowns {
		d.Tables = append(d.Tables, breakdown(f))
	}
	return d
}

// Table returns the named table and whether it exists.
func (d Dashboard) Table(name string) (Table, bool) {
	for _, t := range d.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// Round1 rounds to one decimal place for display.
func Round1(v float64) float64 {
	r, err := stats.Round(v, 1)
	if err != nil {
		return 0
	}
	return r
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// mean ignores NaN scores. The second return is false when nothing was left.
func mean(values []float64) (float64, bool) {
	clean := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	m, err := stats.Mean(clean)
	if err != nil {
		return 0, false
	}
	return m, true
}
