package metrics

import (
	"sort"
	"strings"

	"github.com/icco/depressiondash/models"
)

// Table names, used in chart URLs.
const (
	TableGender        = "gender"
	TableStress        = "stress"
	TableAge           = "age"
	TableDegree        = "degree"
	TableFamilyHistory = "family_history"
	TableSleep         = "sleep"
	TableTopCities     = "top_cities"
	TableDiet          = "diet"
)

// TopCityLimit is how many cities the top-cities panel shows.
const TopCityLimit = 5

// AgeBand is an inclusive age interval.
type AgeBand struct {
	Label string
	Min   int
	Max   int

	index int
}

// AgeBands are the fixed age-distribution bins. Ages outside them are not
// binned.
var AgeBands = []AgeBand{
	{Label: "18-24", Min: 18, Max: 24, index: 0},
	{Label: "25-34", Min: 25, Max: 34, index: 1},
	{Label: "35-44", Min: 35, Max: 44, index: 2},
	{Label: "45-54", Min: 45, Max: 54, index: 3},
	{Label: "55-59", Min: 55, Max: 59, index: 4},
}

// BandFor returns the band containing age.
func BandFor(age int) (AgeBand, bool) {
	for _, b := range AgeBands {
		if age >= b.Min && age <= b.Max {
			return b, true
		}
	}
	return AgeBand{}, false
}

// SleepCategory pairs a survey answer with its short chart label.
type SleepCategory struct {
	Value string
	Label string
}

// SleepCategories is the fixed category order of the sleep panel.
var SleepCategories = []SleepCategory{
	{Value: "Less than 5 hours", Label: "< 5 hrs"},
	{Value: "5-6 hours", Label: "5-6 hrs"},
	{Value: "7-8 hours", Label: "7-8 hrs"},
	{Value: "More than 8 hours", Label: "> 8 hrs"},
	{Value: "Others", Label: "Others"},
}

// sleepIndex maps an answer to its SleepCategories index; unknown answers
// count as Others.
func sleepIndex(value string) int {
	value = strings.TrimSpace(value)
	for i, c := range SleepCategories {
		if strings.EqualFold(c.Value, value) {
			return i
		}
	}
	return len(SleepCategories) - 1
}

var familyHistoryLabels = map[string]string{
	"Yes": "With Family History",
	"No":  "No Family History",
}

// GenderDistribution counts records per gender, largest first.
func GenderDistribution(f models.FilteredDataset) Table {
	t := Table{
		Name:   TableGender,
		Cells:  []Cell{},
		Title:  "Gender Distribution",
		Kind:   KindPie,
		YLabel: "Count",
	}

	counts := make(map[string]int)
	for _, r := range f.Records {
		counts[r.Gender]++
	}
	for _, kc := range sortedByCount(counts) {
		t.Cells = append(t.Cells, Cell{Category: kc.key, Value: float64(kc.count)})
	}
	return t
}

// StressByDepression averages academic pressure and financial stress for
// each depression status present in f.
func StressByDepression(f models.FilteredDataset) Table {
	t := Table{
		Name:   TableStress,
		Cells:  []Cell{},
		Title:  "Academic & Financial Stress by Depression",
		Kind:   KindGroupedBar,
		YLabel: "Average Score (1-5)",
	}

	var academic, financial [2][]float64
	var present [2]bool
	for _, r := range f.Records {
		d := depressionIndex(r)
		present[d] = true
		academic[d] = append(academic[d], r.AcademicPressure)
		financial[d] = append(financial[d], r.FinancialStress)
	}

	measures := []struct {
		label  string
		values [2][]float64
	}{
		{label: models.ColAcademicPressure, values: academic},
		{label: models.ColFinancialStress, values: financial},
	}
	for _, m := range measures {
		for d := 0; d <= 1; d++ {
			if !present[d] {
				continue
			}
			if avg, ok := mean(m.values[d]); ok {
				t.Cells = append(t.Cells, Cell{Category: m.label, Series: depressionSeries(d), Value: avg})
			}
		}
	}
	return t
}

// AgeDistribution counts records per age band. Records outside every band
// are counted in Excluded.
func AgeDistribution(f models.FilteredDataset) Table {
	t := Table{
		Name:   TableAge,
		Cells:  []Cell{},
		Title:  "Age Distribution",
		Kind:   KindBar,
		XLabel: "Age Group",
		YLabel: "Count",
	}
	if f.Len() == 0 {
		return t
	}

	counts := make([]int, len(AgeBands))
	for _, r := range f.Records {
		b, ok := BandFor(r.Age)
		if !ok {
			t.Excluded++
			continue
		}
		counts[b.index]++
	}
	for i, b := range AgeBands {
		t.Cells = append(t.Cells, Cell{Category: b.Label, Value: float64(counts[i])})
	}
	return t
}

// DegreeByDepression counts records per degree level and depression status.
func DegreeByDepression(f models.FilteredDataset) Table {
	return Table{
		Name:   TableDegree,
		Title:  "Depression Distribution by Degree Level",
		Kind:   KindStackedBar,
		YLabel: "Number of Students",
		Cells:  crossCount(f, func(r models.Record) string { return r.DegreeLevel }),
	}
}

// FamilyHistoryByDepression counts records per family-history answer and
// depression status. Answers other than Yes/No are left out.
func FamilyHistoryByDepression(f models.FilteredDataset) Table {
	t := Table{
		Name:   TableFamilyHistory,
		Cells:  []Cell{},
		Title:  "Family History & Depression",
		Kind:   KindGroupedBar,
		YLabel: "Count",
	}
	for _, c := range crossCount(f, func(r models.Record) string { return r.FamilyHistory }) {
		label, ok := familyHistoryLabels[c.Category]
		if !ok {
			continue
		}
		c.Category = label
		t.Cells = append(t.Cells, c)
	}
	return t
}

// SleepByDepression counts records per sleep category and depression status
// in the fixed SleepCategories order.
func SleepByDepression(f models.FilteredDataset) Table {
	t := Table{
		Name:   TableSleep,
		Cells:  []Cell{},
		Title:  "Sleep Hours Distribution by Depression",
		Kind:   KindLine,
		YLabel: "Number of Students",
	}

	counts := make([][2]int, len(SleepCategories))
	for _, r := range f.Records {
		counts[sleepIndex(r.SleepDuration)][depressionIndex(r)]++
	}
	for i, c := range SleepCategories {
		for d := 0; d <= 1; d++ {
			if n := counts[i][d]; n > 0 {
				t.Cells = append(t.Cells, Cell{Category: c.Label, Series: depressionSeries(d), Value: float64(n)})
			}
		}
	}
	return t
}

// TopCities returns the TopCityLimit cities with the most depression cases,
// smallest first.
func TopCities(f models.FilteredDataset) Table {
	t := Table{
		Name:   TableTopCities,
		Cells:  []Cell{},
		Title:  "Top 5 Cities - Depression Count",
		Kind:   KindLollipop,
		XLabel: "Depression Cases",
	}

	cities := depressedCityCounts(f)
	if len(cities) > TopCityLimit {
		cities = cities[:TopCityLimit]
	}
	sort.SliceStable(cities, func(i, j int) bool { return cities[i].count < cities[j].count })
	for _, c := range cities {
		t.Cells = append(t.Cells, Cell{Category: c.city, Value: float64(c.count)})
	}
	return t
}

// DietByDepression counts records per dietary habit and depression status.
func DietByDepression(f models.FilteredDataset) Table {
	return Table{
		Name:   TableDiet,
		Title:  "Dietary Habits by Depression",
		Kind:   KindGroupedBar,
		YLabel: "Count",
		Cells:  crossCount(f, func(r models.Record) string { return r.DietaryHabits }),
	}
}

// crossCount counts records per (key, depression) pair. Keys are sorted
// alphabetically; within a key, "No Depression" precedes "Depression".
// Pairs with no records are omitted.
func crossCount(f models.FilteredDataset, key func(models.Record) string) []Cell {
	counts := make(map[string]*[2]int)
	for _, r := range f.Records {
		k := key(r)
		c, ok := counts[k]
		if !ok {
			c = &[2]int{}
			counts[k] = c
		}
		c[depressionIndex(r)]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cells := make([]Cell, 0, 2*len(keys))
	for _, k := range keys {
		for d := 0; d <= 1; d++ {
			if n := counts[k][d]; n > 0 {
				cells = append(cells, Cell{Category: k, Series: depressionSeries(d), Value: float64(n)})
			}
		}
	}
	return cells
}

type cityCount struct {
	city  string
	count int
}

// depressedCityCounts counts depressed records per city, most cases first.
// Ties are ordered alphabetically.
func depressedCityCounts(f models.FilteredDataset) []cityCount {
	counts := make(map[string]int)
	for _, r := range f.Records {
		if r.Depressed() {
			counts[r.City]++
		}
	}
	out := make([]cityCount, 0, len(counts))
	for _, kc := range sortedByCount(counts) {
		out = append(out, cityCount{city: kc.key, count: kc.count})
	}
	return out
}

type keyCount struct {
	key   string
	count int
}

func sortedByCount(counts map[string]int) []keyCount {
	out := make([]keyCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, keyCount{key: k, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}
