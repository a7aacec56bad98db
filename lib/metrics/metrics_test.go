package metrics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/icco/depressiondash/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tenStudents has 6 depressed records; 3 of them report suicidal thoughts and
// 4 have a family history.
func tenStudents() models.FilteredDataset {
	return models.FilteredDataset{Records: []models.Record{
		{Gender: "Male", Age: 19, City: "Pune", Depression: 1, SuicidalThoughts: "Yes", FamilyHistory: "Yes", AcademicPressure: 5, FinancialStress: 4, DegreeLevel: "Class 12", SleepDuration: "Less than 5 hours", DietaryHabits: "Unhealthy"},
		{Gender: "Female", Age: 21, City: "Pune", Depression: 1, SuicidalThoughts: "Yes", FamilyHistory: "Yes", AcademicPressure: 4, FinancialStress: 5, DegreeLevel: "Graduated", SleepDuration: "5-6 hours", DietaryHabits: "Unhealthy"},
		{Gender: "Male", Age: 24, City: "Delhi", Depression: 1, SuicidalThoughts: "Yes", FamilyHistory: "Yes", AcademicPressure: 5, FinancialStress: 3, DegreeLevel: "Graduated", SleepDuration: "Less than 5 hours", DietaryHabits: "Moderate"},
		{Gender: "Female", Age: 25, City: "Pune", Depression: 1, SuicidalThoughts: "No", FamilyHistory: "Yes", AcademicPressure: 3, FinancialStress: 4, DegreeLevel: "Post Graduate", SleepDuration: "7-8 hours", DietaryHabits: "Unhealthy"},
		{Gender: "Male", Age: 30, City: "Mumbai", Depression: 1, SuicidalThoughts: "No", FamilyHistory: "No", AcademicPressure: 4, FinancialStress: 2, DegreeLevel: "Post Graduate", SleepDuration: "5-6 hours", DietaryHabits: "Healthy"},
		{Gender: "Female", Age: 34, City: "Pune", Depression: 1, SuicidalThoughts: "No", FamilyHistory: "No", AcademicPressure: 3, FinancialStress: 3, DegreeLevel: "Class 12", SleepDuration: "Others", DietaryHabits: "Moderate"},
		{Gender: "Male", Age: 35, City: "Mumbai", Depression: 0, SuicidalThoughts: "No", FamilyHistory: "Yes", AcademicPressure: 2, FinancialStress: 1, DegreeLevel: "Graduated", SleepDuration: "7-8 hours", DietaryHabits: "Healthy"},
		{Gender: "Female", Age: 45, City: "Agra", Depression: 0, SuicidalThoughts: "Yes", FamilyHistory: "No", AcademicPressure: 1, FinancialStress: 2, DegreeLevel: "Class 12", SleepDuration: "More than 8 hours", DietaryHabits: "Healthy"},
		{Gender: "Male", Age: 55, City: "Agra", Depression: 0, SuicidalThoughts: "No", FamilyHistory: "No", AcademicPressure: 2, FinancialStress: math.NaN(), DegreeLevel: "Graduated", SleepDuration: "7-8 hours", DietaryHabits: "Moderate"},
		{Gender: "Male", Age: 60, City: "Surat", Depression: 0, SuicidalThoughts: "No", FamilyHistory: "No", AcademicPressure: 3, FinancialStress: 3, DegreeLevel: "Post Graduate", SleepDuration: "Nine hours", DietaryHabits: "Healthy"},
	}}
}

func TestCompute(t *testing.T) {
	m := Compute(tenStudents())

	assert.Equal(t, 10, m.TotalStudents)
	assert.Equal(t, 6, m.DepressionCases)
	assert.Equal(t, 3, m.HighRisk)
	assert.InDelta(t, 60.0, m.DepressionRate, 1e-9)
	assert.Equal(t, 66.7, Round1(m.FamilyHistoryPct))
	assert.Equal(t, "Pune", m.TopCity)
}

func TestComputeEmpty(t *testing.T) {
	m := Compute(models.FilteredDataset{})

	assert.Equal(t, MetricSet{TopCity: NoCity}, m)
}

func TestComputeWithoutDepression(t *testing.T) {
	f := models.FilteredDataset{Records: []models.Record{
		{Gender: "Male", Age: 20, City: "Pune", Depression: 0},
		{Gender: "Female", Age: 22, City: "Agra", Depression: 0},
	}}

	m := Compute(f)
	assert.Equal(t, 2, m.TotalStudents)
	assert.Zero(t, m.DepressionRate)
	assert.Zero(t, m.FamilyHistoryPct)
	assert.Equal(t, NoCity, m.TopCity)
}

func TestComputeRatesStayInRange(t *testing.T) {
	records := tenStudents().Records
	for n := 1; n <= len(records); n++ {
		m := Compute(models.FilteredDataset{Records: records[:n]})
		assert.GreaterOrEqual(t, m.DepressionRate, 0.0)
		assert.LessOrEqual(t, m.DepressionRate, 100.0)
		assert.GreaterOrEqual(t, m.FamilyHistoryPct, 0.0)
		assert.LessOrEqual(t, m.FamilyHistoryPct, 100.0)
	}
}

func TestTopCityTieIsAlphabetical(t *testing.T) {
	f := models.FilteredDataset{Records: []models.Record{
		{City: "Surat", Depression: 1},
		{City: "Agra", Depression: 1},
	}}
	assert.Equal(t, "Agra", Compute(f).TopCity)
}

func TestBuildEmpty(t *testing.T) {
	d := Build(models.FilteredDataset{})

	require.Len(t, d.Tables, len(Breakdowns))
	for _, table := range d.Tables {
		assert.True(t, table.Empty(), table.Name)
		assert.Zero(t, table.Excluded, table.Name)
	}
}

func TestEmptyTablesEncodeCellsAsArrays(t *testing.T) {
	for _, f := range []models.FilteredDataset{{}, {Records: []models.Record{{Gender: "Male", Age: 30, FamilyHistory: "Maybe"}}}} {
		for _, table := range Build(f).Tables {
			if !table.Empty() {
				continue
			}
			assert.NotNil(t, table.Cells, table.Name)
			out, err := json.Marshal(table)
			require.NoError(t, err)
			assert.Contains(t, string(out), `"cells":[]`, table.Name)
		}
	}
}

func TestGenderDistribution(t *testing.T) {
	table := GenderDistribution(tenStudents())

	assert.Equal(t, KindPie, table.Kind)
	assert.Equal(t, []Cell{
		{Category: "Male", Value: 6},
		{Category: "Female", Value: 4},
	}, table.Cells)
}

func TestStressByDepression(t *testing.T) {
	table := StressByDepression(tenStudents())

	assert.Equal(t, []string{models.ColAcademicPressure, models.ColFinancialStress}, table.Categories())
	assert.Equal(t, []string{SeriesNoDepression, SeriesDepression}, table.Series())

	v, ok := table.Value(models.ColAcademicPressure, SeriesDepression)
	require.True(t, ok)
	assert.InDelta(t, 4.0, v, 1e-9)

	// The blank financial-stress score is skipped: (1+2+3)/3.
	v, ok = table.Value(models.ColFinancialStress, SeriesNoDepression)
	require.True(t, ok)
	assert.InDelta(t, 2.0, v, 1e-9)
}

func TestStressByDepressionSingleGroup(t *testing.T) {
	f := models.FilteredDataset{Records: []models.Record{
		{Depression: 1, AcademicPressure: 4, FinancialStress: 2},
	}}
	table := StressByDepression(f)

	assert.Equal(t, []string{SeriesDepression}, table.Series())
	assert.Len(t, table.Cells, 2)
}

func TestAgeDistribution(t *testing.T) {
	table := AgeDistribution(tenStudents())

	assert.Equal(t, []Cell{
		{Category: "18-24", Value: 3},
		{Category: "25-34", Value: 3},
		{Category: "35-44", Value: 1},
		{Category: "45-54", Value: 1},
		{Category: "55-59", Value: 1},
	}, table.Cells)
	assert.Equal(t, 1, table.Excluded)
	assert.Equal(t, float64(tenStudents().Len()-table.Excluded), table.Total())
}

func TestBandForPartitionsAges(t *testing.T) {
	for age := 0; age <= 100; age++ {
		matches := 0
		for _, b := range AgeBands {
			if age >= b.Min && age <= b.Max {
				matches++
			}
		}
		_, ok := BandFor(age)
		if age >= 18 && age <= 59 {
			assert.Equal(t, 1, matches, "age %d", age)
			assert.True(t, ok, "age %d", age)
		} else {
			assert.Zero(t, matches, "age %d", age)
			assert.False(t, ok, "age %d", age)
		}
	}
}

func TestDegreeByDepression(t *testing.T) {
	table := DegreeByDepression(tenStudents())

	assert.Equal(t, KindStackedBar, table.Kind)
	assert.Equal(t, []string{"Class 12", "Graduated", "Post Graduate"}, table.Categories())
	v, _ := table.Value("Graduated", SeriesDepression)
	assert.Equal(t, 2.0, v)
	v, _ = table.Value("Graduated", SeriesNoDepression)
	assert.Equal(t, 2.0, v)
	assert.Equal(t, 10.0, table.Total())
}

func TestFamilyHistoryByDepression(t *testing.T) {
	table := FamilyHistoryByDepression(tenStudents())

	assert.Equal(t, []Cell{
		{Category: "No Family History", Series: SeriesNoDepression, Value: 3},
		{Category: "No Family History", Series: SeriesDepression, Value: 2},
		{Category: "With Family History", Series: SeriesNoDepression, Value: 1},
		{Category: "With Family History", Series: SeriesDepression, Value: 4},
	}, table.Cells)
}

func TestSleepByDepression(t *testing.T) {
	table := SleepByDepression(tenStudents())

	assert.Equal(t, []string{"< 5 hrs", "5-6 hrs", "7-8 hrs", "> 8 hrs", "Others"}, table.Categories())
	v, _ := table.Value("< 5 hrs", SeriesDepression)
	assert.Equal(t, 2.0, v)
	// "Nine hours" is not a known answer and lands in Others.
	v, _ = table.Value("Others", SeriesNoDepression)
	assert.Equal(t, 1.0, v)
	_, ok := table.Value("< 5 hrs", SeriesNoDepression)
	assert.False(t, ok)
}

func TestTopCities(t *testing.T) {
	var records []models.Record
	add := func(city string, n int) {
		for i := 0; i < n; i++ {
			records = append(records, models.Record{City: city, Depression: 1})
		}
	}
	add("Pune", 6)
	add("Delhi", 5)
	add("Agra", 4)
	add("Surat", 3)
	add("Thane", 2)
	add("Patna", 1)
	records = append(records, models.Record{City: "Indore", Depression: 0})

	table := TopCities(models.FilteredDataset{Records: records})
	assert.Equal(t, []Cell{
		{Category: "Thane", Value: 2},
		{Category: "Surat", Value: 3},
		{Category: "Agra", Value: 4},
		{Category: "Delhi", Value: 5},
		{Category: "Pune", Value: 6},
	}, table.Cells)
}

func TestDietByDepression(t *testing.T) {
	table := DietByDepression(tenStudents())

	assert.Equal(t, []string{"Healthy", "Moderate", "Unhealthy"}, table.Categories())
	_, ok := table.Value("Unhealthy", SeriesNoDepression)
	assert.False(t, ok)
	v, _ := table.Value("Unhealthy", SeriesDepression)
	assert.Equal(t, 3.0, v)
}

func TestDashboardTable(t *testing.T) {
	d := Build(tenStudents())

	table, ok := d.Table(TableTopCities)
	require.True(t, ok)
	assert.Equal(t, KindLollipop, table.Kind)

	_, ok = d.Table("missing")
	assert.False(t, ok)
}
