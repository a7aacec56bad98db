package filter

import (
	"errors"
	"net/url"
	"testing"

	"github.com/icco/depressiondash/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []models.Record {
	return []models.Record{
		{Gender: "Male", Age: 19, City: "Pune", Depression: 1},
		{Gender: "Female", Age: 22, City: "Khaziabad", Depression: 1},
		{Gender: "Male", Age: 27, City: "Ghaziabad", Depression: 0},
		{Gender: "Female", Age: 33, City: "Delhi", Depression: 0},
		{Gender: "Male", Age: 41, City: "Pune", Depression: 1},
		{Gender: "Female", Age: 58, City: "Mumbai", Depression: 0},
	}
}

func defaults() Defaults {
	return Defaults{Genders: []string{"Male", "Female"}, AgeMin: 19, AgeMax: 58}
}

func TestApply(t *testing.T) {
	all := []string{"Male", "Female"}
	tests := []struct {
		name string
		sel  models.FilterSelection
		want int
	}{
		{name: "defaults keep everything", sel: defaults().Selection(), want: 6},
		{name: "gender", sel: models.NewFilterSelection([]string{"Female"}, 0, 100, models.DepressionAll, models.AllCities), want: 3},
		{name: "no gender checked", sel: models.NewFilterSelection(nil, 0, 100, models.DepressionAll, models.AllCities), want: 0},
		{name: "age bounds are inclusive", sel: models.NewFilterSelection(all, 22, 33, models.DepressionAll, models.AllCities), want: 3},
		{name: "with depression", sel: models.NewFilterSelection(all, 0, 100, models.WithDepression, models.AllCities), want: 3},
		{name: "without depression", sel: models.NewFilterSelection(all, 0, 100, models.WithoutDepression, models.AllCities), want: 3},
		{name: "city uses normalized names", sel: models.NewFilterSelection(all, 0, 100, models.DepressionAll, "Ghaziabad"), want: 2},
		{name: "city with no rows", sel: models.NewFilterSelection(all, 0, 100, models.DepressionAll, "Agra"), want: 0},
		{name: "age range with no rows", sel: models.NewFilterSelection(all, 20, 21, models.DepressionAll, models.AllCities), want: 0},
		{name: "conjunction", sel: models.NewFilterSelection([]string{"Male"}, 18, 30, models.WithDepression, "Pune"), want: 1},
	}

	records := sampleRecords()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(records, tt.sel)
			assert.Equal(t, tt.want, got.Len())
			assert.LessOrEqual(t, got.Len(), len(records))
			for _, r := range got.Records {
				assert.NotEqual(t, "Khaziabad", r.City)
			}
		})
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	records := sampleRecords()
	Apply(records, defaults().Selection())
	assert.Equal(t, "Khaziabad", records[1].City)
}

func TestApplyEmptyDataset(t *testing.T) {
	got := Apply(nil, defaults().Selection())
	assert.Equal(t, 0, got.Len())
}

func TestNormalizeCity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Khaziabad", want: "Ghaziabad"},
		{in: " Khaziabad ", want: "Ghaziabad"},
		{in: "Ghaziabad", want: "Ghaziabad"},
		{in: "Vasai-Virar", want: "Vasai-Virar"},
		{in: "Ghāziābād", want: "Ghaziabad"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			once := NormalizeCity(tt.in)
			assert.Equal(t, tt.want, once)
			assert.Equal(t, once, NormalizeCity(once))
		})
	}
}

func TestParseQuery(t *testing.T) {
	t.Run("no form submitted uses defaults", func(t *testing.T) {
		sel, err := ParseQuery(url.Values{}, defaults())
		require.NoError(t, err)
		assert.Equal(t, []string{"Female", "Male"}, sel.Genders())
		min, max := sel.AgeRange()
		assert.Equal(t, 19, min)
		assert.Equal(t, 58, max)
		assert.Equal(t, models.DepressionAll, sel.Depression())
		assert.Equal(t, models.AllCities, sel.City())
	})

	t.Run("submitted form with no gender", func(t *testing.T) {
		sel, err := ParseQuery(url.Values{"apply": {"1"}}, defaults())
		require.NoError(t, err)
		assert.Empty(t, sel.Genders())
	})

	t.Run("all parameters", func(t *testing.T) {
		q := url.Values{
			"apply":      {"1"},
			"gender":     {"Female"},
			"age_min":    {"20"},
			"age_max":    {"30"},
			"depression": {"without"},
			"city":       {"Delhi"},
		}
		sel, err := ParseQuery(q, defaults())
		require.NoError(t, err)
		assert.Equal(t, []string{"Female"}, sel.Genders())
		min, max := sel.AgeRange()
		assert.Equal(t, 20, min)
		assert.Equal(t, 30, max)
		assert.Equal(t, models.WithoutDepression, sel.Depression())
		assert.Equal(t, "Delhi", sel.City())
	})

	invalid := []url.Values{
		{"age_min": {"abc"}},
		{"age_min": {"40"}, "age_max": {"30"}},
		{"depression": {"maybe"}},
		{"city": {"Atlantis"}},
	}
	for _, q := range invalid {
		t.Run("invalid "+q.Encode(), func(t *testing.T) {
			_, err := ParseQuery(q, defaults())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParam))
		})
	}
}

func TestEncodeParsesBack(t *testing.T) {
	sel := models.NewFilterSelection([]string{"Male"}, 21, 35, models.WithDepression, "Pune")

	got, err := ParseQuery(Encode(sel), defaults())
	require.NoError(t, err)
	assert.Equal(t, sel.Genders(), got.Genders())
	assert.Equal(t, sel.Depression(), got.Depression())
	assert.Equal(t, sel.City(), got.City())
}

func TestRequestForRoundTrip(t *testing.T) {
	sel := models.NewFilterSelection(nil, 18, 25, models.WithoutDepression, "Agra")

	req := RequestFor(sel)
	require.NotNil(t, req.Genders)
	assert.Empty(t, *req.Genders)

	got, err := req.Selection(defaults())
	require.NoError(t, err)
	assert.Empty(t, got.Genders())
	min, max := got.AgeRange()
	assert.Equal(t, 18, min)
	assert.Equal(t, 25, max)
	assert.Equal(t, models.WithoutDepression, got.Depression())
	assert.Equal(t, "Agra", got.City())
}
