package models

import (
	"fmt"
	"sort"
	"strings"
)

// Record is one survey respondent. Row position in the dataset is the id.
type Record struct {
	Gender           string
	Age              int
	City             string
	Depression       int // 0 or 1
	SuicidalThoughts string
	FamilyHistory    string
	AcademicPressure float64 // NaN when the source cell was blank
	FinancialStress  float64 // NaN when the source cell was blank
	DegreeLevel      string
	SleepDuration    string
	DietaryHabits    string
}

// Depressed reports whether the record is flagged with depression.
func (r Record) Depressed() bool {
	return r.Depression == 1
}

// Column names as they appear in the source file.
const (
	ColGender           = "Gender"
	ColAge              = "Age"
	ColCity             = "City"
	ColDepression       = "Depression"
	ColSuicidalThoughts = "Suicidal thoughts"
	ColFamilyHistory    = "Family History of Mental Illness"
	ColAcademicPressure = "Academic Pressure"
	ColFinancialStress  = "Financial Stress"
	ColDegreeLevel      = "Degree_Level"
	ColSleepDuration    = "Sleep Duration"
	ColDietaryHabits    = "Dietary Habits"
)

// RequiredColumns lists every column a dataset source must provide.
var RequiredColumns = []string{
	ColGender,
	ColAge,
	ColCity,
	ColDepression,
	ColSuicidalThoughts,
	ColFamilyHistory,
	ColAcademicPressure,
	ColFinancialStress,
	ColDegreeLevel,
	ColSleepDuration,
	ColDietaryHabits,
}

// AllCities is the city selection that disables the city predicate.
const AllCities = "All"

// KnownCities is the fixed list offered by the city selector.
var KnownCities = []string{
	"Agra", "Ahmedabad", "Bangalore", "Bhopal", "Chennai", "Delhi",
	"Faridabad", "Ghaziabad", "Hyderabad", "Indore", "Jaipur", "Kalyan",
	"Kanpur", "Kolkata", "Lucknow", "Ludhiana", "Meerut", "Mumbai",
	"Nagpur", "Nashik", "Patna", "Pune", "Rajkot", "Srinagar", "Surat",
	"Thane", "Vadodara", "Varanasi", "Vasai-Virar", "Visakhapatnam",
}

// IsKnownCity reports whether city is "All" or one of KnownCities.
func IsKnownCity(city string) bool {
	if city == AllCities {
		return true
	}
	for _, c := range KnownCities {
		if c == city {
			return true
		}
	}
	return false
}

// DepressionFilter restricts records by depression status.
type DepressionFilter int

const (
	DepressionAll DepressionFilter = iota
	WithDepression
	WithoutDepression
)

// String returns the query-parameter form of the filter.
func (d DepressionFilter) String() string {
	switch d {
	case WithDepression:
		return "with"
	case WithoutDepression:
		return "without"
	default:
		return "all"
	}
}

// Label returns the text shown next to the radio button.
func (d DepressionFilter) Label() string {
	switch d {
	case WithDepression:
		return "With Depression"
	case WithoutDepression:
		return "Without Depression"
	default:
		return "All"
	}
}

// Matches reports whether a depression value passes the filter.
func (d DepressionFilter) Matches(depression int) bool {
	switch d {
	case WithDepression:
		return depression == 1
	case WithoutDepression:
		return depression == 0
	default:
		return true
	}
}

// DepressionFilters lists the options in display order.
var DepressionFilters = []DepressionFilter{DepressionAll, WithDepression, WithoutDepression}

// ParseDepressionFilter accepts both the query form ("with") and the label
// form ("With Depression"). An empty string means all.
func ParseDepressionFilter(s string) (DepressionFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return DepressionAll, nil
	case "with", "with depression":
		return WithDepression, nil
	case "without", "without depression":
		return WithoutDepression, nil
	}
	return DepressionAll, fmt.Errorf("unknown depression filter %q", s)
}

// FilterSelection is the conjunction of the four active filter predicates.
// It is a value: build a new one for every interaction instead of changing
// an existing one.
type FilterSelection struct {
	genders    map[string]struct{}
	ageMin     int
	ageMax     int
	depression DepressionFilter
	city       string
}

// NewFilterSelection copies genders so later changes to the slice do not leak
// into the selection. An empty city is treated as AllCities.
func NewFilterSelection(genders []string, ageMin, ageMax int, depression DepressionFilter, city string) FilterSelection {
	set := make(map[string]struct{}, len(genders))
	for _, g := range genders {
		set[g] = struct{}{}
	}
	if city == "" {
		city = AllCities
	}
	return FilterSelection{
		genders:    set,
		ageMin:     ageMin,
		ageMax:     ageMax,
		depression: depression,
		city:       city,
	}
}

// HasGender reports whether gender is selected.
func (s FilterSelection) HasGender(gender string) bool {
	_, ok := s.genders[gender]
	return ok
}

// Genders returns the selected genders in sorted order.
func (s FilterSelection) Genders() []string {
	out := make([]string, 0, len(s.genders))
	for g := range s.genders {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// AgeRange returns the inclusive age bounds.
func (s FilterSelection) AgeRange() (int, int) {
	return s.ageMin, s.ageMax
}

// Depression returns the depression filter.
func (s FilterSelection) Depression() DepressionFilter {
	return s.depression
}

// City returns the selected city or AllCities.
func (s FilterSelection) City() string {
	if s.city == "" {
		return AllCities
	}
	return s.city
}

// FilteredDataset is the read-only subset of records that satisfied a
// FilterSelection. City values are already normalized.
type FilteredDataset struct {
	Records []Record
}

// Len returns the number of records.
func (f FilteredDataset) Len() int {
	return len(f.Records)
}
