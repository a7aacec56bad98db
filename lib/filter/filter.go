// Package filter narrows the survey dataset to the records matching a
// FilterSelection.
package filter

import (
	"github.com/icco/depressiondash/models"
)

// Apply returns the records that satisfy every predicate of sel. It never
// modifies records; the returned slice holds copies with normalized cities.
//
// Predicates run in a fixed order: city normalization, gender, age,
// depression, city. An empty gender set yields an empty result.
func Apply(records []models.Record, sel models.FilterSelection) models.FilteredDataset {
	ageMin, ageMax := sel.AgeRange()
	depression := sel.Depression()
	city := sel.City()
	if city != models.AllCities {
		city = NormalizeCity(city)
	}

	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		r.City = NormalizeCity(r.City)

		if !sel.HasGender(r.Gender) {
			continue
		}
		if r.Age < ageMin || r.Age > ageMax {
			continue
		}
		if !depression.Matches(r.Depression) {
			continue
		}
		if city != models.AllCities && r.City != city {
			continue
		}
		out = append(out, r)
	}

	return models.FilteredDataset{Records: out}
}
