package filter

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/icco/depressiondash/lib/validation"
	"github.com/icco/depressiondash/models"
)

// ErrInvalidParam is returned when a filter parameter cannot be parsed.
var ErrInvalidParam = errors.New("invalid filter parameter")

// Defaults holds the selection used before the user touches any control:
// every gender checked and the full observed age range.
type Defaults struct {
	Genders []string
	AgeMin  int
	AgeMax  int
}

// Selection returns the default selection.
func (d Defaults) Selection() models.FilterSelection {
	return models.NewFilterSelection(d.Genders, d.AgeMin, d.AgeMax, models.DepressionAll, models.AllCities)
}

// Request is the wire form of a selection, shared by the dashboard form and
// the JSON API. Nil fields fall back to Defaults. A non-nil empty Genders
// means "no gender checked".
type Request struct {
	Genders    *[]string `json:"genders,omitempty"`
	AgeMin     *int      `json:"age_min,omitempty"`
	AgeMax     *int      `json:"age_max,omitempty"`
	Depression string    `json:"depression,omitempty"`
	City       string    `json:"city,omitempty"`
}

// Selection resolves the request against d.
func (r Request) Selection(d Defaults) (models.FilterSelection, error) {
	genders := d.Genders
	if r.Genders != nil {
		genders = *r.Genders
	}

	ageMin, ageMax := d.AgeMin, d.AgeMax
	if r.AgeMin != nil {
		ageMin = *r.AgeMin
	}
	if r.AgeMax != nil {
		ageMax = *r.AgeMax
	}
	if err := validation.ValidateAgeRange(ageMin, ageMax); err != nil {
		return models.FilterSelection{}, fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}

	depression, err := models.ParseDepressionFilter(r.Depression)
	if err != nil {
		return models.FilterSelection{}, fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}

	city := r.City
	if city == "" {
		city = models.AllCities
	}
	if !models.IsKnownCity(city) {
		return models.FilterSelection{}, fmt.Errorf("%w: unknown city %q", ErrInvalidParam, city)
	}

	return models.NewFilterSelection(genders, ageMin, ageMax, depression, city), nil
}

// RequestFor is the inverse of Request.Selection: every field is set.
func RequestFor(sel models.FilterSelection) Request {
	genders := sel.Genders()
	ageMin, ageMax := sel.AgeRange()
	return Request{
		Genders:    &genders,
		AgeMin:     &ageMin,
		AgeMax:     &ageMax,
		Depression: sel.Depression().String(),
		City:       sel.City(),
	}
}

// ParseQuery builds a selection from dashboard form parameters. The form
// sets apply=1; until it does, the gender set defaults to every gender.
func ParseQuery(q url.Values, d Defaults) (models.FilterSelection, error) {
	var req Request
	if q.Get("apply") != "" {
		genders := append([]string{}, q["gender"]...)
		req.Genders = &genders
	}

	var err error
	if req.AgeMin, err = intParam(q, "age_min"); err != nil {
		return models.FilterSelection{}, err
	}
	if req.AgeMax, err = intParam(q, "age_max"); err != nil {
		return models.FilterSelection{}, err
	}
	req.Depression = q.Get("depression")
	req.City = q.Get("city")

	return req.Selection(d)
}

// Encode is the inverse of ParseQuery.
func Encode(sel models.FilterSelection) url.Values {
	ageMin, ageMax := sel.AgeRange()
	q := url.Values{}
	q.Set("apply", "1")
	for _, g := range sel.Genders() {
		q.Add("gender", g)
	}
	q.Set("age_min", strconv.Itoa(ageMin))
	q.Set("age_max", strconv.Itoa(ageMax))
	q.Set("depression", sel.Depression().String())
	q.Set("city", sel.City())
	return q
}

func intParam(q url.Values, key string) (*int, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidParam, key, raw)
	}
	return &v, nil
}
