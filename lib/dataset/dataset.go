// Package dataset loads the survey records from a CSV, XLSX or SQLite source
// and keeps the loaded copy in a process-wide cache.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/icco/depressiondash/lib/filter"
	"github.com/icco/depressiondash/lib/types"
	"github.com/icco/depressiondash/models"
)

var (
	// ErrMissingColumn is returned when a source lacks a required column.
	ErrMissingColumn = errors.New("missing required column")

	// ErrEmptyFile is returned when a source has no header row.
	ErrEmptyFile = errors.New("empty dataset source")

	// ErrUnsupportedSource is returned for paths with an unknown extension.
	ErrUnsupportedSource = errors.New("unsupported dataset source")
)

// RowError reports a value that could not be decoded.
type RowError struct {
	// Row is the 1-based row number in the source, counting the header.
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d, column %q: invalid value %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Loader reads every record from a source.
type Loader interface {
	Load(ctx context.Context) (*Dataset, error)
}

// Dataset is the raw, immutable survey data.
type Dataset struct {
	Records  []models.Record
	Source   string
	LoadedAt time.Time
}

// Genders returns distinct genders in order of first appearance.
func (d *Dataset) Genders() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range d.Records {
		if !seen[r.Gender] {
			seen[r.Gender] = true
			out = append(out, r.Gender)
		}
	}
	return out
}

// AgeBounds returns the smallest and largest age. Both are 0 for an empty
// dataset.
func (d *Dataset) AgeBounds() (int, int) {
	if len(d.Records) == 0 {
		return 0, 0
	}
	lo, hi := d.Records[0].Age, d.Records[0].Age
	for _, r := range d.Records[1:] {
		if r.Age < lo {
			lo = r.Age
		}
		if r.Age > hi {
			hi = r.Age
		}
	}
	return lo, hi
}

// Defaults returns the selection shown before any control is touched.
func (d *Dataset) Defaults() filter.Defaults {
	lo, hi := d.AgeBounds()
	return filter.Defaults{Genders: d.Genders(), AgeMin: lo, AgeMax: hi}
}

// Stats summarizes the dataset.
func (d *Dataset) Stats() types.DatasetStats {
	lo, hi := d.AgeBounds()
	cities := make(map[string]bool)
	cases := 0
	for _, r := range d.Records {
		cities[filter.NormalizeCity(r.City)] = true
		if r.Depressed() {
			cases++
		}
	}
	return types.DatasetStats{
		Source:          d.Source,
		TotalRecords:    len(d.Records),
		Genders:         len(d.Genders()),
		Cities:          len(cities),
		AgeMin:          lo,
		AgeMax:          hi,
		DepressionCases: cases,
		LoadedAt:        d.LoadedAt,
	}
}

// decoder maps required column names to their position in a header row.
type decoder struct {
	index map[string]int
}

func newDecoder(header []string) (*decoder, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	var missing []string
	for _, col := range models.RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return &decoder{index: index}, nil
}

// decode turns one row into a Record. Short rows are padded with blanks.
func (d *decoder) decode(rowNum int, row []string) (models.Record, error) {
	get := func(col string) string {
		i := d.index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var r models.Record
	var err error

	r.Gender = get(models.ColGender)
	r.City = get(models.ColCity)
	r.SuicidalThoughts = get(models.ColSuicidalThoughts)
	r.FamilyHistory = get(models.ColFamilyHistory)
	r.DegreeLevel = get(models.ColDegreeLevel)
	r.SleepDuration = strings.Trim(get(models.ColSleepDuration), "'")
	r.DietaryHabits = get(models.ColDietaryHabits)

	if r.Age, err = parseAge(get(models.ColAge)); err != nil {
		return r, &RowError{Row: rowNum, Column: models.ColAge, Value: get(models.ColAge), Err: err}
	}
	if r.Depression, err = parseDepression(get(models.ColDepression)); err != nil {
		return r, &RowError{Row: rowNum, Column: models.ColDepression, Value: get(models.ColDepression), Err: err}
	}
	if r.AcademicPressure, err = parseScore(get(models.ColAcademicPressure)); err != nil {
		return r, &RowError{Row: rowNum, Column: models.ColAcademicPressure, Value: get(models.ColAcademicPressure), Err: err}
	}
	if r.FinancialStress, err = parseScore(get(models.ColFinancialStress)); err != nil {
		return r, &RowError{Row: rowNum, Column: models.ColFinancialStress, Value: get(models.ColFinancialStress), Err: err}
	}
	return r, nil
}

// decodeRows decodes a header row followed by data rows. Fully blank rows
// are skipped.
func decodeRows(ctx context.Context, rows [][]string) ([]models.Record, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	dec, err := newDecoder(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if blank(row) {
			continue
		}
		rec, err := dec.decode(i+2, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseAge accepts whole numbers written as floats ("24.0").
func parseAge(s string) (int, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if v != math.Trunc(v) || v <= 0 {
		return 0, fmt.Errorf("age must be a positive whole number")
	}
	return int(v), nil
}

func parseDepression(s string) (int, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || (v != 0 && v != 1) {
		return 0, fmt.Errorf("depression must be 0 or 1")
	}
	return int(v), nil
}

// parseScore returns NaN for a blank cell.
func parseScore(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	return v, nil
}
