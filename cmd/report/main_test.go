package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/icco/depressiondash/lib/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvData = `Gender,Age,City,Depression,Suicidal thoughts,Family History of Mental Illness,Academic Pressure,Financial Stress,Degree_Level,Sleep Duration,Dietary Habits
Male,19,Pune,1,Yes,Yes,5,4,Class 12,Less than 5 hours,Unhealthy
Female,24,Khaziabad,1,No,No,3,2,Graduated,5-6 hours,Moderate
Male,33,Delhi,0,No,Yes,2,1,Post Graduate,7-8 hours,Healthy
`

func writeData(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "students.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0o600))
	return path
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func defaultOptions(path string) options {
	return options{dataPath: path, depression: "all", city: "All", ageMin: -1, ageMax: -1}
}

func TestRunTables(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), defaultOptions(writeData(t)), &out, quiet()))

	s := out.String()
	assert.Contains(t, s, "Total Students")
	assert.Contains(t, s, "66.7%")
	assert.Contains(t, s, "students.csv")
}

func TestRunJSONWithFilters(t *testing.T) {
	o := defaultOptions(writeData(t))
	o.asJSON = true
	o.genders = "Female"
	o.city = "Ghaziabad"

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), o, &out, quiet()))

	var d metrics.Dashboard
	require.NoError(t, json.Unmarshal(out.Bytes(), &d))
	assert.Equal(t, 1, d.Metrics.TotalStudents)
	assert.Equal(t, "Ghaziabad", d.Metrics.TopCity)
	assert.Len(t, d.Tables, len(metrics.Breakdowns))
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer

	err := run(context.Background(), defaultOptions(""), &out, quiet())
	require.Error(t, err)

	o := defaultOptions(writeData(t))
	o.city = "Atlantis"
	err = run(context.Background(), o, &out, quiet())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Atlantis"))
}
