// Package report formats dashboard results as plain-text tables.
package report

import (
	"fmt"
	"strings"

	"github.com/icco/depressiondash/lib/metrics"
	"github.com/icco/depressiondash/lib/types"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Metrics renders the six headline metrics.
func Metrics(m metrics.MetricSet) string {
	t := table.NewWriter()
	t.SetTitle("Metrics")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Total Students", m.TotalStudents},
		{"Depression Cases", m.DepressionCases},
		{"Depression Rate", fmt.Sprintf("%.1f%%", metrics.Round1(m.DepressionRate))},
		{"High Risk Cases", m.HighRisk},
		{"Top City", m.TopCity},
		{"Family History", fmt.Sprintf("%.1f%%", metrics.Round1(m.FamilyHistoryPct))},
	})
	t.SetStyle(table.StyleLight)
	return t.Render()
}

// Table renders one breakdown. Tables with series are pivoted so each
// series gets a column.
func Table(bt metrics.Table) string {
	t := table.NewWriter()
	t.SetTitle(bt.Title)
	t.SetStyle(table.StyleLight)

	if bt.Empty() {
		t.AppendRow(table.Row{"No data"})
		return t.Render()
	}

	series := bt.Series()
	if len(series) == 1 && series[0] == "" {
		t.AppendHeader(table.Row{"Category", "Value"})
		for _, c := range bt.Cells {
			t.AppendRow(table.Row{c.Category, formatValue(c.Value)})
		}
	} else {
		header := table.Row{"Category"}
		for _, s := range series {
			header = append(header, s)
		}
		t.AppendHeader(header)
		for _, category := range bt.Categories() {
			row := table.Row{category}
			for _, s := range series {
				v, ok := bt.Value(category, s)
				if !ok {
					v = 0
				}
				row = append(row, formatValue(v))
			}
			t.AppendRow(row)
		}
	}

	if bt.Excluded > 0 {
		t.AppendFooter(table.Row{"Excluded", bt.Excluded})
	}
	return t.Render()
}

// Dashboard renders the metrics followed by every breakdown.
func Dashboard(d metrics.Dashboard) string {
	parts := []string{Metrics(d.Metrics)}
	for _, bt := range d.Tables {
		parts = append(parts, Table(bt))
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// Stats renders a dataset summary.
func Stats(s types.DatasetStats) string {
	t := table.NewWriter()
	t.SetTitle("Dataset")
	t.AppendRows([]table.Row{
		{"Source", s.Source},
		{"Records", s.TotalRecords},
		{"Genders", s.Genders},
		{"Cities", s.Cities},
		{"Ages", fmt.Sprintf("%d-%d", s.AgeMin, s.AgeMax)},
		{"Depression Cases", s.DepressionCases},
	})
	t.SetStyle(table.StyleLight)
	return t.Render()
}

// formatValue prints counts without decimals and means with two.
func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
