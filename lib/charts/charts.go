// Package charts renders breakdown tables as PNG images.
package charts

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/icco/depressiondash/lib/metrics"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrEmptyTable is returned for tables with nothing to draw. Callers show a
// "no data" placeholder instead.
var ErrEmptyTable = errors.New("table has no data to chart")

const (
	defaultWidth  = 800
	defaultHeight = 450
)

// palette is a blue scale, darkest first.
var palette = []drawing.Color{
	drawing.ColorFromHex("03045E"),
	drawing.ColorFromHex("0077B6"),
	drawing.ColorFromHex("00B4D8"),
	drawing.ColorFromHex("90E0EF"),
	drawing.ColorFromHex("CAF0F8"),
}

// seriesColors keeps the depression split consistent across panels.
var seriesColors = map[string]drawing.Color{
	metrics.SeriesNoDepression: drawing.ColorFromHex("90E0EF"),
	metrics.SeriesDepression:   drawing.ColorFromHex("03045E"),
}

func seriesColor(series string, i int) drawing.Color {
	if c, ok := seriesColors[series]; ok {
		return c
	}
	return palette[i%len(palette)]
}

// Render draws t as a PNG into w, picking the chart type from t.Kind.
func Render(w io.Writer, t metrics.Table) error {
	if t.Empty() || (t.Kind == metrics.KindPie && t.Total() == 0) {
		return ErrEmptyTable
	}

	var err error
	switch t.Kind {
	case metrics.KindPie:
		err = renderPie(w, t)
	case metrics.KindBar:
		err = renderBar(w, t, 50)
	case metrics.KindLollipop:
		err = renderBar(w, t, 10)
	case metrics.KindGroupedBar:
		err = renderGroupedBar(w, t)
	case metrics.KindStackedBar:
		err = renderStackedBar(w, t)
	case metrics.KindLine:
		err = renderLine(w, t)
	default:
		return fmt.Errorf("no renderer for chart kind %q", t.Kind)
	}
	if err != nil {
		return fmt.Errorf("error rendering %s chart: %w", t.Name, err)
	}
	return nil
}

func renderPie(w io.Writer, t metrics.Table) error {
	values := make([]chart.Value, 0, len(t.Cells))
	for i, c := range t.Cells {
		values = append(values, chart.Value{
			Value: c.Value,
			Label: fmt.Sprintf("%s (%.0f)", c.Category, c.Value),
			Style: chart.Style{FillColor: palette[i%len(palette)]},
		})
	}
	pie := chart.PieChart{
		Title:  t.Title,
		Width:  defaultHeight,
		Height: defaultHeight,
		Values: values,
	}
	return pie.Render(chart.PNG, w)
}

func renderBar(w io.Writer, t metrics.Table, barWidth int) error {
	bars := make([]chart.Value, 0, len(t.Cells))
	for i, c := range t.Cells {
		bars = append(bars, chart.Value{
			Value: c.Value,
			Label: c.Category,
			Style: chart.Style{FillColor: palette[i%len(palette)], StrokeColor: palette[0]},
		})
	}
	return barChart(t, bars, barWidth).Render(chart.PNG, w)
}

// renderGroupedBar lays the series of each category side by side, colored
// by series.
func renderGroupedBar(w io.Writer, t metrics.Table) error {
	series := t.Series()
	bars := make([]chart.Value, 0, len(t.Cells))
	for _, category := range t.Categories() {
		for i, s := range series {
			v, ok := t.Value(category, s)
			if !ok {
				continue
			}
			color := seriesColor(s, i)
			bars = append(bars, chart.Value{
				Value: v,
				Label: category + " / " + s,
				Style: chart.Style{FillColor: color, StrokeColor: color},
			})
		}
	}
	return barChart(t, bars, 40).Render(chart.PNG, w)
}

func barChart(t metrics.Table, bars []chart.Value, barWidth int) chart.BarChart {
	spacing := barWidth
	width := len(bars)*(barWidth+spacing) + 200
	if width < defaultWidth {
		width = defaultWidth
	}
	return chart.BarChart{
		Title:      t.Title,
		Width:      width,
		Height:     defaultHeight,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Bars:       bars,
		Background: chart.Style{Padding: chart.Box{Top: 50, Bottom: 40}},
		XAxis:      chart.Style{FontSize: 9},
		YAxis: chart.YAxis{
			Name:  t.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: headroom(maxValue(bars))},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f", f)
				}
				return ""
			},
		},
	}
}

func renderStackedBar(w io.Writer, t metrics.Table) error {
	series := t.Series()
	var bars []chart.StackedBar
	for _, category := range t.Categories() {
		bar := chart.StackedBar{Name: category}
		for i, s := range series {
			v, ok := t.Value(category, s)
			if !ok {
				continue
			}
			color := seriesColor(s, i)
			bar.Values = append(bar.Values, chart.Value{
				Value: v,
				Label: fmt.Sprintf("%.0f", v),
				Style: chart.Style{FillColor: color, StrokeColor: color},
			})
		}
		bars = append(bars, bar)
	}

	width := len(bars)*120 + 200
	if width < defaultWidth {
		width = defaultWidth
	}
	sbc := chart.StackedBarChart{
		Title:      t.Title,
		Width:      width,
		Height:     defaultHeight,
		BarSpacing: 40,
		Bars:       bars,
		Background: chart.Style{Padding: chart.Box{Top: 50}},
	}
	return sbc.Render(chart.PNG, w)
}

// renderLine plots one line per series over the categories in table order.
// Categories missing from a series count as zero. go-chart needs two x
// values for a line, so a single category is drawn as grouped bars.
func renderLine(w io.Writer, t metrics.Table) error {
	categories := t.Categories()
	if len(categories) < 2 {
		return renderGroupedBar(w, t)
	}
	xs := make([]float64, len(categories))
	ticks := make([]chart.Tick, len(categories))
	for i, c := range categories {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: c}
	}

	var series []chart.Series
	var top float64
	for i, s := range []string{metrics.SeriesNoDepression, metrics.SeriesDepression} {
		ys := make([]float64, len(categories))
		present := false
		for j, c := range categories {
			if v, ok := t.Value(c, s); ok {
				ys[j] = v
				present = true
				top = math.Max(top, v)
			}
		}
		if !present {
			continue
		}
		color := seriesColor(s, i)
		series = append(series, &chart.ContinuousSeries{
			Name:    s,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: color, StrokeWidth: 3, DotColor: color, DotWidth: 4},
		})
	}
	if len(series) == 0 {
		return ErrEmptyTable
	}

	graph := chart.Chart{
		Title:      t.Title,
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  t.XLabel,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(categories)) - 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  t.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: headroom(top)},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}

func maxValue(values []chart.Value) float64 {
	var m float64
	for _, v := range values {
		m = math.Max(m, v.Value)
	}
	return m
}

// headroom leaves space above the tallest bar and keeps the range non-zero.
func headroom(max float64) float64 {
	return max*1.1 + 1
}
