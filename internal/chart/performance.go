// Package chart renders the intraday performance series as an HTML area chart.
package chart

import (
	"fmt"
	"io"
	"math"

	"tradeforge-dashboard/internal/model"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	colorBackground    = "#0f172a"
	colorTextPrimary   = "#e2e8f0"
	colorTextSecondary = "#94a3b8"
	colorLine          = "#3b82f6"
	colorBaseline      = "#f59e0b"

	defaultWidthPx  = 960
	defaultHeightPx = 360
)

// Options controls the size and reference line of the rendered chart.
type Options struct {
	Title    string
	Width    int
	Height   int
	Baseline float64 // drawn as a dashed reference line when > 0
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Performance"
	}
	if o.Width <= 0 {
		o.Width = defaultWidthPx
	}
	if o.Height <= 0 {
		o.Height = defaultHeightPx
	}
	return o
}

// Performance builds the line chart for points. Non-finite values are
// plotted as 0.
func Performance(points []model.PerformancePoint, o Options) *charts.Line {
	o = o.withDefaults()

	subtitle := fmt.Sprintf("%d points", len(points))
	if len(points) == 0 {
		subtitle = "No performance data yet"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       o.Title,
			Theme:           types.ThemeWesteros,
			Width:           fmt.Sprintf("%dpx", o.Width),
			Height:          fmt.Sprintf("%dpx", o.Height),
			BackgroundColor: colorBackground,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:         o.Title,
			Subtitle:      subtitle,
			Left:          "left",
			TitleStyle:    &opts.TextStyle{Color: colorTextPrimary, FontSize: 16},
			SubtitleStyle: &opts.TextStyle{Color: colorTextSecondary},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale:     opts.Bool(true),
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.2)}},
		}),
	)

	xAxis, values := series(points)
	line.SetXAxis(xAxis)
	line.AddSeries("Value", values,
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorLine, Width: 2}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Color: colorLine, Opacity: opts.Float(0.3)}),
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
	)

	if o.Baseline > 0 && len(points) > 0 {
		ref := make([]opts.LineData, len(points))
		for i := range ref {
			ref[i] = opts.LineData{Value: o.Baseline}
		}
		line.AddSeries("Initial capital", ref,
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorBaseline, Width: 1, Type: "dashed"}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
	}

	return line
}

// Render writes a standalone HTML page containing the performance chart.
func Render(w io.Writer, points []model.PerformancePoint, o Options) error {
	if err := Performance(points, o).Render(w); err != nil {
		return fmt.Errorf("failed to render performance chart: %w", err)
	}
	return nil
}

func series(points []model.PerformancePoint) ([]string, []opts.LineData) {
	xAxis := make([]string, len(points))
	values := make([]opts.LineData, len(points))
	for i, p := range points {
		xAxis[i] = p.Time
		v := p.Value
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		values[i] = opts.LineData{Value: v}
	}
	return xAxis, values
}
