package chart

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"tradeforge-dashboard/internal/model"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Series(t *testing.T) {
	points := []model.PerformancePoint{
		{Time: "09:30", Value: 10000},
		{Time: "12:00", Value: 10210.4},
		{Time: "16:00", Value: 10432.5},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, points, Options{Title: "Intraday"}))

	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "Intraday")
	assert.Contains(t, html, "09:30")
	assert.Contains(t, html, "16:00")
	assert.Contains(t, html, "10432.5")
	assert.Contains(t, html, "3 points")
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []model.PerformancePoint{}, Options{}))

	html := buf.String()
	assert.Contains(t, html, "Performance")
	assert.Contains(t, html, "No performance data yet")
}

func TestPerformance_BaselineReference(t *testing.T) {
	points := []model.PerformancePoint{{Time: "09:30", Value: 9900}, {Time: "10:00", Value: 10100}}

	withRef := Performance(points, Options{Baseline: 10000})
	assert.Len(t, withRef.MultiSeries, 2)

	withoutRef := Performance(points, Options{})
	assert.Len(t, withoutRef.MultiSeries, 1)

	empty := Performance(nil, Options{Baseline: 10000})
	assert.Len(t, empty.MultiSeries, 1, "no reference line without points")
}

func TestSeries_NonFiniteValues(t *testing.T) {
	xAxis, values := series([]model.PerformancePoint{
		{Time: "a", Value: math.NaN()},
		{Time: "b", Value: math.Inf(1)},
		{Time: "c", Value: 42},
	})

	assert.Equal(t, []string{"a", "b", "c"}, xAxis)
	assert.Equal(t, []opts.LineData{{Value: 0.0}, {Value: 0.0}, {Value: 42.0}}, values)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRender_WriterError(t *testing.T) {
	err := Render(failingWriter{}, nil, Options{})
	assert.Error(t, err)
}
