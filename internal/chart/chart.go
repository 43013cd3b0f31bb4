// Package chart renders the portfolio growth chart served at /plot.png.
package chart

import (
	"fmt"
	"time"

	charts "github.com/vicanso/go-charts/v2"

	"portfolioTracker/internal/portfolio"
)

const (
	chartWidth  = 1000
	chartHeight = 500
)

// Render draws the growth series against the fixed-rate target line, with the
// scaled investment-activity series as bars, and returns PNG bytes.
func Render(a *portfolio.Analysis) ([]byte, error) {
	if a == nil || len(a.Growth) == 0 {
		return nil, fmt.Errorf("no series data to render")
	}

	xLabels := make([]string, 0, len(a.Growth))
	growth := make([]float64, 0, len(a.Growth))
	benchmark := make([]float64, 0, len(a.Benchmark))
	invest := make([]float64, 0, len(a.Investment))

	for i, p := range a.Growth {
		xLabels = append(xLabels, dateLabel(p.Date, len(a.Growth)))
		if p.Valid {
			growth = append(growth, p.Value)
		} else {
			growth = append(growth, charts.GetNullValue())
		}
		if i < len(a.Benchmark) {
			benchmark = append(benchmark, a.Benchmark[i].Value)
		}
		if i < len(a.Investment) {
			invest = append(invest, a.Investment[i].Value)
		}
	}

	seriesList := charts.NewSeriesListDataFromValues([][]float64{growth, benchmark}, charts.ChartTypeLine)
	seriesList = append(seriesList, charts.NewSeriesListDataFromValues([][]float64{invest}, charts.ChartTypeBar)...)

	splitNum := 6
	if len(xLabels) <= 30 {
		splitNum = len(xLabels) / 3
		if splitNum < 3 {
			splitNum = 3
		}
	}

	painter, err := charts.Render(
		charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc("TFSA Portfolio Growth Over Time"),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			SplitNumber: splitNum,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: []string{"Growth (%)", "5% FD Target", "Investment Activity (scaled)"},
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

func dateLabel(t time.Time, points int) string {
	if points <= 60 {
		return t.Format("Jan 02")
	}
	return t.Format("Jan '06")
}
