package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/natovichat/rent-management-app/api/internal/finance"
)

// ErrTooFewPeriods is returned when a series is too short to plot.
var ErrTooFewPeriods = errors.New("need at least 2 periods to draw a chart")

// WriteSeriesChart renders income, expenses and net per period as a PNG
// line chart.
func WriteSeriesChart(w io.Writer, title string, series []finance.PeriodTotal) error {
	if len(series) < 2 {
		return fmt.Errorf("%w, got %d", ErrTooFewPeriods, len(series))
	}

	xValues := make([]float64, len(series))
	incomeY := make([]float64, len(series))
	expensesY := make([]float64, len(series))
	netY := make([]float64, len(series))
	ticks := make([]chart.Tick, len(series))

	for i, p := range series {
		xValues[i] = float64(i)
		incomeY[i] = p.Income.InexactFloat64()
		expensesY[i] = p.Expenses.InexactFloat64()
		netY[i] = p.Net.InexactFloat64()
		ticks[i] = chart.Tick{Value: float64(i), Label: p.Period}
	}

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Income",
				Style:   chart.Style{StrokeColor: drawing.ColorFromHex("16a34a"), StrokeWidth: 2.5},
				XValues: xValues,
				YValues: incomeY,
			},
			chart.ContinuousSeries{
				Name:    "Expenses",
				Style:   chart.Style{StrokeColor: drawing.ColorFromHex("dc2626"), StrokeWidth: 2.5},
				XValues: xValues,
				YValues: expensesY,
			},
			chart.ContinuousSeries{
				Name: "Net",
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("2563eb"),
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: xValues,
				YValues: netY,
			},
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}
