// Package charts renders summary data as PNG images.
package charts

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"fintrack/internal/core"
)

// Generator turns aggregate rows into encoded chart images.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// CategoryPie renders the expense breakdown as a pie chart. Labels are
// category names, slice sizes the decimal totals. Returns nil bytes when
// there is nothing to draw.
func (g *Generator) CategoryPie(breakdown []core.CategoryTotal) ([]byte, error) {
	values := make([]chart.Value, 0, len(breakdown))
	var total float64
	for _, row := range breakdown {
		if row.Cents <= 0 {
			continue
		}
		amount := float64(row.Cents) / 100
		total += amount
		values = append(values, chart.Value{
			Value: amount,
			Label: fmt.Sprintf("%s (%s)", row.Name, row.Amount()),
		})
	}
	if len(values) == 0 || total == 0 {
		return nil, nil
	}

	pie := chart.PieChart{
		Width:  800,
		Height: 600,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   40,
				Right:  40,
				Bottom: 40,
			},
			FillColor: chart.ColorWhite,
		},
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render category pie: %w", err)
	}
	return buf.Bytes(), nil
}

// DailyExpenseLine renders per-day expense totals as a time series.
// go-chart needs at least two points; below that nil bytes are returned.
func (g *Generator) DailyExpenseLine(totals []core.DailyTotal) ([]byte, error) {
	if len(totals) < 2 {
		return nil, nil
	}

	xValues := make([]time.Time, 0, len(totals))
	yValues := make([]float64, 0, len(totals))
	for _, d := range totals {
		day, err := time.Parse(core.DateLayout, d.Date)
		if err != nil {
			return nil, fmt.Errorf("parse daily total date %q: %w", d.Date, err)
		}
		xValues = append(xValues, day)
		yValues = append(yValues, float64(d.Cents)/100)
	}

	graph := chart.Chart{
		Width:  1000,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    30,
				Left:   30,
				Right:  30,
				Bottom: 30,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("01-02"),
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("$%.2f", v.(float64))
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Daily expenses",
				XValues: xValues,
				YValues: yValues,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render daily expense line: %w", err)
	}
	return buf.Bytes(), nil
}
