package invoice

import (
	"bytes"
	"fmt"
	"voltabot/internal/pricing"

	"github.com/wcharczuk/go-chart/v2"
)

// renderBreakdownChart draws the per-unit price composition as a PNG pie.
func renderBreakdownChart(b pricing.Breakdown) ([]byte, error) {
	values := []chart.Value{
		{Label: "Base " + pricing.FormatAmount(b.Base), Value: float64(b.Base)},
		{Label: "Sensor " + pricing.FormatAmount(b.Sensor), Value: float64(b.Sensor)},
		{Label: "Sheath " + pricing.FormatAmount(b.Dimension), Value: float64(b.Dimension)},
		{Label: "Wire " + pricing.FormatAmount(b.Wire), Value: float64(b.Wire)},
	}

	pie := chart.PieChart{
		Width:  640,
		Height: 480,
		Values: values,
		Background: chart.Style{
			Padding:   chart.Box{Top: 30, Left: 30, Right: 30, Bottom: 30},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render price chart: %w", err)
	}
	return buffer.Bytes(), nil
}
