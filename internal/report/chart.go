package report

import (
	"bytes"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
)

// renderPieChart draws the age distribution as a PNG pie chart. Empty
// buckets are omitted; go-chart rejects zero-valued slices.
func renderPieChart(buckets []BucketCount, sizePx int) ([]byte, error) {
	values := make([]chart.Value, 0, len(buckets))
	for _, b := range buckets {
		if b.Count == 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: float64(b.Count),
			Label: fmt.Sprintf("%s (%d)", b.Label, b.Count),
		})
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no ages to chart")
	}

	pie := chart.PieChart{
		Width:  sizePx,
		Height: sizePx,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering pie chart: %w", err)
	}
	return buf.Bytes(), nil
}
