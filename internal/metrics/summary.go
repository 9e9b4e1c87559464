package metrics

import (
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Totals gathers every counter family in g and sums its series.
// Histograms contribute their sample count.
func Totals(g prom.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	totals := make(map[string]float64, len(families))

	for _, family := range families {
		var sum float64

		for _, metric := range family.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				sum += metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				sum += float64(metric.GetHistogram().GetSampleCount())
			}
		}

		totals[family.GetName()] = sum
	}

	return totals, nil
}
