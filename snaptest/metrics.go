package snaptest

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/PowerDNS/snapshots/driver"
)

var (
	metricAssertions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshots_assertions_total",
			Help: "Number of snapshot assertions by outcome",
		},
		[]string{"driver", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(metricAssertions)
}

// outcomeLabel returns the metric label for the result of Assert
func outcomeLabel(outcome Outcome, err error) string {
	switch {
	case err == nil:
		return outcome.String()
	case driver.IsMismatch(err):
		return "mismatch"
	default:
		return "error"
	}
}

func observe(d driver.Driver, outcome Outcome, err error) {
	metricAssertions.WithLabelValues(d.Name(), outcomeLabel(outcome, err)).Inc()
}
