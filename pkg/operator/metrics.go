package operator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/l7mp/rcollections/pkg/change"
)

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rcollections_events_total",
		Help: "Total number of change events emitted by operators",
	}, []string{"operator", "kind"})

	batchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rcollections_batches_total",
		Help: "Total number of change batches emitted by operators",
	}, []string{"operator"})

	operatorsActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rcollections_operators_active",
		Help: "Number of live operators",
	}, []string{"operator"})
)

func countBatch(operator string, kinds []change.Kind) {
	batchesTotal.WithLabelValues(operator).Inc()
	for _, k := range kinds {
		eventsTotal.WithLabelValues(operator, k.String()).Inc()
	}
}
