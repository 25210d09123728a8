package classifier

import "github.com/prometheus/client_golang/prometheus"

var (
	modelLoadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "predictd",
			Subsystem: "model",
			Name:      "loads_total",
			Help:      "Total model load attempts (at most 1 per process)",
		},
	)

	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "predictd",
			Subsystem: "model",
			Name:      "predictions_total",
			Help:      "Total successful predictions by label",
		},
		[]string{"label"},
	)
)

func init() {
	prometheus.MustRegister(modelLoadsTotal, predictionsTotal)
}
