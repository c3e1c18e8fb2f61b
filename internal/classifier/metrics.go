package classifier

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plantid",
			Name:      "predictions_total",
			Help:      "Total number of predictions by outcome",
		},
		[]string{"outcome"},
	)

	inferenceDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "plantid",
			Name:      "inference_duration_seconds",
			Help:      "Duration of model forward passes in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	modelLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "plantid",
			Name:      "model_loaded",
			Help:      "1 when a model is loaded and serving, 0 otherwise",
		},
	)
)

func init() {
	prometheus.MustRegister(predictionsTotal, inferenceDuration, modelLoaded)
}

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	return KindOf(err).String()
}
