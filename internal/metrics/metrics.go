package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	txTotal    *prometheus.CounterVec
	txDuration *prometheus.HistogramVec
	errors     *prometheus.CounterVec
}

var singleton = sync.OnceValue(func() *Metrics {
	return &Metrics{
		txTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskboard",
			Name:      "tx_total",
			Help:      "Total number of core transactions by operation and result.",
		}, []string{"op", "result"}),
		txDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "taskboard",
			Name:      "tx_duration_seconds",
			Help:      "Duration of core transactions, lock wait included.",
			Buckets: []float64{
				0.001, 0.002, 0.005,
				0.01, 0.02, 0.05,
				0.1, 0.2, 0.5,
				1, 2, 5,
			},
		}, []string{"op"}),
		errors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskboard",
			Name:      "core_errors_total",
			Help:      "Typed failures returned by the core, by kind.",
		}, []string{"kind"}),
	}
})

// Use returns the process-wide metric set registered on the default registry.
func Use() *Metrics {
	return singleton()
}

func (m *Metrics) ObserveTx(op string, started time.Time, err error) {
	result := "committed"
	if err != nil {
		result = "rolled_back"
	}
	m.txTotal.WithLabelValues(op, result).Inc()
	m.txDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

func (m *Metrics) CountError(kind string) {
	m.errors.WithLabelValues(kind).Inc()
}
