// Package metrics expone contadores e histogramas de prometheus para el motor de recomendacion.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// ResultsTotal cuenta resultados por operacion y p_result_code.
	ResultsTotal *prometheus.CounterVec
	// RankDuration mide el tiempo de ranking en proceso (sin contar la lectura del catalogo).
	RankDuration *prometheus.HistogramVec
	// SweptTotal acumula analisis borrados por el sweep.
	SweptTotal prometheus.Counter
	// RequestDuration mide la latencia HTTP por ruta.
	RequestDuration *prometheus.HistogramVec
}

// New registra las metricas en reg. Con reg nil se usa el registro por defecto.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ResultsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coffee_reco_results_total",
				Help: "Total number of operation outcomes by result code",
			},
			[]string{"operation", "code"},
		),
		RankDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coffee_reco_rank_duration_seconds",
				Help:    "Duration of in-process catalog ranking in seconds",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
			[]string{"operation"},
		),
		SweptTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "coffee_reco_swept_analyses_total",
				Help: "Total number of expired analyses deleted by the sweep",
			},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coffee_reco_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

func (m *Metrics) ObserveRank(op string, elapsed time.Duration) {
	m.RankDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *Metrics) AddSwept(n int64) {
	if n > 0 {
		m.SweptTotal.Add(float64(n))
	}
}

func (m *Metrics) RecordResult(op, code string) {
	m.ResultsTotal.WithLabelValues(op, code).Inc()
}

func (m *Metrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}
