package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics содержит Prometheus метрики приложения.
// Основной потребитель - фоновая сверка: она работает без HTTP запросов,
// и кроме метрик ее снаружи не видно
type Metrics struct {
	SweepsTotal     prometheus.Counter
	PassesActivated prometheus.Counter
	PassesClosed    *prometheus.CounterVec
	SweepFailures   prometheus.Counter
	CrossingsTotal  *prometheus.CounterVec
}

// New создает и регистрирует все метрики в registry
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SweepsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "checkpoint_sweeps_total",
			Help: "Total number of reconciliation sweeps executed",
		}),
		PassesActivated: factory.NewCounter(prometheus.CounterOpts{
			Name: "checkpoint_passes_activated_total",
			Help: "Total number of delayed passes promoted to active by the sweeper",
		}),
		PassesClosed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "checkpoint_passes_closed_total",
			Help: "Total number of expired passes closed by the sweeper, by outcome",
		}, []string{"outcome"}),
		SweepFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "checkpoint_sweep_failures_total",
			Help: "Total number of per-pass failures during reconciliation sweeps",
		}),
		CrossingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "checkpoint_crossings_total",
			Help: "Total number of recorded crossings, by direction",
		}, []string{"direction"}),
	}
}
