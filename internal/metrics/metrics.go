package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks task list activity. A nil *Metrics records nothing.
type Metrics struct {
	mutations  *prometheus.CounterVec
	saveErrors prometheus.Counter
	tasks      prometheus.Gauge
	completed  prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lumina",
			Name:      "task_mutations_total",
			Help:      "Task list mutations by operation and whether they changed anything.",
		}, []string{"op", "result"}),
		saveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lumina",
			Name:      "task_save_errors_total",
			Help:      "Failed writes of the task list.",
		}),
		tasks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lumina",
			Name:      "tasks",
			Help:      "Tasks currently in the list.",
		}),
		completed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lumina",
			Name:      "tasks_completed",
			Help:      "Completed tasks currently in the list.",
		}),
	}
	reg.MustRegister(m.mutations, m.saveErrors, m.tasks, m.completed)
	return m
}

// Mutation counts one operation. applied is false for no-ops.
func (m *Metrics) Mutation(op string, applied bool) {
	if m == nil {
		return
	}
	result := "applied"
	if !applied {
		result = "noop"
	}
	m.mutations.WithLabelValues(op, result).Inc()
}

// SaveError counts one failed write.
func (m *Metrics) SaveError() {
	if m == nil {
		return
	}
	m.saveErrors.Inc()
}

// Size records the current list size.
func (m *Metrics) Size(completed, total int) {
	if m == nil {
		return
	}
	m.tasks.Set(float64(total))
	m.completed.Set(float64(completed))
}
