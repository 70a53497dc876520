package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ProcessedEvents = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sync_processed_total", Help: "Total processed outbox events"},
	)
	FailedEvents = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sync_failed_total", Help: "Total failed outbox events"},
	)
	DLQEvents = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sync_dlq_total", Help: "Total events inserted into DLQ"},
	)
	RegistrationOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "registration_ops_total", Help: "Registration operations by op and result"},
		[]string{"op", "result"},
	)
	Exports = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "exports_total", Help: "Export attempts by format and result"},
		[]string{"format", "result"},
	)
	ExportDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "export_duration_seconds",
			Help:    "Time spent encoding export artifacts",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"format"},
	)
)

func Register() {
	prometheus.MustRegister(ProcessedEvents, FailedEvents, DLQEvents, RegistrationOps, Exports, ExportDuration)
}

// Result maps an error to the "result" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
