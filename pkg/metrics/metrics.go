package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChangeEventsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adminhub_change_events_recorded_total",
		Help: "Number of audit change events recorded, by entity type.",
	}, []string{"entity_type"})

	HistoryExports = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adminhub_history_exports_total",
		Help: "Number of history CSV exports uploaded.",
	})
)
