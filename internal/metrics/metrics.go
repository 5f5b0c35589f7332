// Package metrics собирает метрики Prometheus HTTP-сервера в отдельном реестре.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "socialhub"

// Registry — реестр всех метрик сервиса.
var Registry = prometheus.NewRegistry()

// Метрики предметной области.
var (
	// OrganizerDecisions считает решения по заявкам организаторов.
	OrganizerDecisions = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "organizer_decisions_total",
			Help:      "Organizer request decisions by outcome",
		},
		[]string{"decision"},
	)

	// RateLimited считает запросы, отклонённые ограничителем частоты.
	RateLimited = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected with 429",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler отдаёт метрики реестра в формате Prometheus.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
