// Package metrics exports query metrics to prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Observer counts statements and records their duration, by operation
// (select, insert, update, delete, create, ...) and outcome
type Observer struct {
	queriesTotal  *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
}

// NewObserver registers the query metrics with reg, prometheus.DefaultRegisterer when nil
func NewObserver(reg prometheus.Registerer) *Observer {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Observer{
		queriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orm_queries_total",
				Help: "Total number of executed statements",
			},
			[]string{"operation", "status"},
		),
		queryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orm_query_duration_seconds",
				Help:    "Statement duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// ObserveQuery records one executed statement
func (o *Observer) ObserveQuery(operation string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}

	o.queriesTotal.WithLabelValues(operation, status).Inc()
	o.queryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
