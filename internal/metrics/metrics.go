// Package metrics содержит счётчики Prometheus для операций биллинга.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты операций для метки outcome.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// CreateRequests считает запросы на создание сущностей по результатам.
var CreateRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "billing_create_requests_total",
	Help: "Total create requests by entity and outcome.",
}, []string{"entity", "outcome"})
