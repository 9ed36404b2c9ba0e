package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "billing_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	DocumentsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_documents_rendered_total",
		Help: "Rendered documents by kind and format.",
	}, []string{"kind", "format"})

	Extractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_pdf_extractions_total",
		Help: "PDF extraction attempts by result.",
	}, []string{"result"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_cache_lookups_total",
		Help: "List cache lookups by result (hit, miss).",
	}, []string{"result"})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_status_transitions_total",
		Help: "Stored status changes by record kind and target status.",
	}, []string{"kind", "status"})

	RecordsByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "billing_records_by_status",
		Help: "Records per kind and effective status, refreshed by the status collector.",
	}, []string{"kind", "status"})

	OutstandingAmount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "billing_outstanding_amount",
		Help: "Unpaid invoice totals per currency, split into open and overdue.",
	}, []string{"currency", "state"})
)
