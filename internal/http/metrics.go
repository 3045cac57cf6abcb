package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendorapi_requests_total",
		Help: "Total vendor API requests by vendor, method and status",
	}, []string{"vendor", "method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vendorapi_request_duration_seconds",
		Help:    "Vendor API request duration in seconds, retries included",
		Buckets: prometheus.DefBuckets,
	}, []string{"vendor", "method"})
)
