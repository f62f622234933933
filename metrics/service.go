package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oasislabs/ledger-gateway/errors"
)

var (
	// Labels to use for partitioning requests.
	requestLabels = []string{"endpoint", "status", "cause"}

	// Labels to use for partitioning request latencies.
	requestLatencyLabels = []string{"endpoint"}
)

// ServiceMetrics are the default metrics of the gateway's http service
type ServiceMetrics struct {
	// Counts of requests made to each service endpoint.
	Requests *prometheus.CounterVec

	// Latencies of request transactions for each request operation the calling service supports.
	RequestLatencies *prometheus.SummaryVec
}

// NewDefaultServiceMetrics creates Prometheus metric instrumentation for basic
// metrics common to typical services. Default metrics include:
//
// 1. Counts of service endpoints hit.
// 2. Latencies for requests.
func NewDefaultServiceMetrics(registerer prometheus.Registerer, serviceName string) *ServiceMetrics {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_requests", serviceName),
			Help: "How many service requests were made, partitioned by request endpoint, status, and cause of failure.",
		},
		requestLabels,
	)
	latencies := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: fmt.Sprintf("%s_request_durations", serviceName),
			Help: "How long requests take to process, partitioned by the request endpoint.",
		},
		requestLatencyLabels,
	)

	return &ServiceMetrics{
		Requests:         register(registerer, requests).(*prometheus.CounterVec),
		RequestLatencies: register(registerer, latencies).(*prometheus.SummaryVec),
	}
}

// RequestCounter returns the counter for the calling request.
// Provided labels should be endpoint, status, cause.
func (m *ServiceMetrics) RequestCounter(labels ...string) prometheus.Counter {
	return m.Requests.WithLabelValues(padLabels(labels, requestLabels)...)
}

// RequestTimer creates a new latency timer for the provided request operation.
func (m *ServiceMetrics) RequestTimer(labels ...string) *prometheus.Timer {
	return prometheus.NewTimer(m.RequestLatencies.WithLabelValues(
		padLabels(labels, requestLatencyLabels)...))
}

// Cause returns the label that identifies the cause of an error
func Cause(err error) string {
	if err == nil {
		return ""
	}

	if e, ok := err.(errors.Err); ok {
		return strconv.Itoa(e.ErrorCode().Code())
	}

	return strconv.Itoa(errors.ErrInternalError.Code())
}
