package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Labels to use for operations against dependencies or on keys.
	operationLabels = []string{"operation", "status", "cause"}

	// Labels to use for operation latencies.
	operationLatencyLabels = []string{"operation"}
)

// Status labels of an operation
const (
	StatusOK      = "ok"
	StatusFailure = "failure"
)

// OperationMetrics instruments the operations performed by a component,
// such as calls to the ledger or signatures produced
type OperationMetrics struct {
	// Counts of operations.
	Operations *prometheus.CounterVec

	// Latencies of operations.
	OperationLatencies *prometheus.SummaryVec
}

// NewOperationMetrics creates the metrics for the operations of the
// named component. A nil registerer registers on the default one
func NewOperationMetrics(registerer prometheus.Registerer, component string) *OperationMetrics {
	operations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_operations", component),
			Help: fmt.Sprintf("How many %s operations are made, partitioned by operation, status and cause.", component),
		},
		operationLabels,
	)
	latencies := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: fmt.Sprintf("%s_operation_durations", component),
			Help: fmt.Sprintf("How long %s operations take, partitioned by operation.", component),
		},
		operationLatencyLabels,
	)

	return &OperationMetrics{
		Operations:         register(registerer, operations).(*prometheus.CounterVec),
		OperationLatencies: register(registerer, latencies).(*prometheus.SummaryVec),
	}
}

// OperationCounter returns the counter for the operation.
// Provided labels should be operation, status, and cause.
func (m *OperationMetrics) OperationCounter(labels ...string) prometheus.Counter {
	return m.Operations.WithLabelValues(padLabels(labels, operationLabels)...)
}

// OperationTimer creates a new latency timer for the provided operation.
func (m *OperationMetrics) OperationTimer(labels ...string) *prometheus.Timer {
	return prometheus.NewTimer(m.OperationLatencies.WithLabelValues(
		padLabels(labels, operationLatencyLabels)...))
}

// Observe records the outcome of an operation. The cause label is the
// error code of err if it has one
func (m *OperationMetrics) Observe(operation string, err error) {
	if err == nil {
		m.OperationCounter(operation, StatusOK).Inc()
		return
	}

	m.OperationCounter(operation, StatusFailure, Cause(err)).Inc()
}
