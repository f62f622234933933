package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// register registers the collector and returns it. If an equivalent
// collector is already registered, the existing one is returned so
// that components created more than once share their metrics
func register(registerer prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	if err := registerer.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		panic(err)
	}

	return c
}

// padLabels truncates or pads labels to the expected length
func padLabels(labels []string, expected []string) []string {
	if len(labels) > len(expected) {
		labels = labels[:len(expected)]
	}
	return append(labels, make([]string, len(expected)-len(labels))...)
}
