// Package metrics implements ports.MetricsCollector on top of
// prometheus/client_golang, following the dynamically-labelled
// promauto.NewCounterVec/GaugeVec/HistogramVec pattern used throughout
// the corpus's tracing packages, generalised here to register a vec
// lazily the first time a given metric name and label-key set is seen.
package metrics

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// Collector implements ports.MetricsCollector, registering one CounterVec,
// GaugeVec, or HistogramVec per (metric name, sorted label keys) pair
// against the supplied registry.
type Collector struct {
	registry prometheus.Registerer
	ns       string

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// New creates a Collector registered against registry (prometheus.DefaultRegisterer
// in production, a fresh prometheus.NewRegistry() in tests for isolation).
func New(registry prometheus.Registerer, namespace string) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	return &Collector{
		registry:   registry,
		ns:         namespace,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func labelKeys(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func vecKey(name string, keys []string) string {
	return name + "|" + strings.Join(keys, ",")
}

func labelValues(keys []string, labels map[string]string) []string {
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = labels[k]
	}
	return values
}

func (c *Collector) IncCounter(_ context.Context, name string, labels map[string]string) {
	keys := labelKeys(labels)
	c.mu.Lock()
	vec, ok := c.counters[vecKey(name, keys)]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.ns,
			Name:      name,
			Help:      name,
		}, keys)
		if err := c.registry.Register(vec); err != nil {
			if are, isAre := err.(prometheus.AlreadyRegisteredError); isAre {
				vec = are.ExistingCollector.(*prometheus.CounterVec)
			}
		}
		c.counters[vecKey(name, keys)] = vec
	}
	c.mu.Unlock()
	vec.WithLabelValues(labelValues(keys, labels)...).Inc()
}

func (c *Collector) SetGauge(_ context.Context, name string, value float64, labels map[string]string) {
	keys := labelKeys(labels)
	c.mu.Lock()
	vec, ok := c.gauges[vecKey(name, keys)]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: c.ns,
			Name:      name,
			Help:      name,
		}, keys)
		if err := c.registry.Register(vec); err != nil {
			if are, isAre := err.(prometheus.AlreadyRegisteredError); isAre {
				vec = are.ExistingCollector.(*prometheus.GaugeVec)
			}
		}
		c.gauges[vecKey(name, keys)] = vec
	}
	c.mu.Unlock()
	vec.WithLabelValues(labelValues(keys, labels)...).Set(value)
}

func (c *Collector) ObserveHistogram(_ context.Context, name string, value float64, labels map[string]string) {
	keys := labelKeys(labels)
	c.mu.Lock()
	vec, ok := c.histograms[vecKey(name, keys)]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: c.ns,
			Name:      name,
			Help:      name,
			Buckets:   prometheus.DefBuckets,
		}, keys)
		if err := c.registry.Register(vec); err != nil {
			if are, isAre := err.(prometheus.AlreadyRegisteredError); isAre {
				vec = are.ExistingCollector.(*prometheus.HistogramVec)
			}
		}
		c.histograms[vecKey(name, keys)] = vec
	}
	c.mu.Unlock()
	vec.WithLabelValues(labelValues(keys, labels)...).Observe(value)
}

var _ ports.MetricsCollector = (*Collector)(nil)
