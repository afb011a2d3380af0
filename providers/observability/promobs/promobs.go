package promobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/leofalp/wfextract/providers/observability"
)

// DefaultLabels maps the pipeline metrics to the attribute keys recorded
// with them.
func DefaultLabels() map[string][]string {
	return map[string][]string{
		observability.MetricPipelineRuns:     {observability.AttrStatus, observability.AttrPipelineStrategy, observability.AttrPipelineErrorKind},
		observability.MetricPipelineDuration: {observability.AttrStatus},
		observability.MetricPipelineDegraded: {observability.AttrPipelineStrategy},
	}
}

// Metrics is an observability.Metrics backed by Prometheus vectors.
type Metrics struct {
	registerer prometheus.Registerer
	namespace  string
	labels     map[string][]string
	buckets    map[string][]float64

	mu         sync.Mutex
	counters   map[string]*counter
	histograms map[string]*histogram
}

var _ observability.Metrics = (*Metrics)(nil)

// Option configures [Metrics].
type Option func(*Metrics)

// WithNamespace prefixes every metric name.
func WithNamespace(namespace string) Option {
	return func(m *Metrics) {
		m.namespace = namespace
	}
}

// WithLabels declares the attribute keys turned into labels for metric.
func WithLabels(metric string, keys ...string) Option {
	return func(m *Metrics) {
		m.labels[metric] = keys
	}
}

// WithBuckets sets histogram buckets for metric. The default is
// prometheus.DefBuckets.
func WithBuckets(metric string, buckets []float64) Option {
	return func(m *Metrics) {
		m.buckets[metric] = buckets
	}
}

// New creates Metrics registering collectors on registerer as they are first
// used. A nil registerer means prometheus.DefaultRegisterer.
func New(registerer prometheus.Registerer, opts ...Option) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		registerer: registerer,
		labels:     DefaultLabels(),
		buckets:    make(map[string][]float64),
		counters:   make(map[string]*counter),
		histograms: make(map[string]*histogram),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Counter returns the named counter, registering it on first use.
func (m *Metrics) Counter(name string) observability.Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.counters[name]; ok {
		return existing
	}

	keys := m.labels[name]
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      SanitizeName(name) + "_total",
		Help:      fmt.Sprintf("Counter %s.", name),
	}, labelNames(keys))
	vec = register(m.registerer, vec)

	created := &counter{vec: vec, keys: keys}
	m.counters[name] = created
	return created
}

// Histogram returns the named histogram, registering it on first use.
func (m *Metrics) Histogram(name string) observability.Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.histograms[name]; ok {
		return existing
	}

	buckets := m.buckets[name]
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	keys := m.labels[name]
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      SanitizeName(name),
		Help:      fmt.Sprintf("Histogram %s.", name),
		Buckets:   buckets,
	}, labelNames(keys))
	vec = register(m.registerer, vec)

	created := &histogram{vec: vec, keys: keys}
	m.histograms[name] = created
	return created
}

// register registers collector, returning the already registered collector
// of the same description when there is one.
func register[T prometheus.Collector](registerer prometheus.Registerer, collector T) T {
	if err := registerer.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
		}
		// Unregistered collectors still count; they are just not scraped.
	}
	return collector
}

type counter struct {
	vec  *prometheus.CounterVec
	keys []string
}

// Add implements observability.Counter.
func (c *counter) Add(_ context.Context, value int64, attrs ...observability.Attribute) {
	c.vec.WithLabelValues(labelValues(c.keys, attrs)...).Add(float64(value))
}

type histogram struct {
	vec  *prometheus.HistogramVec
	keys []string
}

// Record implements observability.Histogram.
func (h *histogram) Record(_ context.Context, value float64, attrs ...observability.Attribute) {
	h.vec.WithLabelValues(labelValues(h.keys, attrs)...).Observe(value)
}

// SanitizeName converts a dotted metric or attribute name into a valid
// Prometheus name.
func SanitizeName(name string) string {
	var builder strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			builder.WriteRune(r)
		case r >= '0' && r <= '9' && i > 0:
			builder.WriteRune(r)
		default:
			builder.WriteByte('_')
		}
	}
	return builder.String()
}

func labelNames(keys []string) []string {
	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = SanitizeName(key)
	}
	return names
}

// labelValues picks the value of each declared key from attrs, in key order.
// Missing attributes produce an empty label value.
func labelValues(keys []string, attrs []observability.Attribute) []string {
	values := make([]string, len(keys))
	for _, attr := range attrs {
		for i, key := range keys {
			if attr.Key == key {
				values[i] = fmt.Sprint(attr.Value)
			}
		}
	}
	return values
}

// provider combines a base Provider's tracer and logger with Prometheus metrics.
type provider struct {
	observability.Tracer
	observability.Logger
	*Metrics
}

// Wrap returns a Provider that traces and logs through base and records
// metrics through metrics.
func Wrap(base observability.Provider, metrics *Metrics) observability.Provider {
	return &provider{Tracer: base, Logger: base, Metrics: metrics}
}
