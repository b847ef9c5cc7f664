package metrics

import (
	"fmt"
	"io"
	"math"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// PrometheusExporter renders a Registry in the Prometheus text exposition
// format, optionally followed by Go runtime metrics and the lines of any
// registered custom collectors.

// PrometheusConfig configures the Prometheus exporter.
type PrometheusConfig struct {
	// Namespace is an optional prefix prepended to all metric names
	// (e.g. "ci" turns "sszb.decode_total" into "ci_sszb_decode_total").
	Namespace string
	// EnableRuntime controls whether Go runtime metrics (goroutines,
	// memory, GC) are included in the output.
	EnableRuntime bool
}

// DefaultPrometheusConfig returns the config used by the sszb command.
func DefaultPrometheusConfig() PrometheusConfig {
	return PrometheusConfig{EnableRuntime: false}
}

// CustomCollector produces extra metric lines at export time.
type CustomCollector interface {
	// Collect returns the data points to append to the output.
	Collect() []MetricLine
}

// MetricLine represents a single Prometheus metric data point with optional labels.
type MetricLine struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// PrometheusExporter formats a Registry as Prometheus text.
type PrometheusExporter struct {
	mu         sync.RWMutex
	config     PrometheusConfig
	registry   *Registry
	collectors map[string]CustomCollector
}

// NewPrometheusExporter creates a new exporter that reads from the given registry.
func NewPrometheusExporter(registry *Registry, config PrometheusConfig) *PrometheusExporter {
	return &PrometheusExporter{
		config:     config,
		registry:   registry,
		collectors: make(map[string]CustomCollector),
	}
}

// RegisterCollector adds a named custom collector. If a collector with the
// same name exists, it is replaced.
func (pe *PrometheusExporter) RegisterCollector(name string, c CustomCollector) {
	pe.mu.Lock()
	defer pe.mu.Unlock()
	pe.collectors[name] = c
}

// UnregisterCollector removes a previously registered custom collector.
func (pe *PrometheusExporter) UnregisterCollector(name string) {
	pe.mu.Lock()
	defer pe.mu.Unlock()
	delete(pe.collectors, name)
}

// Text returns the full exposition.
func (pe *PrometheusExporter) Text() string {
	var b strings.Builder
	pe.writeRegistryMetrics(&b)
	if pe.config.EnableRuntime {
		pe.writeRuntimeMetrics(&b)
	}
	pe.writeCustomCollectors(&b)
	return b.String()
}

// WriteTo writes the full exposition to w.
func (pe *PrometheusExporter) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, pe.Text())
	return int64(n), err
}

// writeRegistryMetrics formats all metrics from the registry.
func (pe *PrometheusExporter) writeRegistryMetrics(b *strings.Builder) {
	pe.registry.mu.RLock()
	defer pe.registry.mu.RUnlock()

	// Sorted for deterministic output.
	for _, name := range sortedKeys(pe.registry.counters) {
		c := pe.registry.counters[name]
		promName := pe.promName(name)
		writeHeader(b, promName, "counter", name)
		fmt.Fprintf(b, "%s %d\n", promName, c.Value())
	}

	for _, name := range sortedKeys(pe.registry.gauges) {
		g := pe.registry.gauges[name]
		promName := pe.promName(name)
		writeHeader(b, promName, "gauge", name)
		fmt.Fprintf(b, "%s %d\n", promName, g.Value())
	}

	for _, name := range sortedKeys(pe.registry.histograms) {
		h := pe.registry.histograms[name]
		promName := pe.promName(name)
		writeHeader(b, promName, "histogram", name)
		for _, bk := range h.Buckets() {
			fmt.Fprintf(b, "%s_bucket{le=%q} %d\n", promName, formatFloat(bk.UpperBound), bk.Count)
		}
		fmt.Fprintf(b, "%s_sum %s\n", promName, formatFloat(h.Sum()))
		fmt.Fprintf(b, "%s_count %d\n", promName, h.Count())
	}
}

// writeRuntimeMetrics emits a small set of Go runtime metrics.
func (pe *PrometheusExporter) writeRuntimeMetrics(b *strings.Builder) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	prefix := pe.config.Namespace
	if prefix != "" {
		prefix += "_"
	}

	writeRuntimeMetric(b, prefix+"go_goroutines", "gauge",
		"Number of active goroutines", uint64(runtime.NumGoroutine()))
	writeRuntimeMetric(b, prefix+"go_memstats_alloc_bytes", "gauge",
		"Bytes of allocated heap objects", m.Alloc)
	writeRuntimeMetric(b, prefix+"go_memstats_alloc_bytes_total", "counter",
		"Total bytes allocated", m.TotalAlloc)
	writeRuntimeMetric(b, prefix+"go_memstats_mallocs_total", "counter",
		"Total number of heap allocations", m.Mallocs)
	writeRuntimeMetric(b, prefix+"go_gc_cycles_total", "counter",
		"Total number of GC cycles", uint64(m.NumGC))
}

// writeCustomCollectors invokes each registered custom collector in name
// order.
func (pe *PrometheusExporter) writeCustomCollectors(b *strings.Builder) {
	pe.mu.RLock()
	names := sortedKeys(pe.collectors)
	collectors := make([]CustomCollector, len(names))
	for i, name := range names {
		collectors[i] = pe.collectors[name]
	}
	pe.mu.RUnlock()

	for _, c := range collectors {
		for _, line := range c.Collect() {
			promName := pe.promName(line.Name)
			if len(line.Labels) > 0 {
				fmt.Fprintf(b, "%s{%s} %s\n", promName,
					formatLabels(line.Labels), formatFloat(line.Value))
			} else {
				fmt.Fprintf(b, "%s %s\n", promName, formatFloat(line.Value))
			}
		}
	}
}

// promName converts a dot-separated metric name to Prometheus format:
// dots and dashes become underscores, and the namespace prefix is prepended.
func (pe *PrometheusExporter) promName(name string) string {
	sanitized := strings.NewReplacer(".", "_", "-", "_").Replace(name)
	if pe.config.Namespace != "" {
		return pe.config.Namespace + "_" + sanitized
	}
	return sanitized
}

// formatLabels converts a label map to Prometheus label format: key="value",...
func formatLabels(labels map[string]string) string {
	keys := sortedKeys(labels)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, labels[k]))
	}
	return strings.Join(parts, ",")
}

// formatFloat formats a float64 for Prometheus output, handling special values.
func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeHeader(b *strings.Builder, name, metricType, help string) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s %s\n", name, metricType)
}

func writeRuntimeMetric(b *strings.Builder, name, metricType, help string, value uint64) {
	writeHeader(b, name, metricType, help)
	fmt.Fprintf(b, "%s %d\n", name, value)
}

// sortedKeys returns a sorted list of keys from a map of any metric type.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
