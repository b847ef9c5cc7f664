package main

import (
	"sort"
	"sync"

	"github.com/eth2030/sszb/metrics"
)

// typeStats counts successful decodes per registered type. It is exported
// as a labelled Prometheus series next to the registry metrics.
type typeStats struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newTypeStats() *typeStats {
	return &typeStats{counts: make(map[string]int64)}
}

func (s *typeStats) add(name string) {
	s.mu.Lock()
	s.counts[name]++
	s.mu.Unlock()
}

// Collect implements metrics.CustomCollector.
func (s *typeStats) Collect() []metrics.MetricLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]metrics.MetricLine, 0, len(s.counts))
	for name, n := range s.counts {
		lines = append(lines, metrics.MetricLine{
			Name:   "sszb.decoded_by_type",
			Labels: map[string]string{"type": name},
			Value:  float64(n),
		})
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Labels["type"] < lines[j].Labels["type"]
	})
	return lines
}

// writeMetrics prints the codec metrics in Prometheus text format to stderr,
// leaving stdout to command output.
func (a *app) writeMetrics() {
	exp := metrics.NewPrometheusExporter(metrics.DefaultRegistry, metrics.DefaultPrometheusConfig())
	exp.RegisterCollector("types", a.stats)
	if _, err := exp.WriteTo(a.stderr); err != nil {
		a.log.Warn("writing metrics failed", "err", err)
	}
}
