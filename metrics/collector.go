// Package metrics exports a status registry to Prometheus
package metrics

import (
	"strings"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lixenwraith/fixtick/status"
)

// Collector is an unchecked prometheus.Collector reading registry atomics at scrape time
// Keys like timer.logic.fires become <namespace>_timer_logic_fires
type Collector struct {
	registry  *status.Registry
	namespace string
}

// NewCollector creates a collector over reg
func NewCollector(reg *status.Registry, namespace string) *Collector {
	return &Collector{
		registry:  reg,
		namespace: namespace,
	}
}

// Describe sends nothing, metrics are registered lazily as timers are created
func (c *Collector) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.registry.Counters.Range(func(key, help string, v *atomic.Int64) {
		ch <- prometheus.MustNewConstMetric(c.desc(key, help), prometheus.CounterValue, float64(v.Load()))
	})

	c.registry.Gauges.Range(func(key, help string, v *status.AtomicFloat) {
		ch <- prometheus.MustNewConstMetric(c.desc(key, help), prometheus.GaugeValue, v.Get())
	})

	c.registry.Flags.Range(func(key, help string, v *atomic.Bool) {
		val := 0.0
		if v.Load() {
			val = 1
		}
		ch <- prometheus.MustNewConstMetric(c.desc(key, help), prometheus.GaugeValue, val)
	})
}

func (c *Collector) desc(key, help string) *prometheus.Desc {
	if help == "" {
		help = key
	}
	return prometheus.NewDesc(prometheus.BuildFQName(c.namespace, "", MetricName(key)), help, nil, nil)
}

// MetricName converts a registry key to a valid Prometheus metric name
func MetricName(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, key)
}
