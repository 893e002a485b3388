package profileevents

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes a Counters table as Prometheus counter metrics, one series
// per event keyed by the "event" label.
type Collector struct {
	counters *Counters
	desc     *prometheus.Desc
}

// NewCollector creates a Prometheus collector over the given counter table.
func NewCollector(counters *Counters) *Collector {
	return &Collector{
		counters: counters,
		desc: prometheus.NewDesc(
			"perf_exporter_profile_events_total",
			"Accumulated per-thread performance counter values by event.",
			[]string{"event"},
			nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for event := Event(0); event < EventsEnd; event++ {
		ch <- prometheus.MustNewConstMetric(
			c.desc,
			prometheus.CounterValue,
			float64(c.counters.Load(event)),
			event.Name(),
		)
	}
}
