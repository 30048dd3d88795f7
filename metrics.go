package eventbus

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "eventbus"

// collector exports the per-kind counters of a bus. It reads the same counters
// as Stats, so scraping never touches the registry lock.
type collector struct {
	stats *stats

	posted     *prometheus.Desc
	dropped    *prometheus.Desc
	unrouted   *prometheus.Desc
	dispatched *prometheus.Desc
	delivered  *prometheus.Desc
	panicked   *prometheus.Desc
}

func newCollector(busName string, s *stats) *collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "events", name),
			help,
			[]string{"kind"},
			prometheus.Labels{"bus": busName},
		)
	}
	return &collector{
		stats:      s,
		posted:     desc("posted_total", "Events accepted into the dispatch queue."),
		dropped:    desc("dropped_total", "Events dropped because the dispatch queue was full or the bus was closed."),
		unrouted:   desc("unrouted_total", "Dispatched events that had no subscriber."),
		dispatched: desc("dispatched_total", "Delivery units scheduled."),
		delivered:  desc("delivered_total", "Handler invocations that returned normally."),
		panicked:   desc("panicked_total", "Handler invocations that panicked."),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.posted
	ch <- c.dropped
	ch <- c.unrouted
	ch <- c.dispatched
	ch <- c.delivered
	ch <- c.panicked
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	c.stats.each(func(kind Kind, ks KindStats) {
		k := string(kind)
		ch <- prometheus.MustNewConstMetric(c.posted, prometheus.CounterValue, float64(ks.Posted), k)
		ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(ks.Dropped), k)
		ch <- prometheus.MustNewConstMetric(c.unrouted, prometheus.CounterValue, float64(ks.Unrouted), k)
		ch <- prometheus.MustNewConstMetric(c.dispatched, prometheus.CounterValue, float64(ks.Dispatched), k)
		ch <- prometheus.MustNewConstMetric(c.delivered, prometheus.CounterValue, float64(ks.Delivered), k)
		ch <- prometheus.MustNewConstMetric(c.panicked, prometheus.CounterValue, float64(ks.Panicked), k)
	})
}
