package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// StatSource yields a pool snapshot. *pgxpool.Pool satisfies it.
type StatSource interface {
	Stat() *pgxpool.Stat
}

type poolGauge struct {
	desc  *prometheus.Desc
	value func(*pgxpool.Stat) float64
}

// PoolCollector implements prometheus.Collector for the room store's connection pool.
// Stats are read during each scrape; there is no polling goroutine.
type PoolCollector struct {
	source StatSource
	gauges []poolGauge
}

// NewPoolCollector exports pgxpool stats for source under the given database label.
// A nil source collects nothing.
func NewPoolCollector(database string, source StatSource) *PoolCollector {
	labels := prometheus.Labels{"database": database}
	gauge := func(name, help string, value func(*pgxpool.Stat) float64) poolGauge {
		return poolGauge{
			desc:  prometheus.NewDesc(prometheus.BuildFQName(Namespace, "pgxpool", name), help, nil, labels),
			value: value,
		}
	}

	return &PoolCollector{
		source: source,
		gauges: []poolGauge{
			gauge("acquire_count", "Cumulative count of successful connection acquires.",
				func(s *pgxpool.Stat) float64 { return float64(s.AcquireCount()) }),
			gauge("acquire_duration_seconds", "Cumulative time spent acquiring connections.",
				func(s *pgxpool.Stat) float64 { return s.AcquireDuration().Seconds() }),
			gauge("acquired_conns", "Number of currently acquired connections.",
				func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }),
			gauge("canceled_acquire_count", "Cumulative count of acquires canceled by context.",
				func(s *pgxpool.Stat) float64 { return float64(s.CanceledAcquireCount()) }),
			gauge("constructing_conns", "Number of connections currently being constructed.",
				func(s *pgxpool.Stat) float64 { return float64(s.ConstructingConns()) }),
			gauge("empty_acquire_count", "Cumulative count of acquires from an empty pool.",
				func(s *pgxpool.Stat) float64 { return float64(s.EmptyAcquireCount()) }),
			gauge("idle_conns", "Number of idle connections in the pool.",
				func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }),
			gauge("max_conns", "Maximum number of connections allowed.",
				func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }),
			gauge("new_conns_count", "Cumulative count of new connections created.",
				func(s *pgxpool.Stat) float64 { return float64(s.NewConnsCount()) }),
			gauge("total_conns", "Total number of connections in the pool.",
				func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }),
		},
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, g := range c.gauges {
		ch <- g.desc
	}
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	if c.source == nil {
		return
	}
	stat := c.source.Stat()
	if stat == nil {
		return
	}
	for _, g := range c.gauges {
		ch <- prometheus.MustNewConstMetric(g.desc, prometheus.GaugeValue, g.value(stat))
	}
}
