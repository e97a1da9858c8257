package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zephyrtronium/saber/lru"
)

func NewPromCounter(m prometheus.Counter) Observer {
	return &PrometheusMetric{
		observe: func(val float64, labels ...string) {
			m.Add(val)
		},
		Collector: m,
	}
}

// for counter vecs, e.g. counts per command name
func NewPromCounterVec(m *prometheus.CounterVec) Observer {
	return &PrometheusMetric{
		observe: func(val float64, labels ...string) {
			m.WithLabelValues(labels...).Add(val)
		},
		Collector: m,
	}
}

// for histogram or summary vecs
func NewPromObserverVec(m prometheus.ObserverVec) Observer {
	return &PrometheusMetric{
		observe: func(val float64, labels ...string) {
			m.WithLabelValues(labels...).Observe(val)
		},
		Collector: m,
	}
}

type PrometheusMetric struct {
	observe func(val float64, labels ...string)
	prometheus.Collector
}

func (m *PrometheusMetric) Observe(val float64, labels ...string) {
	m.observe(val, labels...)
}

// CacheCollectors creates collectors which read the state of a cache on
// every scrape.
func CacheCollectors(name string, size func() int, stats func() lru.Stats) []prometheus.Collector {
	labels := prometheus.Labels{"cache": name}
	return []prometheus.Collector{
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace:   "saber",
				Subsystem:   "cache",
				Name:        "entries",
				Help:        "Number of entries resident in the cache.",
				ConstLabels: labels,
			},
			func() float64 { return float64(size()) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace:   "saber",
				Subsystem:   "cache",
				Name:        "hits",
				Help:        "Number of cache lookups which found an entry.",
				ConstLabels: labels,
			},
			func() float64 { return float64(stats().Hits) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace:   "saber",
				Subsystem:   "cache",
				Name:        "misses",
				Help:        "Number of cache lookups which found nothing.",
				ConstLabels: labels,
			},
			func() float64 { return float64(stats().Misses) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace:   "saber",
				Subsystem:   "cache",
				Name:        "evictions",
				Help:        "Number of entries evicted to make room for new ones.",
				ConstLabels: labels,
			},
			func() float64 { return float64(stats().Evictions) },
		),
	}
}
