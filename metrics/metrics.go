package metrics

import "github.com/prometheus/client_golang/prometheus"

type Observer interface {
	Observe(val float64, labels ...string)

	// for now we will tightly couple to the prometheus collector type
	prometheus.Collector
}

type Metrics struct {
	MessagesCount    Observer
	CommandCount     Observer
	PermissionDenied Observer
	RateLimited      Observer
	SendErrors       Observer
	SendLatency      Observer
	// Caches holds collectors reporting cache state. They are built by
	// [CacheCollectors].
	Caches []prometheus.Collector
}

func (m Metrics) Collectors() []prometheus.Collector {
	c := []prometheus.Collector{
		m.MessagesCount,
		m.CommandCount,
		m.PermissionDenied,
		m.RateLimited,
		m.SendErrors,
		m.SendLatency,
	}
	return append(c, m.Caches...)
}
