package content

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts cache behaviour per kind. A nil *Metrics records nothing.
type Metrics struct {
	hits            *prometheus.CounterVec
	misses          *prometheus.CounterVec
	refreshes       *prometheus.CounterVec
	refreshFailures *prometheus.CounterVec
}

// NewMetrics registers the cache counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "content_cache_hits_total",
			Help: "Reads served from the in-process content cache.",
		}, []string{"kind", "list"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "content_cache_misses_total",
			Help: "Reads that found the content cache uninitialized.",
		}, []string{"kind", "list"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "content_cache_refreshes_total",
			Help: "Successful content cache refreshes from the document store.",
		}, []string{"kind", "list"}),
		refreshFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "content_cache_refresh_failures_total",
			Help: "Failed content cache refreshes.",
		}, []string{"kind", "list"}),
	}
	if reg != nil {
		reg.MustRegister(m.hits, m.misses, m.refreshes, m.refreshFailures)
	}
	return m
}

func (m *Metrics) hit(kind, list string) {
	if m != nil {
		m.hits.WithLabelValues(kind, list).Inc()
	}
}

func (m *Metrics) miss(kind, list string) {
	if m != nil {
		m.misses.WithLabelValues(kind, list).Inc()
	}
}

func (m *Metrics) refreshed(kind, list string) {
	if m != nil {
		m.refreshes.WithLabelValues(kind, list).Inc()
	}
}

func (m *Metrics) refreshFailed(kind, list string) {
	if m != nil {
		m.refreshFailures.WithLabelValues(kind, list).Inc()
	}
}
