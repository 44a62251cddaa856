package layerhash

import "github.com/prometheus/client_golang/prometheus"

// Result label values.
const (
	resultCommitted = "committed"
	resultAborted   = "aborted"
	resultSwallowed = "swallowed"
)

// Metrics counts adapter activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	navigations       *prometheus.CounterVec
	replays           *prometheus.CounterVec
	slashCorrections  prometheus.Counter
	fallbackRedirects prometheus.Counter
}

// NewMetrics creates the adapter counters and registers them on reg.
// A nil reg leaves the counters unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "layerhash_navigations_total",
			Help: "Navigator calls by operation and result",
		}, []string{"op", "result"}),
		replays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "layerhash_replays_total",
			Help: "Browser history events replayed by result",
		}, []string{"result"}),
		slashCorrections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "layerhash_slash_corrections_total",
			Help: "Fragments repaired to start with a slash",
		}),
		fallbackRedirects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "layerhash_fallback_redirects_total",
			Help: "Plain-path addresses redirected into fragment mode",
		}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.navigations, m.replays, m.slashCorrections, m.fallbackRedirects} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) navigated(op, result string) {
	if m == nil {
		return
	}
	m.navigations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) replayed(result string) {
	if m == nil {
		return
	}
	m.replays.WithLabelValues(result).Inc()
}

func (m *Metrics) slashCorrected() {
	if m == nil {
		return
	}
	m.slashCorrections.Inc()
}

func (m *Metrics) fallbackRedirected() {
	if m == nil {
		return
	}
	m.fallbackRedirects.Inc()
}
