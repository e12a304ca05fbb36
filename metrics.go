package ibapi

import "github.com/prometheus/client_golang/prometheus"

// Metrics is an optional set of counters/histograms a caller can wire in
// by passing a prometheus.Registerer to NewMetrics; the core library has
// no hard Prometheus dependency since a nil *Metrics is safe to use
// everywhere it's threaded through (DESIGN.md / SPEC_FULL.md DOMAIN
// STACK table).
type Metrics struct {
	framesSent       prometheus.Counter
	framesReceived   prometheus.Counter
	overruns         prometheus.Counter
	handshakeSeconds prometheus.Histogram
}

// NewMetrics registers the client's counters against reg. Pass nil to
// get a non-nil *Metrics whose methods are safe no-ops — callers who
// don't want Prometheus never need a nil check at the call site.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		framesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ibapi_frames_sent_total",
			Help: "Frames written to the gateway connection.",
		}),
		framesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ibapi_frames_received_total",
			Help: "Frames read from the gateway connection.",
		}),
		overruns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ibapi_subscription_overruns_total",
			Help: "Subscriptions that failed with Overrun due to a slow consumer.",
		}),
		handshakeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ibapi_handshake_duration_seconds",
			Help:    "Time spent in the Connect handshake.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.framesSent, m.framesReceived, m.overruns, m.handshakeSeconds)
	}
	return m
}

func (m *Metrics) incFramesSent() {
	if m == nil {
		return
	}
	m.framesSent.Inc()
}

func (m *Metrics) incFramesReceived() {
	if m == nil {
		return
	}
	m.framesReceived.Inc()
}

func (m *Metrics) incOverruns() {
	if m == nil {
		return
	}
	m.overruns.Inc()
}

func (m *Metrics) observeHandshakeSeconds(seconds float64) {
	if m == nil {
		return
	}
	m.handshakeSeconds.Observe(seconds)
}
