package ibapi

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// DialConfig holds process-wide connection defaults, loadable from the
// environment with github.com/caarlos0/env/v11 struct tags, the same
// ambient-config pattern adred-codev-ws_poc uses for its dial/runtime
// options (DESIGN.md "Client"). Explicit functional Options passed to
// Connect always take precedence over these.
type DialConfig struct {
	Host                string        `env:"TWS_HOST" envDefault:"127.0.0.1"`
	Port                int           `env:"TWS_PORT" envDefault:"4002"`
	ClientID            int32         `env:"TWS_CLIENT_ID" envDefault:"0"`
	MinServerVersion    int           `env:"TWS_MIN_SERVER_VERSION" envDefault:"151"`
	HandshakeTimeout    time.Duration `env:"TWS_HANDSHAKE_TIMEOUT" envDefault:"10s"`
	PacingRatePerSecond float64       `env:"TWS_PACING_RATE" envDefault:"50"`
	PacingBurst         int           `env:"TWS_PACING_BURST" envDefault:"100"`
}

// LoadDialConfig parses DialConfig from the environment, falling back to
// the envDefault tags for anything unset.
func LoadDialConfig() (DialConfig, error) {
	var cfg DialConfig
	if err := env.Parse(&cfg); err != nil {
		return DialConfig{}, err
	}
	return cfg, nil
}

// cfg is the fully-resolved set of knobs Connect acts on, built by
// layering functional Options over a DialConfig base.
type cfg struct {
	host             string
	port             int
	clientID         int32
	minServerVersion int
	handshakeTimeout time.Duration
	maxVersion       int
	maxFrameSize     int
	pacingRate       float64
	pacingBurst      int
	logger           zerolog.Logger
	tracer           *Tracer
	metrics          *Metrics
}

func defaultCfgFrom(d DialConfig) cfg {
	return cfg{
		host:             d.Host,
		port:             d.Port,
		clientID:         d.ClientID,
		minServerVersion: d.MinServerVersion,
		handshakeTimeout: d.HandshakeTimeout,
		maxVersion:       MinServerVersion + 100,
		maxFrameSize:     DefaultMaxFrameSize,
		pacingRate:       d.PacingRatePerSecond,
		pacingBurst:      d.PacingBurst,
		logger:           zerolog.Nop(),
		tracer:           NewTracer(),
	}
}

// Option customizes connection behavior, overriding whatever DialConfig
// supplied.
type Option func(*cfg)

func WithHost(host string) Option { return func(c *cfg) { c.host = host } }
func WithPort(port int) Option    { return func(c *cfg) { c.port = port } }
func WithClientID(id int32) Option { return func(c *cfg) { c.clientID = id } }
func WithMinServerVersion(v int) Option {
	return func(c *cfg) { c.minServerVersion = v }
}
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *cfg) { c.handshakeTimeout = d }
}
func WithMaxFrameSize(n int) Option { return func(c *cfg) { c.maxFrameSize = n } }
func WithPacing(ratePerSecond float64, burst int) Option {
	return func(c *cfg) { c.pacingRate = ratePerSecond; c.pacingBurst = burst }
}
func WithLogger(l zerolog.Logger) Option { return func(c *cfg) { c.logger = l } }
func WithTracer(t *Tracer) Option        { return func(c *cfg) { c.tracer = t } }
func WithMetrics(m *Metrics) Option      { return func(c *cfg) { c.metrics = m } }
