package layerhash

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/BrandonKowalski/layerhash/pkg/layerhash/internal"
)

// Option configures a HashHistory at construction.
type Option func(*options)

type options struct {
	config  Config
	scroll  ScrollHandler
	logger  *slog.Logger
	metrics *Metrics
	keyFunc func() string
}

func defaultOptions() options {
	return options{
		config:  DefaultConfig(),
		keyFunc: uuid.NewString,
	}
}

// WithConfig replaces the declarative settings wholesale.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithBase sets the path prefix the application is served under.
func WithBase(base string) Option {
	return func(o *options) {
		o.config.Base = base
	}
}

// WithFallback enables the startup redirect from plain paths into fragment mode.
func WithFallback(enabled bool) Option {
	return func(o *options) {
		o.config.Fallback = enabled
	}
}

// WithScrollBehavior requests scroll restoration. It only takes effect when
// a ScrollHandler is set and the environment supports native push.
func WithScrollBehavior(enabled bool) Option {
	return func(o *options) {
		o.config.ScrollBehavior = enabled
	}
}

// WithScrollHandler attaches the scroll restoration collaborator.
func WithScrollHandler(handler ScrollHandler) Option {
	return func(o *options) {
		o.scroll = handler
	}
}

// WithLogger overrides the process-wide logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics attaches counters created by NewMetrics.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithKeyFunc replaces the generator for history entry keys.
func WithKeyFunc(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.keyFunc = fn
		}
	}
}

// NewLogger builds a JSON logger writing to w at the named level
// ("debug", "info", "warn", "error"; anything else is info).
func NewLogger(w io.Writer, rawLevel string) *slog.Logger {
	return internal.NewLogger(w, internal.ParseLevel(rawLevel))
}
