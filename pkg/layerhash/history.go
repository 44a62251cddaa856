package layerhash

import (
	"fmt"
	"log/slog"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/layerhash/pkg/layerhash/internal"
)

// HashHistory keeps a layer stack synchronized with the address fragment.
//
// The current stack is only replaced from transition completion callbacks.
// Every read or write of the address goes through the Environment.
type HashHistory struct {
	env     Environment
	engine  Transitioner
	base    string
	cfg     Config
	scroll  ScrollHandler
	log     *slog.Logger
	metrics *Metrics
	keyFunc func() string

	current    atomic.Pointer[Stack]
	listening  atomic.Bool
	redirected bool
	unlisten   func()
	ownsLog    bool
}

var _ History = (*HashHistory)(nil)

// New creates the adapter. When fallback is enabled and the address is not
// fragment-addressed, a redirect is issued and the adapter is returned in the
// redirected state: it will not install listeners or navigate. Otherwise the
// fragment is normalized to start with '/'.
func New(env Environment, engine Transitioner, opts ...Option) (*HashHistory, error) {
	if env == nil {
		return nil, ErrNoEnvironment
	}
	if engine == nil {
		return nil, ErrNoTransitioner
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	h := &HashHistory{
		env:     env,
		engine:  engine,
		base:    normalizeBase(o.config.Base),
		cfg:     o.config,
		scroll:  o.scroll,
		log:     o.logger,
		metrics: o.metrics,
		keyFunc: o.keyFunc,
	}
	if h.log == nil {
		if o.config.LogPath != "" {
			internal.SetLogPath(o.config.LogPath)
			h.ownsLog = true
		}
		internal.SetRawLogLevel(o.config.LogLevel)
		h.log = internal.GetLogger()
	}

	start := NewStack()
	h.current.Store(&start)

	if o.config.Fallback && h.checkFallback() {
		h.redirected = true
		return h, nil
	}
	h.ensureSlash()
	return h, nil
}

// Start performs the first resolution of the current address and installs
// the history listener afterwards, whether the resolution completed or not.
// A saved layer stack on the current entry is restored in full.
func (h *HashHistory) Start(onComplete func(Route), onAbort func(error)) {
	if h.redirected {
		if onAbort != nil {
			onAbort(NewNavigationError("start", ErrRedirected))
		}
		return
	}

	h.TransitionTo(h.candidate(), func(s Stack) {
		h.SetupListeners()
		if onComplete != nil {
			onComplete(s.Top())
		}
	}, func(err error) {
		h.SetupListeners()
		h.log.Debug("initial navigation aborted", "error", err)
		if onAbort != nil {
			onAbort(NewNavigationError("start", err))
		}
	})
}

// Close removes the history listener and closes the log file opened for
// Config.LogPath when no logger was supplied.
func (h *HashHistory) Close() error {
	h.Teardown()
	if h.ownsLog {
		return internal.CloseLogger()
	}
	return nil
}

// Current returns the committed layer stack.
func (h *HashHistory) Current() Stack {
	return *h.current.Load()
}

// Redirected reports whether construction issued a fallback redirect.
func (h *HashHistory) Redirected() bool {
	return h.redirected
}

// Base returns the normalized path prefix.
func (h *HashHistory) Base() string {
	return h.base
}

// TransitionTo asks the engine to resolve locations and commits the resulting
// stack before calling onComplete. On abort nothing is committed.
func (h *HashHistory) TransitionTo(locations []RawLocation, onComplete func(Stack), onAbort func(error)) {
	h.engine.Transition(locations, func(s Stack) {
		if s.IsEmpty() {
			if onAbort != nil {
				onAbort(fmt.Errorf("%w: engine resolved an empty stack", ErrAborted))
			}
			return
		}
		h.current.Store(&s)
		if onComplete != nil {
			onComplete(s)
		}
	}, func(err error) {
		if onAbort != nil {
			onAbort(err)
		}
	})
}

// Go traverses session history by n entries. The stack is reconciled later,
// when the resulting history event reaches the listener.
func (h *HashHistory) Go(n int) {
	h.env.Go(n)
}

// Back is Go(-1).
func (h *HashHistory) Back() {
	h.Go(-1)
}

// Forward is Go(1).
func (h *HashHistory) Forward() {
	h.Go(1)
}

// EnsureURL rewrites the fragment to the top layer's full path when they
// differ, pushing a new entry if push is set and replacing otherwise.
func (h *HashHistory) EnsureURL(push bool) {
	current := h.Current()
	path := CleanPath(current.Top().FullPath)
	if DecodeFragment(h.env.Href()) == path {
		return
	}

	if push {
		h.pushHash(path, current.Paths())
		return
	}
	h.replaceHash(path, current.Paths())
}

// CurrentLocation returns the decoded fragment.
func (h *HashHistory) CurrentLocation() string {
	return DecodeFragment(h.env.Href())
}

// candidate builds the navigation request for the current address: the saved
// layer stack of the current entry if it has one, else the fragment alone.
// Without native push, a fragment equal to the committed top layer is an echo
// of our own AssignHash, so the committed stack is requested instead.
func (h *HashHistory) candidate() []RawLocation {
	if state, ok := h.env.State(); ok && state.HasLayers() {
		return Paths(state.Layers...)
	}
	location := h.CurrentLocation()
	if h.isEcho(location) {
		return Paths(h.Current().Paths()...)
	}
	return []RawLocation{Path(location)}
}

func (h *HashHistory) isEcho(location string) bool {
	if h.env.SupportsPushState() {
		return false
	}
	current := h.Current()
	return current.Len() > 1 && current.Top().FullPath == location
}

func (h *HashHistory) scrollSupported() bool {
	return h.cfg.ScrollBehavior && h.scroll != nil && h.env.SupportsPushState()
}
