package layerhash

import "github.com/BrandonKowalski/layerhash/pkg/layerhash/constants"

// SetupListeners installs the single history listener: popstate when native
// push is supported, hashchange otherwise. It is delayed until the app is
// mounted so the browser's initial event does not arrive before any state
// exists. Calling it again is a no-op, as is calling it on a redirected adapter.
func (h *HashHistory) SetupListeners() {
	if h.redirected || !h.listening.CompareAndSwap(false, true) {
		return
	}

	if h.scrollSupported() {
		h.scroll.Setup()
	}

	event := constants.EventHashChange
	if h.env.SupportsPushState() {
		event = constants.EventPopState
	}
	h.unlisten = h.env.Listen(event, h.handleHistoryEvent)
	h.log.Debug("history listener installed", "event", event)
}

// Teardown removes the history listener installed by SetupListeners.
func (h *HashHistory) Teardown() {
	if !h.listening.CompareAndSwap(true, false) {
		return
	}
	if h.unlisten != nil {
		h.unlisten()
		h.unlisten = nil
	}
}

// Listening reports whether the history listener is installed.
func (h *HashHistory) Listening() bool {
	return h.listening.Load()
}

// handleHistoryEvent replays an externally triggered address change (back,
// forward, manual hash edit) through the transition engine.
func (h *HashHistory) handleHistoryEvent() {
	previous := h.Current()
	if !h.ensureSlash() {
		h.metrics.replayed(resultSwallowed)
		return
	}

	h.TransitionTo(h.candidate(), func(s Stack) {
		h.metrics.replayed(resultCommitted)
		top := s.Top()
		if h.scrollSupported() {
			h.scroll.HandleScroll(top, previous.Top(), true)
		}
		if !h.env.SupportsPushState() {
			h.replaceHash(top.FullPath, s.Paths())
		}
	}, func(err error) {
		h.metrics.replayed(resultAborted)
		h.log.Debug("history replay aborted", "location", h.CurrentLocation(), "error", err)
	})
}
