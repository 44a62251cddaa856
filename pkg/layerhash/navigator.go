package layerhash

import "fmt"

// Operation names used in errors, logs and metrics.
const (
	OpNavigateAll    = "navigate_all"
	OpNavigateLast   = "navigate_last"
	OpNavigateLayer  = "navigate_layer"
	OpNavigateAdd    = "navigate_add"
	OpNavigateRemove = "navigate_remove"
)

// patch replaces layers [start, end) of the current stack with insert.
type patch struct {
	op     string
	start  int
	end    int
	insert []RawLocation
}

func (p patch) apply(current Stack) []RawLocation {
	paths := current.Paths()
	locs := make([]RawLocation, 0, len(paths)-(p.end-p.start)+len(p.insert))
	locs = append(locs, Paths(paths[:p.start]...)...)
	locs = append(locs, p.insert...)
	locs = append(locs, Paths(paths[p.end:]...)...)
	return locs
}

// NavigateAllLayers replaces the whole stack with locations.
func (h *HashHistory) NavigateAllLayers(locations []RawLocation, onComplete func(Route), onAbort func(error)) {
	n := h.Current().Len()
	h.navigate(patch{op: OpNavigateAll, start: 0, end: n, insert: locations}, onComplete, onAbort)
}

// NavigateLastLayer replaces the innermost layer, keeping the others.
func (h *HashHistory) NavigateLastLayer(location RawLocation, onComplete func(Route), onAbort func(error)) {
	n := h.Current().Len()
	h.navigate(patch{op: OpNavigateLast, start: n - 1, end: n, insert: []RawLocation{location}}, onComplete, onAbort)
}

// NavigateLayer replaces layer index, keeping the layers before and after it.
// An index outside the current stack aborts with ErrLayerOutOfRange.
func (h *HashHistory) NavigateLayer(index int, location RawLocation, onComplete func(Route), onAbort func(error)) {
	n := h.Current().Len()
	if index < 0 || index >= n {
		h.abort(OpNavigateLayer, fmt.Errorf("%w: %d not in [0, %d)", ErrLayerOutOfRange, index, n), onAbort)
		return
	}
	h.navigate(patch{op: OpNavigateLayer, start: index, end: index + 1, insert: []RawLocation{location}}, onComplete, onAbort)
}

// NavigateAddLayer appends location as a new innermost layer.
func (h *HashHistory) NavigateAddLayer(location RawLocation, onComplete func(Route), onAbort func(error)) {
	n := h.Current().Len()
	h.navigate(patch{op: OpNavigateAdd, start: n, end: n, insert: []RawLocation{location}}, onComplete, onAbort)
}

// NavigateRemoveLayer drops the innermost layer. Removing the only layer
// aborts with ErrRemoveLastLayer.
func (h *HashHistory) NavigateRemoveLayer(onComplete func(Route), onAbort func(error)) {
	n := h.Current().Len()
	if n <= 1 {
		h.abort(OpNavigateRemove, ErrRemoveLastLayer, onAbort)
		return
	}
	h.navigate(patch{op: OpNavigateRemove, start: n - 1, end: n}, onComplete, onAbort)
}

// navigate applies p to the current stack and pushes the committed result to
// the fragment. These are forward navigations, so the fragment is always pushed.
func (h *HashHistory) navigate(p patch, onComplete func(Route), onAbort func(error)) {
	if h.redirected {
		h.abort(p.op, ErrRedirected, onAbort)
		return
	}

	current := h.Current()
	from := current.Top()
	h.TransitionTo(p.apply(current), func(s Stack) {
		h.metrics.navigated(p.op, resultCommitted)
		top := s.Top()
		h.pushHash(top.FullPath, s.Paths())
		if h.scrollSupported() {
			h.scroll.HandleScroll(top, from, false)
		}
		if onComplete != nil {
			onComplete(top)
		}
	}, func(err error) {
		h.abort(p.op, err, onAbort)
	})
}

func (h *HashHistory) abort(op string, err error, onAbort func(error)) {
	h.metrics.navigated(op, resultAborted)
	h.log.Debug("navigation aborted", "op", op, "error", err)
	if onAbort != nil {
		onAbort(NewNavigationError(op, err))
	}
}
