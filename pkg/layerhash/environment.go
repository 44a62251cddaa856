package layerhash

// EntryState is the value attached to one native history entry.
// Layers, when non-empty, is the layer stack snapshot saved with that entry.
type EntryState struct {
	Key    string   `json:"key"`
	Layers []string `json:"state,omitempty"`
}

// HasLayers reports whether the entry carries a saved layer stack.
func (s EntryState) HasLayers() bool {
	return len(s.Layers) > 0
}

// Environment is the port to the browser's address bar and session history.
// All reads and writes of the address go through it.
type Environment interface {
	// Href returns the full current address.
	Href() string
	// SupportsPushState reports whether native history push/replace exist.
	SupportsPushState() bool
	// PushState adds a history entry for url carrying state. No event fires.
	PushState(url string, state EntryState)
	// ReplaceState rewrites the current entry. No event fires.
	ReplaceState(url string, state EntryState)
	// AssignHash sets the fragment directly, adding an entry and firing hashchange.
	AssignHash(path string)
	// ReplaceLocation navigates to url replacing the current entry.
	ReplaceLocation(url string)
	// Go traverses session history by n entries.
	Go(n int)
	// State returns the state attached to the current entry, if any.
	State() (EntryState, bool)
	// Listen subscribes fn to the named event and returns an unsubscribe func.
	Listen(event string, fn func()) (unlisten func())
}

// Transitioner resolves raw locations into a stack of routes and performs the
// view transition. Exactly one of onComplete and onAbort is invoked, possibly
// asynchronously. Conflicts between in-flight transitions are its concern.
type Transitioner interface {
	Transition(locations []RawLocation, onComplete func(Stack), onAbort func(error))
}

// TransitionFunc adapts a function to Transitioner.
type TransitionFunc func(locations []RawLocation, onComplete func(Stack), onAbort func(error))

// Transition implements Transitioner.
func (f TransitionFunc) Transition(locations []RawLocation, onComplete func(Stack), onAbort func(error)) {
	f(locations, onComplete, onAbort)
}

// ScrollHandler restores scroll position after navigation.
type ScrollHandler interface {
	// Setup is called once when listeners are installed.
	Setup()
	// HandleScroll is called after a committed navigation.
	HandleScroll(to, from Route, fromPopstate bool)
}

// History is the contract shared by history strategies.
type History interface {
	Current() Stack
	TransitionTo(locations []RawLocation, onComplete func(Stack), onAbort func(error))
	EnsureURL(push bool)
	CurrentLocation() string
}
