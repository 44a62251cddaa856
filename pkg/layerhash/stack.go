package layerhash

import (
	"net/url"

	"github.com/BrandonKowalski/layerhash/pkg/layerhash/constants"
)

// Route is a resolved navigation target. The adapter itself only reads
// FullPath; the remaining fields are filled by the transition engine.
type Route struct {
	Name     string            // Registered route name, if any
	Path     string            // Matched path without query or hash
	FullPath string            // Canonical serialized form: path + query + hash
	Params   map[string]string // Values captured from dynamic segments
	Query    url.Values        // Parsed query string
	Hash     string            // Trailing secondary fragment, including '#'
	Meta     any               // Application-specific data attached at registration
}

// StartRoute is the placeholder route held before the first resolution.
var StartRoute = Route{Path: constants.StartPath, FullPath: constants.StartPath}

// RawLocation is an unresolved navigation target: either a path string or a
// named-route descriptor. It is opaque to the adapter and handed to the
// transition engine as-is.
type RawLocation struct {
	Path   string
	Name   string
	Params map[string]string
	Query  url.Values
}

// Path builds a RawLocation from a path string.
func Path(p string) RawLocation {
	return RawLocation{Path: p}
}

// Paths builds one RawLocation per path string, preserving order.
func Paths(paths ...string) []RawLocation {
	locs := make([]RawLocation, len(paths))
	for i, p := range paths {
		locs[i] = Path(p)
	}
	return locs
}

// Stack is an ordered, non-empty sequence of routes, outermost layer first.
// A Stack is never mutated after construction; navigation replaces it whole.
type Stack struct {
	routes []Route
}

// NewStack creates a stack holding copies of the given routes.
// Returns a stack of StartRoute when no routes are given.
func NewStack(routes ...Route) Stack {
	if len(routes) == 0 {
		return Stack{routes: []Route{StartRoute}}
	}
	cp := make([]Route, len(routes))
	copy(cp, routes)
	return Stack{routes: cp}
}

// Len returns the number of layers in the stack.
func (s Stack) Len() int {
	return len(s.routes)
}

// IsEmpty returns true for the zero Stack.
func (s Stack) IsEmpty() bool {
	return len(s.routes) == 0
}

// At returns the route at layer i. It panics if i is out of range, like a
// slice index.
func (s Stack) At(i int) Route {
	return s.routes[i]
}

// Top returns the innermost (last) layer, or StartRoute for an empty stack.
func (s Stack) Top() Route {
	if len(s.routes) == 0 {
		return StartRoute
	}
	return s.routes[len(s.routes)-1]
}

// Routes returns a copy of the layers.
func (s Stack) Routes() []Route {
	cp := make([]Route, len(s.routes))
	copy(cp, s.routes)
	return cp
}

// Paths returns the FullPath of every layer, in order.
func (s Stack) Paths() []string {
	paths := make([]string, len(s.routes))
	for i, r := range s.routes {
		paths[i] = r.FullPath
	}
	return paths
}

// Equal reports whether both stacks hold the same full paths in the same order.
func (s Stack) Equal(other Stack) bool {
	if len(s.routes) != len(other.routes) {
		return false
	}
	for i := range s.routes {
		if s.routes[i].FullPath != other.routes[i].FullPath {
			return false
		}
	}
	return true
}
