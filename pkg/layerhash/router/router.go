package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/BrandonKowalski/layerhash/pkg/layerhash"
)

var (
	// ErrNotFound indicates no registered pattern matches a location.
	ErrNotFound = errors.New("no route matches location")

	// ErrUnknownName indicates a named location refers to no registered route.
	ErrUnknownName = errors.New("no route registered with name")

	// ErrMissingParam indicates a named location lacks a dynamic segment value.
	ErrMissingParam = errors.New("missing route param")

	// ErrDuplicated indicates a request resolving to the current stack.
	ErrDuplicated = errors.New("navigation duplicated")

	// ErrBadQuery indicates a query string that cannot be parsed.
	ErrBadQuery = errors.New("malformed query")
)

// catchAllParam names the value captured by a bare '*' segment.
const catchAllParam = "pathMatch"

// GuardFunc is called before a resolved stack is committed.
// Returning an error aborts the whole request.
type GuardFunc func(to, from layerhash.Stack) error

// RouteOption configures a registered route.
type RouteOption func(*record)

// Named registers the route under name so it can be resolved by name.
func Named(name string) RouteOption {
	return func(r *record) {
		r.name = name
	}
}

// WithMeta attaches application data copied onto every resolved Route.
func WithMeta(meta any) RouteOption {
	return func(r *record) {
		r.meta = meta
	}
}

type record struct {
	pattern  string
	segments []string
	name     string
	meta     any
}

// Router resolves raw locations against registered patterns and implements
// layerhash.Transitioner. It is not safe for concurrent use.
type Router struct {
	records          []*record
	names            map[string]*record
	guards           []GuardFunc
	last             layerhash.Stack
	rejectDuplicates bool
}

var _ layerhash.Transitioner = (*Router)(nil)

// New creates a new Router.
func New() *Router {
	return &Router{
		names: make(map[string]*record),
		last:  layerhash.NewStack(),
	}
}

// Register adds a route pattern. Patterns are matched in registration order.
func (r *Router) Register(pattern string, opts ...RouteOption) *Router {
	rec := &record{
		pattern:  ensureLeadingSlash(pattern),
		segments: splitSegments(pattern),
	}
	for _, opt := range opts {
		opt(rec)
	}
	r.records = append(r.records, rec)
	if rec.name != "" {
		r.names[rec.name] = rec
	}
	return r
}

// BeforeEach adds a guard run on every transition, in registration order.
func (r *Router) BeforeEach(fn GuardFunc) *Router {
	r.guards = append(r.guards, fn)
	return r
}

// RejectDuplicates makes a request that resolves to the last completed stack
// abort with ErrDuplicated.
func (r *Router) RejectDuplicates(enabled bool) *Router {
	r.rejectDuplicates = enabled
	return r
}

// Last returns the stack produced by the last completed transition.
func (r *Router) Last() layerhash.Stack {
	return r.last
}

// Transition resolves every location and completes with the resulting stack.
func (r *Router) Transition(locations []layerhash.RawLocation, onComplete func(layerhash.Stack), onAbort func(error)) {
	abort := func(err error) {
		if onAbort != nil {
			onAbort(err)
		}
	}

	if len(locations) == 0 {
		abort(fmt.Errorf("%w: empty request", layerhash.ErrAborted))
		return
	}

	routes := make([]layerhash.Route, 0, len(locations))
	for i, loc := range locations {
		route, err := r.Resolve(loc)
		if err != nil {
			abort(fmt.Errorf("%w: layer %d: %w", layerhash.ErrAborted, i, err))
			return
		}
		routes = append(routes, route)
	}
	to := layerhash.NewStack(routes...)

	if r.rejectDuplicates && to.Equal(r.last) {
		abort(fmt.Errorf("%w: %w", layerhash.ErrAborted, ErrDuplicated))
		return
	}

	for _, guard := range r.guards {
		if err := guard(to, r.last); err != nil {
			abort(fmt.Errorf("%w: %w", layerhash.ErrAborted, err))
			return
		}
	}

	r.last = to
	if onComplete != nil {
		onComplete(to)
	}
}

// Resolve turns a raw location into a route without running guards.
func (r *Router) Resolve(loc layerhash.RawLocation) (layerhash.Route, error) {
	if loc.Name != "" {
		return r.resolveNamed(loc)
	}

	path, rawQuery, hash := splitLocation(loc.Path)
	segments := splitSegments(path)
	for _, rec := range r.records {
		params, ok := match(rec.segments, segments)
		if ok {
			return buildRoute(rec, path, params, rawQuery, loc.Query, hash)
		}
	}
	return layerhash.Route{}, fmt.Errorf("%w: %q", ErrNotFound, loc.Path)
}

func (r *Router) resolveNamed(loc layerhash.RawLocation) (layerhash.Route, error) {
	rec, ok := r.names[loc.Name]
	if !ok {
		return layerhash.Route{}, fmt.Errorf("%w: %q", ErrUnknownName, loc.Name)
	}

	parts := make([]string, 0, len(rec.segments))
	params := make(map[string]string)
	for _, seg := range rec.segments {
		switch {
		case strings.HasPrefix(seg, ":"):
			name := seg[1:]
			value, ok := loc.Params[name]
			if !ok || value == "" {
				return layerhash.Route{}, fmt.Errorf("%w: %q for route %q", ErrMissingParam, name, loc.Name)
			}
			params[name] = value
			parts = append(parts, value)
		case strings.HasPrefix(seg, "*"):
			name := catchAllName(seg)
			value := strings.Trim(loc.Params[name], "/")
			params[name] = value
			if value != "" {
				parts = append(parts, value)
			}
		default:
			parts = append(parts, seg)
		}
	}

	path := "/" + strings.Join(parts, "/")
	return buildRoute(rec, path, params, "", loc.Query, "")
}

func buildRoute(rec *record, path string, params map[string]string, rawQuery string, extra url.Values, hash string) (layerhash.Route, error) {
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return layerhash.Route{}, fmt.Errorf("%w: %q: %w", ErrBadQuery, rawQuery, err)
	}
	if len(extra) > 0 {
		for k, vs := range extra {
			query[k] = append([]string(nil), vs...)
		}
		rawQuery = query.Encode()
	}

	fullPath := path
	if rawQuery != "" {
		fullPath += "?" + rawQuery
	}
	fullPath += hash

	return layerhash.Route{
		Name:     rec.name,
		Path:     path,
		FullPath: fullPath,
		Params:   params,
		Query:    query,
		Hash:     hash,
		Meta:     rec.meta,
	}, nil
}

// match reports whether path segments fit the pattern, returning captured params.
func match(pattern, segments []string) (map[string]string, bool) {
	params := make(map[string]string)
	for i, seg := range pattern {
		if strings.HasPrefix(seg, "*") {
			params[catchAllName(seg)] = strings.Join(segments[min(i, len(segments)):], "/")
			return params, true
		}
		if i >= len(segments) {
			return nil, false
		}
		switch {
		case strings.HasPrefix(seg, ":"):
			if segments[i] == "" {
				return nil, false
			}
			params[seg[1:]] = segments[i]
		case seg != segments[i]:
			return nil, false
		}
	}
	return params, len(pattern) == len(segments)
}

// splitLocation separates "/path?query#hash" into its parts. The hash keeps
// its leading '#'; the query does not keep its '?'.
func splitLocation(raw string) (path, rawQuery, hash string) {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw, hash = raw[:i], raw[i:]
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw, rawQuery = raw[:i], raw[i+1:]
	}
	return ensureLeadingSlash(raw), rawQuery, hash
}

func splitSegments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func ensureLeadingSlash(p string) string {
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}

func catchAllName(seg string) string {
	if name := strings.TrimPrefix(seg, "*"); name != "" {
		return name
	}
	return catchAllParam
}
