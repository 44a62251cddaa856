// Package browser provides layerhash.Environment implementations: Memory, a
// deterministic in-process address bar and session history, and Window, the
// syscall/js binding used when compiled for js/wasm.
package browser

import (
	"net/url"
	"strings"
	"sync"

	"github.com/BrandonKowalski/layerhash/pkg/layerhash"
	"github.com/BrandonKowalski/layerhash/pkg/layerhash/constants"
)

// maxDispatch bounds Flush so a listener that keeps re-triggering events
// cannot spin forever.
const maxDispatch = 1024

type entry struct {
	href  string
	state *layerhash.EntryState
}

type listener struct {
	id    int
	event string
	fn    func()
}

// Memory simulates window.location and window.history. Events are queued as
// a browser's task queue would hold them and delivered by Flush.
type Memory struct {
	mu        sync.Mutex
	entries   []entry
	index     int
	pushState bool
	listeners []listener
	nextID    int
	pending   []string
	mutations int
	reloads   int
}

var _ layerhash.Environment = (*Memory)(nil)

// MemoryOption configures a Memory environment.
type MemoryOption func(*Memory)

// WithoutPushState simulates a browser lacking native history push/replace.
func WithoutPushState() MemoryOption {
	return func(m *Memory) {
		m.pushState = false
	}
}

// NewMemory creates an environment whose single history entry is href.
func NewMemory(href string, opts ...MemoryOption) *Memory {
	m := &Memory{
		entries:   []entry{{href: href}},
		pushState: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Href() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.index].href
}

func (m *Memory) SupportsPushState() bool {
	return m.pushState
}

func (m *Memory) PushState(rawURL string, state layerhash.EntryState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations++
	m.pushEntry(entry{href: m.resolve(rawURL), state: &state})
}

func (m *Memory) ReplaceState(rawURL string, state layerhash.EntryState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations++
	m.entries[m.index] = entry{href: m.resolve(rawURL), state: &state}
}

func (m *Memory) AssignHash(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations++
	current := m.entries[m.index].href
	next := layerhash.BuildURL(current, path)
	if next == current {
		return
	}
	m.pushEntry(entry{href: next})
	m.queueFragmentChange()
}

func (m *Memory) ReplaceLocation(rawURL string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations++
	current := m.entries[m.index].href
	next := m.resolve(rawURL)
	m.entries[m.index] = entry{href: next}

	if document(next) != document(current) {
		m.reloads++
		return
	}
	if fragment(next) != fragment(current) {
		m.queueFragmentChange()
	}
}

func (m *Memory) Go(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	target := m.index + n
	if n == 0 || target < 0 || target >= len(m.entries) {
		return
	}
	from := m.entries[m.index].href
	m.index = target
	to := m.entries[m.index].href

	if m.pushState {
		m.pending = append(m.pending, constants.EventPopState)
	}
	if fragment(from) != fragment(to) {
		m.pending = append(m.pending, constants.EventHashChange)
	}
}

func (m *Memory) State() (layerhash.EntryState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.entries[m.index].state
	if st == nil {
		return layerhash.EntryState{}, false
	}
	return *st, true
}

func (m *Memory) Listen(event string, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, listener{id: id, event: event, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// Edit simulates the user typing href into the address bar. A change limited
// to the fragment adds an entry and fires events; anything else loads a new
// document.
func (m *Memory) Edit(href string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.entries[m.index].href
	next := m.resolve(href)
	if next == current {
		return
	}
	m.pushEntry(entry{href: next})
	if document(next) != document(current) {
		m.reloads++
		return
	}
	m.queueFragmentChange()
}

// Flush delivers queued events, including events queued by listeners while
// flushing, and returns how many were delivered.
func (m *Memory) Flush() int {
	delivered := 0
	for delivered < maxDispatch {
		m.mu.Lock()
		if len(m.pending) == 0 {
			m.mu.Unlock()
			break
		}
		event := m.pending[0]
		m.pending = m.pending[1:]
		var fns []func()
		for _, l := range m.listeners {
			if l.event == event {
				fns = append(fns, l.fn)
			}
		}
		m.mu.Unlock()

		for _, fn := range fns {
			fn()
		}
		delivered++
	}
	return delivered
}

// Pending returns the names of queued, undelivered events.
func (m *Memory) Pending() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.pending...)
}

// Len returns the number of history entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Index returns the position of the current entry.
func (m *Memory) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

// Mutations counts calls that wrote the address or history.
func (m *Memory) Mutations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mutations
}

// Reloads counts navigations that loaded a different document.
func (m *Memory) Reloads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reloads
}

// pushEntry drops forward entries and appends e as the current entry.
func (m *Memory) pushEntry(e entry) {
	m.entries = append(m.entries[:m.index+1], e)
	m.index = len(m.entries) - 1
}

func (m *Memory) queueFragmentChange() {
	if m.pushState {
		m.pending = append(m.pending, constants.EventPopState)
	}
	m.pending = append(m.pending, constants.EventHashChange)
}

// resolve interprets rawURL relative to the current address. Absolute URLs
// are kept verbatim.
func (m *Memory) resolve(rawURL string) string {
	if strings.Contains(rawURL, "://") {
		return rawURL
	}
	base, err := url.Parse(m.entries[m.index].href)
	if err != nil {
		return rawURL
	}
	ref, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return base.ResolveReference(ref).String()
}

// document returns href without its fragment.
func document(href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		return href[:i]
	}
	return href
}

func fragment(href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		return href[i+1:]
	}
	return ""
}
