//go:build js && wasm

package browser

import (
	"syscall/js"

	"github.com/BrandonKowalski/layerhash/pkg/layerhash"
)

// Window binds layerhash.Environment to the page's window.location and
// window.history.
type Window struct {
	window   js.Value
	location js.Value
	history  js.Value
}

var _ layerhash.Environment = (*Window)(nil)

// NewWindow binds to the global window object.
func NewWindow() *Window {
	win := js.Global().Get("window")
	return &Window{
		window:   win,
		location: win.Get("location"),
		history:  win.Get("history"),
	}
}

func (w *Window) Href() string {
	return w.location.Get("href").String()
}

func (w *Window) SupportsPushState() bool {
	return w.history.Truthy() && w.history.Get("pushState").Type() == js.TypeFunction
}

func (w *Window) PushState(url string, state layerhash.EntryState) {
	w.history.Call("pushState", stateToJS(state), "", url)
}

func (w *Window) ReplaceState(url string, state layerhash.EntryState) {
	w.history.Call("replaceState", stateToJS(state), "", url)
}

func (w *Window) AssignHash(path string) {
	w.location.Set("hash", path)
}

func (w *Window) ReplaceLocation(url string) {
	w.location.Call("replace", url)
}

func (w *Window) Go(n int) {
	w.history.Call("go", n)
}

func (w *Window) State() (layerhash.EntryState, bool) {
	if !w.history.Truthy() {
		return layerhash.EntryState{}, false
	}
	st := w.history.Get("state")
	if st.Type() != js.TypeObject || st.IsNull() {
		return layerhash.EntryState{}, false
	}

	var out layerhash.EntryState
	if key := st.Get("key"); key.Type() == js.TypeString {
		out.Key = key.String()
	}
	layers := st.Get("state")
	if layers.Type() == js.TypeObject && js.Global().Get("Array").Call("isArray", layers).Bool() {
		n := layers.Length()
		out.Layers = make([]string, 0, n)
		for i := 0; i < n; i++ {
			out.Layers = append(out.Layers, layers.Index(i).String())
		}
	}
	return out, true
}

func (w *Window) Listen(event string, fn func()) func() {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn()
		return nil
	})
	w.window.Call("addEventListener", event, cb)
	return func() {
		w.window.Call("removeEventListener", event, cb)
		cb.Release()
	}
}

func stateToJS(state layerhash.EntryState) map[string]any {
	out := map[string]any{"key": state.Key}
	if state.Layers != nil {
		layers := make([]any, len(state.Layers))
		for i, l := range state.Layers {
			layers[i] = l
		}
		out["state"] = layers
	}
	return out
}
