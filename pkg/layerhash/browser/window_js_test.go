//go:build js && wasm

package browser

import (
	"syscall/js"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BrandonKowalski/layerhash/pkg/layerhash"
)

func TestStateToJS(t *testing.T) {
	v := js.ValueOf(stateToJS(layerhash.EntryState{Key: "k", Layers: []string{"/a", "/b"}}))
	assert.Equal(t, "k", v.Get("key").String())
	assert.Equal(t, 2, v.Get("state").Length())
	assert.Equal(t, "/b", v.Get("state").Index(1).String())

	v = js.ValueOf(stateToJS(layerhash.EntryState{Key: "k"}))
	assert.True(t, v.Get("state").IsUndefined())
}
