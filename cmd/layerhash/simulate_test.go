package main

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/layerhash/pkg/layerhash"
)

func testSimulation(out io.Writer) simulation {
	return simulation{
		out:    out,
		cfg:    layerhash.DefaultConfig(),
		logger: layerhash.NewLogger(io.Discard, "error"),
	}
}

func runLines(t *testing.T, sim simulation, s Script) []string {
	t.Helper()
	var buf bytes.Buffer
	sim.out = &buf
	require.NoError(t, sim.execute(s))
	return strings.Split(strings.TrimSpace(buf.String()), "\n")
}

func TestParseScript(t *testing.T) {
	s, err := parseScript([]byte(`
href: http://app.test/#/a
pushstate: false
routes:
  - path: /:page
    name: page
steps:
  - op: navigate-all
    paths: [/a, /b]
  - op: navigate-layer
    index: 1
    path: /c
  - op: ensure-url
    push: true
`))
	require.NoError(t, err)

	assert.Equal(t, "http://app.test/#/a", s.Href)
	require.NotNil(t, s.PushState)
	assert.False(t, *s.PushState)
	assert.Equal(t, []RouteSpec{{Path: "/:page", Name: "page"}}, s.Routes)
	require.Len(t, s.Steps, 3)
	assert.Equal(t, []string{"/a", "/b"}, s.Steps[0].Paths)
	assert.Equal(t, 1, s.Steps[1].Index)
	assert.True(t, s.Steps[2].Push)
}

func TestParseScript_Errors(t *testing.T) {
	_, err := parseScript([]byte("steps: []"))
	assert.ErrorContains(t, err, "no routes")

	_, err = parseScript([]byte("routes: [{path: /}]\nsteps: [{op: teleport}]"))
	assert.ErrorContains(t, err, `step 1: unknown op "teleport"`)

	_, err = parseScript([]byte("routes: {"))
	assert.ErrorContains(t, err, "decode script")
}

func TestSimulate_DialogScript(t *testing.T) {
	s, err := loadScript("testdata/dialog.yaml")
	require.NoError(t, err)

	lines := runLines(t, testSimulation(nil), s)
	require.Len(t, lines, 8)

	assert.Equal(t, "0 start href=http://app.test/#/inbox stack=[/inbox]", lines[0])
	assert.Equal(t, "1 add-layer href=http://app.test/#/compose stack=[/inbox /compose]", lines[1])
	assert.Equal(t, "2 navigate-last href=http://app.test/#/attach stack=[/inbox /attach]", lines[2])
	assert.Equal(t, "3 back href=http://app.test/#/compose stack=[/inbox /compose]", lines[3])
	assert.Equal(t, "4 forward href=http://app.test/#/attach stack=[/inbox /attach]", lines[4])
	assert.Equal(t, "5 remove-layer href=http://app.test/#/inbox stack=[/inbox]", lines[5])
	assert.True(t, strings.HasPrefix(lines[6], "6 remove-layer href=http://app.test/#/inbox stack=[/inbox] aborted="))
	assert.Contains(t, lines[6], layerhash.ErrRemoveLastLayer.Error())
	assert.Equal(t, "7 edit-hash href=http://app.test/#/compose stack=[/compose]", lines[7])
}

func TestSimulate_WithoutPushState(t *testing.T) {
	s := Script{
		Href:   "http://app.test/#/inbox",
		Routes: []RouteSpec{{Path: "/:page"}},
		Steps: []Step{
			{Op: "add-layer", Path: "/compose"},
			{Op: "back"},
		},
	}

	sim := testSimulation(nil)
	sim.noPushState = true
	lines := runLines(t, sim, s)
	require.Len(t, lines, 3)

	assert.Equal(t, "1 add-layer href=http://app.test/#/compose stack=[/inbox /compose]", lines[1])
	assert.Equal(t, "2 back href=http://app.test/#/inbox stack=[/inbox]", lines[2])
}

func TestSimulate_Fallback(t *testing.T) {
	sim := testSimulation(nil)
	sim.cfg.Fallback = true

	lines := runLines(t, sim, Script{
		Href:   "http://app.test/inbox",
		Routes: []RouteSpec{{Path: "/inbox"}},
	})
	assert.Equal(t, []string{"redirected href=http://app.test/#/inbox"}, lines)
}

func TestSimulate_Metrics(t *testing.T) {
	sim := testSimulation(nil)
	sim.metrics = true

	lines := runLines(t, sim, Script{
		Href:   "http://app.test/#/a",
		Routes: []RouteSpec{{Path: "/:page"}},
		Steps:  []Step{{Op: "add-layer", Path: "/b"}, {Op: "navigate-layer", Index: 5, Path: "/c"}},
	})

	assert.Contains(t, lines, "layerhash_navigations_total{op=navigate_add,result=committed} 1")
	assert.Contains(t, lines, "layerhash_navigations_total{op=navigate_layer,result=aborted} 1")
}

func TestDecodeCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"decode", "http://app.test/#/caf%C3%A9%2Fx?q=%20"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "/café%2Fx?q=%20\n", buf.String())
}

func TestSimulate_LogPathFileIsCreated(t *testing.T) {
	cfg := layerhash.DefaultConfig()
	cfg.LogPath = filepath.Join(t.TempDir(), "logs", "simulate.log")

	sim := simulation{cfg: cfg, logger: newLogger(cfg)}
	require.Nil(t, sim.logger, "a configured log file replaces the stderr logger")

	lines := runLines(t, sim, Script{
		Href:   "http://app.test/#/a",
		Routes: []RouteSpec{{Path: "/:page"}},
	})
	assert.Equal(t, []string{"0 start href=http://app.test/#/a stack=[/a]"}, lines)
	assert.FileExists(t, cfg.LogPath)
}
