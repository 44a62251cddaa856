package router

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/layerhash/pkg/layerhash"
)

func testRouter() *Router {
	return New().
		Register("/", Named("home")).
		Register("/users/:id", Named("user"), WithMeta("profile")).
		Register("/users/:id/posts/:post", Named("post")).
		Register("/files/*path", Named("files")).
		Register("/docs/*")
}

func TestResolve_Paths(t *testing.T) {
	r := testRouter()

	tests := []struct {
		name     string
		path     string
		wantName string
		wantFull string
		params   map[string]string
	}{
		{"root", "/", "home", "/", map[string]string{}},
		{"empty is root", "", "home", "/", map[string]string{}},
		{"param", "/users/42", "user", "/users/42", map[string]string{"id": "42"}},
		{"two params", "/users/42/posts/7", "post", "/users/42/posts/7", map[string]string{"id": "42", "post": "7"}},
		{"named catch-all", "/files/a/b.txt", "files", "/files/a/b.txt", map[string]string{"path": "a/b.txt"}},
		{"bare catch-all", "/docs/guide/intro", "", "/docs/guide/intro", map[string]string{"pathMatch": "guide/intro"}},
		{"catch-all empty", "/docs", "", "/docs", map[string]string{"pathMatch": ""}},
		{"query and hash kept", "/users/1?tab=info#top", "user", "/users/1?tab=info#top", map[string]string{"id": "1"}},
		{"missing leading slash", "users/3", "user", "/users/3", map[string]string{"id": "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, err := r.Resolve(layerhash.Path(tt.path))
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, route.Name)
			assert.Equal(t, tt.wantFull, route.FullPath)
			assert.Equal(t, tt.params, route.Params)
		})
	}
}

func TestResolve_QueryAndHash(t *testing.T) {
	r := testRouter()

	route, err := r.Resolve(layerhash.Path("/users/1?tab=info&x=%20y#top"))
	require.NoError(t, err)

	assert.Equal(t, "/users/1", route.Path)
	assert.Equal(t, "info", route.Query.Get("tab"))
	assert.Equal(t, " y", route.Query.Get("x"))
	assert.Equal(t, "#top", route.Hash)
	assert.Equal(t, "profile", route.Meta)
}

func TestResolve_ExtraQueryIsEncoded(t *testing.T) {
	r := testRouter()

	route, err := r.Resolve(layerhash.RawLocation{
		Path:  "/users/1?a=1",
		Query: url.Values{"b": {"2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "/users/1?a=1&b=2", route.FullPath)
}

func TestResolve_NotFound(t *testing.T) {
	r := testRouter()

	_, err := r.Resolve(layerhash.Path("/nowhere"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Resolve(layerhash.Path("/users"))
	assert.ErrorIs(t, err, ErrNotFound, "a param segment needs a value")

	_, err = r.Resolve(layerhash.Path("/users/1/extra"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_FirstRegisteredWins(t *testing.T) {
	r := New().
		Register("/users/new", Named("create")).
		Register("/users/:id", Named("user"))

	route, err := r.Resolve(layerhash.Path("/users/new"))
	require.NoError(t, err)
	assert.Equal(t, "create", route.Name)
}

func TestResolve_Named(t *testing.T) {
	r := testRouter()

	route, err := r.Resolve(layerhash.RawLocation{
		Name:   "post",
		Params: map[string]string{"id": "5", "post": "9"},
		Query:  url.Values{"draft": {"1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "/users/5/posts/9?draft=1", route.FullPath)
	assert.Equal(t, "/users/5/posts/9", route.Path)

	route, err = r.Resolve(layerhash.RawLocation{Name: "files", Params: map[string]string{"path": "/a/b/"}})
	require.NoError(t, err)
	assert.Equal(t, "/files/a/b", route.FullPath)

	route, err = r.Resolve(layerhash.RawLocation{Name: "home"})
	require.NoError(t, err)
	assert.Equal(t, "/", route.FullPath)
}

func TestResolve_NamedErrors(t *testing.T) {
	r := testRouter()

	_, err := r.Resolve(layerhash.RawLocation{Name: "missing"})
	assert.ErrorIs(t, err, ErrUnknownName)

	_, err = r.Resolve(layerhash.RawLocation{Name: "user"})
	assert.ErrorIs(t, err, ErrMissingParam)
}

func TestTransition_CompletesWithStack(t *testing.T) {
	r := testRouter()

	var got layerhash.Stack
	r.Transition(layerhash.Paths("/", "/users/1"), func(s layerhash.Stack) { got = s }, func(err error) {
		t.Fatalf("unexpected abort: %v", err)
	})

	assert.Equal(t, []string{"/", "/users/1"}, got.Paths())
	assert.True(t, r.Last().Equal(got))
}

func TestTransition_AllOrNothing(t *testing.T) {
	r := testRouter()
	r.Transition(layerhash.Paths("/"), nil, nil)

	var abortErr error
	r.Transition(layerhash.Paths("/users/1", "/nowhere"), func(layerhash.Stack) {
		t.Fatal("partial request must not complete")
	}, func(err error) { abortErr = err })

	assert.ErrorIs(t, abortErr, layerhash.ErrAborted)
	assert.ErrorIs(t, abortErr, ErrNotFound)
	assert.Equal(t, []string{"/"}, r.Last().Paths())
}

func TestTransition_EmptyRequestAborts(t *testing.T) {
	r := testRouter()

	var abortErr error
	r.Transition(nil, nil, func(err error) { abortErr = err })
	assert.ErrorIs(t, abortErr, layerhash.ErrAborted)
}

func TestTransition_GuardsRunInOrder(t *testing.T) {
	r := testRouter()
	errBlocked := errors.New("blocked")
	var order []string

	r.BeforeEach(func(to, from layerhash.Stack) error {
		order = append(order, "first")
		return nil
	}).BeforeEach(func(to, from layerhash.Stack) error {
		order = append(order, "second")
		if to.Top().Name == "user" {
			return errBlocked
		}
		return nil
	}).BeforeEach(func(to, from layerhash.Stack) error {
		order = append(order, "third")
		return nil
	})

	var abortErr error
	r.Transition(layerhash.Paths("/users/1"), nil, func(err error) { abortErr = err })

	assert.Equal(t, []string{"first", "second"}, order)
	assert.ErrorIs(t, abortErr, errBlocked)
	assert.ErrorIs(t, abortErr, layerhash.ErrAborted)
}

func TestTransition_GuardSeesPreviousStack(t *testing.T) {
	r := testRouter()
	var froms []string
	r.BeforeEach(func(to, from layerhash.Stack) error {
		froms = append(froms, from.Top().FullPath)
		return nil
	})

	r.Transition(layerhash.Paths("/users/1"), nil, nil)
	r.Transition(layerhash.Paths("/users/2"), nil, nil)

	assert.Equal(t, []string{"/", "/users/1"}, froms)
}

func TestTransition_RejectDuplicates(t *testing.T) {
	r := testRouter().RejectDuplicates(true)

	completed := 0
	var abortErr error
	onComplete := func(layerhash.Stack) { completed++ }
	onAbort := func(err error) { abortErr = err }

	r.Transition(layerhash.Paths("/users/1"), onComplete, onAbort)
	r.Transition(layerhash.Paths("/users/1"), onComplete, onAbort)

	assert.Equal(t, 1, completed)
	assert.ErrorIs(t, abortErr, ErrDuplicated)

	r.RejectDuplicates(false)
	r.Transition(layerhash.Paths("/users/1"), onComplete, onAbort)
	assert.Equal(t, 2, completed)
}

func TestMatch(t *testing.T) {
	params, ok := match(splitSegments("/a/:b/*rest"), splitSegments("/a/1/x/y"))
	require.True(t, ok)
	assert.Equal(t, map[string]string{"b": "1", "rest": "x/y"}, params)

	_, ok = match(splitSegments("/a/:b"), splitSegments("/a"))
	assert.False(t, ok)

	_, ok = match(splitSegments("/a"), splitSegments("/b"))
	assert.False(t, ok)
}

func TestSplitLocation(t *testing.T) {
	path, query, hash := splitLocation("/a?x=1#h?y")
	assert.Equal(t, "/a", path)
	assert.Equal(t, "x=1", query)
	assert.Equal(t, "#h?y", hash)

	path, query, hash = splitLocation("b")
	assert.Equal(t, "/b", path)
	assert.Empty(t, query)
	assert.Empty(t, hash)
}

func TestResolve_MalformedQuery(t *testing.T) {
	r := testRouter()

	_, err := r.Resolve(layerhash.Path("/users/1?q=%zz"))
	assert.ErrorIs(t, err, ErrBadQuery)

	var abortErr error
	r.Transition(layerhash.Paths("/users/1?q=%zz"), func(layerhash.Stack) {
		t.Fatal("malformed query must not complete")
	}, func(err error) { abortErr = err })
	assert.ErrorIs(t, abortErr, layerhash.ErrAborted)
	assert.ErrorIs(t, abortErr, ErrBadQuery)
}
