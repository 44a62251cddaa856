// Package router provides a reference transition engine for layerhash.
//
// Routes are registered as path patterns and resolved in registration order;
// the first pattern that matches wins. A pattern segment starting with ':'
// captures one path segment, and a trailing '*' segment captures the rest of
// the path.
//
// # Basic Usage
//
//	r := router.New().
//	    Register("/", router.Named("home")).
//	    Register("/users/:id", router.Named("user")).
//	    Register("/files/*path")
//
//	r.BeforeEach(func(to, from layerhash.Stack) error {
//	    if to.Top().Path == "/admin" {
//	        return errors.New("forbidden")
//	    }
//	    return nil
//	})
//
//	route, err := r.Resolve(layerhash.RawLocation{
//	    Name:   "user",
//	    Params: map[string]string{"id": "42"},
//	})
//	// route.FullPath == "/users/42"
//
// # Transitions
//
// Transition resolves every location of a request, runs the guards against
// the resolved stack, and completes synchronously. A request is all or
// nothing: if any location fails to resolve or any guard fails, onAbort is
// called and no stack is produced.
//
// With RejectDuplicates enabled, a request resolving to the same stack as the
// last completed one aborts with ErrDuplicated.
package router
