// Package layerhash keeps a layered navigation stack synchronized with the
// URL fragment of a browser address bar.
//
// The application's navigation model is an ordered stack of routes (outer
// layers first, e.g. a page with a modal on top), while the browser only
// offers one address and one state value per history entry. HashHistory
// stores the top layer in the fragment and the full stack in the entry state,
// so back/forward restores every layer.
//
// # Basic Usage
//
//	r := router.New().
//	    Register("/").
//	    Register("/users/:id").
//	    Register("/dialogs/*")
//
//	h, err := layerhash.New(browser.NewWindow(), r, layerhash.WithFallback(true))
//	if err != nil {
//	    return err
//	}
//
//	h.Start(func(top layerhash.Route) {
//	    // app mounted, listener installed
//	}, nil)
//
//	// Open a dialog above the current page
//	h.NavigateAddLayer(layerhash.Path("/dialogs/confirm"), nil, nil)
//
//	// Close it again
//	h.NavigateRemoveLayer(nil, nil)
//
// # Navigation Operations
//
// All five navigator operations build the full desired stack and hand it to
// the Transitioner. The stack is only replaced when the transition completes;
// on abort the previous stack stays committed and onAbort receives a
// *NavigationError.
//
//   - NavigateAllLayers replaces every layer
//   - NavigateLastLayer replaces the innermost layer
//   - NavigateLayer replaces one layer by index
//   - NavigateAddLayer pushes a new innermost layer
//   - NavigateRemoveLayer pops the innermost layer
//
// # Fragment Format
//
// The fragment always starts with '/'. A fragment without it is repaired in
// place by a replace, and the history event that observed it is ignored.
// Only the path part of the fragment is percent-decoded; a query string or a
// secondary '#' is passed through as the browser reported it.
package layerhash
