package layerhash

import (
	"strings"

	"github.com/BrandonKowalski/layerhash/pkg/layerhash/constants"
)

// checkFallback redirects a plain-path address into fragment-addressed form,
// keeping the original location inside the fragment. It returns true when a
// redirect was issued; the page will reload and construct a fresh adapter.
func (h *HashHistory) checkFallback() bool {
	location := currentLocation(h.env.Href(), h.base)
	if strings.HasPrefix(location, constants.FallbackMarker) {
		return false
	}

	target := CleanPath(h.base + constants.FallbackMarker + location)
	h.env.ReplaceLocation(target)
	h.metrics.fallbackRedirected()
	h.log.Info("fallback redirect", "location", location, "target", target)
	return true
}

// currentLocation returns the base-relative location of href, outside of
// fragment addressing: decoded pathname without base, then search and hash.
// Search and hash are copied as-is, so malformed escapes there are kept.
func currentLocation(href, base string) string {
	rest := href
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
		if j := strings.IndexAny(rest, "/?#"); j >= 0 {
			rest = rest[j:]
		} else {
			rest = ""
		}
	}

	path, tail := rest, ""
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		path, tail = rest[:i], rest[i:]
	}

	path = decodeURIOrRaw(path)
	if base != "" && strings.HasPrefix(strings.ToLower(path), strings.ToLower(base)) {
		path = path[len(base):]
	}
	if path == "" {
		path = constants.StartPath
	}

	search, hash := tail, ""
	if i := strings.IndexByte(tail, '#'); i >= 0 {
		search, hash = tail[:i], tail[i:]
	}
	if search == "?" {
		search = ""
	}
	if hash == "#" {
		hash = ""
	}
	return path + search + hash
}

// normalizeBase gives base a leading slash and no trailing slash. Scheme and
// host are stripped, so "" and "/" both normalize to "".
func normalizeBase(base string) string {
	for _, scheme := range []string{"http://", "https://"} {
		if strings.HasPrefix(base, scheme) {
			rest := base[len(scheme):]
			if i := strings.IndexByte(rest, '/'); i >= 0 {
				base = rest[i:]
			} else {
				base = ""
			}
			break
		}
	}
	if base == "" {
		base = "/"
	}
	if base[0] != '/' {
		base = "/" + base
	}
	return strings.TrimSuffix(base, "/")
}
