package layerhash

import "strings"

// ensureSlash reports whether the fragment already starts with '/'. If not,
// it repairs the fragment in place with a replace and returns false so the
// caller treats the observed event as a self-inflicted correction.
func (h *HashHistory) ensureSlash() bool {
	path := DecodeFragment(h.env.Href())
	if strings.HasPrefix(path, "/") {
		return true
	}

	h.replaceHash("/"+path, nil)
	h.metrics.slashCorrected()
	h.log.Debug("fragment corrected", "from", path, "to", "/"+path)
	return false
}
