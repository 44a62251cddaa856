package layerhash

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/BrandonKowalski/layerhash/pkg/layerhash/constants"
)

var errMalformedURI = errors.New("malformed percent-encoding")

// DecodeFragment returns the fragment of href: everything after the first
// '#', or "" when there is none.
//
// The fragment is read from the full address rather than a browser-reported
// hash field because some browsers pre-decode that field. Only the path part is
// percent-decoded. A query string (from the first '?') or a secondary fragment
// (from a second '#', when there is no query) is passed through untouched since
// the browser has already decoded it.
func DecodeFragment(href string) string {
	index := strings.IndexByte(href, '#')
	if index < 0 {
		return ""
	}
	fragment := href[index+1:]

	cut := strings.IndexByte(fragment, '?')
	if cut < 0 {
		cut = strings.IndexByte(fragment, '#')
	}
	if cut < 0 {
		return decodeURIOrRaw(fragment)
	}
	return decodeURIOrRaw(fragment[:cut]) + fragment[cut:]
}

// BuildURL returns href with its fragment replaced by path.
func BuildURL(href, path string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	return href + "#" + path
}

// CleanPath collapses every "//" into "/", scanning left to right.
func CleanPath(p string) string {
	return strings.ReplaceAll(p, "//", "/")
}

func decodeURIOrRaw(s string) string {
	decoded, err := decodeURI(s)
	if err != nil {
		return s
	}
	return decoded
}

// decodeURI decodes %XX escapes that form valid UTF-8, leaving escapes of
// reserved characters encoded.
func decodeURI(s string) (string, error) {
	if !strings.Contains(s, "%") {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] != '%' {
			b.WriteByte(s[i])
			i++
			continue
		}

		lead, ok := unhexAt(s, i)
		if !ok {
			return "", errMalformedURI
		}

		if lead < utf8.RuneSelf {
			if strings.IndexByte(constants.ReservedURIChars, lead) >= 0 {
				b.WriteString(s[i : i+3])
			} else {
				b.WriteByte(lead)
			}
			i += 3
			continue
		}

		n := utf8SeqLen(lead)
		if n == 0 {
			return "", errMalformedURI
		}

		seq := make([]byte, 0, n)
		seq = append(seq, lead)
		j := i + 3
		for k := 1; k < n; k++ {
			if j >= len(s) || s[j] != '%' {
				return "", errMalformedURI
			}
			cont, ok := unhexAt(s, j)
			if !ok || cont&0xC0 != 0x80 {
				return "", errMalformedURI
			}
			seq = append(seq, cont)
			j += 3
		}
		if !utf8.Valid(seq) {
			return "", errMalformedURI
		}
		b.Write(seq)
		i = j
	}

	return b.String(), nil
}

// unhexAt decodes the escape "%XX" starting at s[i].
func unhexAt(s string, i int) (byte, bool) {
	if i+2 >= len(s) {
		return 0, false
	}
	hi, ok1 := unhex(s[i+1])
	lo, ok2 := unhex(s[i+2])
	if !ok1 || !ok2 {
		return 0, false
	}
	return hi<<4 | lo, true
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func utf8SeqLen(lead byte) int {
	switch {
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	}
	return 0
}

// pushHash adds a history entry whose fragment is path. Without native
// history support the fragment is assigned directly, which fires hashchange.
func (h *HashHistory) pushHash(path string, layers []string) {
	if h.env.SupportsPushState() {
		h.env.PushState(BuildURL(h.env.Href(), path), h.entryState(layers))
		return
	}
	h.env.AssignHash(path)
}

// replaceHash rewrites the current entry's fragment to path.
func (h *HashHistory) replaceHash(path string, layers []string) {
	if h.env.SupportsPushState() {
		h.env.ReplaceState(BuildURL(h.env.Href(), path), h.entryState(layers))
		return
	}
	h.env.ReplaceLocation(BuildURL(h.env.Href(), path))
}

func (h *HashHistory) entryState(layers []string) EntryState {
	return EntryState{Key: h.keyFunc(), Layers: layers}
}
