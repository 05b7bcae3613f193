package routing

import "strings"

// hostMatcher compares a request host against an exact host or a wildcard
// suffix. Wildcard suffixes are stored reversed so that matching is a prefix
// comparison walked backwards over the query host.
//
// The wildcard rule is a literal suffix check: "*.example.com" matches
// "api.example.com" but also "evilexample.com", since no label boundary is
// enforced after the "*".
type hostMatcher struct {
	exact    string
	suffix   string // reversed, leading '*' stripped
	wildcard bool
}

// newHostMatcher normalizes a configured host. A value starting with "*"
// becomes a wildcard suffix; anything else is matched exactly.
func newHostMatcher(host string) *hostMatcher {
	if strings.HasPrefix(host, "*") {
		return &hostMatcher{wildcard: true, suffix: reverseString(host[1:])}
	}
	return &hostMatcher{exact: host}
}

// matches reports whether the query host satisfies the constraint.
func (m *hostMatcher) matches(host string) bool {
	if !m.wildcard {
		return host == m.exact
	}

	if len(m.suffix) > len(host) {
		return false
	}
	for i := 0; i < len(m.suffix); i++ {
		if m.suffix[i] != host[len(host)-1-i] {
			return false
		}
	}
	return true
}

func reverseString(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
