// Package handle turns user supplied account references into canonical Instagram handles.
package handle

import (
	"net/url"
	"strings"
)

const (
	platformDomain = "instagram.com"
	profileURLBase = "https://www.instagram.com/"
)

// Identity is a canonical account reference.
type Identity struct {
	Handle     string `json:"handle"`
	ProfileURL string `json:"profile_url"`
}

// Empty reports whether no usable handle could be extracted.
func (i Identity) Empty() bool { return i.Handle == "" }

// Resolve accepts a bare handle, an @handle or a profile URL (with or without scheme)
// and never fails. The returned handle may be empty; callers must reject that case.
func Resolve(input string) Identity {
	raw := strings.TrimSpace(input)
	lower := strings.ToLower(raw)

	if !hasScheme(lower) && !strings.HasPrefix(lower, "www.") && !isBareDomainRef(lower) {
		return build(firstSegment(strings.TrimPrefix(raw, "@")))
	}

	candidate := raw
	if !hasScheme(lower) {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Host == "" {
		return build(firstSegment(stripKnownPrefixes(raw)))
	}
	for _, seg := range strings.Split(parsed.Path, "/") {
		if seg != "" {
			return build(seg)
		}
	}
	return build("")
}

// ProfileURL returns the canonical profile URL for an already canonical handle.
func ProfileURL(h string) string {
	if h == "" {
		return ""
	}
	return profileURLBase + h + "/"
}

// Equal compares two handles after canonicalization.
func Equal(a, b string) bool {
	return clean(a) != "" && clean(a) == clean(b)
}

func build(h string) Identity {
	h = clean(h)
	return Identity{Handle: h, ProfileURL: ProfileURL(h)}
}

func clean(h string) string {
	h = strings.TrimSpace(h)
	h = strings.TrimPrefix(h, "@")
	return strings.ToLower(h)
}

func hasScheme(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

// isBareDomainRef matches "instagram.com" and "instagram.com/...", not handles such as "instagram.comics".
func isBareDomainRef(s string) bool {
	if !strings.HasPrefix(s, platformDomain) {
		return false
	}
	rest := s[len(platformDomain):]
	return rest == "" || strings.IndexAny(rest[:1], "/?#") == 0
}

func stripKnownPrefixes(s string) string {
	s = strings.TrimPrefix(s, "@")
	lower := strings.ToLower(s)
	for _, p := range []string{"https://", "http://", "www.", platformDomain + "/"} {
		if strings.HasPrefix(lower, p) {
			s = s[len(p):]
			lower = lower[len(p):]
		}
	}
	return s
}

// firstSegment drops everything from the first path, query or fragment separator.
func firstSegment(s string) string {
	s = strings.TrimLeft(s, "/")
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	return s
}
