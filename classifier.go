package foodbook

import "strings"

// DefaultAPIPrefix is the path prefix of JSON endpoints
const DefaultAPIPrefix = "/api"

// DefaultLoginPath and DefaultHomePath are the page flow endpoints
const (
	DefaultLoginPath = "/auth/login"
	DefaultHomePath  = "/home"
)

// DefaultPublicPrefixes never require authentication
var DefaultPublicPrefixes = []string{
	"/api/auth",
	"/auth",
	"/assets",
	"/error",
	"/health",
}

// RequestClassifier decides which paths bypass authentication and which
// ones get JSON failures instead of redirects.
type RequestClassifier struct {
	publicPrefixes []string
	apiPrefix      string
}

// NewRequestClassifier falls back to the defaults for empty arguments
func NewRequestClassifier(apiPrefix string, publicPrefixes ...string) *RequestClassifier {
	if apiPrefix == "" {
		apiPrefix = DefaultAPIPrefix
	}
	if len(publicPrefixes) == 0 {
		publicPrefixes = DefaultPublicPrefixes
	}

	prefixes := make([]string, 0, len(publicPrefixes))
	for _, p := range publicPrefixes {
		if p = normalizePrefix(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}

	return &RequestClassifier{
		publicPrefixes: prefixes,
		apiPrefix:      normalizePrefix(apiPrefix),
	}
}

// IsPublic reports whether path sits on or under a public prefix
func (rc *RequestClassifier) IsPublic(path string) bool {
	for _, prefix := range rc.publicPrefixes {
		if hasPathPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// IsAPI reports whether path is a JSON endpoint
func (rc *RequestClassifier) IsAPI(path string) bool {
	return hasPathPrefix(path, rc.apiPrefix)
}

// hasPathPrefix matches whole segments: /auth covers /auth and
// /auth/login but not /authors.
func hasPathPrefix(path, prefix string) bool {
	if prefix == "" || prefix == "/" {
		return strings.HasPrefix(path, "/")
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

func normalizePrefix(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
