package cache

import (
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// keyDelimiter separates cache key segments. It is not expected to appear
// in any segment; a "|" in a path or header value would be percent-encoded
// by the time it reaches the server.
const keyDelimiter = "|"

// keyNamespace prefixes every key this package writes to the store, so
// invalidation can be scoped to entries owned by the middleware.
const keyNamespace = "httpcache:"

// CacheKey captures the request attributes that identify a cacheable response.
type CacheKey struct {
	// Method is the HTTP method (always GET for cached entries)
	Method string

	// Path is the request path, e.g. "/api/products"
	Path string

	// VaryHeaders are "name:value" pairs for the configured vary-by
	// headers, in configuration order
	VaryHeaders []string

	// Query are the request query parameters
	Query url.Values

	// UserID is the authenticated user id ("" for anonymous requests)
	UserID string
}

// String generates a deterministic cache key string.
// Format: method|path|header:value|a=1&b=2|user:<id>
//
// Query parameter names are sorted lexicographically so that URLs differing
// only in parameter order collide on the same key.
func (k CacheKey) String() string {
	parts := []string{k.Method, k.Path}

	parts = append(parts, k.VaryHeaders...)

	if len(k.Query) > 0 {
		names := make([]string, 0, len(k.Query))
		for name := range k.Query {
			names = append(names, name)
		}
		sort.Strings(names)

		pairs := make([]string, 0, len(names))
		for _, name := range names {
			pairs = append(pairs, name+"="+k.Query.Get(name))
		}
		parts = append(parts, strings.Join(pairs, "&"))
	}

	if k.UserID != "" {
		parts = append(parts, "user:"+k.UserID)
	}

	return strings.Join(parts, keyDelimiter)
}

// DeriveKey builds the cache key for a request according to the route
// options. A custom Key function on the options replaces the default
// derivation entirely. userID is the authenticated user id, "" when the
// request is anonymous.
func DeriveKey(r *http.Request, opts CacheOptions, userID string) string {
	if opts.Key != nil {
		return opts.Key(r)
	}

	key := CacheKey{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		UserID: userID,
	}

	for _, name := range opts.VaryBy {
		if value := r.Header.Get(name); value != "" {
			key.VaryHeaders = append(key.VaryHeaders, name+":"+value)
		}
	}

	return key.String()
}
