package cache

import (
	"context"
	"regexp"
)

// Invalidate removes all cached responses whose key contains the given
// substring, typically a resource path prefix such as "/api/products".
// Returns the number of entries removed. Write-path handlers call this
// after a mutation so subsequent GETs recompute.
func (m *Middleware) Invalidate(ctx context.Context, substr string) (int, error) {
	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(keyNamespace) + ".*" + regexp.QuoteMeta(substr))
	return m.deleteMatching(ctx, pattern)
}

// InvalidatePattern removes all cached responses whose key matches the
// expression. Matching is restricted to this middleware's namespace
// regardless of the expression supplied.
func (m *Middleware) InvalidatePattern(ctx context.Context, re *regexp.Regexp) (int, error) {
	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(keyNamespace) + ".*(?:" + re.String() + ")")
	return m.deleteMatching(ctx, pattern)
}

func (m *Middleware) deleteMatching(ctx context.Context, pattern *regexp.Regexp) (int, error) {
	removed, err := m.store.DeletePattern(ctx, pattern)
	if err != nil {
		m.logger.Warn().Err(err).Str("pattern", pattern.String()).Msg("Cache invalidation failed")
		return removed, err
	}

	CacheInvalidations.Add(float64(removed))
	m.logger.Debug().
		Int("removed", removed).
		Str("pattern", pattern.String()).
		Msg("Invalidated cache entries")

	return removed, nil
}
