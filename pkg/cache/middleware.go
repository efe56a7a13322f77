package cache

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	// StatusHeader reports how the middleware handled a response.
	StatusHeader = "X-Cache"

	// StatusHit means the body was served from cache.
	StatusHit = "HIT"

	// StatusMiss means the handler ran and the response was freshly cached.
	StatusMiss = "MISS"

	// StatusNotModified means a 304 was served from cached validators.
	StatusNotModified = "NOT_MODIFIED"
)

// Config holds the middleware configuration.
type Config struct {
	// Store is the key-value backend. Required.
	Store Store

	// UserID extracts the authenticated user id from a request, "" for
	// anonymous requests. The id is folded into cache keys so private
	// entries are never shared across users.
	UserID func(r *http.Request) string
}

// Middleware caches JSON responses for GET routes and serves conditional
// requests from cached validators.
type Middleware struct {
	store  Store
	userID func(r *http.Request) string
	logger zerolog.Logger
	flight singleflight.Group
}

// New creates a cache middleware.
func New(cfg Config) *Middleware {
	if cfg.Store == nil {
		panic("cache store cannot be nil")
	}

	return &Middleware{
		store:  cfg.Store,
		userID: cfg.UserID,
		logger: log.With().Str("component", "httpcache").Logger(),
	}
}

// Handler returns a middleware function applying the given cache options
// to a route. Non-GET requests and requests rejected by the options'
// Condition pass through without touching the store.
func (m *Middleware) Handler(opts CacheOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || opts.TTL <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			if opts.Condition != nil && !opts.Condition(r) {
				next.ServeHTTP(w, r)
				return
			}

			var userID string
			if m.userID != nil {
				userID = m.userID(r)
			}
			key := keyNamespace + DeriveKey(r, opts, userID)

			entry, err := m.store.Get(r.Context(), key)
			if err != nil && !errors.Is(err, ErrCacheMiss) {
				// Degraded store: treat as a miss, never fail the request.
				m.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, serving uncached")
			}
			if entry != nil {
				m.serveHit(w, r, opts, entry)
				return
			}

			m.serveMiss(w, r, next, opts, key)
		})
	}
}

// serveHit writes a cached response. The conditional check happens before
// any body is written, and a 304 carries the same validator headers as a
// full hit so a client that dropped its cached body can recover metadata.
func (m *Middleware) serveHit(w http.ResponseWriter, r *http.Request, opts CacheOptions, entry *CacheEntry) {
	h := w.Header()
	h.Set("Cache-Control", opts.cacheControl())
	h.Set("ETag", entry.ETag)
	h.Set("Last-Modified", entry.LastModified())

	// A malformed If-None-Match simply fails the exact comparison and the
	// full body is served.
	if r.Header.Get("If-None-Match") == entry.ETag {
		CacheNotModified.Inc()
		h.Set(StatusHeader, StatusNotModified)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	CacheHits.Inc()
	h.Set(StatusHeader, StatusHit)
	h.Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(entry.Data); err != nil {
		m.logger.Debug().Err(err).Msg("Client went away while writing cached body")
	}
	m.logger.Debug().Str("etag", entry.ETag).Msg("Served from cache")
}

// serveMiss runs the handler against a buffering recorder, caches the
// result, and replays it to the client. With Coalesce enabled, concurrent
// misses for the same key share one handler execution.
func (m *Middleware) serveMiss(w http.ResponseWriter, r *http.Request, next http.Handler, opts CacheOptions, key string) {
	if opts.Coalesce {
		v, _, _ := m.flight.Do(key, func() (any, error) {
			return m.record(next, r, opts, key), nil
		})
		m.replay(w, v.(*recorder))
		return
	}

	m.replay(w, m.record(next, r, opts, key))
}

// record executes the handler into a recorder and, for a 200 JSON
// response, fingerprints and stores the body. Validator headers are set on
// the recorder so they reach the client before the body does.
func (m *Middleware) record(next http.Handler, r *http.Request, opts CacheOptions, key string) *recorder {
	rec := newRecorder()
	next.ServeHTTP(rec, r)

	if rec.status() != http.StatusOK || rec.body.Len() == 0 {
		return rec
	}

	etag, err := ETagForJSON(rec.body.Bytes())
	if err != nil {
		// Unserializable payload: deliver the response uncached.
		m.logger.Warn().Err(err).Str("key", key).Msg("Payload not cacheable, delivering uncached")
		return rec
	}

	entry := &CacheEntry{
		Data:      append([]byte(nil), rec.body.Bytes()...),
		ETag:      etag,
		Timestamp: time.Now(),
	}
	if err := m.store.Set(r.Context(), key, entry, opts.TTL); err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}

	h := rec.Header()
	h.Set("Cache-Control", opts.cacheControl())
	h.Set("ETag", etag)
	h.Set("Last-Modified", entry.LastModified())

	m.logger.Debug().
		Str("key", key).
		Str("etag", etag).
		Dur("ttl", opts.TTL).
		Msg("Cached response")

	return rec
}

// replay copies a recorded response to the client with the miss indicator.
func (m *Middleware) replay(w http.ResponseWriter, rec *recorder) {
	CacheMisses.Inc()

	h := w.Header()
	for name, values := range rec.Header() {
		h[name] = values
	}
	h.Set(StatusHeader, StatusMiss)

	w.WriteHeader(rec.status())
	if rec.body.Len() > 0 {
		if _, err := w.Write(rec.body.Bytes()); err != nil {
			m.logger.Debug().Err(err).Msg("Client went away while writing response")
		}
	}
}

// recorder buffers a handler's response so the middleware can fingerprint
// the body and set validator headers before anything reaches the client.
type recorder struct {
	header http.Header
	code   int
	body   bytes.Buffer
}

func newRecorder() *recorder {
	return &recorder{header: make(http.Header)}
}

func (r *recorder) Header() http.Header {
	return r.header
}

func (r *recorder) WriteHeader(code int) {
	if r.code == 0 {
		r.code = code
	}
}

func (r *recorder) Write(b []byte) (int, error) {
	if r.code == 0 {
		r.code = http.StatusOK
	}
	return r.body.Write(b)
}

func (r *recorder) status() int {
	if r.code == 0 {
		return http.StatusOK
	}
	return r.code
}
