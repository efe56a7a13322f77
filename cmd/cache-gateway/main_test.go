package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedw3n/api-cache/pkg/auth"
	"github.com/dedw3n/api-cache/pkg/cache"
)

const testSecret = "gateway-test-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := cache.NewMemoryStore()
	verifier := auth.NewVerifier([]byte(testSecret))
	mw := cache.New(cache.Config{Store: store, UserID: auth.UserID})

	srv := httptest.NewServer(newRouter(mw, verifier, store, newCatalog()))
	t.Cleanup(srv.Close)
	return srv
}

func bearerToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	raw, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + raw
}

func doGet(t *testing.T, url string, header http.Header) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for name, values := range header {
		req.Header[name] = values
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, string(body)
}

func TestGateway_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doGet(t, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "ok")
}

func TestGateway_ProductListing_CacheFlow(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL + "/api/products?category=shoes"

	first, firstBody := doGet(t, url, nil)
	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, cache.StatusMiss, first.Header.Get(cache.StatusHeader))
	etag := first.Header.Get("ETag")
	require.NotEmpty(t, etag)

	second, secondBody := doGet(t, url, nil)
	assert.Equal(t, cache.StatusHit, second.Header.Get(cache.StatusHeader))
	assert.Equal(t, firstBody, secondBody)

	conditional, condBody := doGet(t, url, http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusNotModified, conditional.StatusCode)
	assert.Empty(t, condBody)
	assert.Equal(t, etag, conditional.Header.Get("ETag"))
}

func TestGateway_ProductCreate_InvalidatesListing(t *testing.T) {
	srv := newTestServer(t)
	listURL := srv.URL + "/api/products"

	doGet(t, listURL, nil)
	hit, _ := doGet(t, listURL, nil)
	require.Equal(t, cache.StatusHit, hit.Header.Get(cache.StatusHeader))

	req, err := http.NewRequest(http.MethodPost, listURL, strings.NewReader(`{"name":"Wool Socks","category":"apparel","price":9.5}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", bearerToken(t, "vendor-1"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	after, body := doGet(t, listURL, nil)
	assert.Equal(t, cache.StatusMiss, after.Header.Get(cache.StatusHeader),
		"listing must recompute after a write")
	assert.Contains(t, body, "Wool Socks")
}

func TestGateway_Cart_RequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doGet(t, srv.URL+"/api/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGateway_Cart_PerUserIsolation(t *testing.T) {
	srv := newTestServer(t)
	cartURL := srv.URL + "/api/cart"

	alice := http.Header{"Authorization": {bearerToken(t, "alice")}}
	bob := http.Header{"Authorization": {bearerToken(t, "bob")}}

	// Alice adds an item, priming her cart cache afterwards.
	req, err := http.NewRequest(http.MethodPost, cartURL+"/items", strings.NewReader(`{"product_id":"p1","quantity":2}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", alice.Get("Authorization"))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, aliceBody := doGet(t, cartURL, alice)
	assert.Contains(t, aliceBody, "p1")

	// Bob's first request must miss and see his own empty cart, not
	// Alice's cached one.
	bobResp, bobBody := doGet(t, cartURL, bob)
	assert.Equal(t, cache.StatusMiss, bobResp.Header.Get(cache.StatusHeader))
	assert.NotContains(t, bobBody, "p1")

	// Private scope is reflected in the response headers.
	aliceResp, _ := doGet(t, cartURL, alice)
	assert.Contains(t, aliceResp.Header.Get("Cache-Control"), "private")
}

func TestGateway_CartWrite_InvalidatesOnlyThatUser(t *testing.T) {
	srv := newTestServer(t)
	cartURL := srv.URL + "/api/cart"

	alice := http.Header{"Authorization": {bearerToken(t, "alice")}}
	bob := http.Header{"Authorization": {bearerToken(t, "bob")}}

	doGet(t, cartURL, alice)
	doGet(t, cartURL, bob)

	// Alice mutates her cart.
	req, err := http.NewRequest(http.MethodPost, cartURL+"/items", strings.NewReader(`{"product_id":"p2"}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", alice.Get("Authorization"))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	aliceResp, aliceBody := doGet(t, cartURL, alice)
	assert.Equal(t, cache.StatusMiss, aliceResp.Header.Get(cache.StatusHeader))
	assert.Contains(t, aliceBody, "p2")

	bobResp, _ := doGet(t, cartURL, bob)
	assert.Equal(t, cache.StatusHit, bobResp.Header.Get(cache.StatusHeader),
		"bob's cached cart must survive alice's write")
}

func TestGateway_Metrics(t *testing.T) {
	srv := newTestServer(t)

	doGet(t, srv.URL+"/api/products", nil)
	doGet(t, srv.URL+"/api/products", nil)

	resp, body := doGet(t, srv.URL+"/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "dedw3n_cache_hits_total")
	assert.Contains(t, body, "dedw3n_cache_misses_total")
}
