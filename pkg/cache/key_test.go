package cache

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestCacheKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  CacheKey
		want string
	}{
		{
			name: "method and path only",
			key: CacheKey{
				Method: "GET",
				Path:   "/api/products",
			},
			want: "GET|/api/products",
		},
		{
			name: "query params sorted",
			key: CacheKey{
				Method: "GET",
				Path:   "/api/products",
				Query:  mustQuery("page=1&category=shoes"),
			},
			want: "GET|/api/products|category=shoes&page=1",
		},
		{
			name: "vary headers before query",
			key: CacheKey{
				Method:      "GET",
				Path:        "/api/search",
				VaryHeaders: []string{"Accept-Language:de"},
				Query:       mustQuery("q=shirt"),
			},
			want: "GET|/api/search|Accept-Language:de|q=shirt",
		},
		{
			name: "user id appended last",
			key: CacheKey{
				Method: "GET",
				Path:   "/api/cart",
				UserID: "42",
			},
			want: "GET|/api/cart|user:42",
		},
		{
			name: "all segments",
			key: CacheKey{
				Method:      "GET",
				Path:        "/api/products",
				VaryHeaders: []string{"Accept-Language:en"},
				Query:       mustQuery("b=2&a=1"),
				UserID:      "7",
			},
			want: "GET|/api/products|Accept-Language:en|a=1&b=2|user:7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.key.String()
			if got != tt.want {
				t.Errorf("CacheKey.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestDeriveKey_QueryOrder ensures URLs differing only in query parameter
// order collide on the same key.
func TestDeriveKey_QueryOrder(t *testing.T) {
	a := httptest.NewRequest(http.MethodGet, "/api/products?category=shoes&page=2", nil)
	b := httptest.NewRequest(http.MethodGet, "/api/products?page=2&category=shoes", nil)

	keyA := DeriveKey(a, CacheOptions{}, "")
	keyB := DeriveKey(b, CacheOptions{}, "")

	if keyA != keyB {
		t.Errorf("keys differ for reordered query: %q vs %q", keyA, keyB)
	}
}

func TestDeriveKey_VaryBy(t *testing.T) {
	opts := CacheOptions{VaryBy: []string{"Accept-Language"}}

	de := httptest.NewRequest(http.MethodGet, "/api/search?q=shirt", nil)
	de.Header.Set("Accept-Language", "de")

	en := httptest.NewRequest(http.MethodGet, "/api/search?q=shirt", nil)
	en.Header.Set("Accept-Language", "en")

	none := httptest.NewRequest(http.MethodGet, "/api/search?q=shirt", nil)

	keyDE := DeriveKey(de, opts, "")
	keyEN := DeriveKey(en, opts, "")
	keyNone := DeriveKey(none, opts, "")

	if keyDE == keyEN {
		t.Error("keys collide for different Accept-Language values")
	}
	if keyDE == keyNone {
		t.Error("keys collide with and without Accept-Language header")
	}
	// Absent headers are skipped entirely, not recorded as empty.
	if want := "GET|/api/search|q=shirt"; keyNone != want {
		t.Errorf("key without vary header = %q, want %q", keyNone, want)
	}
}

// TestDeriveKey_UserFoldIn ensures distinct authenticated users never share
// a cache key for the same route.
func TestDeriveKey_UserFoldIn(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)

	alice := DeriveKey(r, CacheOptions{}, "alice")
	bob := DeriveKey(r, CacheOptions{}, "bob")
	anon := DeriveKey(r, CacheOptions{}, "")

	if alice == bob {
		t.Error("keys collide for distinct users")
	}
	if alice == anon || bob == anon {
		t.Error("authenticated key collides with anonymous key")
	}
}

func TestDeriveKey_CustomKeyFunc(t *testing.T) {
	opts := CacheOptions{
		Key: func(r *http.Request) string { return "fixed" },
	}

	r := httptest.NewRequest(http.MethodGet, "/api/products?category=shoes", nil)
	if got := DeriveKey(r, opts, "42"); got != "fixed" {
		t.Errorf("DeriveKey with custom key = %q, want %q", got, "fixed")
	}
}

// TestDeriveKey_Determinism ensures repeated derivation produces identical keys.
func TestDeriveKey_Determinism(t *testing.T) {
	opts := CacheOptions{VaryBy: []string{"Accept-Language", "X-Currency"}}

	r := httptest.NewRequest(http.MethodGet, "/api/products?z=1&a=2&m=3", nil)
	r.Header.Set("Accept-Language", "fr")
	r.Header.Set("X-Currency", "EUR")

	first := DeriveKey(r, opts, "99")
	for i := 0; i < 10; i++ {
		if got := DeriveKey(r, opts, "99"); got != first {
			t.Fatalf("derivation %d = %q, want %q (not deterministic)", i, got, first)
		}
	}
}

func mustQuery(raw string) url.Values {
	values, err := url.ParseQuery(raw)
	if err != nil {
		panic(err)
	}
	return values
}
