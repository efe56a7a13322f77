package cache

import "time"

// Preset names for the marketplace route categories.
const (
	PresetPublicListing = "public-listing"
	PresetPublicDetail  = "public-detail"
	PresetSearch        = "search"
	PresetUserProfile   = "user-profile"
	PresetUserCart      = "user-cart"
)

// Presets returns the per-route cache policies for the marketplace API.
// authed reports whether a request carries an authenticated user; it gates
// the private presets, whose keys get the user id folded in by the
// middleware so entries are never shared across users.
//
// Public, slowly-changing resources get long TTLs. Per-user resources are
// private with short TTLs.
func Presets(authed Condition) map[string]CacheOptions {
	return map[string]CacheOptions{
		PresetPublicListing: {
			TTL: 10 * time.Minute,
		},
		PresetPublicDetail: {
			TTL: 5 * time.Minute,
		},
		PresetSearch: {
			TTL:    2 * time.Minute,
			VaryBy: []string{"Accept-Language"},
		},
		PresetUserProfile: {
			TTL:       1 * time.Minute,
			Private:   true,
			Condition: authed,
		},
		PresetUserCart: {
			TTL:       30 * time.Second,
			Private:   true,
			Condition: authed,
		},
	}
}
