package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ETag computes a quoted SHA-256 entity tag for a JSON-serializable payload.
//
// The payload is serialized canonically before hashing, so structurally
// equal payloads produce identical tags regardless of map ordering. Any
// change to the payload changes the tag with overwhelming probability.
func ETag(v any) (string, error) {
	// encoding/json sorts map keys, which gives a canonical form for
	// decoded values.
	canonical, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("cache: serialize payload for etag: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return `"` + hex.EncodeToString(sum[:]) + `"`, nil
}

// ETagForJSON computes the entity tag for an already-serialized JSON body.
// The body is decoded and re-serialized canonically first, so key order in
// the input does not affect the tag. Returns an error for invalid JSON, in
// which case the response should be delivered uncached.
func ETagForJSON(body []byte) (string, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return "", fmt.Errorf("cache: decode payload for etag: %w", err)
	}
	return ETag(v)
}
