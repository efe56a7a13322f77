package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const bearerPrefix = "Bearer "

// Verifier validates HS256 bearer tokens.
type Verifier struct {
	secret []byte
	logger zerolog.Logger
}

// NewVerifier creates a verifier for tokens signed with the given secret.
func NewVerifier(secret []byte) *Verifier {
	if len(secret) == 0 {
		panic("jwt secret cannot be empty")
	}

	return &Verifier{
		secret: secret,
		logger: log.With().Str("component", "auth").Logger(),
	}
}

// Subject validates a raw token and returns its subject claim.
func (v *Verifier) Subject(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}

// Middleware extracts a bearer token from the Authorization header and, if
// valid, attaches its subject to the request context. Requests without an
// Authorization header proceed anonymously; requests with an invalid token
// are rejected with 401.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			http.Error(w, "unsupported authorization scheme", http.StatusUnauthorized)
			return
		}

		subject, err := v.Subject(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			v.logger.Debug().Err(err).Msg("Rejected bearer token")
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), subject)))
	})
}

// RequireUser rejects requests that have no authenticated user in context.
// Mount it after the verifier middleware on private routes.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserIDFromContext(r.Context()) == "" {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
