package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/doodlesbykumbi/tablegrant/pkg/identity"
)

var (
	// ErrInvalidToken is returned for any token that fails verification
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired accompanies ErrInvalidToken when the token is past its expiry
	ErrTokenExpired = errors.New("token expired")
)

// Tokens issues and verifies HS256 login tokens
type Tokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokens creates a token issuer. The key must be at least 32 bytes.
func NewTokens(key []byte, ttl time.Duration) (*Tokens, error) {
	if len(key) < 32 {
		return nil, fmt.Errorf("token key must be at least 32 bytes, got %d", len(key))
	}
	return &Tokens{key: key, ttl: ttl, now: time.Now}, nil
}

// TTL returns the lifetime of issued tokens
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue signs a token for the account
func (t *Tokens) Issue(accountID int64, email, name string) (string, error) {
	claims := identity.NewClaims(accountID, email, name, t.now(), t.ttl)
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
}

// Verify parses a token and checks its signature and expiry
func (t *Tokens) Verify(tokenStr string) (*identity.Claims, error) {
	claims := &identity.Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(tok *jwt.Token) (interface{}, error) {
		return t.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// JWTAuthenticator is middleware that validates bearer tokens
type JWTAuthenticator struct {
	Tokens *Tokens
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(tokens *Tokens) *JWTAuthenticator {
	return &JWTAuthenticator{Tokens: tokens}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="tablegrant"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"code": http.StatusUnauthorized, "msg": msg})
}

// Middleware returns an HTTP middleware that validates bearer tokens and
// stores the identity in the request context
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "Authorization missing")
			return
		}

		scheme, tokenStr, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenStr) == "" {
			unauthorized(w, "Malformed authorization header")
			return
		}

		claims, err := j.Tokens.Verify(strings.TrimSpace(tokenStr))
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				unauthorized(w, "Token expired")
				return
			}
			unauthorized(w, "Invalid token")
			return
		}

		id, err := identity.FromClaims(claims)
		if err != nil {
			unauthorized(w, "Invalid token")
			return
		}
		id.WithRemoteIP(RemoteIP(r))

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

// RemoteIP returns the client address of the request
func RemoteIP(r *http.Request) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return net.ParseIP(host)
}
