package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/tablegrant/pkg/identity"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newTestTokens(t *testing.T) *Tokens {
	t.Helper()
	tokens, err := NewTokens(testKey, time.Hour)
	require.NoError(t, err)
	return tokens
}

func TestNewTokensRejectsShortKey(t *testing.T) {
	_, err := NewTokens([]byte("short"), time.Hour)
	assert.Error(t, err)
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := newTestTokens(t)

	tokenStr, err := tokens.Issue(42, "alice@example.com", "alice")
	require.NoError(t, err)

	claims, err := tokens.Verify(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestTokensVerifyFailures(t *testing.T) {
	tokens := newTestTokens(t)

	t.Run("expired", func(t *testing.T) {
		old := &Tokens{key: testKey, ttl: time.Minute, now: func() time.Time { return time.Now().Add(-time.Hour) }}
		tokenStr, err := old.Issue(1, "a@b.c", "")
		require.NoError(t, err)

		_, err = tokens.Verify(tokenStr)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong key", func(t *testing.T) {
		other, err := NewTokens([]byte("fedcba9876543210fedcba9876543210"), time.Hour)
		require.NoError(t, err)
		tokenStr, err := other.Issue(1, "a@b.c", "")
		require.NoError(t, err)

		_, err = tokens.Verify(tokenStr)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := identity.NewClaims(1, "a@b.c", "", time.Now(), time.Hour)
		tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = tokens.Verify(tokenStr)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestMiddleware(t *testing.T) {
	tokens := newTestTokens(t)
	auth := NewJWTAuthenticator(tokens)

	valid, err := tokens.Issue(7, "bob@example.com", "bob")
	require.NoError(t, err)

	var seen *identity.Identity
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = identity.Get(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authorization missing"},
		{"wrong scheme", "Token token=\"abc\"", http.StatusUnauthorized, "Malformed authorization header"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "Malformed authorization header"},
		{"bad token", "Bearer nope", http.StatusUnauthorized, "Invalid token"},
		{"valid token", "Bearer " + valid, http.StatusOK, ""},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/account/roles/", nil)
			req.RemoteAddr = "10.1.2.3:5555"
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				var body struct {
					Code int    `json:"code"`
					Msg  string `json:"msg"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, http.StatusUnauthorized, body.Code)
				assert.Equal(t, tt.wantMsg, body.Msg)
				assert.Nil(t, seen)
				return
			}
			require.NotNil(t, seen)
			assert.Equal(t, int64(7), seen.AccountID)
			assert.Equal(t, "10.1.2.3", seen.RemoteIP.String())
		})
	}
}
