package identity

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Claims are the JWT claims of a tablegrant login token.
// The subject is the decimal account ID.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// NewClaims builds the claims for a token issued now and valid for ttl
func NewClaims(accountID int64, email, name string, now time.Time, ttl time.Duration) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Name:  name,
	}
}

// Identity represents the authenticated account of a request.
type Identity struct {
	// Token claims
	AccountID int64
	Email     string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Request context
	RemoteIP net.IP
}

// FromClaims creates an Identity from verified token claims.
func FromClaims(c *Claims) (*Identity, error) {
	accountID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || accountID <= 0 {
		return nil, fmt.Errorf("invalid token subject %q", c.Subject)
	}

	id := &Identity{
		AccountID: accountID,
		Email:     c.Email,
		Name:      c.Name,
	}
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id, nil
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// Subject returns the identity as written in audit records.
func (i *Identity) Subject() string {
	if i.Email != "" {
		return i.Email
	}
	return strconv.FormatInt(i.AccountID, 10)
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
