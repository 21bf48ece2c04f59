// Package identity provides the authenticated account of a request.
//
// Login tokens are JWTs whose claims are described by Claims. Once the
// token middleware has verified a token it stores the resulting Identity in
// the request context:
//
//	id, err := identity.FromClaims(claims)
//	ctx = identity.Set(ctx, id.WithRemoteIP(clientIP))
//
//	// in a handler
//	id, ok := identity.Get(r.Context())
package identity
