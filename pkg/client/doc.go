// Package client is the HTTP gateway to the tablegrant /account API.
//
// The client owns no state except the Session it is given. A Session is
// the single writer of the bearer token: Login sets it, a 401 response
// clears it, and an optional persistence hook observes every change.
//
//	session := client.NewSession(os.Getenv("TABLEGRANT_TOKEN"))
//	c, err := client.New("http://127.0.0.1:8000", session,
//	    client.WithUnauthorizedHandler(func() { fmt.Println("please log in") }),
//	)
//
// # Errors
//
// Failures are typed so callers can pick where to show them:
//
//   - *ValidationError: rejected before any request was sent
//   - *NotFoundError: the identifier was missing, no request was sent
//   - *TransportError: the server could not be reached
//   - *APIError: the server answered with a code other than 200
//   - ErrUnauthorized: the server answered 401; the session was cleared
package client
