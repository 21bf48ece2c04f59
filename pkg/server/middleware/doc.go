// Package middleware provides the HTTP middleware of the tablegrant server:
// bearer token authentication and request metrics.
package middleware
