// Package api defines the JSON documents exchanged under /account.
//
// Every response is wrapped in an envelope:
//
//	{"code": 200, "msg": "success", "data": ...}
//
// A code other than CodeSuccess is a failure even when the HTTP status is
// 200; msg is meant to be shown to the user as is. The server in
// pkg/server/endpoints writes these types and pkg/client reads them.
package api
