package api

import "encoding/json"

// Envelope codes
const (
	CodeSuccess      = 200
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeConflict     = 409
	CodeServerError  = 500

	CodeServiceUnavailable = 503
)

// MsgSuccess is the msg of every successful envelope
const MsgSuccess = "success"

// Response is the envelope written by the server
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// RawResponse is the envelope as read by a client, with data left undecoded
type RawResponse struct {
	Code *int            `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// HasData reports whether the envelope carried a non-null data member
func (r RawResponse) HasData() bool {
	return len(r.Data) > 0 && string(r.Data) != "null"
}
