package endpoints

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/identity"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/middleware"
)

// basePath prefixes every console endpoint
const basePath = "/account"

// respond writes an envelope. The HTTP status mirrors code.
func respond(w http.ResponseWriter, code int, msg string, data interface{}) {
	respondWithJSON(w, code, api.Response{Code: code, Msg: msg, Data: data})
}

func respondSuccess(w http.ResponseWriter, data interface{}) {
	respond(w, api.CodeSuccess, api.MsgSuccess, data)
}

func respondWithError(w http.ResponseWriter, code int, msg string) {
	respond(w, code, msg, nil)
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// decodeBody reads a JSON request body of at most 1MiB into v
func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(v)
}

// caller returns the audit subject and client address of the request
func caller(r *http.Request) (string, string) {
	var ip net.IP
	user := "anonymous"
	if id, ok := identity.Get(r.Context()); ok {
		user = id.Subject()
		ip = id.RemoteIP
	}
	if ip == nil {
		ip = middleware.RemoteIP(r)
	}
	if ip == nil {
		return user, ""
	}
	return user, ip.String()
}
