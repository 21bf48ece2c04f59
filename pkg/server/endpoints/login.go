package endpoints

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/audit"
	"github.com/doodlesbykumbi/tablegrant/pkg/model"
	"github.com/doodlesbykumbi/tablegrant/pkg/server"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/middleware"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
)

// RegisterLoginEndpoint registers the login endpoint. It is the only
// console endpoint that takes no token.
func RegisterLoginEndpoint(s *server.Server) {
	r := s.Router.PathPrefix(basePath).Subrouter()

	// POST /account/login/ - Exchange email and password for a token
	r.HandleFunc("/login/", handleLogin(s.AccountsStore, s.Tokens, s.Audit, s.Logger)).Methods("POST")
}

func handleLogin(accounts store.AccountsStore, tokens *middleware.Tokens, trail *audit.Trail, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, api.CodeBadRequest, "Invalid request body")
			return
		}
		email := strings.TrimSpace(req.AccountEmail)
		if email == "" || req.Password == "" {
			respondWithError(w, api.CodeBadRequest, "account_email and password are required")
			return
		}

		_, ip := caller(r)
		event := audit.LoginEvent{Email: email, ClientIP: ip}
		fail := func(reason string) {
			event.ErrorMessage = reason
			trail.Log(event)
			respondWithError(w, api.CodeUnauthorized, "Invalid credentials")
		}

		account, err := accounts.FindByEmail(r.Context(), email)
		if err != nil {
			if errors.Is(err, store.ErrAccountNotFound) {
				fail("unknown account")
				return
			}
			logger.WithError(err).Error("failed to look up account")
			respondWithError(w, api.CodeServerError, "Login failed")
			return
		}
		if !model.CheckPassword(account.PasswordHash, req.Password) {
			fail("wrong password")
			return
		}
		if account.Status != api.StatusActive {
			fail("account inactive")
			return
		}

		token, err := tokens.Issue(account.ID, account.Email, account.Name)
		if err != nil {
			logger.WithError(err).Error("failed to issue token")
			respondWithError(w, api.CodeServerError, "Login failed")
			return
		}

		event.Success = true
		trail.Log(event)
		respondSuccess(w, api.LoginResponse{
			Token:     token,
			ExpiresIn: int(tokens.TTL().Seconds()),
		})
	}
}
