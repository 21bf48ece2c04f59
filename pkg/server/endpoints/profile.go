package endpoints

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/audit"
	"github.com/doodlesbykumbi/tablegrant/pkg/identity"
	"github.com/doodlesbykumbi/tablegrant/pkg/model"
	"github.com/doodlesbykumbi/tablegrant/pkg/server"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
)

// RegisterProfileEndpoints registers the current-account and account
// detail endpoints
func RegisterProfileEndpoints(s *server.Server) {
	r := protectedRouter(s)

	// GET /account/info/ - Profile of the calling account
	r.HandleFunc("/info/", handleGetProfile(s.AccountsStore, s.Logger)).Methods("GET")

	// PUT /account/info/ - Change the caller's name and sex
	r.HandleFunc("/info/", handleUpdateProfile(s.AccountsStore, s.Audit, s.Logger)).Methods("PUT")

	// POST /account/info/ - Change the caller's password
	r.HandleFunc("/info/", handleChangePassword(s.AccountsStore, s.Audit, s.Logger)).Methods("POST")

	// GET /account/detail/{id}/ - One account with its roles
	r.HandleFunc("/detail/{id}/", handleAccountDetail(s.AccountsStore, s.Logger)).Methods("GET")

	// PUT /account/detail/{id}/ - Replace an account's fields and roles
	r.HandleFunc("/detail/{id}/", handleUpdateAccount(s.AccountsStore, s.RolesStore, s.Audit, s.Logger)).Methods("PUT")
}

// self returns the id of the calling account
func self(r *http.Request) int64 {
	if id, ok := identity.Get(r.Context()); ok {
		return id.AccountID
	}
	return 0
}

func accountID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

func handleGetProfile(accounts store.AccountsStore, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := accounts.FindByID(r.Context(), self(r))
		if err != nil {
			if errors.Is(err, store.ErrAccountNotFound) {
				respondWithError(w, api.CodeNotFound, "Account not found")
				return
			}
			logger.WithError(err).Error("failed to load profile")
			respondWithError(w, api.CodeServerError, "Failed to load account")
			return
		}
		respondSuccess(w, toAPIAccount(*account))
	}
}

func handleAccountDetail(accounts store.AccountsStore, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := accountID(r)
		if !ok {
			respondWithError(w, api.CodeNotFound, "Account not found")
			return
		}

		account, err := accounts.FindByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrAccountNotFound) {
				respondWithError(w, api.CodeNotFound, "Account not found")
				return
			}
			logger.WithError(err).WithField("account_id", id).Error("failed to load account")
			respondWithError(w, api.CodeServerError, "Failed to load account")
			return
		}
		respondSuccess(w, toAPIAccount(*account))
	}
}

func handleUpdateProfile(accounts store.AccountsStore, trail *audit.Trail, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.UpdateProfileRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, api.CodeBadRequest, "Invalid request body")
			return
		}
		update := store.ProfileUpdate{Name: strings.TrimSpace(req.AccountName), Sex: req.Sex}
		if update.Name == "" {
			respondWithError(w, api.CodeBadRequest, "account_name is required")
			return
		}
		switch update.Sex {
		case "":
			update.Sex = api.SexUnknown
		case api.SexMale, api.SexFemale, api.SexUnknown:
		default:
			respondWithError(w, api.CodeBadRequest, "sex is invalid")
			return
		}

		user, ip := caller(r)
		event := audit.AccountUpdateEvent{User: user, ClientIP: ip, AccountID: self(r), AccountEmail: user, Operation: "profile"}
		if err := accounts.UpdateProfile(r.Context(), self(r), update); err != nil {
			event.ErrorMessage = err.Error()
			trail.Log(event)
			if errors.Is(err, store.ErrAccountNotFound) {
				respondWithError(w, api.CodeNotFound, "Account not found")
				return
			}
			logger.WithError(err).Error("failed to update profile")
			respondWithError(w, api.CodeServerError, "Failed to update account")
			return
		}

		event.Success = true
		trail.Log(event)
		respondSuccess(w, nil)
	}
}

// passwordProblem returns why a change request is not acceptable, or ""
func passwordProblem(req api.ChangePasswordRequest) string {
	switch {
	case req.CurrentPassword == "" || req.NewPassword == "":
		return "current_password and new_password are required"
	case len(req.NewPassword) < api.MinPasswordLength:
		return "Password must be at least " + strconv.Itoa(api.MinPasswordLength) + " characters long"
	case len(req.NewPassword) > api.MaxPasswordLength:
		return "Password must be at most " + strconv.Itoa(api.MaxPasswordLength) + " bytes long"
	case req.NewPassword != req.ConfirmPassword:
		return "Passwords do not match"
	case req.NewPassword == req.CurrentPassword:
		return "New password must differ from the current password"
	}
	return ""
}

func handleChangePassword(accounts store.AccountsStore, trail *audit.Trail, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.ChangePasswordRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, api.CodeBadRequest, "Invalid request body")
			return
		}
		if msg := passwordProblem(req); msg != "" {
			respondWithError(w, api.CodeBadRequest, msg)
			return
		}

		account, err := accounts.FindByID(r.Context(), self(r))
		if err != nil {
			if errors.Is(err, store.ErrAccountNotFound) {
				respondWithError(w, api.CodeNotFound, "Account not found")
				return
			}
			logger.WithError(err).Error("failed to load account")
			respondWithError(w, api.CodeServerError, "Failed to change password")
			return
		}

		user, ip := caller(r)
		event := audit.PasswordChangeEvent{User: user, ClientIP: ip}
		// 401 would end the caller's session, so a wrong current password
		// is a plain validation failure
		if !model.CheckPassword(account.PasswordHash, req.CurrentPassword) {
			event.ErrorMessage = "wrong password"
			trail.Log(event)
			respondWithError(w, api.CodeBadRequest, "Current password is incorrect")
			return
		}

		hash, err := model.HashPassword(req.NewPassword)
		if err != nil {
			logger.WithError(err).Error("failed to hash password")
			respondWithError(w, api.CodeServerError, "Failed to change password")
			return
		}
		if err := accounts.UpdatePassword(r.Context(), account.ID, hash); err != nil {
			event.ErrorMessage = err.Error()
			trail.Log(event)
			logger.WithError(err).Error("failed to store password")
			respondWithError(w, api.CodeServerError, "Failed to change password")
			return
		}

		event.Success = true
		trail.Log(event)
		respondSuccess(w, nil)
	}
}

func handleUpdateAccount(
	accounts store.AccountsStore,
	roles store.RolesStore,
	trail *audit.Trail,
	logger *logrus.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := accountID(r)
		if !ok {
			respondWithError(w, api.CodeNotFound, "Account not found")
			return
		}

		var req api.UpdateAccountRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, api.CodeBadRequest, "Invalid request body")
			return
		}
		input, msg := newAccountInput(api.CreateAccountRequest(req))
		if msg != "" {
			respondWithError(w, api.CodeBadRequest, msg)
			return
		}

		missing, err := roles.MissingRoles(r.Context(), input.Roles)
		if err != nil {
			logger.WithError(err).Error("failed to check roles")
			respondWithError(w, api.CodeServerError, "Failed to update account")
			return
		}
		if len(missing) > 0 {
			respondWithError(w, api.CodeBadRequest, "Unknown roles: "+joinIDs(missing))
			return
		}

		user, ip := caller(r)
		event := audit.AccountUpdateEvent{User: user, ClientIP: ip, AccountID: id, AccountEmail: input.Email, Operation: "update"}

		updated, err := accounts.UpdateAccount(r.Context(), id, store.AccountUpdate{
			Name:        input.Name,
			Email:       input.Email,
			PhoneNumber: input.PhoneNumber,
			Sex:         input.Sex,
			Status:      input.Status,
			Remark:      input.Remark,
			Roles:       input.Roles,
		})
		if err != nil {
			event.ErrorMessage = err.Error()
			trail.Log(event)
			switch {
			case errors.Is(err, store.ErrAccountNotFound):
				respondWithError(w, api.CodeNotFound, "Account not found")
			case errors.Is(err, store.ErrEmailTaken):
				respondWithError(w, api.CodeConflict, "Account email already exists")
			default:
				logger.WithError(err).WithField("account_id", id).Error("failed to update account")
				respondWithError(w, api.CodeServerError, "Failed to update account")
			}
			return
		}

		event.Success = true
		trail.Log(event)
		respondSuccess(w, toAPIAccount(*updated))
	}
}
