package endpoints

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/audit"
	"github.com/doodlesbykumbi/tablegrant/pkg/config"
	"github.com/doodlesbykumbi/tablegrant/pkg/model"
	"github.com/doodlesbykumbi/tablegrant/pkg/server"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
)

// RegisterAccountsEndpoints registers the account list and creation endpoints
func RegisterAccountsEndpoints(s *server.Server) {
	r := protectedRouter(s)

	// GET /account/accounts/?page=&size=&keyword=&role_id= - Paginated account list
	r.HandleFunc("/accounts/", handleListAccounts(s.AccountsStore, s.Config, s.Logger)).Methods("GET")

	// POST /account/create/ - Create an account with a generated password
	r.HandleFunc("/create/", handleCreateAccount(s.AccountsStore, s.RolesStore, s.Config, s.Audit, s.Logger)).Methods("POST")
}

// queryInt parses an optional integer query parameter
func queryInt(q url.Values, name string, def int64) (int64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}

// paging is a validated page request
type paging struct {
	page int
	size int
}

// parsePaging reads page and size. Size is clamped by the configuration
// and page defaults to 1. A page whose offset would not fit in an int is
// rejected.
func parsePaging(q url.Values, cfg *config.TablegrantConfig) (paging, error) {
	page, err := queryInt(q, "page", 1)
	if err != nil {
		return paging{}, err
	}
	size, err := queryInt(q, "size", 0)
	if err != nil {
		return paging{}, err
	}

	p := paging{size: cfg.ClampPageSize(int(max(min(size, math.MaxInt32), math.MinInt32)))}
	if page < 1 {
		page = 1
	}
	if page-1 > int64(math.MaxInt/p.size) {
		return paging{}, fmt.Errorf("invalid page: %q", q.Get("page"))
	}
	p.page = int(page)
	return p, nil
}

func (p paging) offset() int {
	return (p.page - 1) * p.size
}

func (p paging) pages(total int64) int {
	return int((total + int64(p.size) - 1) / int64(p.size))
}

func toAPIAccount(a store.Account) api.Account {
	out := api.Account{
		AccountID:    a.ID,
		AccountName:  a.Name,
		AccountEmail: a.Email,
		PhoneNumber:  a.PhoneNumber,
		Sex:          a.Sex,
		Avatar:       a.Avatar,
		Status:       a.Status,
		Remark:       a.Remark,
		Roles:        make([]api.RoleRef, 0, len(a.Roles)),
	}
	for _, role := range a.Roles {
		out.Roles = append(out.Roles, api.RoleRef{RoleID: role.ID, RoleName: role.Name})
	}
	// Roles are ordered by id; the first is shown as the primary role
	if len(a.Roles) > 0 {
		id, name := a.Roles[0].ID, a.Roles[0].Name
		out.RoleID = &id
		out.RoleName = &name
	}
	return out
}

func handleListAccounts(accounts store.AccountsStore, cfg func() *config.TablegrantConfig, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		p, err := parsePaging(q, cfg())
		if err != nil {
			respondWithError(w, api.CodeBadRequest, err.Error())
			return
		}
		roleID, err := queryInt(q, "role_id", 0)
		if err != nil {
			respondWithError(w, api.CodeBadRequest, err.Error())
			return
		}
		pageSize := p.size

		filter := store.AccountFilter{
			Keyword: strings.TrimSpace(q.Get("keyword")),
			Limit:   pageSize,
			Offset:  p.offset(),
		}
		if roleID > 0 {
			filter.RoleID = roleID
		}

		list, total, err := accounts.ListAccounts(r.Context(), filter)
		if err != nil {
			logger.WithError(err).Error("failed to list accounts")
			respondWithError(w, api.CodeServerError, "Failed to load accounts")
			return
		}

		out := api.AccountPage{
			List:  make([]api.Account, 0, len(list)),
			Total: total,
			Page:  p.page,
			Size:  pageSize,
			Pages: p.pages(total),
		}
		for _, a := range list {
			out.List = append(out.List, toAPIAccount(a))
		}
		respondSuccess(w, out)
	}
}

// newAccountInput validates a create body. It returns the failure message
// when the body is not acceptable.
func newAccountInput(req api.CreateAccountRequest) (store.NewAccount, string) {
	a := store.NewAccount{
		Name:        strings.TrimSpace(req.AccountName),
		Email:       strings.TrimSpace(req.AccountEmail),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Sex:         req.Sex,
		Status:      req.Status,
		Remark:      strings.TrimSpace(req.Remark),
	}
	if a.Name == "" {
		return a, "account_name is required"
	}
	if at := strings.Index(a.Email, "@"); at <= 0 || at == len(a.Email)-1 {
		return a, "account_email is invalid"
	}

	switch a.Sex {
	case "":
		a.Sex = api.SexUnknown
	case api.SexMale, api.SexFemale, api.SexUnknown:
	default:
		return a, "sex is invalid"
	}
	switch a.Status {
	case "":
		a.Status = api.StatusActive
	case api.StatusActive, api.StatusInactive:
	default:
		return a, "status is invalid"
	}

	seen := make(map[int64]bool, len(req.Roles))
	for _, id := range req.Roles {
		if id <= 0 {
			return a, fmt.Sprintf("invalid role id %d", id)
		}
		if !seen[id] {
			seen[id] = true
			a.Roles = append(a.Roles, id)
		}
	}
	sort.Slice(a.Roles, func(i, j int) bool { return a.Roles[i] < a.Roles[j] })
	return a, ""
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

func handleCreateAccount(
	accounts store.AccountsStore,
	roles store.RolesStore,
	cfg func() *config.TablegrantConfig,
	trail *audit.Trail,
	logger *logrus.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.CreateAccountRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, api.CodeBadRequest, "Invalid request body")
			return
		}
		input, msg := newAccountInput(req)
		if msg != "" {
			respondWithError(w, api.CodeBadRequest, msg)
			return
		}

		missing, err := roles.MissingRoles(r.Context(), input.Roles)
		if err != nil {
			logger.WithError(err).Error("failed to check roles")
			respondWithError(w, api.CodeServerError, "Failed to create account")
			return
		}
		if len(missing) > 0 {
			respondWithError(w, api.CodeBadRequest, "Unknown roles: "+joinIDs(missing))
			return
		}

		password, err := model.GenerateInitialPassword(cfg().InitialPasswordLength)
		if err != nil {
			logger.WithError(err).Error("failed to generate password")
			respondWithError(w, api.CodeServerError, "Failed to create account")
			return
		}
		input.PasswordHash, err = model.HashPassword(password)
		if err != nil {
			logger.WithError(err).Error("failed to hash password")
			respondWithError(w, api.CodeServerError, "Failed to create account")
			return
		}

		user, ip := caller(r)
		event := audit.AccountCreateEvent{
			User:         user,
			ClientIP:     ip,
			AccountEmail: input.Email,
			Roles:        input.Roles,
		}

		created, err := accounts.CreateAccount(r.Context(), input)
		if err != nil {
			event.ErrorMessage = err.Error()
			trail.Log(event)
			if errors.Is(err, store.ErrEmailTaken) {
				respondWithError(w, api.CodeConflict, "Account email already exists")
				return
			}
			logger.WithError(err).WithField("account_email", input.Email).Error("failed to create account")
			respondWithError(w, api.CodeServerError, "Failed to create account")
			return
		}

		event.Success = true
		trail.Log(event)
		respondSuccess(w, api.CreateAccountResponse{
			Account:         toAPIAccount(*created),
			InitialPassword: password,
		})
	}
}
