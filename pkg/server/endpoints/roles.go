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
	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
	"github.com/doodlesbykumbi/tablegrant/pkg/server"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
)

// RegisterRolesEndpoints registers the role endpoints
func RegisterRolesEndpoints(s *server.Server) {
	r := protectedRouter(s)

	// GET /account/roles/ - Role list
	r.HandleFunc("/roles/", handleListRoles(s.RolesStore, s.Logger)).Methods("GET")

	// GET /account/role-detail/{id}/ - Role with its persisted permissions
	r.HandleFunc("/role-detail/{id}/", handleRoleDetail(s.RolesStore, s.Logger)).Methods("GET")

	// GET /account/role-stats/ - Roles with member counts
	r.HandleFunc("/role-stats/", handleRoleStats(s.RolesStore, s.Logger)).Methods("GET")

	// POST /account/role-stats/ - Create a role
	r.HandleFunc("/role-stats/", handleCreateRole(s.RolesStore, s.TablesStore, s.Audit, s.Logger)).Methods("POST")

	// PUT /account/role-stats/ - Rename a role and replace its permissions
	r.HandleFunc("/role-stats/", handleUpdateRole(s.RolesStore, s.TablesStore, s.Audit, s.Logger)).Methods("PUT")
}

func handleListRoles(roles store.RolesStore, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := roles.ListRoles(r.Context())
		if err != nil {
			logger.WithError(err).Error("failed to list roles")
			respondWithError(w, api.CodeServerError, "Failed to load roles")
			return
		}

		out := api.RoleList{List: make([]api.Role, 0, len(list))}
		for _, role := range list {
			out.List = append(out.List, api.Role{
				RoleID:   role.ID,
				RoleName: role.Name,
				Status:   role.Status,
				Remark:   role.Remark,
			})
		}
		respondSuccess(w, out)
	}
}

func handleRoleDetail(roles store.RolesStore, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil || id <= 0 {
			respondWithError(w, api.CodeNotFound, "Role not found")
			return
		}

		role, entries, err := roles.FetchRole(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrRoleNotFound) {
				respondWithError(w, api.CodeNotFound, "Role not found")
				return
			}
			logger.WithError(err).WithField("role_id", id).Error("failed to fetch role")
			respondWithError(w, api.CodeServerError, "Failed to load role")
			return
		}
		if entries == nil {
			entries = []permission.Entry{}
		}

		respondSuccess(w, api.RoleDetail{
			RoleID:      role.ID,
			RoleName:    role.Name,
			Permissions: entries,
		})
	}
}

func handleRoleStats(roles store.RolesStore, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := roles.RoleStats(r.Context())
		if err != nil {
			logger.WithError(err).Error("failed to load role stats")
			respondWithError(w, api.CodeServerError, "Failed to load role stats")
			return
		}

		out := make([]api.RoleStat, 0, len(stats))
		for _, st := range stats {
			out = append(out, api.RoleStat{RoleID: st.ID, RoleName: st.Name, TotalUsers: st.TotalUsers})
		}
		respondSuccess(w, out)
	}
}

// roleInput validates a create or update body and normalizes its entries
// against the catalog. It writes the failure response itself.
func roleInput(w http.ResponseWriter, r *http.Request, tables store.TablesStore, logger *logrus.Logger, update bool) (api.RoleRequest, bool) {
	var req api.RoleRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, api.CodeBadRequest, "Invalid request body")
		return req, false
	}
	req.RoleName = strings.TrimSpace(req.RoleName)
	if update && req.RoleID <= 0 {
		respondWithError(w, api.CodeBadRequest, "role_id is required")
		return req, false
	}
	if req.RoleName == "" {
		respondWithError(w, api.CodeBadRequest, "role_name is required")
		return req, false
	}

	catalog, err := tables.ListTables(r.Context())
	if err != nil {
		logger.WithError(err).Error("failed to list tables")
		respondWithError(w, api.CodeServerError, "Failed to load table list")
		return req, false
	}
	if err := permission.Validate(catalog, req.Permissions); err != nil {
		respondWithError(w, api.CodeBadRequest, err.Error())
		return req, false
	}

	// Tables left out of the request are stored as all-false
	req.Permissions = permission.Merge(catalog, req.Permissions).Entries
	return req, true
}

// grantSummary renders the granted capabilities for the audit record,
// e.g. "orders:read|update"
func grantSummary(entries []permission.Entry) []string {
	var out []string
	for _, e := range entries {
		granted := e.Granted()
		if len(granted) == 0 {
			continue
		}
		names := make([]string, len(granted))
		for i, c := range granted {
			names[i] = c.String()
		}
		out = append(out, e.TableName+":"+strings.Join(names, "|"))
	}
	return out
}

func handleCreateRole(roles store.RolesStore, tables store.TablesStore, trail *audit.Trail, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := roleInput(w, r, tables, logger, false)
		if !ok {
			return
		}

		user, ip := caller(r)
		event := audit.RoleEvent{
			User:      user,
			ClientIP:  ip,
			RoleName:  req.RoleName,
			Operation: "create",
			Granted:   grantSummary(req.Permissions),
		}

		id, err := roles.CreateRole(r.Context(), req.RoleName, req.Permissions)
		if err != nil {
			event.ErrorMessage = err.Error()
			trail.Log(event)
			if errors.Is(err, store.ErrRoleNameTaken) {
				respondWithError(w, api.CodeConflict, "Role name already exists")
				return
			}
			logger.WithError(err).WithField("role_name", req.RoleName).Error("failed to create role")
			respondWithError(w, api.CodeServerError, "Failed to create role")
			return
		}

		event.RoleID = id
		event.Success = true
		trail.Log(event)
		respondSuccess(w, nil)
	}
}

func handleUpdateRole(roles store.RolesStore, tables store.TablesStore, trail *audit.Trail, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := roleInput(w, r, tables, logger, true)
		if !ok {
			return
		}

		user, ip := caller(r)
		event := audit.RoleEvent{
			User:      user,
			ClientIP:  ip,
			RoleID:    req.RoleID,
			RoleName:  req.RoleName,
			Operation: "update",
			Granted:   grantSummary(req.Permissions),
		}

		err := roles.UpdateRole(r.Context(), req.RoleID, req.RoleName, req.Permissions)
		if err != nil {
			event.ErrorMessage = err.Error()
			trail.Log(event)
			switch {
			case errors.Is(err, store.ErrRoleNotFound):
				respondWithError(w, api.CodeNotFound, "Role not found")
			case errors.Is(err, store.ErrRoleNameTaken):
				respondWithError(w, api.CodeConflict, "Role name already exists")
			default:
				logger.WithError(err).WithField("role_id", req.RoleID).Error("failed to update role")
				respondWithError(w, api.CodeServerError, "Failed to update role")
			}
			return
		}

		event.Success = true
		trail.Log(event)
		respondSuccess(w, nil)
	}
}
