package endpoints

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/audit"
	"github.com/doodlesbykumbi/tablegrant/pkg/config"
	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
	"github.com/doodlesbykumbi/tablegrant/pkg/server"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
)

// RegisterTablesEndpoints registers the table catalog endpoints
func RegisterTablesEndpoints(s *server.Server) {
	r := protectedRouter(s)

	// GET /account/table-list/ - Table catalog in display order
	r.HandleFunc("/table-list/", handleTableList(s.TablesStore, s.Logger)).Methods("GET")

	// GET /account/table-permissions/?page=&size=&search= - Catalog page with granted roles
	r.HandleFunc("/table-permissions/", handleListTablePermissions(s.TablesStore, s.Config, s.Logger)).Methods("GET")

	// POST /account/table-permissions/ - Set which roles hold which capabilities on a table
	r.HandleFunc("/table-permissions/", handleSetTablePermissions(s.TablesStore, s.Audit, s.Logger)).Methods("POST")

	// PUT /account/table-permissions/ - Change a table's description
	r.HandleFunc("/table-permissions/", handleUpdateTableDesc(s.TablesStore, s.Audit, s.Logger)).Methods("PUT")

	// DELETE /account/table-permissions/?table_name= - Remove a table and its grants
	r.HandleFunc("/table-permissions/", handleDeleteTable(s.TablesStore, s.Audit, s.Logger)).Methods("DELETE")

	// GET /account/unconfigured-tables/ - Database tables not yet in the catalog
	r.HandleFunc("/unconfigured-tables/", handleUnconfiguredTables(s.TablesStore, s.Logger)).Methods("GET")
}

func handleTableList(tables store.TablesStore, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		catalog, err := tables.ListTables(r.Context())
		if err != nil {
			logger.WithError(err).Error("failed to list tables")
			respondWithError(w, api.CodeServerError, "Failed to load table list")
			return
		}
		if catalog == nil {
			catalog = []permission.Table{}
		}
		respondSuccess(w, catalog)
	}
}

func toCapabilities(e permission.Entry) api.Capabilities {
	return api.Capabilities{CanRead: e.CanRead, CanCreate: e.CanCreate, CanUpdate: e.CanUpdate, CanDelete: e.CanDelete}
}

func handleListTablePermissions(tables store.TablesStore, cfg func() *config.TablegrantConfig, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		p, err := parsePaging(q, cfg())
		if err != nil {
			respondWithError(w, api.CodeBadRequest, err.Error())
			return
		}

		list, total, err := tables.ListTableGrants(r.Context(), store.TableGrantsFilter{
			Search: strings.TrimSpace(q.Get("search")),
			Limit:  p.size,
			Offset: p.offset(),
		})
		if err != nil {
			logger.WithError(err).Error("failed to list table permissions")
			respondWithError(w, api.CodeServerError, "Failed to load table permissions")
			return
		}

		out := api.TablePermissionPage{
			List:        make([]api.TablePermission, 0, len(list)),
			Total:       total,
			CurrentPage: p.page,
			TotalPages:  p.pages(total),
			PageSize:    p.size,
		}
		for _, tg := range list {
			roles := tg.Roles
			if roles == nil {
				roles = []string{}
			}
			out.List = append(out.List, api.TablePermission{
				Name:        tg.Table.Name,
				TableDesc:   tg.Table.Description,
				AssignedTo:  roles,
				CreatedDate: tg.CreatedAt,
				Permissions: toCapabilities(tg.Entry),
			})
		}
		respondSuccess(w, out)
	}
}

func handleSetTablePermissions(tables store.TablesStore, trail *audit.Trail, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.TablePermissionRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, api.CodeBadRequest, "Invalid request body")
			return
		}
		table := permission.Table{Name: strings.TrimSpace(req.TableName), Description: strings.TrimSpace(req.TableDesc)}
		if table.Name == "" {
			respondWithError(w, api.CodeBadRequest, "table_name is required")
			return
		}

		seen := make(map[string]bool, len(req.RoleNames))
		roles := make([]string, 0, len(req.RoleNames))
		for _, name := range req.RoleNames {
			name = strings.TrimSpace(name)
			if name == "" {
				respondWithError(w, api.CodeBadRequest, "role_names must not contain blank names")
				return
			}
			if !seen[name] {
				seen[name] = true
				roles = append(roles, name)
			}
		}

		entry := permission.Entry{
			TableName: table.Name,
			CanRead:   req.Permissions.CanRead,
			CanCreate: req.Permissions.CanCreate,
			CanUpdate: req.Permissions.CanUpdate,
			CanDelete: req.Permissions.CanDelete,
		}
		user, ip := caller(r)
		event := audit.TableEvent{User: user, ClientIP: ip, Table: table.Name, Operation: "grant", Roles: roles}
		for _, c := range entry.Granted() {
			event.Granted = append(event.Granted, c.String())
		}

		if err := tables.SetTableGrants(r.Context(), table, roles, entry); err != nil {
			event.ErrorMessage = err.Error()
			trail.Log(event)
			var unknown *store.UnknownRolesError
			if errors.As(err, &unknown) {
				respondWithError(w, api.CodeBadRequest, "Unknown roles: "+strings.Join(unknown.Names, ", "))
				return
			}
			logger.WithError(err).WithField("table", table.Name).Error("failed to set table permissions")
			respondWithError(w, api.CodeServerError, "Failed to update table permissions")
			return
		}

		event.Success = true
		trail.Log(event)
		respondSuccess(w, nil)
	}
}

func handleUpdateTableDesc(tables store.TablesStore, trail *audit.Trail, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.TableDescRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, api.CodeBadRequest, "Invalid request body")
			return
		}
		name := strings.TrimSpace(req.TableName)
		if name == "" {
			respondWithError(w, api.CodeBadRequest, "table_name is required")
			return
		}

		user, ip := caller(r)
		event := audit.TableEvent{User: user, ClientIP: ip, Table: name, Operation: "describe"}
		if err := tables.UpdateTableDescription(r.Context(), name, strings.TrimSpace(req.TableDesc)); err != nil {
			event.ErrorMessage = err.Error()
			trail.Log(event)
			if errors.Is(err, store.ErrTableNotFound) {
				respondWithError(w, api.CodeNotFound, "Table not found")
				return
			}
			logger.WithError(err).WithField("table", name).Error("failed to update table description")
			respondWithError(w, api.CodeServerError, "Failed to update table")
			return
		}

		event.Success = true
		trail.Log(event)
		respondSuccess(w, nil)
	}
}

func handleDeleteTable(tables store.TablesStore, trail *audit.Trail, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.URL.Query().Get("table_name"))
		if name == "" {
			respondWithError(w, api.CodeBadRequest, "table_name is required")
			return
		}

		user, ip := caller(r)
		event := audit.TableEvent{User: user, ClientIP: ip, Table: name, Operation: "delete"}
		if err := tables.PurgeTable(r.Context(), name); err != nil {
			event.ErrorMessage = err.Error()
			trail.Log(event)
			if errors.Is(err, store.ErrTableNotFound) {
				respondWithError(w, api.CodeNotFound, "Table not found")
				return
			}
			logger.WithError(err).WithField("table", name).Error("failed to delete table")
			respondWithError(w, api.CodeServerError, "Failed to delete table")
			return
		}

		event.Success = true
		trail.Log(event)
		respondSuccess(w, nil)
	}
}

func handleUnconfiguredTables(tables store.TablesStore, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := tables.UnconfiguredTables(r.Context())
		if err != nil {
			logger.WithError(err).Error("failed to list unconfigured tables")
			respondWithError(w, api.CodeServerError, "Failed to load unconfigured tables")
			return
		}

		out := make([]api.UnconfiguredTable, 0, len(list))
		for _, t := range list {
			out = append(out, api.UnconfiguredTable{TableName: t.Name, TableComment: t.Description})
		}
		respondSuccess(w, out)
	}
}
