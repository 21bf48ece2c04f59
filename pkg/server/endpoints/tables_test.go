package endpoints

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
)

func TestHandleListTablePermissions(t *testing.T) {
	t.Run("pages the catalog with granted roles", func(t *testing.T) {
		ts := newTestServer(t)
		created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		ts.tables.On("ListTableGrants", mock.Anything, store.TableGrantsFilter{Search: "ord", Limit: 5, Offset: 5}).
			Return([]store.TableGrants{{
				Table:     permission.Table{Name: "orders", Description: "Customer orders"},
				Roles:     []string{"admin", "clerk"},
				Entry:     permission.Entry{TableName: "orders", CanRead: true, CanUpdate: true},
				CreatedAt: created,
			}, {
				Table: permission.Table{Name: "ordinals"},
			}}, int64(7), nil)

		var page api.TablePermissionPage
		envelope(t, ts.do("GET", "/account/table-permissions/?page=2&size=5&search=+ord+", nil), &page)
		assert.Equal(t, int64(7), page.Total)
		assert.Equal(t, 2, page.CurrentPage)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, 5, page.PageSize)
		require.Len(t, page.List, 2)
		assert.Equal(t, api.TablePermission{
			Name:        "orders",
			TableDesc:   "Customer orders",
			AssignedTo:  []string{"admin", "clerk"},
			CreatedDate: created,
			Permissions: api.Capabilities{CanRead: true, CanUpdate: true},
		}, page.List[0])
		assert.Equal(t, []string{}, page.List[1].AssignedTo)
	})

	t.Run("rejects an unaddressable page", func(t *testing.T) {
		ts := newTestServer(t)

		assertStatus(t, ts.do("GET", "/account/table-permissions/?page=9223372036854775807", nil), api.CodeBadRequest, "")
		ts.tables.AssertNotCalled(t, "ListTableGrants", mock.Anything, mock.Anything)
	})
}

func TestHandleSetTablePermissions(t *testing.T) {
	t.Run("sets grants for exactly the named roles", func(t *testing.T) {
		ts := newTestServer(t)
		ts.tables.On("SetTableGrants", mock.Anything,
			permission.Table{Name: "orders", Description: "Customer orders"},
			[]string{"clerk", "admin"},
			permission.Entry{TableName: "orders", CanRead: true, CanDelete: true},
		).Return(nil)

		assertSuccess(t, ts.do("POST", "/account/table-permissions/", api.TablePermissionRequest{
			TableName:   " orders ",
			TableDesc:   "Customer orders",
			RoleNames:   []string{"clerk", " admin", "clerk"},
			Permissions: api.Capabilities{CanRead: true, CanDelete: true},
		}))
		assert.Contains(t, ts.auditLog.String(), "admin@example.com set grants on table orders")
		assert.Contains(t, ts.auditLog.String(), `granted="read,delete"`)
	})

	t.Run("unknown roles", func(t *testing.T) {
		ts := newTestServer(t)
		ts.tables.On("SetTableGrants", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&store.UnknownRolesError{Names: []string{"ghost", "spook"}})

		assertStatus(t, ts.do("POST", "/account/table-permissions/", api.TablePermissionRequest{
			TableName: "orders", RoleNames: []string{"ghost", "spook"},
		}), api.CodeBadRequest, "Unknown roles: ghost, spook")
	})

	t.Run("validation", func(t *testing.T) {
		ts := newTestServer(t)

		assertStatus(t, ts.do("POST", "/account/table-permissions/", api.TablePermissionRequest{}), api.CodeBadRequest, "table_name is required")
		assertStatus(t, ts.do("POST", "/account/table-permissions/", api.TablePermissionRequest{
			TableName: "orders", RoleNames: []string{" "},
		}), api.CodeBadRequest, "role_names must not contain blank names")
		ts.tables.AssertNotCalled(t, "SetTableGrants", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandleUpdateTableDesc(t *testing.T) {
	ts := newTestServer(t)
	ts.tables.On("UpdateTableDescription", mock.Anything, "orders", "Orders").Return(nil)
	ts.tables.On("UpdateTableDescription", mock.Anything, "ghosts", "").Return(store.ErrTableNotFound)

	assertSuccess(t, ts.do("PUT", "/account/table-permissions/", api.TableDescRequest{TableName: "orders", TableDesc: " Orders "}))
	assertStatus(t, ts.do("PUT", "/account/table-permissions/", api.TableDescRequest{TableName: "ghosts"}), api.CodeNotFound, "Table not found")
	assertStatus(t, ts.do("PUT", "/account/table-permissions/", api.TableDescRequest{}), api.CodeBadRequest, "table_name is required")
}

func TestHandleDeleteTable(t *testing.T) {
	t.Run("purges the table", func(t *testing.T) {
		ts := newTestServer(t)
		ts.tables.On("PurgeTable", mock.Anything, "orders").Return(nil)

		assertSuccess(t, ts.do("DELETE", "/account/table-permissions/?table_name=orders", nil))
		assert.Contains(t, ts.auditLog.String(), "admin@example.com deleted table orders")
	})

	t.Run("failures", func(t *testing.T) {
		ts := newTestServer(t)
		ts.tables.On("PurgeTable", mock.Anything, "ghosts").Return(store.ErrTableNotFound)
		ts.tables.On("PurgeTable", mock.Anything, "orders").Return(errors.New("lock timeout"))

		assertStatus(t, ts.do("DELETE", "/account/table-permissions/", nil), api.CodeBadRequest, "table_name is required")
		assertStatus(t, ts.do("DELETE", "/account/table-permissions/?table_name=ghosts", nil), api.CodeNotFound, "Table not found")
		assertStatus(t, ts.do("DELETE", "/account/table-permissions/?table_name=orders", nil), api.CodeServerError, "Failed to delete table")
	})
}

func TestHandleUnconfiguredTables(t *testing.T) {
	t.Run("maps to table_name and table_comment", func(t *testing.T) {
		ts := newTestServer(t)
		ts.tables.On("UnconfiguredTables", mock.Anything).
			Return([]permission.Table{{Name: "invoices", Description: "Billing"}}, nil)

		var tables []api.UnconfiguredTable
		envelope(t, ts.do("GET", "/account/unconfigured-tables/", nil), &tables)
		assert.Equal(t, []api.UnconfiguredTable{{TableName: "invoices", TableComment: "Billing"}}, tables)
	})

	t.Run("none is an empty list", func(t *testing.T) {
		ts := newTestServer(t)
		ts.tables.On("UnconfiguredTables", mock.Anything).Return(nil, nil)

		resp := assertSuccess(t, ts.do("GET", "/account/unconfigured-tables/", nil))
		assert.JSONEq(t, `[]`, string(resp.Data))
	})
}
