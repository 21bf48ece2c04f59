package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
)

func TestTablePermissions(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account/table-permissions/", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "ord", r.URL.Query().Get("search"))
		writeEnvelope(t, w, http.StatusOK, api.CodeSuccess, api.MsgSuccess, api.TablePermissionPage{
			Total: 0, CurrentPage: 2, PageSize: 5,
		})
	})

	page, err := c.TablePermissions(context.Background(), TablePermissionQuery{Page: 2, Size: 5, Search: " ord "})
	require.NoError(t, err)
	assert.NotNil(t, page.List)
	assert.Equal(t, 2, page.CurrentPage)

	_, err = c.TablePermissions(context.Background(), TablePermissionQuery{Page: 1})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "size", ve.Field)
}

func TestTablePermissionWrites(t *testing.T) {
	var seen []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account/table-permissions/", r.URL.Path)
		seen = append(seen, r.Method)
		switch r.Method {
		case http.MethodPost:
			var body api.TablePermissionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []string{}, body.RoleNames)
		case http.MethodPut:
			var body api.TableDescRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, api.TableDescRequest{TableName: "orders", TableDesc: "Orders"}, body)
		case http.MethodDelete:
			assert.Equal(t, "orders", r.URL.Query().Get("table_name"))
			writeEnvelope(t, w, http.StatusNotFound, api.CodeNotFound, "Table not found", nil)
			return
		}
		writeEnvelope(t, w, http.StatusOK, api.CodeSuccess, api.MsgSuccess, nil)
	})

	require.NoError(t, c.SetTablePermission(context.Background(), api.TablePermissionRequest{TableName: "orders"}))
	require.NoError(t, c.UpdateTableDesc(context.Background(), "orders", "Orders"))
	err := c.DeleteTable(context.Background(), "orders")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, []string{http.MethodPost, http.MethodPut, http.MethodDelete}, seen)

	var ve *ValidationError
	require.ErrorAs(t, c.DeleteTable(context.Background(), " "), &ve)
	assert.Equal(t, "table_name", ve.Field)
}

func TestUnconfiguredTables(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account/unconfigured-tables/", r.URL.Path)
		writeEnvelope(t, w, http.StatusOK, api.CodeSuccess, api.MsgSuccess, []api.UnconfiguredTable{{TableName: "invoices"}})
	})

	tables, err := c.UnconfiguredTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []api.UnconfiguredTable{{TableName: "invoices"}}, tables)
}
