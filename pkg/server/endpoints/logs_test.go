package endpoints

import (
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/config"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
)

func TestHandleListLogs(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("maps records to operation logs", func(t *testing.T) {
		ts := newTestServer(t)
		ts.logs.On("ListLogs", mock.Anything, store.LogFilter{Keyword: "role", Limit: 10, Offset: 10}).
			Return([]store.LogEntry{{
				ID: 42, Timestamp: at, Severity: 5, MessageID: "role", User: "admin@example.com",
				ClientIP: "10.0.0.1", Operation: "create", Result: "success", Message: "admin@example.com created role ops",
			}, {
				ID: 41, Timestamp: at, Severity: 4, MessageID: "login", User: "bob@example.com",
				Operation: "login", Result: "failure", Message: "bob@example.com failed to log in",
			}}, int64(12), nil)

		var page api.LogPage
		envelope(t, ts.do("GET", "/account/logs/?page=2&size=10&keyword=+role+", nil), &page)
		assert.Equal(t, int64(12), page.Total)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 2, page.Pages)
		require.Len(t, page.List, 2)
		assert.Equal(t, api.OperationLog{
			OperID:       42,
			Title:        "role",
			BusinessType: "create",
			OperAccount:  "admin@example.com",
			OperIP:       "10.0.0.1",
			Status:       api.LogStatusSuccess,
			Severity:     5,
			Message:      "admin@example.com created role ops",
			OperTime:     at,
		}, page.List[0])
		assert.Equal(t, api.LogStatusFailure, page.List[1].Status)
	})

	t.Run("userId filters by that account's email", func(t *testing.T) {
		for _, param := range []string{"userId", "user_id"} {
			ts := newTestServer(t)
			ts.accounts.On("FindByID", mock.Anything, int64(7)).Return(&store.Account{ID: 7, Email: "alice@example.com"}, nil)
			ts.logs.On("ListLogs", mock.Anything, store.LogFilter{User: "alice@example.com", Limit: 10}).
				Return([]store.LogEntry{}, int64(0), nil)

			var page api.LogPage
			envelope(t, ts.do("GET", "/account/logs/?"+param+"=7", nil), &page)
			assert.NotNil(t, page.List, param)
			assert.Equal(t, 0, page.Pages, param)
		}
	})

	t.Run("unknown userId", func(t *testing.T) {
		ts := newTestServer(t)
		ts.accounts.On("FindByID", mock.Anything, int64(99)).Return(nil, store.ErrAccountNotFound)

		assertStatus(t, ts.do("GET", "/account/logs/?userId=99", nil), api.CodeNotFound, "Account not found")
		ts.logs.AssertNotCalled(t, "ListLogs", mock.Anything, mock.Anything)
	})

	t.Run("invalid parameters", func(t *testing.T) {
		ts := newTestServer(t)

		assertStatus(t, ts.do("GET", "/account/logs/?userId=me", nil), api.CodeBadRequest, `invalid userId: "me"`)
		assertStatus(t, ts.do("GET", "/account/logs/?page=9223372036854775807", nil), api.CodeBadRequest, `invalid page: "9223372036854775807"`)
	})

	t.Run("persistence disabled", func(t *testing.T) {
		cfg, err := config.LoadFile(filepath.Join(t.TempDir(), config.ConfigFileName))
		require.NoError(t, err)
		logger := logrus.New()
		logger.SetOutput(io.Discard)

		h := handleListLogs(nil, &MockAccountsStore{}, func() *config.TablegrantConfig { return cfg }, logger)
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest("GET", "/account/logs/", nil))
		assertStatus(t, w, api.CodeServiceUnavailable, "Audit log is not enabled")
	})
}
