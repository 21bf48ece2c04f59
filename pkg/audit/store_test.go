package audit

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type jsonSdata struct {
	sdid, key, want string
}

// Match implements sqlmock.Argument
func (j jsonSdata) Match(v driver.Value) bool {
	raw, ok := v.([]byte)
	if !ok {
		return false
	}
	var sd map[string]map[string]string
	if err := json.Unmarshal(raw, &sd); err != nil {
		return false
	}
	return sd[j.sdid][j.key] == j.want
}

func TestStoreSave(t *testing.T) {
	db, mock := newMock(t)
	store := NewStoreWithDB(db)

	event := RoleEvent{
		User:      "admin@example.com",
		ClientIP:  "10.0.0.1",
		RoleName:  "auditor",
		Operation: "create",
		Success:   true,
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuthPriv,    // facility
			int(SeverityNotice), // severity
			sqlmock.AnyArg(),    // timestamp
			sqlmock.AnyArg(),    // hostname
			"tablegrant",        // appname
			sqlmock.AnyArg(),    // procid
			"role",              // msgid
			jsonSdata{SDIDSubject, "role", "auditor"},
			"admin@example.com created role auditor",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Save(event); err != nil {
		t.Errorf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveLoginEvent(t *testing.T) {
	db, mock := newMock(t)
	store := NewStoreWithDB(db)

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuth,
			int(SeverityWarning),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"tablegrant",
			sqlmock.AnyArg(),
			"login",
			jsonSdata{SDIDAction, "result", "failure"},
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Save(LoginEvent{Email: "bob@example.com", ClientIP: "10.0.0.2"}); err != nil {
		t.Errorf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestNewStoreDisabled(t *testing.T) {
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if store != nil {
		t.Errorf("NewStore(\"\") = %v, want nil", store)
	}
}

func TestStoreNilDB(t *testing.T) {
	store := &Store{}
	if err := store.Save(LoginEvent{}); err != nil {
		t.Errorf("Save() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

var logColumns = []string{"id", "timestamp", "severity", "msgid", "sdata", "message"}

func TestStoreListLogs(t *testing.T) {
	t.Run("filters by keyword and user, newest first", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewStoreWithDB(db)
		at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM messages WHERE message ILIKE \$1 ESCAPE '\\' AND LOWER\(sdata->'auth@32473'->>'user'\) = LOWER\(\$2\)`).
			WithArgs(`%100\%%`, "admin@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
		mock.ExpectQuery(`SELECT id, timestamp, severity, msgid, sdata, message FROM messages WHERE .* ORDER BY timestamp DESC, id DESC LIMIT \$3 OFFSET \$4`).
			WithArgs(`%100\%%`, "admin@example.com", 10, 20).
			WillReturnRows(sqlmock.NewRows(logColumns).
				AddRow(42, at, 5, "role",
					[]byte(`{"auth@32473":{"user":"admin@example.com"},"client@32473":{"ip":"10.0.0.1"},"action@32473":{"operation":"create","result":"success"}}`),
					"admin@example.com created role 100%"))

		entries, total, err := s.ListLogs(context.Background(), store.LogFilter{
			Keyword: " 100% ", User: "admin@example.com", Limit: 10, Offset: 20,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(21), total)
		assert.Equal(t, []store.LogEntry{{
			ID:        42,
			Timestamp: at,
			Severity:  int(SeverityNotice),
			MessageID: "role",
			User:      "admin@example.com",
			ClientIP:  "10.0.0.1",
			Operation: "create",
			Result:    "success",
			Message:   "admin@example.com created role 100%",
		}}, entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unfiltered and empty", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewStoreWithDB(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM messages$`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		entries, total, err := s.ListLogs(context.Background(), store.LogFilter{Limit: 10})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.NotNil(t, entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("records without structured data", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewStoreWithDB(db)

		mock.ExpectQuery(`SELECT COUNT`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT id, timestamp`).
			WithArgs(10).
			WillReturnRows(sqlmock.NewRows(logColumns).AddRow(1, time.Now(), 6, nil, nil, "imported"))

		entries, _, err := s.ListLogs(context.Background(), store.LogFilter{Limit: 10})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Empty(t, entries[0].User)
		assert.Empty(t, entries[0].MessageID)
	})
}
