package gorm

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
)

func TestRolesStore_FetchRole(t *testing.T) {
	t.Run("returns role with ordered entries", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewRolesStore(db)

		mock.ExpectQuery(`SELECT \* FROM "roles" WHERE role_id = \$1`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"role_id", "role_name", "status", "remark"}).
				AddRow(3, "auditor", "0", nil))
		mock.ExpectQuery(`SELECT \* FROM "role_permissions" WHERE role_id = \$1 ORDER BY position, table_name`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"role_id", "table_name", "position", "can_read", "can_create", "can_update", "can_delete"}).
				AddRow(3, "orders", 0, true, false, true, false).
				AddRow(3, "users", 1, false, false, false, false))

		role, entries, err := s.FetchRole(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, "auditor", role.Name)
		assert.Nil(t, role.Remark)
		assert.Equal(t, []permission.Entry{
			{TableName: "orders", CanRead: true, CanUpdate: true},
			{TableName: "users"},
		}, entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing role to ErrRoleNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewRolesStore(db)

		mock.ExpectQuery(`SELECT \* FROM "roles" WHERE role_id = \$1`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"role_id", "role_name"}))

		_, _, err := s.FetchRole(context.Background(), 99)
		assert.ErrorIs(t, err, store.ErrRoleNotFound)
	})
}

func TestRolesStore_CreateRole(t *testing.T) {
	entries := []permission.Entry{
		{TableName: "orders", CanRead: true},
		{TableName: "users"},
	}

	t.Run("inserts role and permissions in one transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewRolesStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM roles WHERE role_name = \$1 AND role_id <> \$2\)`).
			WithArgs("auditor", int64(0)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery(`INSERT INTO roles \(role_name, status\)`).
			WithArgs("auditor").
			WillReturnRows(sqlmock.NewRows([]string{"role_id"}).AddRow(7))
		mock.ExpectExec(`INSERT INTO "role_permissions"`).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		id, err := s.CreateRole(context.Background(), "auditor", entries)
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a taken name", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewRolesStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("auditor", int64(0)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		_, err := s.CreateRole(context.Background(), "auditor", entries)
		assert.ErrorIs(t, err, store.ErrRoleNameTaken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRolesStore_UpdateRole(t *testing.T) {
	t.Run("renames and replaces permissions", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewRolesStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM roles WHERE role_id = \$1\)`).
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM roles WHERE role_name = \$1 AND role_id <> \$2\)`).
			WithArgs("ops", int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(`UPDATE roles SET role_name = \$1`).
			WithArgs("ops", int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM role_permissions WHERE role_id = \$1`).
			WithArgs(int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`INSERT INTO "role_permissions"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := s.UpdateRole(context.Background(), 4, "ops", []permission.Entry{{TableName: "orders", CanDelete: true}})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing role rolls back", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewRolesStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM roles WHERE role_id = \$1\)`).
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		err := s.UpdateRole(context.Background(), 4, "ops", nil)
		assert.ErrorIs(t, err, store.ErrRoleNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRolesStore_RoleStats(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewRolesStore(db)

	mock.ExpectQuery(`SELECT r.role_id, r.role_name, COUNT\(ar.account_id\) AS total_users`).
		WillReturnRows(sqlmock.NewRows([]string{"role_id", "role_name", "total_users"}).
			AddRow(1, "admin", 2).
			AddRow(2, "auditor", 0))

	stats, err := s.RoleStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []store.RoleStat{
		{ID: 1, Name: "admin", TotalUsers: 2},
		{ID: 2, Name: "auditor", TotalUsers: 0},
	}, stats)
}

func TestRolesStore_MissingRoles(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewRolesStore(db)

	mock.ExpectQuery(`SELECT role_id FROM roles WHERE role_id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"role_id"}).AddRow(1))

	missing, err := s.MissingRoles(context.Background(), []int64{1, 5})
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, missing)

	missing, err = s.MissingRoles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, missing)
}
