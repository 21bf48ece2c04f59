package endpoints

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
)

// MockTablesStore implements store.TablesStore for testing using testify/mock
type MockTablesStore struct {
	mock.Mock
}

func (m *MockTablesStore) ListTables(ctx context.Context) ([]permission.Table, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]permission.Table), args.Error(1)
}

func (m *MockTablesStore) UpsertTable(ctx context.Context, table permission.Table) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockTablesStore) DeleteTable(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockTablesStore) ListTableGrants(ctx context.Context, f store.TableGrantsFilter) ([]store.TableGrants, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]store.TableGrants), args.Get(1).(int64), args.Error(2)
}

func (m *MockTablesStore) SetTableGrants(ctx context.Context, table permission.Table, roles []string, entry permission.Entry) error {
	args := m.Called(ctx, table, roles, entry)
	return args.Error(0)
}

func (m *MockTablesStore) UpdateTableDescription(ctx context.Context, name, description string) error {
	args := m.Called(ctx, name, description)
	return args.Error(0)
}

func (m *MockTablesStore) PurgeTable(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockTablesStore) UnconfiguredTables(ctx context.Context) ([]permission.Table, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]permission.Table), args.Error(1)
}

// MockRolesStore implements store.RolesStore for testing using testify/mock
type MockRolesStore struct {
	mock.Mock
}

func (m *MockRolesStore) ListRoles(ctx context.Context) ([]store.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Role), args.Error(1)
}

func (m *MockRolesStore) RoleStats(ctx context.Context) ([]store.RoleStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.RoleStat), args.Error(1)
}

func (m *MockRolesStore) FetchRole(ctx context.Context, id int64) (*store.Role, []permission.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var entries []permission.Entry
	if args.Get(1) != nil {
		entries = args.Get(1).([]permission.Entry)
	}
	return args.Get(0).(*store.Role), entries, args.Error(2)
}

func (m *MockRolesStore) CreateRole(ctx context.Context, name string, entries []permission.Entry) (int64, error) {
	args := m.Called(ctx, name, entries)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRolesStore) UpdateRole(ctx context.Context, id int64, name string, entries []permission.Entry) error {
	args := m.Called(ctx, id, name, entries)
	return args.Error(0)
}

func (m *MockRolesStore) MissingRoles(ctx context.Context, ids []int64) ([]int64, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockAccountsStore implements store.AccountsStore for testing using testify/mock
type MockAccountsStore struct {
	mock.Mock
}

func (m *MockAccountsStore) ListAccounts(ctx context.Context, f store.AccountFilter) ([]store.Account, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]store.Account), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountsStore) CreateAccount(ctx context.Context, a store.NewAccount) (*store.Account, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Account), args.Error(1)
}

func (m *MockAccountsStore) FindByEmail(ctx context.Context, email string) (*store.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Account), args.Error(1)
}

func (m *MockAccountsStore) FindByID(ctx context.Context, id int64) (*store.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Account), args.Error(1)
}

func (m *MockAccountsStore) UpdateAccount(ctx context.Context, id int64, u store.AccountUpdate) (*store.Account, error) {
	args := m.Called(ctx, id, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Account), args.Error(1)
}

func (m *MockAccountsStore) UpdateProfile(ctx context.Context, id int64, u store.ProfileUpdate) error {
	args := m.Called(ctx, id, u)
	return args.Error(0)
}

func (m *MockAccountsStore) UpdatePassword(ctx context.Context, id int64, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockLogsStore implements store.LogsStore for testing using testify/mock
type MockLogsStore struct {
	mock.Mock
}

func (m *MockLogsStore) ListLogs(ctx context.Context, f store.LogFilter) ([]store.LogEntry, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]store.LogEntry), args.Get(1).(int64), args.Error(2)
}

var (
	_ store.LogsStore     = (*MockLogsStore)(nil)
	_ store.TablesStore   = (*MockTablesStore)(nil)
	_ store.RolesStore    = (*MockRolesStore)(nil)
	_ store.AccountsStore = (*MockAccountsStore)(nil)
	_ store.HealthStore   = (*MockHealthStore)(nil)
)
