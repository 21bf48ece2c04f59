package console

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/client"
	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
)

type mockRoleGateway struct {
	mock.Mock
}

func (m *mockRoleGateway) TableList(ctx context.Context) ([]permission.Table, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]permission.Table), args.Error(1)
}

func (m *mockRoleGateway) RoleDetail(ctx context.Context, roleID int64) (*api.RoleDetail, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.RoleDetail), args.Error(1)
}

func (m *mockRoleGateway) CreateRole(ctx context.Context, name string, entries []permission.Entry) error {
	return m.Called(ctx, name, entries).Error(0)
}

func (m *mockRoleGateway) UpdateRole(ctx context.Context, roleID int64, name string, entries []permission.Entry) error {
	return m.Called(ctx, roleID, name, entries).Error(0)
}

// fakeAccounts records every query and answers through respond
type fakeAccounts struct {
	mu      sync.Mutex
	queries []client.AccountQuery
	respond func(q client.AccountQuery) (*api.AccountPage, error)
	create  func(req api.CreateAccountRequest) (*api.CreateAccountResponse, error)
}

func (f *fakeAccounts) Accounts(ctx context.Context, q client.AccountQuery) (*api.AccountPage, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	respond := f.respond
	f.mu.Unlock()
	return respond(q)
}

func (f *fakeAccounts) CreateAccount(ctx context.Context, req api.CreateAccountRequest) (*api.CreateAccountResponse, error) {
	return f.create(req)
}

func (f *fakeAccounts) Queries() []client.AccountQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]client.AccountQuery, len(f.queries))
	copy(out, f.queries)
	return out
}
