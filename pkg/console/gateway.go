package console

import (
	"context"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/client"
	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
)

// RoleGateway is what the role editor needs from the server
type RoleGateway interface {
	TableList(ctx context.Context) ([]permission.Table, error)
	RoleDetail(ctx context.Context, roleID int64) (*api.RoleDetail, error)
	CreateRole(ctx context.Context, name string, entries []permission.Entry) error
	UpdateRole(ctx context.Context, roleID int64, name string, entries []permission.Entry) error
}

// AccountGateway is what the account list needs from the server
type AccountGateway interface {
	Accounts(ctx context.Context, q client.AccountQuery) (*api.AccountPage, error)
	CreateAccount(ctx context.Context, req api.CreateAccountRequest) (*api.CreateAccountResponse, error)
}

var (
	_ RoleGateway    = (*client.Client)(nil)
	_ AccountGateway = (*client.Client)(nil)
)
