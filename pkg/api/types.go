package api

import (
	"time"

	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
)

// RoleDetail is the data of GET /account/role-detail/{id}/
type RoleDetail struct {
	RoleID      int64              `json:"role_id"`
	RoleName    string             `json:"role_name"`
	Permissions []permission.Entry `json:"permissions"`
}

// RoleRequest is the body of POST and PUT /account/role-stats/.
// RoleID is only set on update.
type RoleRequest struct {
	RoleID      int64              `json:"role_id,omitempty"`
	RoleName    string             `json:"role_name"`
	Permissions []permission.Entry `json:"permissions"`
}

// Role is an item of GET /account/roles/
type Role struct {
	RoleID   int64   `json:"role_id"`
	RoleName string  `json:"role_name"`
	Status   string  `json:"status"`
	Remark   *string `json:"remark"`
}

// RoleList is the data of GET /account/roles/
type RoleList struct {
	List []Role `json:"list"`
}

// RoleStat is an item of GET /account/role-stats/
type RoleStat struct {
	RoleID     int64  `json:"role_id"`
	RoleName   string `json:"role_name"`
	TotalUsers int    `json:"total_users"`
}

// RoleRef names one role held by an account
type RoleRef struct {
	RoleID   int64  `json:"role_id"`
	RoleName string `json:"role_name"`
}

// Account is an account as listed by GET /account/accounts/.
// RoleID and RoleName carry the primary (lowest id) role for display.
type Account struct {
	AccountID    int64     `json:"account_id"`
	AccountName  string    `json:"account_name"`
	AccountEmail string    `json:"account_email"`
	PhoneNumber  *string   `json:"phone_number"`
	Sex          string    `json:"sex"`
	Avatar       *string   `json:"avatar"`
	Status       string    `json:"status"`
	Remark       *string   `json:"remark"`
	RoleName     *string   `json:"role_name"`
	RoleID       *int64    `json:"role_id"`
	Roles        []RoleRef `json:"roles"`
}

// AccountPage is the data of GET /account/accounts/. Page is 1-indexed.
type AccountPage struct {
	List  []Account `json:"list"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
	Pages int       `json:"pages"`
}

// CreateAccountRequest is the body of POST /account/create/
type CreateAccountRequest struct {
	AccountName  string  `json:"account_name"`
	AccountEmail string  `json:"account_email"`
	PhoneNumber  string  `json:"phone_number"`
	Sex          string  `json:"sex"`
	Status       string  `json:"status"`
	Remark       string  `json:"remark"`
	Roles        []int64 `json:"roles"`
}

// CreateAccountResponse is the data of POST /account/create/.
// InitialPassword is returned once and never again.
type CreateAccountResponse struct {
	Account         Account `json:"account"`
	InitialPassword string  `json:"initial_password"`
}

// UpdateAccountRequest is the body of PUT /account/detail/{id}/. It
// replaces every editable field and the roles.
type UpdateAccountRequest struct {
	AccountName  string  `json:"account_name"`
	AccountEmail string  `json:"account_email"`
	PhoneNumber  string  `json:"phone_number"`
	Sex          string  `json:"sex"`
	Status       string  `json:"status"`
	Remark       string  `json:"remark"`
	Roles        []int64 `json:"roles"`
}

// UpdateProfileRequest is the body of PUT /account/info/
type UpdateProfileRequest struct {
	AccountName string `json:"account_name"`
	Sex         string `json:"sex"`
}

// ChangePasswordRequest is the body of POST /account/info/
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Password length limits. bcrypt ignores bytes past the 72nd.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// Capabilities is the capability set of a table-permission row
type Capabilities struct {
	CanRead   bool `json:"can_read"`
	CanCreate bool `json:"can_create"`
	CanUpdate bool `json:"can_update"`
	CanDelete bool `json:"can_delete"`
}

// TablePermission is an item of GET /account/table-permissions/.
// Permissions is the union of what AssignedTo hold on the table.
type TablePermission struct {
	Name        string       `json:"name"`
	TableDesc   string       `json:"table_desc"`
	AssignedTo  []string     `json:"assignedTo"`
	CreatedDate time.Time    `json:"createdDate"`
	Permissions Capabilities `json:"permissions"`
}

// TablePermissionPage is the data of GET /account/table-permissions/
type TablePermissionPage struct {
	List        []TablePermission `json:"list"`
	Total       int64             `json:"total"`
	CurrentPage int               `json:"current_page"`
	TotalPages  int               `json:"total_pages"`
	PageSize    int               `json:"page_size"`
}

// TablePermissionRequest is the body of POST /account/table-permissions/.
// Exactly the named roles end up holding Permissions on the table.
type TablePermissionRequest struct {
	TableName   string       `json:"table_name"`
	TableDesc   string       `json:"table_desc"`
	RoleNames   []string     `json:"role_names"`
	Permissions Capabilities `json:"permissions"`
}

// TableDescRequest is the body of PUT /account/table-permissions/
type TableDescRequest struct {
	TableName string `json:"table_name"`
	TableDesc string `json:"table_desc"`
}

// UnconfiguredTable is an item of GET /account/unconfigured-tables/
type UnconfiguredTable struct {
	TableName    string `json:"table_name"`
	TableComment string `json:"table_comment"`
}

// OperationLog is an item of GET /account/logs/
type OperationLog struct {
	OperID       int64     `json:"oper_id"`
	Title        string    `json:"title"`
	BusinessType string    `json:"business_type"`
	OperAccount  string    `json:"oper_account"`
	OperIP       string    `json:"oper_ip"`
	Status       string    `json:"status"`
	Severity     int       `json:"severity"`
	Message      string    `json:"message"`
	OperTime     time.Time `json:"oper_time"`
}

// LogPage is the data of GET /account/logs/. Page is 1-indexed.
type LogPage struct {
	List  []OperationLog `json:"list"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
	Pages int            `json:"pages"`
}

// LoginRequest is the body of POST /account/login/
type LoginRequest struct {
	AccountEmail string `json:"account_email"`
	Password     string `json:"password"`
}

// LoginResponse is the data of POST /account/login/
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// Account status and sex codes as stored by the console
const (
	StatusActive   = "0"
	StatusInactive = "1"

	SexMale    = "0"
	SexFemale  = "1"
	SexUnknown = "2"

	LogStatusSuccess = "0"
	LogStatusFailure = "1"
)
