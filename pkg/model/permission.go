package model

import "github.com/doodlesbykumbi/tablegrant/pkg/permission"

// RolePermission holds the capabilities of one role on one catalog table
type RolePermission struct {
	RoleID    int64  `gorm:"column:role_id;primaryKey"`
	Table     string `gorm:"column:table_name;primaryKey"`
	Position  int    `gorm:"column:position"`
	CanRead   bool   `gorm:"column:can_read"`
	CanCreate bool   `gorm:"column:can_create"`
	CanUpdate bool   `gorm:"column:can_update"`
	CanDelete bool   `gorm:"column:can_delete"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

// Entry converts the row to its wire form
func (p RolePermission) Entry() permission.Entry {
	return permission.Entry{
		TableName: p.Table,
		CanRead:   p.CanRead,
		CanCreate: p.CanCreate,
		CanUpdate: p.CanUpdate,
		CanDelete: p.CanDelete,
	}
}

// NewRolePermission builds the row for an entry at the given catalog position
func NewRolePermission(roleID int64, position int, e permission.Entry) RolePermission {
	return RolePermission{
		RoleID:    roleID,
		Table:     e.TableName,
		Position:  position,
		CanRead:   e.CanRead,
		CanCreate: e.CanCreate,
		CanUpdate: e.CanUpdate,
		CanDelete: e.CanDelete,
	}
}
