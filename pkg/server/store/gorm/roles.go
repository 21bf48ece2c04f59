package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/tablegrant/pkg/model"
	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
)

// Ensure RolesStore implements store.RolesStore
var _ store.RolesStore = (*RolesStore)(nil)

// RolesStore implements store.RolesStore using GORM
type RolesStore struct {
	db *gorm.DB
}

// NewRolesStore creates a new RolesStore
func NewRolesStore(db *gorm.DB) *RolesStore {
	return &RolesStore{db: db}
}

func toStoreRole(r model.Role) store.Role {
	return store.Role{ID: r.ID, Name: r.Name, Status: r.Status, Remark: r.Remark}
}

// ListRoles returns every role ordered by id
func (s *RolesStore) ListRoles(ctx context.Context) ([]store.Role, error) {
	var rows []model.Role
	if err := s.db.WithContext(ctx).Order("role_id").Find(&rows).Error; err != nil {
		return nil, err
	}

	roles := make([]store.Role, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, toStoreRole(row))
	}
	return roles, nil
}

// RoleStats returns every role with its member count
func (s *RolesStore) RoleStats(ctx context.Context) ([]store.RoleStat, error) {
	type statRow struct {
		RoleID     int64  `gorm:"column:role_id"`
		RoleName   string `gorm:"column:role_name"`
		TotalUsers int    `gorm:"column:total_users"`
	}
	var rows []statRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT r.role_id, r.role_name, COUNT(ar.account_id) AS total_users
		FROM roles r
		LEFT JOIN account_roles ar ON ar.role_id = r.role_id
		GROUP BY r.role_id, r.role_name
		ORDER BY r.role_id
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make([]store.RoleStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, store.RoleStat{ID: row.RoleID, Name: row.RoleName, TotalUsers: row.TotalUsers})
	}
	return stats, nil
}

// FetchRole returns a role and its persisted permission entries
func (s *RolesStore) FetchRole(ctx context.Context, id int64) (*store.Role, []permission.Entry, error) {
	db := s.db.WithContext(ctx)

	var row model.Role
	if err := db.Where("role_id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, store.ErrRoleNotFound
		}
		return nil, nil, err
	}

	var perms []model.RolePermission
	if err := db.Where("role_id = ?", id).Order("position, table_name").Find(&perms).Error; err != nil {
		return nil, nil, err
	}

	entries := make([]permission.Entry, 0, len(perms))
	for _, p := range perms {
		entries = append(entries, p.Entry())
	}
	role := toStoreRole(row)
	return &role, entries, nil
}

// CreateRole creates a role with the given entries
func (s *RolesStore) CreateRole(ctx context.Context, name string, entries []permission.Entry) (int64, error) {
	var id int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if taken, err := nameTaken(tx, name, 0); err != nil {
			return err
		} else if taken {
			return store.ErrRoleNameTaken
		}

		if err := tx.Raw(`INSERT INTO roles (role_name, status) VALUES (?, '0') RETURNING role_id`, name).Scan(&id).Error; err != nil {
			return err
		}
		return insertPermissions(tx, id, entries)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateRole renames a role and replaces its permission set
func (s *RolesStore) UpdateRole(ctx context.Context, id int64, name string, entries []permission.Entry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists bool
		if err := tx.Raw(`SELECT EXISTS(SELECT 1 FROM roles WHERE role_id = ?)`, id).Scan(&exists).Error; err != nil {
			return err
		}
		if !exists {
			return store.ErrRoleNotFound
		}

		if taken, err := nameTaken(tx, name, id); err != nil {
			return err
		} else if taken {
			return store.ErrRoleNameTaken
		}

		if err := tx.Exec(`UPDATE roles SET role_name = ?, updated_at = NOW() WHERE role_id = ?`, name, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM role_permissions WHERE role_id = ?`, id).Error; err != nil {
			return err
		}
		return insertPermissions(tx, id, entries)
	})
}

// MissingRoles returns the ids that do not name a role
func (s *RolesStore) MissingRoles(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []int64
	if err := s.db.WithContext(ctx).Raw(`SELECT role_id FROM roles WHERE role_id IN ?`, ids).Scan(&found).Error; err != nil {
		return nil, err
	}

	exists := make(map[int64]bool, len(found))
	for _, id := range found {
		exists[id] = true
	}
	var missing []int64
	for _, id := range ids {
		if !exists[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func nameTaken(tx *gorm.DB, name string, exceptID int64) (bool, error) {
	var taken bool
	err := tx.Raw(`SELECT EXISTS(SELECT 1 FROM roles WHERE role_name = ? AND role_id <> ?)`, name, exceptID).Scan(&taken).Error
	return taken, err
}

func insertPermissions(tx *gorm.DB, roleID int64, entries []permission.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]model.RolePermission, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, model.NewRolePermission(roleID, i, e))
	}
	return tx.Create(&rows).Error
}
