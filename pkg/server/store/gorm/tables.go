package gorm

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/tablegrant/pkg/model"
	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
)

// Ensure TablesStore implements store.TablesStore
var _ store.TablesStore = (*TablesStore)(nil)

// TablesStore implements store.TablesStore using GORM
type TablesStore struct {
	db *gorm.DB
}

// NewTablesStore creates a new TablesStore
func NewTablesStore(db *gorm.DB) *TablesStore {
	return &TablesStore{db: db}
}

// ListTables returns the catalog ordered by position
func (s *TablesStore) ListTables(ctx context.Context) ([]permission.Table, error) {
	var rows []model.CatalogTable
	if err := s.db.WithContext(ctx).Order("position, table_name").Find(&rows).Error; err != nil {
		return nil, err
	}

	tables := make([]permission.Table, 0, len(rows))
	for _, row := range rows {
		tables = append(tables, row.Table())
	}
	return tables, nil
}

// UpsertTable appends a table to the catalog or updates its description
func (s *TablesStore) UpsertTable(ctx context.Context, table permission.Table) error {
	return upsertTable(s.db.WithContext(ctx), table)
}

func upsertTable(db *gorm.DB, table permission.Table) error {
	return db.Exec(`
		INSERT INTO table_catalog (table_name, table_comment, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM table_catalog))
		ON CONFLICT (table_name) DO UPDATE SET table_comment = EXCLUDED.table_comment
	`, table.Name, table.Description).Error
}

// DeleteTable removes a table from the catalog
func (s *TablesStore) DeleteTable(ctx context.Context, name string) error {
	return s.db.WithContext(ctx).Exec(`DELETE FROM table_catalog WHERE table_name = ?`, name).Error
}

// ownTables are tablegrant's own tables, never offered for the catalog
var ownTables = []string{
	"accounts", "account_roles", "roles", "role_permissions",
	"table_catalog", "messages", "tablegrant_schema_migrations",
}

func filteredTables(db *gorm.DB, search string) *gorm.DB {
	q := db.Model(&model.CatalogTable{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + likeEscaper.Replace(search) + "%"
		q = q.Where(`table_name ILIKE ? ESCAPE '\' OR table_comment ILIKE ? ESCAPE '\'`, like, like)
	}
	return q
}

// ListTableGrants returns a page of the catalog with the roles granted on
// each table
func (s *TablesStore) ListTableGrants(ctx context.Context, f store.TableGrantsFilter) ([]store.TableGrants, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := filteredTables(db, f.Search).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []store.TableGrants{}
	if total == 0 {
		return out, 0, nil
	}

	var rows []model.CatalogTable
	q := filteredTables(db, f.Search).Order("position, table_name")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 {
		return out, total, nil
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	type grantRow struct {
		model.RolePermission
		RoleName string `gorm:"column:role_name"`
	}
	var grants []grantRow
	err := db.Raw(`
		SELECT rp.*, r.role_name
		FROM role_permissions rp
		JOIN roles r ON r.role_id = rp.role_id
		WHERE rp.table_name IN ? AND (rp.can_read OR rp.can_create OR rp.can_update OR rp.can_delete)
		ORDER BY rp.table_name, r.role_id
	`, names).Scan(&grants).Error
	if err != nil {
		return nil, 0, err
	}

	byTable := make(map[string]*store.TableGrants, len(rows))
	for _, row := range rows {
		out = append(out, store.TableGrants{
			Table:     row.Table(),
			Roles:     []string{},
			Entry:     permission.DefaultEntry(row.Name),
			CreatedAt: row.CreatedAt,
		})
	}
	for i := range out {
		byTable[out[i].Table.Name] = &out[i]
	}
	for _, g := range grants {
		tg, ok := byTable[g.Table]
		if !ok {
			continue
		}
		tg.Roles = append(tg.Roles, g.RoleName)
		for _, c := range g.Entry().Granted() {
			tg.Entry = tg.Entry.With(c, true)
		}
	}
	return out, total, nil
}

// SetTableGrants puts the table in the catalog and replaces the set of
// roles granted on it
func (s *TablesStore) SetTableGrants(ctx context.Context, table permission.Table, roles []string, entry permission.Entry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := roleIDs(tx, roles)
		if err != nil {
			return err
		}
		if err := upsertTable(tx, table); err != nil {
			return err
		}

		if len(entry.Granted()) == 0 {
			ids = nil
		}
		if len(ids) == 0 {
			return tx.Exec(`DELETE FROM role_permissions WHERE table_name = ?`, table.Name).Error
		}
		if err := tx.Exec(`DELETE FROM role_permissions WHERE table_name = ? AND role_id NOT IN ?`, table.Name, ids).Error; err != nil {
			return err
		}
		for _, id := range ids {
			err := tx.Exec(`
				INSERT INTO role_permissions (role_id, table_name, position, can_read, can_create, can_update, can_delete)
				VALUES (?, ?, (SELECT position FROM table_catalog WHERE table_name = ?), ?, ?, ?, ?)
				ON CONFLICT (role_id, table_name) DO UPDATE SET
					can_read = EXCLUDED.can_read,
					can_create = EXCLUDED.can_create,
					can_update = EXCLUDED.can_update,
					can_delete = EXCLUDED.can_delete
			`, id, table.Name, table.Name, entry.CanRead, entry.CanCreate, entry.CanUpdate, entry.CanDelete).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// roleIDs resolves role names to ids in ascending order
func roleIDs(tx *gorm.DB, names []string) ([]int64, error) {
	if len(names) == 0 {
		return nil, nil
	}
	type idRow struct {
		RoleID   int64  `gorm:"column:role_id"`
		RoleName string `gorm:"column:role_name"`
	}
	var rows []idRow
	if err := tx.Raw(`SELECT role_id, role_name FROM roles WHERE role_name IN ?`, names).Scan(&rows).Error; err != nil {
		return nil, err
	}

	found := make(map[string]int64, len(rows))
	for _, row := range rows {
		found[row.RoleName] = row.RoleID
	}
	ids := make([]int64, 0, len(rows))
	seen := make(map[int64]bool, len(rows))
	var missing []string
	for _, name := range names {
		id, ok := found[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(missing) > 0 {
		return nil, &store.UnknownRolesError{Names: missing}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// UpdateTableDescription changes the description of a catalog table
func (s *TablesStore) UpdateTableDescription(ctx context.Context, name, description string) error {
	result := s.db.WithContext(ctx).Exec(`UPDATE table_catalog SET table_comment = ? WHERE table_name = ?`, description, name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrTableNotFound
	}
	return nil
}

// PurgeTable removes a table and every grant on it
func (s *TablesStore) PurgeTable(ctx context.Context, name string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(`DELETE FROM table_catalog WHERE table_name = ?`, name)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return store.ErrTableNotFound
		}
		return tx.Exec(`DELETE FROM role_permissions WHERE table_name = ?`, name).Error
	})
}

// UnconfiguredTables lists the base tables of the current schema that are
// not in the catalog, with their comments
func (s *TablesStore) UnconfiguredTables(ctx context.Context) ([]permission.Table, error) {
	var rows []permission.Table
	err := s.db.WithContext(ctx).Raw(`
		SELECT t.table_name AS name, COALESCE(obj_description(c.oid, 'pg_class'), '') AS description
		FROM information_schema.tables t
		JOIN pg_namespace n ON n.nspname = t.table_schema
		JOIN pg_class c ON c.relnamespace = n.oid AND c.relname = t.table_name
		WHERE t.table_schema = current_schema()
			AND t.table_type = 'BASE TABLE'
			AND t.table_name NOT IN (SELECT table_name FROM table_catalog)
			AND t.table_name NOT IN ?
		ORDER BY t.table_name
	`, ownTables).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []permission.Table{}
	}
	return rows, nil
}
