package gorm

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/tablegrant/pkg/model"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
)

// Ensure AccountsStore implements store.AccountsStore
var _ store.AccountsStore = (*AccountsStore)(nil)

// AccountsStore implements store.AccountsStore using GORM
type AccountsStore struct {
	db *gorm.DB
}

// NewAccountsStore creates a new AccountsStore
func NewAccountsStore(db *gorm.DB) *AccountsStore {
	return &AccountsStore{db: db}
}

func toStoreAccount(a model.Account) store.Account {
	return store.Account{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		PhoneNumber:  a.PhoneNumber,
		Sex:          a.Sex,
		Avatar:       a.Avatar,
		Status:       a.Status,
		Remark:       a.Remark,
		PasswordHash: a.PasswordHash,
		Roles:        []store.RoleRef{},
	}
}

// likeEscaper makes ILIKE match wildcard characters literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func filtered(db *gorm.DB, f store.AccountFilter) *gorm.DB {
	q := db.Model(&model.Account{})
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		like := "%" + likeEscaper.Replace(kw) + "%"
		q = q.Where(`account_name ILIKE ? ESCAPE '\' OR account_email ILIKE ? ESCAPE '\' OR phone_number ILIKE ? ESCAPE '\'`, like, like, like)
	}
	if f.RoleID != 0 {
		q = q.Where("account_id IN (SELECT account_id FROM account_roles WHERE role_id = ?)", f.RoleID)
	}
	return q
}

// ListAccounts returns one page of accounts ordered by id
func (s *AccountsStore) ListAccounts(ctx context.Context, f store.AccountFilter) ([]store.Account, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := filtered(db, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	accounts := []store.Account{}
	if total == 0 {
		return accounts, 0, nil
	}

	var rows []model.Account
	q := filtered(db, f).Order("account_id")
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
		return accounts, total, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	roles, err := rolesFor(db, ids)
	if err != nil {
		return nil, 0, err
	}

	for _, row := range rows {
		a := toStoreAccount(row)
		if r, ok := roles[row.ID]; ok {
			a.Roles = r
		}
		accounts = append(accounts, a)
	}
	return accounts, total, nil
}

func rolesFor(db *gorm.DB, accountIDs []int64) (map[int64][]store.RoleRef, error) {
	type roleRow struct {
		AccountID int64  `gorm:"column:account_id"`
		RoleID    int64  `gorm:"column:role_id"`
		RoleName  string `gorm:"column:role_name"`
	}
	var rows []roleRow
	err := db.Raw(`
		SELECT ar.account_id, r.role_id, r.role_name
		FROM account_roles ar
		JOIN roles r ON r.role_id = ar.role_id
		WHERE ar.account_id IN ?
		ORDER BY ar.account_id, r.role_id
	`, accountIDs).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[int64][]store.RoleRef, len(accountIDs))
	for _, row := range rows {
		out[row.AccountID] = append(out[row.AccountID], store.RoleRef{ID: row.RoleID, Name: row.RoleName})
	}
	return out, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// CreateAccount creates an account and assigns its roles in one transaction
func (s *AccountsStore) CreateAccount(ctx context.Context, a store.NewAccount) (*store.Account, error) {
	var created *store.Account
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken bool
		if err := tx.Raw(`SELECT EXISTS(SELECT 1 FROM accounts WHERE LOWER(account_email) = LOWER(?))`, a.Email).Scan(&taken).Error; err != nil {
			return err
		}
		if taken {
			return store.ErrEmailTaken
		}

		row := model.Account{
			Name:         a.Name,
			Email:        a.Email,
			PhoneNumber:  nullable(a.PhoneNumber),
			Sex:          a.Sex,
			Status:       a.Status,
			Remark:       nullable(a.Remark),
			PasswordHash: a.PasswordHash,
		}
		err := tx.Raw(`
			INSERT INTO accounts (account_name, account_email, phone_number, sex, status, remark, password_hash)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING account_id
		`, row.Name, row.Email, row.PhoneNumber, row.Sex, row.Status, row.Remark, row.PasswordHash).Scan(&row.ID).Error
		if err != nil {
			return err
		}

		if len(a.Roles) > 0 {
			links := make([]model.AccountRole, 0, len(a.Roles))
			for _, roleID := range a.Roles {
				links = append(links, model.AccountRole{AccountID: row.ID, RoleID: roleID})
			}
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}

		roles, err := rolesFor(tx, []int64{row.ID})
		if err != nil {
			return err
		}
		account := toStoreAccount(row)
		if r, ok := roles[row.ID]; ok {
			account.Roles = r
		}
		created = &account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// FindByEmail returns the account with the email, case-insensitively
func (s *AccountsStore) FindByEmail(ctx context.Context, email string) (*store.Account, error) {
	return findAccount(s.db.WithContext(ctx), "LOWER(account_email) = LOWER(?)", email)
}

// FindByID returns the account with the id
func (s *AccountsStore) FindByID(ctx context.Context, id int64) (*store.Account, error) {
	return findAccount(s.db.WithContext(ctx), "account_id = ?", id)
}

func findAccount(db *gorm.DB, query string, args ...interface{}) (*store.Account, error) {
	var row model.Account
	if err := db.Where(query, args...).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrAccountNotFound
		}
		return nil, err
	}

	roles, err := rolesFor(db, []int64{row.ID})
	if err != nil {
		return nil, err
	}
	account := toStoreAccount(row)
	if r, ok := roles[row.ID]; ok {
		account.Roles = r
	}
	return &account, nil
}

// UpdateAccount replaces the fields and role links of an account
func (s *AccountsStore) UpdateAccount(ctx context.Context, id int64, u store.AccountUpdate) (*store.Account, error) {
	var updated *store.Account
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists bool
		if err := tx.Raw(`SELECT EXISTS(SELECT 1 FROM accounts WHERE account_id = ?)`, id).Scan(&exists).Error; err != nil {
			return err
		}
		if !exists {
			return store.ErrAccountNotFound
		}

		var taken bool
		err := tx.Raw(`SELECT EXISTS(SELECT 1 FROM accounts WHERE LOWER(account_email) = LOWER(?) AND account_id <> ?)`, u.Email, id).Scan(&taken).Error
		if err != nil {
			return err
		}
		if taken {
			return store.ErrEmailTaken
		}

		err = tx.Exec(`
			UPDATE accounts
			SET account_name = ?, account_email = ?, phone_number = ?, sex = ?, status = ?, remark = ?, updated_at = NOW()
			WHERE account_id = ?
		`, u.Name, u.Email, nullable(u.PhoneNumber), u.Sex, u.Status, nullable(u.Remark), id).Error
		if err != nil {
			return err
		}

		if err := tx.Exec(`DELETE FROM account_roles WHERE account_id = ?`, id).Error; err != nil {
			return err
		}
		if len(u.Roles) > 0 {
			links := make([]model.AccountRole, 0, len(u.Roles))
			for _, roleID := range u.Roles {
				links = append(links, model.AccountRole{AccountID: id, RoleID: roleID})
			}
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}

		updated, err = findAccount(tx, "account_id = ?", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateProfile changes the name and sex of an account
func (s *AccountsStore) UpdateProfile(ctx context.Context, id int64, u store.ProfileUpdate) error {
	return updateOne(s.db.WithContext(ctx).Exec(
		`UPDATE accounts SET account_name = ?, sex = ?, updated_at = NOW() WHERE account_id = ?`,
		u.Name, u.Sex, id,
	))
}

// UpdatePassword replaces the password hash of an account
func (s *AccountsStore) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return updateOne(s.db.WithContext(ctx).Exec(
		`UPDATE accounts SET password_hash = ?, updated_at = NOW() WHERE account_id = ?`,
		hash, id,
	))
}

func updateOne(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrAccountNotFound
	}
	return nil
}
