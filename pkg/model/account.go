package model

import "time"

// Account is a console user
type Account struct {
	ID           int64     `gorm:"column:account_id;primaryKey;autoIncrement"`
	Name         string    `gorm:"column:account_name"`
	Email        string    `gorm:"column:account_email;uniqueIndex"`
	PhoneNumber  *string   `gorm:"column:phone_number"`
	Sex          string    `gorm:"column:sex;default:2"`
	Avatar       *string   `gorm:"column:avatar"`
	Status       string    `gorm:"column:status;default:0"`
	Remark       *string   `gorm:"column:remark"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string {
	return "accounts"
}

// IsActive reports whether the account may log in
func (a Account) IsActive() bool {
	return a.Status == "0"
}

// AccountRole assigns a role to an account
type AccountRole struct {
	AccountID int64 `gorm:"column:account_id;primaryKey"`
	RoleID    int64 `gorm:"column:role_id;primaryKey"`
}

func (AccountRole) TableName() string {
	return "account_roles"
}
