package model

import "time"

// Role is a named permission set
type Role struct {
	ID        int64     `gorm:"column:role_id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:role_name;uniqueIndex"`
	Status    string    `gorm:"column:status;default:0"`
	Remark    *string   `gorm:"column:remark"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Role) TableName() string {
	return "roles"
}
