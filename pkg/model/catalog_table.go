package model

import (
	"time"

	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
)

// CatalogTable is a table that roles can be granted capabilities on
type CatalogTable struct {
	Name        string    `gorm:"column:table_name;primaryKey"`
	Description string    `gorm:"column:table_comment"`
	Position    int       `gorm:"column:position"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CatalogTable) TableName() string {
	return "table_catalog"
}

func (t CatalogTable) Table() permission.Table {
	return permission.Table{Name: t.Name, Description: t.Description}
}
