package models

import "time"

// Recycling is one reported recycling event.
//
// Quantity lives in the historical "kg" column but holds a unit count since
// the points redesign; the float type is kept so the auditor can detect
// leftover mass-based rows, which are never fractional under the new scheme.
type Recycling struct {
	ID       uint    `gorm:"column:id;primaryKey;autoIncrement"`
	UserID   uint    `gorm:"column:user_id;not null;index"`
	Material string  `gorm:"column:material;type:text;not null"`
	Quantity float64 `gorm:"column:kg;not null"`
	Points   int     `gorm:"column:points;not null"`
	Date     string  `gorm:"column:date;type:text;not null"`
	Center   string  `gorm:"column:center;type:text;not null"`
	Item     string  `gorm:"column:item;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the table shared with the pre-rewrite deployment.
func (Recycling) TableName() string {
	return "recyclings"
}
