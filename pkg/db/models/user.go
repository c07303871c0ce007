package models

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an account that can submit recycling events.
type User struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string    `gorm:"column:username;type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;not null;default:user"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// IsAdmin reports whether the account has ledger-wide visibility.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
