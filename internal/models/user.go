package models

import "time"

// User is a directory account that can belong to any number of groups.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserName string `gorm:"type:text;not null"` // Display name.

	Groups []Group `gorm:"many2many:user_groups"` // Group memberships.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
