package models

import "time"

// Group bundles a set of permissions and is assigned to users.
//
// Member users are reachable only through the user_groups join table; the
// struct deliberately carries no back-reference to avoid a live object
// cycle between users and groups.
type Group struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name        string `gorm:"type:text;not null;uniqueIndex"` // Display name.
	Description string `gorm:"type:text"`                      // Optional description.

	Permissions []Permission `gorm:"many2many:group_permissions"` // Granted permissions.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
