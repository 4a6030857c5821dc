package db

import (
	"fmt"

	"github.com/groupdir/groupdir/internal/models"
	"gorm.io/gorm"
)

// Migrate applies the directory schema. The user_groups and
// group_permissions join tables are created through the many2many
// associations on the entity structs.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if err := conn.AutoMigrate(
		&models.Permission{},
		&models.Group{},
		&models.User{},
	); err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}
	return nil
}
