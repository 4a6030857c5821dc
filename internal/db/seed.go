package db

import (
	"context"
	"fmt"

	"github.com/groupdir/groupdir/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Seed populates bootstrap data when the users table is empty. It runs in a
// single transaction so a partially seeded directory is never observable.
// Calling it against an already populated store is a no-op.
func Seed(ctx context.Context, conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}

	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var userCount int64
		if errCount := tx.Model(&models.User{}).Count(&userCount).Error; errCount != nil {
			return fmt.Errorf("db: seed count users: %w", errCount)
		}
		if userCount > 0 {
			return nil
		}

		read := models.Permission{Name: "Read", Description: "Allows reading data"}
		write := models.Permission{Name: "Write", Description: "Allows writing data"}
		execute := models.Permission{Name: "Execute", Description: "Allows executing operations"}
		none := models.Permission{Name: "No permission", Description: "Grants nothing"}

		// Permissions are persisted first so the groups below attach the
		// same rows instead of inserting per-group copies.
		for _, perm := range []*models.Permission{&read, &write, &execute, &none} {
			if errCreate := tx.Create(perm).Error; errCreate != nil {
				return fmt.Errorf("db: seed permission %s: %w", perm.Name, errCreate)
			}
		}

		admin := models.Group{
			Name:        "Admin",
			Description: "Role with highest level of permissions",
			Permissions: []models.Permission{read, write, execute},
		}
		manager := models.Group{
			Name:        "Manager",
			Description: "Can read and write data",
			Permissions: []models.Permission{read, write},
		}
		user := models.Group{
			Name:        "User",
			Description: "Can read data",
			Permissions: []models.Permission{read},
		}
		guest := models.Group{
			Name:        "Guest",
			Description: "No access granted",
			Permissions: []models.Permission{none},
		}

		groups := []*models.Group{&admin, &manager, &user, &guest}
		for _, group := range groups {
			if errCreate := tx.Create(group).Error; errCreate != nil {
				return fmt.Errorf("db: seed group %s: %w", group.Name, errCreate)
			}
		}

		users := []models.User{
			{UserName: "Administrator", Groups: []models.Group{admin}},
			{UserName: "Manager", Groups: []models.Group{manager}},
			{UserName: "Guest", Groups: []models.Group{guest}},
		}
		for i := range users {
			if errCreate := tx.Create(&users[i]).Error; errCreate != nil {
				return fmt.Errorf("db: seed user %s: %w", users[i].UserName, errCreate)
			}
		}

		log.WithFields(log.Fields{
			"groups": len(groups),
			"users":  len(users),
		}).Info("seeded bootstrap directory data")
		return nil
	})
}
