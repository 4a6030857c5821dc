package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/groupdir/groupdir/internal/membership"
	"github.com/groupdir/groupdir/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Local implements Directory directly against the relational store. Every
// mutating operation runs inside one transaction; readers use a plain
// request-scoped session.
type Local struct {
	db *gorm.DB
}

// NewLocal constructs a store-backed Directory.
func NewLocal(db *gorm.DB) *Local {
	return &Local{db: db}
}

// ListUsers returns all users with their memberships eagerly loaded.
func (s *Local) ListUsers(ctx context.Context) ([]User, error) {
	var rows []models.User
	if errFind := s.db.WithContext(ctx).Preload("Groups").Order("id ASC").Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("list users: %w", errFind)
	}
	out := make([]User, 0, len(rows))
	for i := range rows {
		out = append(out, toUserShape(&rows[i]))
	}
	return out, nil
}

// GetUser returns one user with its memberships, or ErrNotFound.
func (s *Local) GetUser(ctx context.Context, id uint64) (*User, error) {
	var row models.User
	errFind := s.db.WithContext(ctx).Preload("Groups").First(&row, id).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, errFind)
	}
	shape := toUserShape(&row)
	return &shape, nil
}

// AddUser creates a user and attaches the given groups. Ids that do not
// resolve to an existing group are dropped without error. Returns the
// server-assigned user id.
func (s *Local) AddUser(ctx context.Context, userName string, groupIDs []uint64) (uint64, error) {
	name, errName := normalizeUserName(userName)
	if errName != nil {
		return 0, errName
	}

	var created uint64
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		groups, errResolve := resolveGroups(tx, groupIDs)
		if errResolve != nil {
			return errResolve
		}
		row := models.User{UserName: name, Groups: groups}
		if errCreate := tx.Create(&row).Error; errCreate != nil {
			return fmt.Errorf("create user: %w", errCreate)
		}
		created = row.ID
		return nil
	})
	if errTx != nil {
		return 0, errTx
	}
	return created, nil
}

// UpdateUser sets the user's name and reconciles its memberships against
// the desired group set. Only the ids of the desired groups are
// authoritative. Returns the updated user shape built from post-commit
// state, or ErrNotFound for an unknown user id.
func (s *Local) UpdateUser(ctx context.Context, id uint64, userName string, desired []Group) (*User, error) {
	name, errName := normalizeUserName(userName)
	if errName != nil {
		return nil, errName
	}

	var out User
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.User
		if errFind := tx.Preload("Groups").First(&row, id).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load user %d: %w", id, errFind)
		}

		currentIDs := make([]uint64, 0, len(row.Groups))
		for _, group := range row.Groups {
			currentIDs = append(currentIDs, group.ID)
		}
		desiredIDs := make([]uint64, 0, len(desired))
		for _, group := range desired {
			desiredIDs = append(desiredIDs, group.ID)
		}

		delta := membership.Reconcile(currentIDs, desiredIDs)

		if len(delta.Add) > 0 {
			toAttach, errResolve := resolveGroups(tx, delta.Add)
			if errResolve != nil {
				return errResolve
			}
			if len(toAttach) > 0 {
				if errAppend := tx.Model(&row).Association("Groups").Append(&toAttach); errAppend != nil {
					return fmt.Errorf("attach groups: %w", errAppend)
				}
			}
		}
		if len(delta.Remove) > 0 {
			toDetach := make([]models.Group, 0, len(delta.Remove))
			for _, groupID := range delta.Remove {
				toDetach = append(toDetach, models.Group{ID: groupID})
			}
			if errDelete := tx.Model(&row).Association("Groups").Delete(&toDetach); errDelete != nil {
				return fmt.Errorf("detach groups: %w", errDelete)
			}
		}

		if errName := tx.Model(&row).Update("user_name", name).Error; errName != nil {
			return fmt.Errorf("update user name: %w", errName)
		}

		var updated models.User
		if errReload := tx.Preload("Groups").First(&updated, id).Error; errReload != nil {
			return fmt.Errorf("reload user %d: %w", id, errReload)
		}
		out = toUserShape(&updated)
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return &out, nil
}

// DeleteUser removes the user and its membership rows. The boolean
// reports whether the user existed; deleting an unknown id is not an
// error. Referenced groups are never deleted.
func (s *Local) DeleteUser(ctx context.Context, id uint64) (bool, error) {
	found := false
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.User
		if errFind := tx.First(&row, id).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("load user %d: %w", id, errFind)
		}
		if errDelete := tx.Select(clause.Associations).Delete(&row).Error; errDelete != nil {
			return fmt.Errorf("delete user %d: %w", id, errDelete)
		}
		found = true
		return nil
	})
	if errTx != nil {
		return false, errTx
	}
	return found, nil
}

// CountUsers returns the total number of users.
func (s *Local) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if errCount := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; errCount != nil {
		return 0, fmt.Errorf("count users: %w", errCount)
	}
	return count, nil
}

// ListGroups returns all groups as transfer shapes.
func (s *Local) ListGroups(ctx context.Context) ([]Group, error) {
	var rows []models.Group
	if errFind := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("list groups: %w", errFind)
	}
	out := make([]Group, 0, len(rows))
	for i := range rows {
		out = append(out, toGroupShape(&rows[i]))
	}
	return out, nil
}

// GetGroup returns one group, or ErrNotFound.
func (s *Local) GetGroup(ctx context.Context, id uint64) (*Group, error) {
	var row models.Group
	errFind := s.db.WithContext(ctx).First(&row, id).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get group %d: %w", id, errFind)
	}
	shape := toGroupShape(&row)
	return &shape, nil
}

// CountMembers returns the number of distinct users in the group, or
// ErrNotFound for an unknown group id.
func (s *Local) CountMembers(ctx context.Context, groupID uint64) (int64, error) {
	tx := s.db.WithContext(ctx)

	var row models.Group
	if errFind := tx.Select("id").First(&row, groupID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("get group %d: %w", groupID, errFind)
	}

	var count int64
	if errCount := tx.Table("user_groups").
		Where("group_id = ?", groupID).
		Distinct("user_id").
		Count(&count).Error; errCount != nil {
		return 0, fmt.Errorf("count members of group %d: %w", groupID, errCount)
	}
	return count, nil
}

// resolveGroups loads the groups matching the given ids. Unknown ids are
// silently dropped; supplying none returns an empty slice.
func resolveGroups(tx *gorm.DB, groupIDs []uint64) ([]models.Group, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	var groups []models.Group
	if errFind := tx.Where("id IN ?", groupIDs).Find(&groups).Error; errFind != nil {
		return nil, fmt.Errorf("resolve groups: %w", errFind)
	}
	return groups, nil
}

// normalizeUserName trims and validates a user display name.
func normalizeUserName(userName string) (string, error) {
	name := strings.TrimSpace(userName)
	if name == "" {
		return "", fmt.Errorf("%w: user name is required", ErrValidation)
	}
	if len(name) > MaxUserNameLength {
		return "", fmt.Errorf("%w: user name exceeds %d characters", ErrValidation, MaxUserNameLength)
	}
	return name, nil
}

func toUserShape(row *models.User) User {
	groups := make([]Group, 0, len(row.Groups))
	for i := range row.Groups {
		groups = append(groups, toGroupShape(&row.Groups[i]))
	}
	return User{ID: row.ID, UserName: row.UserName, Groups: groups}
}

func toGroupShape(row *models.Group) Group {
	return Group{ID: row.ID, Name: row.Name, Description: row.Description}
}
