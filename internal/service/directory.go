// Package service defines the directory operation set and its
// store-backed implementation.
package service

import (
	"context"
	"errors"
)

// Operation outcome sentinels shared by every Directory implementation.
var (
	// ErrNotFound reports that a referenced user or group id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation reports a rejected input before any store access.
	ErrValidation = errors.New("validation failed")
)

// MaxUserNameLength bounds the user display name.
const MaxUserNameLength = 100

// Group is the transfer shape for a group. Listing shapes never nest
// permissions or member users.
type Group struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// User is the transfer shape for a user together with its memberships.
type User struct {
	ID       uint64  `json:"id"`
	UserName string  `json:"userName"`
	Groups   []Group `json:"groups"`
}

// Directory is the full directory operation set. Two implementations
// exist: Local runs against the store in-process, client.Client runs the
// same operations over the HTTP API. Deployments pick one; the semantics
// are identical from the caller's point of view.
//
// On UpdateUser the desired groups are authoritative by id only; their
// name and description fields are echoes and never written back.
type Directory interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id uint64) (*User, error)
	AddUser(ctx context.Context, userName string, groupIDs []uint64) (uint64, error)
	UpdateUser(ctx context.Context, id uint64, userName string, desired []Group) (*User, error)
	DeleteUser(ctx context.Context, id uint64) (bool, error)
	CountUsers(ctx context.Context) (int64, error)

	ListGroups(ctx context.Context) ([]Group, error)
	GetGroup(ctx context.Context, id uint64) (*Group, error)
	CountMembers(ctx context.Context, groupID uint64) (int64, error)
}
