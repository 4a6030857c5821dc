package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/groupdir/groupdir/internal/service"
)

// UserHandler exposes the user operations of the directory.
type UserHandler struct {
	svc service.Directory
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(svc service.Directory) *UserHandler {
	return &UserHandler{svc: svc}
}

// createUserRequest defines the request body for user creation.
type createUserRequest struct {
	UserName string   `json:"userName"`
	GroupIDs []uint64 `json:"groupIds"`
}

// updateUserRequest defines the request body for user updates. Only the
// ids of the groups are authoritative; name and description are echoes.
type updateUserRequest struct {
	ID       uint64          `json:"id"`
	UserName string          `json:"userName"`
	Groups   []service.Group `json:"groups"`
}

// List returns all users with their memberships. An empty directory
// yields an empty array, not a 404.
func (h *UserHandler) List(c *gin.Context) {
	users, errList := h.svc.ListUsers(c.Request.Context())
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list users failed"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// Get returns a single user by id.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, errGet := h.svc.GetUser(c.Request.Context(), id)
	if errGet != nil {
		respondError(c, errGet, "get user failed")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Create adds a new user. Group ids that do not resolve to an existing
// group are dropped without error.
func (h *UserHandler) Create(c *gin.Context) {
	var body createUserRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	created, errAdd := h.svc.AddUser(c.Request.Context(), body.UserName, body.GroupIDs)
	if errAdd != nil {
		respondError(c, errAdd, "create user failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": created})
}

// Update renames a user and reconciles its group memberships, returning
// the updated shape.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body updateUserRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	updated, errUpdate := h.svc.UpdateUser(c.Request.Context(), id, body.UserName, body.Groups)
	if errUpdate != nil {
		respondError(c, errUpdate, "update user failed")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a user and its membership rows.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	found, errDelete := h.svc.DeleteUser(c.Request.Context(), id)
	if errDelete != nil {
		respondError(c, errDelete, "delete user failed")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.Status(http.StatusOK)
}

// Count returns the total number of users as a bare integer.
func (h *UserHandler) Count(c *gin.Context) {
	count, errCount := h.svc.CountUsers(c.Request.Context())
	if errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count users failed"})
		return
	}
	c.JSON(http.StatusOK, count)
}

// parseID extracts the numeric id path parameter, responding with 400 on
// malformed input.
func parseID(c *gin.Context) (uint64, bool) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// respondError maps domain errors onto HTTP status codes.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
