package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/groupdir/groupdir/internal/service"
)

// GroupHandler exposes the read-only group operations of the directory.
type GroupHandler struct {
	svc service.Directory
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(svc service.Directory) *GroupHandler {
	return &GroupHandler{svc: svc}
}

// List returns all groups.
func (h *GroupHandler) List(c *gin.Context) {
	groups, errList := h.svc.ListGroups(c.Request.Context())
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list groups failed"})
		return
	}
	c.JSON(http.StatusOK, groups)
}

// Get returns a single group by id.
func (h *GroupHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	group, errGet := h.svc.GetGroup(c.Request.Context(), id)
	if errGet != nil {
		respondError(c, errGet, "get group failed")
		return
	}
	c.JSON(http.StatusOK, group)
}

// UserCount returns the number of users in the group as a bare integer.
func (h *GroupHandler) UserCount(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	count, errCount := h.svc.CountMembers(c.Request.Context(), id)
	if errCount != nil {
		respondError(c, errCount, "count group members failed")
		return
	}
	c.JSON(http.StatusOK, count)
}
