package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type applyRequest struct {
	HostelID      int64  `json:"hostel_id" binding:"required"`
	RoomTypeLabel string `json:"room_type_label" binding:"required"`
}

// CreateApplication handles POST /api/applications (resident).
func (h *Handler) CreateApplication(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.rooms.Apply(c.Request.Context(), identity(c), req.HostelID, req.RoomTypeLabel)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// ListApplications handles GET /api/applications. The role query selects
// the caller's view: their own applications (resident, the default) or
// the ones addressed to them (owner).
func (h *Handler) ListApplications(c *gin.Context) {
	var err error
	var apps any
	if c.Query("role") == "owner" {
		apps, err = h.rooms.ApplicationsForOwner(c.Request.Context(), identity(c))
	} else {
		apps, err = h.rooms.ApplicationsForResident(c.Request.Context(), identity(c))
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// pathID parses the :id path parameter.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// ApproveApplication handles POST /api/applications/:id/approve (owner).
func (h *Handler) ApproveApplication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	app, err := h.rooms.Approve(c.Request.Context(), identity(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// RejectApplication handles POST /api/applications/:id/reject (owner).
func (h *Handler) RejectApplication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	app, err := h.rooms.Reject(c.Request.Context(), identity(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}
