package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createTicketRequest struct {
	HostelID    int64  `json:"hostel_id" binding:"required"`
	RoomLabel   string `json:"room_label"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// CreateTicket handles POST /api/tickets (resident).
func (h *Handler) CreateTicket(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.maintenance.CreateTicket(c.Request.Context(), identity(c),
		req.HostelID, req.RoomLabel, req.Category, req.Description)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// ListTickets handles GET /api/tickets. The role query selects the
// caller's view, mirroring ListApplications.
func (h *Handler) ListTickets(c *gin.Context) {
	var err error
	var tickets any
	if c.Query("role") == "owner" {
		tickets, err = h.maintenance.TicketsForOwner(c.Request.Context(), identity(c))
	} else {
		tickets, err = h.maintenance.TicketsForResident(c.Request.Context(), identity(c))
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

type setTicketStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetTicketStatus handles PATCH /api/tickets/:id/status (owner).
func (h *Handler) SetTicketStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req setTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.maintenance.SetStatus(c.Request.Context(), identity(c), id, req.Status)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}
