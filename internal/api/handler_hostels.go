package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staysync-backend/internal/workflow"
)

type roomTypeRequest struct {
	Label  string `json:"label" binding:"required"`
	Total  int    `json:"total"`
	Vacant int    `json:"vacant"`
}

type createHostelRequest struct {
	Name      string            `json:"name" binding:"required"`
	Location  string            `json:"location"`
	Pincode   string            `json:"pincode" binding:"required"`
	RoomTypes []roomTypeRequest `json:"room_types" binding:"required"`
}

// CreateHostel handles POST /api/hostels.
func (h *Handler) CreateHostel(c *gin.Context) {
	var req createHostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	specs := make([]workflow.RoomTypeSpec, 0, len(req.RoomTypes))
	for _, rt := range req.RoomTypes {
		specs = append(specs, workflow.RoomTypeSpec{
			Label:  rt.Label,
			Total:  rt.Total,
			Vacant: rt.Vacant,
		})
	}

	hostel, err := h.hostels.CreateHostel(c.Request.Context(), identity(c), req.Name, req.Location, req.Pincode, specs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, hostel)
}

// ListHostels handles GET /api/hostels.
func (h *Handler) ListHostels(c *gin.Context) {
	hostels, err := h.hostels.ListHostels(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, hostels)
}
