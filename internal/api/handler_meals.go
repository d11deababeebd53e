package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type createMenuItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
}

// CreateMenuItem handles POST /api/menu-items (owner).
func (h *Handler) CreateMenuItem(c *gin.Context) {
	var req createMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.meals.CreateMenuItem(c.Request.Context(), identity(c), req.Name, req.Description, req.Category)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ListMenuItems handles GET /api/menu-items (owner).
func (h *Handler) ListMenuItems(c *gin.Context) {
	items, err := h.meals.MenuItemsForOwner(c.Request.Context(), identity(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type scheduleSlotRequest struct {
	HostelID   int64  `json:"hostel_id" binding:"required"`
	MenuItemID int64  `json:"menu_item_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	MealType   string `json:"meal_type" binding:"required"`
	TotalSeats int    `json:"total_seats"`
}

// ScheduleSlot handles POST /api/meal-slots (owner).
func (h *Handler) ScheduleSlot(c *gin.Context) {
	var req scheduleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := h.meals.ScheduleSlot(c.Request.Context(), identity(c),
		req.HostelID, req.MenuItemID, req.Date, req.MealType, req.TotalSeats)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// ListSlots handles GET /api/hostels/:hostel_id/meal-slots.
func (h *Handler) ListSlots(c *gin.Context) {
	hostelID, err := strconv.ParseInt(c.Param("hostel_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid hostel ID"})
		return
	}

	slots, err := h.meals.SlotsForHostel(c.Request.Context(), hostelID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// BookSlot handles POST /api/meal-slots/:id/bookings (resident).
func (h *Handler) BookSlot(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	booking, err := h.meals.BookSlot(c.Request.Context(), identity(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// ListBookings handles GET /api/bookings (resident).
func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.meals.BookingsForResident(c.Request.Context(), identity(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CancelBooking handles POST /api/bookings/:id/cancel (resident).
func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	booking, err := h.meals.CancelBooking(c.Request.Context(), identity(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
