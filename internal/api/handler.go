package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"staysync-backend/internal/mw"
	"staysync-backend/internal/store"
	"staysync-backend/internal/workflow"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store       store.Store
	hostels     *workflow.HostelService
	rooms       *workflow.RoomService
	meals       *workflow.MealService
	maintenance *workflow.MaintenanceService
	webpush     *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, hostels *workflow.HostelService, rooms *workflow.RoomService, meals *workflow.MealService, maintenance *workflow.MaintenanceService, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:       s,
		hostels:     hostels,
		rooms:       rooms,
		meals:       meals,
		maintenance: maintenance,
		webpush:     webpushOptions,
	}
}

// identity returns the opaque caller identity set by the middleware.
func identity(c *gin.Context) string {
	return c.GetString(mw.IdentityKey)
}
