package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"staysync-backend/config"
	"staysync-backend/internal/mw"
	"staysync-backend/internal/store"
	"staysync-backend/internal/workflow"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.ServerConfig, s store.Store, hostels *workflow.HostelService, rooms *workflow.RoomService, meals *workflow.MealService, maintenance *workflow.MaintenanceService, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, hostels, rooms, meals, maintenance, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, cfg.RequestIPHeader)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter, mw.Identity(cfg.IdentityHeader))
	{
		api.GET("/hostels", caching, handler.ListHostels)
		api.GET("/hostels/:hostel_id/meal-slots", caching, handler.ListSlots)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		authed := api.Group("")
		authed.Use(mw.RequireIdentity())
		{
			authed.POST("/hostels", handler.CreateHostel)

			authed.POST("/applications", handler.CreateApplication)
			authed.GET("/applications", handler.ListApplications)
			authed.POST("/applications/:id/approve", handler.ApproveApplication)
			authed.POST("/applications/:id/reject", handler.RejectApplication)

			authed.POST("/menu-items", handler.CreateMenuItem)
			authed.GET("/menu-items", handler.ListMenuItems)
			authed.POST("/meal-slots", handler.ScheduleSlot)
			authed.POST("/meal-slots/:id/bookings", handler.BookSlot)
			authed.GET("/bookings", handler.ListBookings)
			authed.POST("/bookings/:id/cancel", handler.CancelBooking)

			authed.POST("/tickets", handler.CreateTicket)
			authed.GET("/tickets", handler.ListTickets)
			authed.PATCH("/tickets/:id/status", handler.SetTicketStatus)
		}
	}

	return r
}
