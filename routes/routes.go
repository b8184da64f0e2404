package routes

import (
	"parkhive/handlers"
	"parkhive/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all endpoints for the parking reservation API.
func RegisterRoutes(r *gin.Engine, h *handlers.ReservationHandler) {
	r.GET("/health", handlers.Health)

	parking := r.Group("/api/parking")
	parking.Use(middleware.JWTAuthMiddleware())
	{
		parking.POST("/reserve", h.Reserve)
		parking.PUT("/reservation", h.Update)
		parking.DELETE("/reservation", h.Cancel)
		parking.POST("/verify", h.Verify)
		parking.GET("/status", h.GetStatus)
		parking.GET("/available", h.AvailableSlots)
		parking.GET("/user/reservations", h.GetUserReservations)
	}

	admin := parking.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware())
	{
		admin.GET("/reservations", h.GetAllReservations)
		admin.DELETE("/reservation/:id", h.AdminDelete)
	}
}
