package routes

import (
	"time"

	"petmily/handlers"
	"petmily/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes sets up the endpoints for the booking lifecycle.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Booking.CreateBookingHandler)
		api.GET("/mine", hb.Booking.ListMyBookingsHandler)
		api.GET("/open-requests", hb.Booking.ListOpenRequestsHandler)
		api.GET("/:bookingId", hb.Booking.GetBookingHandler)
		api.PUT("/:bookingId/confirm", hb.Booking.ConfirmBookingHandler)
		api.PUT("/:bookingId/reject", hb.Booking.RejectBookingHandler)
		api.PUT("/:bookingId/cancel", hb.Booking.CancelBookingHandler)
		api.PUT("/:bookingId/apply", hb.Booking.ApplyToOpenRequestHandler)
	}
}

// RegisterWalkRoutes sets up the in-walk endpoints.
func RegisterWalkRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/walks")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/:bookingId/start", hb.Walk.StartWalkHandler)
		api.POST("/:bookingId/end", hb.Walk.CompleteWalkHandler)
		api.POST("/:bookingId/track", hb.Walk.IngestTrackHandler)
		api.GET("/:bookingId/track/realtime", hb.Walk.RealtimeTrackHandler)
		api.GET("/:bookingId/track/latest", hb.Walk.LatestTrackHandler)
		api.GET("/:bookingId/path", hb.Walk.GetWalkPathHandler)
		api.POST("/:bookingId/photos", hb.Walk.RecordPhotoHandler)
		api.POST("/:bookingId/photos/upload", hb.Walk.UploadPhotoHandler)
		api.POST("/:bookingId/termination", hb.Walk.ProposeTerminationHandler)
		api.PUT("/:bookingId/termination", hb.Walk.ResolveTerminationHandler)
		api.POST("/:bookingId/emergency", hb.Walk.EmergencyContactHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterWalkRoutes(r, hb)
}
