package routes

import (
	"time"

	"tourly/handlers"
	"tourly/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle collects the handlers the router wires up.
type HandlerBundle struct {
	Booking *handlers.BookingHandler
	Payment *handlers.PaymentHandler
	Review  *handlers.ReviewHandler
	Stats   *handlers.StatsHandler
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.JWTAuthMiddleware())
	{
		bookings.GET("", hb.Booking.ListBookings)
		bookings.POST("", hb.Booking.CreateBooking)
		bookings.GET("/:id", hb.Booking.GetBooking)
		bookings.PUT("/:id/status", hb.Booking.UpdateBookingStatus)
	}
}

// RegisterPaymentRoutes registers payment creation and reconciliation endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *HandlerBundle) {
	payments := r.Group("/payments")
	{
		payments.GET("/methods", hb.Payment.ListMethods)

		protected := payments.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("", hb.Payment.CreatePayment)
		protected.POST("/momo/create", hb.Payment.MomoCreate)
		protected.GET("/status/:bookingId", hb.Payment.PaymentStatus)
	}
}

// RegisterReviewRoutes registers review endpoints.
func RegisterReviewRoutes(r *gin.Engine, hb *HandlerBundle) {
	reviews := r.Group("/reviews")
	reviews.Use(middleware.JWTAuthMiddleware())
	{
		reviews.GET("/tourist/:id", hb.Review.ListByTourist)
		reviews.POST("", hb.Review.CreateReview)
	}
}

// RegisterStatsRoutes registers the tourist loyalty read model endpoint.
func RegisterStatsRoutes(r *gin.Engine, hb *HandlerBundle) {
	tourist := r.Group("/tourist")
	tourist.Use(middleware.JWTAuthMiddleware())
	{
		tourist.GET("/:id/stats", hb.Stats.TouristStats)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthHandler)
	r.GET("/metrics", middleware.PrometheusHandler())

	RegisterBookingRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterReviewRoutes(r, hb)
	RegisterStatsRoutes(r, hb)
}
