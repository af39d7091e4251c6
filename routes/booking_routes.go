package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/riaddisiena/backend/controllers/booking_controller"
	middleware "github.com/riaddisiena/backend/middlewares"
	"github.com/riaddisiena/backend/middlewares/auth"
)

func RegisterBookingRoutes(router *gin.Engine, bc *booking_controller.BookingController) {
	router.GET("/bookings", bc.ListBookings)
	router.POST("/bookings", middleware.NewRateLimiter("10-1m", "createBooking"), bc.CreateBooking)
	router.GET("/availability", bc.Availability)

	// Protected routes
	admin := router.Group("/admin")
	admin.Use(auth.AuthMiddleware())
	{
		admin.GET("/bookings", bc.AdminListBookings)
		admin.POST("/bookings", bc.AdminCreateBooking)
		admin.PUT("/bookings/:rowIndex", bc.AdminUpdateBooking)
	}
}
