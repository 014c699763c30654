package bookings

import (
	"gamespace/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures the booking routes. Creation goes through
// the viewer's booking modal.
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public routes
	rg.GET("/bookings/available-slots", controller.GetAvailableSlots) // GET /api/v1/bookings/available-slots?tableId=&date=

	// Signed in users only
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.RequireAuth())
	{
		bookings.GET("", controller.GetUserBookings)        // GET /api/v1/bookings
		bookings.GET("/:id", controller.GetBooking)         // GET /api/v1/bookings/:id
		bookings.PUT("/:id", controller.UpdateBooking)      // PUT /api/v1/bookings/:id
		bookings.DELETE("/:id", controller.CancelBooking)   // DELETE /api/v1/bookings/:id
		bookings.GET("/:id/receipt", controller.GetReceipt) // GET /api/v1/bookings/:id/receipt
	}
}
