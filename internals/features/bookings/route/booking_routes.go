// file: internals/features/bookings/route/booking_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	bookingController "trekmandu_backend/internals/features/bookings/controller"
)

// BookingRoutes mounts the public booking endpoints.
func BookingRoutes(public fiber.Router, db *gorm.DB) {
	ctl := bookingController.NewBookingController(db)

	bookings := public.Group("/bookings")
	bookings.Post("/", ctl.CreateBooking)
	bookings.Get("/:id", ctl.GetRegistration)
}

// AttendanceRoutes mounts the operator-only attendance marker.
func AttendanceRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := bookingController.NewBookingController(db)

	admin.Post("/participants/:id/attend", ctl.MarkAttendance)
}
