// file: internals/features/events/route/event_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventController "trekmandu_backend/internals/features/events/controller"
)

// EventRoutes mounts the public trek event catalog.
func EventRoutes(public fiber.Router, db *gorm.DB) {
	ctl := eventController.NewTrekEventController(db)

	events := public.Group("/events")
	events.Get("/", ctl.List)
	events.Get("/:id", ctl.Detail)
}
