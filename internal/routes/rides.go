package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gocab/gocab/internal/ride"
)

// RegisterRideRoutes wires the ride lifecycle endpoints. Booking carries the
// idempotency guard so a retried request cannot create a second ride.
func RegisterRideRoutes(r fiber.Router, h *ride.Handler, idempotency fiber.Handler) {
	group := r.Group("/rides")
	if idempotency != nil {
		group.Post("/", idempotency, h.Book)
	} else {
		group.Post("/", h.Book)
	}
	group.Patch("/status", h.UpdateStatus)
	group.Get("/", h.History)
	group.Get("/:rideId", h.Get)
}
