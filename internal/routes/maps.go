package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gocab/gocab/internal/maps"
)

// RegisterMapsRoutes wires geocoding and routing endpoints.
func RegisterMapsRoutes(r fiber.Router, h *maps.Handler) {
	group := r.Group("/maps")
	group.Get("/geocode", h.Geocode)
	group.Get("/distance", h.Distance)
	group.Get("/autocomplete", h.Autocomplete)
}
