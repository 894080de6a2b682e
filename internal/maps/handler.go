package maps

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gocab/gocab/internal/httpx"
)

// Handler exposes the geocoding endpoints.
type Handler struct {
	geo Geocoder
}

// NewHandler builds the maps handler.
func NewHandler(geo Geocoder) *Handler {
	return &Handler{geo: geo}
}

// Geocode handles GET /maps/geocode?address=.
func (h *Handler) Geocode(c *fiber.Ctx) error {
	address := c.Query("address")
	if address == "" {
		return httpx.Validation("address is required")
	}
	loc, err := h.geo.Geocode(c.UserContext(), address)
	if err != nil {
		return mapErr(err, "unable to fetch coordinates for the requested address")
	}
	return httpx.JSON(c, http.StatusOK, loc, "ok")
}

// Distance handles GET /maps/distance?origin=&destination=.
func (h *Handler) Distance(c *fiber.Ctx) error {
	origin, destination := c.Query("origin"), c.Query("destination")
	if origin == "" || destination == "" {
		return httpx.Validation("origin and destination are required")
	}
	route, err := h.geo.Distance(c.UserContext(), origin, destination)
	if err != nil {
		return mapErr(err, "unable to fetch time and distance for the requested route")
	}
	return httpx.JSON(c, http.StatusOK, route, "ok")
}

// Autocomplete handles GET /maps/autocomplete?input=.
func (h *Handler) Autocomplete(c *fiber.Ctx) error {
	input := c.Query("input")
	if input == "" {
		return httpx.Validation("input is required")
	}
	suggestions, err := h.geo.Autocomplete(c.UserContext(), input)
	if err != nil {
		return mapErr(err, "unable to fetch autocomplete suggestions")
	}
	return httpx.JSON(c, http.StatusOK, suggestions, "ok")
}

func mapErr(err error, message string) error {
	if errors.Is(err, ErrNoResults) {
		return httpx.Validation(message)
	}
	return httpx.Internal("maps provider failure")
}
