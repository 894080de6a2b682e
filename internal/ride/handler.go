package ride

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gocab/gocab/internal/fare"
	"github.com/gocab/gocab/internal/httpx"
	"github.com/gocab/gocab/internal/maps"
	"github.com/gocab/gocab/internal/middleware"
)

// Handler exposes the ride endpoints. All routes sit behind the auth gate.
type Handler struct {
	svc *Service
}

// NewHandler builds the ride handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Book handles POST /rides.
func (h *Handler) Book(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return httpx.Unauthorized(httpx.ReasonMissingToken, "missing authentication token")
	}

	var req struct {
		Pickup      string `json:"pickup"`
		Destination string `json:"destination"`
		VehicleType string `json:"vehicleType"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httpx.Validation("invalid request body")
	}

	booked, err := h.svc.Book(c.UserContext(), p.ID, req.Pickup, req.Destination, req.VehicleType)
	if err != nil {
		return mapBookErr(err)
	}
	return httpx.JSON(c, http.StatusCreated, booked, "ride booked")
}

// UpdateStatus handles PATCH /rides/status.
func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	var req struct {
		RideID string `json:"rideId"`
		Status Status `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httpx.Validation("invalid request body")
	}
	if req.RideID == "" {
		return httpx.Validation("rideId is required")
	}

	updated, err := h.svc.UpdateStatus(c.UserContext(), req.RideID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return httpx.NotFound("ride not found")
		case errors.Is(err, ErrBadTransition):
			return httpx.Validation("invalid status transition")
		default:
			return httpx.Internal("ride update failed")
		}
	}
	return httpx.JSON(c, http.StatusOK, updated, "ride updated")
}

// Get handles GET /rides/:rideId.
func (h *Handler) Get(c *fiber.Ctx) error {
	r, err := h.svc.Get(c.UserContext(), c.Params("rideId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return httpx.NotFound("ride not found")
		}
		return httpx.Internal("ride lookup failed")
	}
	return httpx.JSON(c, http.StatusOK, r, "ok")
}

// History handles GET /rides.
func (h *Handler) History(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return httpx.Unauthorized(httpx.ReasonMissingToken, "missing authentication token")
	}
	rides, err := h.svc.History(c.UserContext(), p.ID)
	if err != nil {
		return httpx.Internal("ride lookup failed")
	}
	return httpx.JSON(c, http.StatusOK, rides, "ok")
}

func mapBookErr(err error) error {
	switch {
	case errors.Is(err, ErrMissingFields):
		return httpx.Validation(ErrMissingFields.Error())
	case errors.Is(err, ErrNoCaptains):
		return httpx.NotFound("no available captains")
	case errors.Is(err, maps.ErrNoResults):
		return httpx.Validation("unable to resolve the requested route")
	case errors.Is(err, fare.ErrRateNotFound):
		return httpx.Validation("unknown vehicle type")
	default:
		return httpx.Internal("ride booking failed")
	}
}
