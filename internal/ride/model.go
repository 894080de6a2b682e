package ride

import "time"

// Status is the ride lifecycle state.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether the status names a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Ride is one booked trip. The fare is fixed at booking time from the
// estimated route.
type Ride struct {
	ID              string    `json:"id"`
	RiderID         string    `json:"riderId"`
	CaptainID       string    `json:"captainId"`
	Pickup          string    `json:"pickup"`
	Destination     string    `json:"destination"`
	VehicleType     string    `json:"vehicleType"`
	Fare            float64   `json:"fare"`
	DistanceMeters  int       `json:"distanceMeters"`
	DurationSeconds int       `json:"durationSeconds"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
