package identity

import "time"

// Role tags which store a principal belongs to.
type Role string

const (
	// RoleRider is the passenger-facing principal type.
	RoleRider Role = "user"
	// RoleCaptain is the driver-facing principal type.
	RoleCaptain Role = "captain"
)

// Valid reports whether the role names one of the two principal stores.
func (r Role) Valid() bool {
	return r == RoleRider || r == RoleCaptain
}

// Vehicle describes a captain's registered vehicle.
type Vehicle struct {
	Type     string `json:"vehicleType"`
	Color    string `json:"vehicleColor"`
	Plate    string `json:"vehiclePlate"`
	Capacity int    `json:"vehicleCapacity"`
}

// Principal is an authenticated identity, either a rider or a captain. The
// two roles share the identity attributes; captains additionally carry
// vehicle details and an availability status. Password hashes are optional:
// captains register without one and log in by OTP only.
type Principal struct {
	ID           string
	Role         Role
	FirstName    string
	LastName     string
	Email        string
	CountryCode  string
	Phone        string
	Gender       string
	PasswordHash []byte
	IsVerified   bool
	IsKycDone    bool
	AvatarURL    string
	Vehicle      *Vehicle
	Active       bool
	CreatedAt    time.Time
}

// Public is the client-visible projection of a principal. Secret fields are
// omitted by construction.
type Public struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	CountryCode string    `json:"countryCode"`
	Phone       string    `json:"phoneNumber"`
	Gender      string    `json:"gender"`
	IsVerified  bool      `json:"isVerified"`
	IsKycDone   bool      `json:"isKycDone"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Vehicle     *Vehicle  `json:"vehicle,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Public returns the sanitized projection of the principal.
func (p Principal) Public() Public {
	return Public{
		ID:          p.ID,
		Role:        p.Role,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		CountryCode: p.CountryCode,
		Phone:       p.Phone,
		Gender:      p.Gender,
		IsVerified:  p.IsVerified,
		IsKycDone:   p.IsKycDone,
		AvatarURL:   p.AvatarURL,
		Vehicle:     p.Vehicle,
		CreatedAt:   p.CreatedAt,
	}
}
