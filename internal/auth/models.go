package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role is a demo session role
type Role string

const (
	RoleRider  Role = "rider"
	RoleDriver Role = "driver"
	RoleAdmin  Role = "admin"
)

// LoginRequest is the mock login payload. Any credentials are accepted;
// the role decides which surface the session can reach.
type LoginRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=4"`
	Role            string `json:"role" validate:"required,user_role"`
	Name            string `json:"name,omitempty" validate:"omitempty,min=2,max=80"`
	VehicleCategory string `json:"vehicle_category,omitempty" validate:"omitempty,vehicle_category"`
}

// UpdateProfileRequest is the payload for editing the session profile
type UpdateProfileRequest struct {
	Name  string `json:"name,omitempty" validate:"omitempty,min=2,max=80"`
	Phone string `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
}

// User is the demo identity minted at login
type User struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone,omitempty"`
	Role            Role      `json:"role"`
	VehicleCategory string    `json:"vehicle_category,omitempty"`
}

// LoginResponse carries the session token and the minted identity
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}
