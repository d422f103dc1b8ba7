package vehicles

import (
	"time"

	"github.com/google/uuid"
)

// Category is the vehicle category riders choose from
type Category string

const (
	CategoryEconomy Category = "economy"
	CategorySedan   Category = "sedan"
	CategorySUV     Category = "suv"
	CategoryPremium Category = "premium"
)

// ValidCategory reports whether s is a known vehicle category
func ValidCategory(s string) bool {
	switch Category(s) {
	case CategoryEconomy, CategorySedan, CategorySUV, CategoryPremium:
		return true
	}
	return false
}

// Vehicle represents a vehicle in the fleet
type Vehicle struct {
	ID          uuid.UUID `json:"id"`
	DriverName  string    `json:"driver_name"`
	Model       string    `json:"model"`
	PlateNumber string    `json:"plate_number"`
	Category    Category  `json:"category"`
	PricePerKm  float64   `json:"price_per_km"`
	Rating      float64   `json:"rating"`
	Seats       int       `json:"seats"`
	Available   bool      `json:"available"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Position is a vehicle's live map coordinate
type Position struct {
	VehicleID uuid.UUID `json:"vehicle_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Available bool      `json:"available"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SeedFleet returns the demo fleet the store starts with. Coordinates are
// spread around central Lima.
func SeedFleet() []*Vehicle {
	now := time.Now()
	return []*Vehicle{
		{
			ID:          uuid.New(),
			DriverName:  "Carlos Mendoza",
			Model:       "Toyota Corolla",
			PlateNumber: "ABC-123",
			Category:    CategorySedan,
			PricePerKm:  2.5,
			Rating:      4.7,
			Seats:       4,
			Available:   true,
			Latitude:    -12.0464,
			Longitude:   -77.0428,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New(),
			DriverName:  "María Torres",
			Model:       "Honda CR-V",
			PlateNumber: "DEF-456",
			Category:    CategorySUV,
			PricePerKm:  3.5,
			Rating:      4.8,
			Seats:       6,
			Available:   true,
			Latitude:    -12.0521,
			Longitude:   -77.0365,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New(),
			DriverName:  "Jorge Ramírez",
			Model:       "BMW Serie 3",
			PlateNumber: "GHI-789",
			Category:    CategoryPremium,
			PricePerKm:  5.0,
			Rating:      4.9,
			Seats:       4,
			Available:   true,
			Latitude:    -12.0432,
			Longitude:   -77.0311,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New(),
			DriverName:  "Lucía Fernández",
			Model:       "Nissan Versa",
			PlateNumber: "JKL-012",
			Category:    CategoryEconomy,
			PricePerKm:  2.0,
			Rating:      4.5,
			Seats:       4,
			Available:   true,
			Latitude:    -12.0587,
			Longitude:   -77.0456,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}
