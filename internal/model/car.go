package model

import "time"

// FuelType enumerates the accepted fuel type values
type FuelType string

const (
	FuelPetrol       FuelType = "petrol"
	FuelDiesel       FuelType = "diesel"
	FuelElectric     FuelType = "electric"
	FuelHybrid       FuelType = "hybrid"
	FuelPlugInHybrid FuelType = "plug_in_hybrid"
)

// ValidFuelType reports whether s is one of the accepted fuel type values
func ValidFuelType(s string) bool {
	switch FuelType(s) {
	case FuelPetrol, FuelDiesel, FuelElectric, FuelHybrid, FuelPlugInHybrid:
		return true
	}
	return false
}

// TransmissionType enumerates the accepted transmission values
type TransmissionType string

const (
	TransmissionManual    TransmissionType = "manual"
	TransmissionAutomatic TransmissionType = "automatic"
)

// ValidTransmissionType reports whether s is one of the accepted transmission values
func ValidTransmissionType(s string) bool {
	switch TransmissionType(s) {
	case TransmissionManual, TransmissionAutomatic:
		return true
	}
	return false
}

// Car represents a car record stored in the database
type Car struct {
	ID           string    `json:"id" db:"id"`
	Brand        string    `json:"brand" db:"brand"`
	Model        string    `json:"model" db:"model"`
	Year         int       `json:"year" db:"year"`
	Price        float64   `json:"price" db:"price"`
	FuelType     string    `json:"fuel_type" db:"fuel_type"`
	Transmission string    `json:"transmission" db:"transmission"`
	Seats        int       `json:"seats" db:"seats"`
	Doors        int       `json:"doors" db:"doors"`
	Color        string    `json:"color" db:"color"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CarCreate represents the payload for creating a new car
type CarCreate struct {
	Brand        string  `json:"brand" binding:"required,max=100"`
	Model        string  `json:"model" binding:"required,max=100"`
	Year         int     `json:"year" binding:"required,gte=1900,lte=2030"`
	Price        float64 `json:"price" binding:"gte=0"`
	FuelType     string  `json:"fuel_type" binding:"required,oneof=petrol diesel electric hybrid plug_in_hybrid"`
	Transmission string  `json:"transmission" binding:"required,oneof=manual automatic"`
	Seats        int     `json:"seats" binding:"required,gte=2,lte=9"`
	Doors        int     `json:"doors" binding:"required,gte=2,lte=5"`
	Color        string  `json:"color" binding:"required,max=50"`
}

// CarUpdate represents a partial update; only non-nil fields are applied
type CarUpdate struct {
	Brand        *string  `json:"brand,omitempty" binding:"omitempty,max=100"`
	Model        *string  `json:"model,omitempty" binding:"omitempty,max=100"`
	Year         *int     `json:"year,omitempty" binding:"omitempty,gte=1900,lte=2030"`
	Price        *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	FuelType     *string  `json:"fuel_type,omitempty" binding:"omitempty,oneof=petrol diesel electric hybrid plug_in_hybrid"`
	Transmission *string  `json:"transmission,omitempty" binding:"omitempty,oneof=manual automatic"`
	Seats        *int     `json:"seats,omitempty" binding:"omitempty,gte=2,lte=9"`
	Doors        *int     `json:"doors,omitempty" binding:"omitempty,gte=2,lte=5"`
	Color        *string  `json:"color,omitempty" binding:"omitempty,max=50"`
}

// IsEmpty reports whether the update carries no fields at all
func (u *CarUpdate) IsEmpty() bool {
	return u.Brand == nil && u.Model == nil && u.Year == nil && u.Price == nil &&
		u.FuelType == nil && u.Transmission == nil && u.Seats == nil &&
		u.Doors == nil && u.Color == nil
}
