package model

// CarFilters represents a sparse set of search constraints over car
// attributes. A nil (or empty string) field means no constraint on that
// dimension. Unknown keys in incoming JSON are dropped on decode.
type CarFilters struct {
	MinPrice     *float64 `json:"min_price,omitempty"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
	FuelType     *string  `json:"fuel_type,omitempty"`
	Transmission *string  `json:"transmission,omitempty"`
	MinSeats     *int     `json:"min_seats,omitempty"`
	Color        *string  `json:"color,omitempty"`
	Brand        *string  `json:"brand,omitempty"`
}

// CarListFilters extends the chat filter set with year bounds. The list
// endpoint offers them; the chat extraction schema deliberately does not,
// so they live outside CarFilters.
type CarListFilters struct {
	CarFilters
	MinYear *int `json:"min_year,omitempty"`
	MaxYear *int `json:"max_year,omitempty"`
}

// IsEmpty reports whether no constraint is set
func (f *CarFilters) IsEmpty() bool {
	if f == nil {
		return true
	}
	return f.MinPrice == nil && f.MaxPrice == nil && f.FuelType == nil &&
		f.Transmission == nil && f.MinSeats == nil && f.Color == nil && f.Brand == nil
}

// Normalize clears fields that are present but carry an empty value, so
// they behave as absent everywhere downstream
func (f *CarFilters) Normalize() {
	if f == nil {
		return
	}
	if f.FuelType != nil && *f.FuelType == "" {
		f.FuelType = nil
	}
	if f.Transmission != nil && *f.Transmission == "" {
		f.Transmission = nil
	}
	if f.Color != nil && *f.Color == "" {
		f.Color = nil
	}
	if f.Brand != nil && *f.Brand == "" {
		f.Brand = nil
	}
}
