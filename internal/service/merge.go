package service

import "caradvisor/internal/model"

// MergeFilters combines manually-set filters with extracted ones. Manual
// values always win; an extracted value is taken only where the manual
// side has no value (nil, or empty after normalization). Pure, never
// fails, inputs are not mutated.
func MergeFilters(manual, extracted *model.CarFilters) *model.CarFilters {
	merged := &model.CarFilters{}
	if manual != nil {
		*merged = *manual
	}
	merged.Normalize()
	if extracted == nil {
		return merged
	}

	if merged.MinPrice == nil && extracted.MinPrice != nil {
		merged.MinPrice = extracted.MinPrice
	}
	if merged.MaxPrice == nil && extracted.MaxPrice != nil {
		merged.MaxPrice = extracted.MaxPrice
	}
	if merged.FuelType == nil && extracted.FuelType != nil {
		merged.FuelType = extracted.FuelType
	}
	if merged.Transmission == nil && extracted.Transmission != nil {
		merged.Transmission = extracted.Transmission
	}
	if merged.MinSeats == nil && extracted.MinSeats != nil {
		merged.MinSeats = extracted.MinSeats
	}
	if merged.Color == nil && extracted.Color != nil {
		merged.Color = extracted.Color
	}
	if merged.Brand == nil && extracted.Brand != nil {
		merged.Brand = extracted.Brand
	}

	merged.Normalize()
	return merged
}
