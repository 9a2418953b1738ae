package service

import "caradvisor/internal/model"

// trailingColumns are appended after the filter-driven ones, in this order
var trailingColumns = []string{"year", "doors", "created_at", "updated_at"}

// PriorityColumns derives which car attributes a comparison view should
// foreground, based on which filters were exercised. The order is fixed:
// brand and model first, then a column per filter in a stable check order,
// then the remaining columns. Deterministic for identical input.
func PriorityColumns(filters *model.CarFilters) []string {
	columns := []string{"brand", "model"}

	appendOnce := func(col string) {
		for _, existing := range columns {
			if existing == col {
				return
			}
		}
		columns = append(columns, col)
	}

	if filters != nil {
		if filters.MinPrice != nil || filters.MaxPrice != nil {
			appendOnce("price")
		}
		if filters.FuelType != nil {
			appendOnce("fuel_type")
		}
		if filters.Transmission != nil {
			appendOnce("transmission")
		}
		if filters.MinSeats != nil {
			appendOnce("seats")
		}
		if filters.Color != nil {
			appendOnce("color")
		}
	}

	for _, col := range trailingColumns {
		appendOnce(col)
	}

	return columns
}
