package handler

import (
	"context"
	"net/http"
	"strconv"

	"caradvisor/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// defaultCompareColumns is used when the caller sends no priority hints
var defaultCompareColumns = []string{
	"brand", "model", "price", "fuel_type",
	"transmission", "seats", "doors", "color", "year",
}

// CarStore is the record-store surface the car endpoints need
type CarStore interface {
	ListCars(ctx context.Context, filters *model.CarListFilters) ([]model.Car, error)
	GetCarByID(ctx context.Context, id string) (*model.Car, error)
	GetCarsByIDs(ctx context.Context, ids []string) ([]model.Car, error)
	CreateCar(ctx context.Context, input *model.CarCreate) (*model.Car, error)
	UpdateCar(ctx context.Context, id string, input *model.CarUpdate) (*model.Car, error)
	DeleteCar(ctx context.Context, id string) (bool, error)
}

// CarsHandler handles car CRUD and comparison HTTP requests
type CarsHandler struct {
	store CarStore
}

// NewCarsHandler creates a new cars handler
func NewCarsHandler(store CarStore) *CarsHandler {
	return &CarsHandler{store: store}
}

// List handles GET /api/v1/cars with optional query-param filters
func (h *CarsHandler) List(c *gin.Context) {
	filters, err := filtersFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cars, err := h.store.ListCars(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cars: " + err.Error()})
		return
	}
	if cars == nil {
		cars = []model.Car{}
	}
	c.JSON(http.StatusOK, cars)
}

// Get handles GET /api/v1/cars/:id
func (h *CarsHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid car ID"})
		return
	}

	car, err := h.store.GetCarByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch car: " + err.Error()})
		return
	}
	if car == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
		return
	}
	c.JSON(http.StatusOK, car)
}

// Create handles POST /api/v1/cars
func (h *CarsHandler) Create(c *gin.Context) {
	var input model.CarCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	car, err := h.store.CreateCar(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create car: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, car)
}

// Update handles PUT /api/v1/cars/:id
func (h *CarsHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid car ID"})
		return
	}

	var input model.CarUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if input.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	car, err := h.store.UpdateCar(c.Request.Context(), id, &input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update car: " + err.Error()})
		return
	}
	if car == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
		return
	}
	c.JSON(http.StatusOK, car)
}

// Delete handles DELETE /api/v1/cars/:id
func (h *CarsHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid car ID"})
		return
	}

	deleted, err := h.store.DeleteCar(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete car: " + err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Car deleted successfully"})
}

// Compare handles POST /api/v1/cars/compare
func (h *CarsHandler) Compare(c *gin.Context) {
	var req model.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if len(req.CarIDs) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least 2 cars are required for comparison"})
		return
	}
	if len(req.CarIDs) > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Maximum 5 cars can be compared at once"})
		return
	}
	for _, id := range req.CarIDs {
		if _, err := uuid.Parse(id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid car ID: " + id})
			return
		}
	}

	found, err := h.store.GetCarsByIDs(c.Request.Context(), req.CarIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cars: " + err.Error()})
		return
	}

	// The store collapses the id list into a set, so map the rows back onto
	// the request: requested order is preserved and repeated ids repeat the
	// same car.
	byID := make(map[string]model.Car, len(found))
	for _, car := range found {
		byID[car.ID] = car
	}
	cars := make([]model.Car, 0, len(req.CarIDs))
	for _, id := range req.CarIDs {
		car, ok := byID[id]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Some cars were not found"})
			return
		}
		cars = append(cars, car)
	}

	columns := req.PriorityColumns
	if len(columns) == 0 {
		columns = defaultCompareColumns
	}

	c.JSON(http.StatusOK, model.CompareResponse{
		Cars:            cars,
		PriorityColumns: columns,
		ComparisonCount: len(cars),
	})
}

// filtersFromQuery builds a filter object from GET query parameters
func filtersFromQuery(c *gin.Context) (*model.CarListFilters, error) {
	filters := &model.CarListFilters{}

	if v := c.Query("brand"); v != "" {
		filters.Brand = &v
	}
	if v := c.Query("color"); v != "" {
		filters.Color = &v
	}
	if v := c.Query("fuel_type"); v != "" {
		if !model.ValidFuelType(v) {
			return nil, &queryError{"invalid fuel_type: " + v}
		}
		filters.FuelType = &v
	}
	if v := c.Query("transmission"); v != "" {
		if !model.ValidTransmissionType(v) {
			return nil, &queryError{"invalid transmission: " + v}
		}
		filters.Transmission = &v
	}
	if v := c.Query("min_price"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			return nil, &queryError{"invalid min_price: " + v}
		}
		filters.MinPrice = &parsed
	}
	if v := c.Query("max_price"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			return nil, &queryError{"invalid max_price: " + v}
		}
		filters.MaxPrice = &parsed
	}
	if v := c.Query("min_seats"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 2 || parsed > 9 {
			return nil, &queryError{"invalid min_seats: " + v}
		}
		filters.MinSeats = &parsed
	}
	if v := c.Query("min_year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1900 || parsed > 2030 {
			return nil, &queryError{"invalid min_year: " + v}
		}
		filters.MinYear = &parsed
	}
	if v := c.Query("max_year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1900 || parsed > 2030 {
			return nil, &queryError{"invalid max_year: " + v}
		}
		filters.MaxYear = &parsed
	}

	return filters, nil
}

type queryError struct {
	msg string
}

func (e *queryError) Error() string {
	return e.msg
}
