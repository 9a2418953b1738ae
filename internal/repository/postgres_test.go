package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"caradvisor/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepositoryFromDB(sqlx.NewDb(db, "sqlmock")), mock
}

func carRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "brand", "model", "year", "price", "fuel_type",
		"transmission", "seats", "doors", "color", "created_at", "updated_at",
	})
}

func addCarRow(rows *sqlmock.Rows, id, brand, carModel string, price float64) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, brand, carModel, 2023, price, "electric", "automatic", 5, 5, "blue", now, now)
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }

func TestSearchCars_PredicateComposition(t *testing.T) {
	repo, mock := newMockRepo(t)

	filters := &model.CarFilters{
		MinPrice: floatPtr(10000),
		MaxPrice: floatPtr(20000),
		Color:    strPtr("red"),
	}

	expected := regexp.QuoteMeta(
		`WHERE 1=1 AND price >= $1 AND price <= $2 AND color ILIKE $3 ORDER BY price ASC, id ASC`)
	mock.ExpectQuery(expected).
		WithArgs(10000.0, 20000.0, "%red%").
		WillReturnRows(addCarRow(carRows(), "id-1", "Mazda", "3", 15000))

	cars, err := repo.SearchCars(context.Background(), filters)
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "Mazda", cars[0].Brand)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchCars_AllFilters(t *testing.T) {
	repo, mock := newMockRepo(t)

	filters := &model.CarFilters{
		MinPrice:     floatPtr(5000),
		MaxPrice:     floatPtr(40000),
		FuelType:     strPtr("electric"),
		Transmission: strPtr("automatic"),
		MinSeats:     intPtr(5),
		Color:        strPtr("blue"),
		Brand:        strPtr("tesla"),
	}

	expected := regexp.QuoteMeta(
		`WHERE 1=1 AND price >= $1 AND price <= $2 AND fuel_type = $3 AND transmission = $4 AND seats >= $5 AND color ILIKE $6 AND brand ILIKE $7`)
	mock.ExpectQuery(expected).
		WithArgs(5000.0, 40000.0, "electric", "automatic", 5, "%blue%", "%tesla%").
		WillReturnRows(carRows())

	cars, err := repo.SearchCars(context.Background(), filters)
	require.NoError(t, err)
	assert.Empty(t, cars)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchCars_NoFilters(t *testing.T) {
	repo, mock := newMockRepo(t)

	expected := regexp.QuoteMeta(`FROM cars WHERE 1=1 ORDER BY price ASC, id ASC`)
	mock.ExpectQuery(expected).
		WillReturnRows(addCarRow(addCarRow(carRows(), "a", "Kia", "Niro", 28000), "b", "VW", "Golf", 30000))

	cars, err := repo.SearchCars(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, cars, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCars_YearBounds(t *testing.T) {
	repo, mock := newMockRepo(t)

	filters := &model.CarListFilters{
		CarFilters: model.CarFilters{Brand: strPtr("kia")},
		MinYear:    intPtr(2020),
		MaxYear:    intPtr(2024),
	}

	// year predicates are numbered after the shared filter predicates
	expected := regexp.QuoteMeta(
		`WHERE 1=1 AND brand ILIKE $1 AND year >= $2 AND year <= $3 ORDER BY price ASC, id ASC`)
	mock.ExpectQuery(expected).
		WithArgs("%kia%", 2020, 2024).
		WillReturnRows(addCarRow(carRows(), "a", "Kia", "Niro", 28000))

	cars, err := repo.ListCars(context.Background(), filters)
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "Kia", cars[0].Brand)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCars_NoFilters(t *testing.T) {
	repo, mock := newMockRepo(t)

	expected := regexp.QuoteMeta(`FROM cars WHERE 1=1 ORDER BY price ASC, id ASC`)
	mock.ExpectQuery(expected).
		WillReturnRows(addCarRow(carRows(), "a", "Kia", "Niro", 28000))

	cars, err := repo.ListCars(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, cars, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCarByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM cars WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(carRows())

	car, err := repo.GetCarByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, car)
}

func TestGetCarsByIDs_Empty(t *testing.T) {
	repo, _ := newMockRepo(t)

	cars, err := repo.GetCarsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, cars)
}

func TestGetCarsByIDs(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM cars WHERE id IN (?, ?)`)).
		WithArgs("a", "b").
		WillReturnRows(addCarRow(addCarRow(carRows(), "a", "Kia", "Niro", 28000), "b", "VW", "Golf", 30000))

	cars, err := repo.GetCarsByIDs(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, cars, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCar(t *testing.T) {
	repo, mock := newMockRepo(t)

	input := &model.CarCreate{
		Brand: "Renault", Model: "Zoe", Year: 2022, Price: 21500,
		FuelType: "electric", Transmission: "automatic",
		Seats: 5, Doors: 5, Color: "white",
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO cars`)).
		WithArgs(sqlmock.AnyArg(), "Renault", "Zoe", 2022, 21500.0, "electric", "automatic", 5, 5, "white").
		WillReturnRows(addCarRow(carRows(), "new-id", "Renault", "Zoe", 21500))

	car, err := repo.CreateCar(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "new-id", car.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCar_PartialFields(t *testing.T) {
	repo, mock := newMockRepo(t)

	input := &model.CarUpdate{Price: floatPtr(19900), Color: strPtr("black")}

	expected := regexp.QuoteMeta(`UPDATE cars SET price = $1, color = $2, updated_at = NOW() WHERE id = $3`)
	mock.ExpectQuery(expected).
		WithArgs(19900.0, "black", "car-1").
		WillReturnRows(addCarRow(carRows(), "car-1", "Kia", "Niro", 19900))

	car, err := repo.UpdateCar(context.Background(), "car-1", input)
	require.NoError(t, err)
	require.NotNil(t, car)
	assert.Equal(t, "car-1", car.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCar(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cars WHERE id = $1`)).
		WithArgs("car-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.DeleteCar(context.Background(), "car-1")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestDeleteCar_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cars`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeleteCar(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, deleted)
}
