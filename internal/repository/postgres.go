package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"caradvisor/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const carColumns = `id, brand, model, year, price, fuel_type, transmission, seats, doors, color, created_at, updated_at`

// PostgresRepository handles database operations on car records
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository connects to PostgreSQL and returns a repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryFromDB wraps an existing connection, used in tests
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// filterClauses translates the present filter fields into SQL predicates,
// numbering placeholders from argIndex
func filterClauses(filters *model.CarFilters, argIndex int) ([]string, []interface{}, int) {
	whereClauses := []string{}
	args := []interface{}{}

	if filters != nil {
		if filters.MinPrice != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("price >= $%d", argIndex))
			args = append(args, *filters.MinPrice)
			argIndex++
		}
		if filters.MaxPrice != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("price <= $%d", argIndex))
			args = append(args, *filters.MaxPrice)
			argIndex++
		}
		if filters.FuelType != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("fuel_type = $%d", argIndex))
			args = append(args, *filters.FuelType)
			argIndex++
		}
		if filters.Transmission != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("transmission = $%d", argIndex))
			args = append(args, *filters.Transmission)
			argIndex++
		}
		if filters.MinSeats != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("seats >= $%d", argIndex))
			args = append(args, *filters.MinSeats)
			argIndex++
		}
		if filters.Color != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("color ILIKE $%d", argIndex))
			args = append(args, "%"+*filters.Color+"%")
			argIndex++
		}
		if filters.Brand != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("brand ILIKE $%d", argIndex))
			args = append(args, "%"+*filters.Brand+"%")
			argIndex++
		}
	}

	return whereClauses, args, argIndex
}

// SearchCars returns the cars matching every present filter. Only present
// fields contribute a predicate; the predicates are ANDed. Results are
// ordered by price then id so callers capping the list get a reproducible
// prefix.
func (r *PostgresRepository) SearchCars(ctx context.Context, filters *model.CarFilters) ([]model.Car, error) {
	whereClauses := []string{"1=1"}
	clauses, args, _ := filterClauses(filters, 1)
	whereClauses = append(whereClauses, clauses...)

	query := fmt.Sprintf(`SELECT %s FROM cars WHERE %s ORDER BY price ASC, id ASC`,
		carColumns, strings.Join(whereClauses, " AND "))

	var cars []model.Car
	if err := r.db.SelectContext(ctx, &cars, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search cars: %w", err)
	}
	return cars, nil
}

// ListCars is SearchCars plus the year bounds only the list endpoint offers
func (r *PostgresRepository) ListCars(ctx context.Context, filters *model.CarListFilters) ([]model.Car, error) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if filters != nil {
		clauses, filterArgs, nextIndex := filterClauses(&filters.CarFilters, argIndex)
		whereClauses = append(whereClauses, clauses...)
		args = append(args, filterArgs...)
		argIndex = nextIndex

		if filters.MinYear != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("year >= $%d", argIndex))
			args = append(args, *filters.MinYear)
			argIndex++
		}
		if filters.MaxYear != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("year <= $%d", argIndex))
			args = append(args, *filters.MaxYear)
			argIndex++
		}
	}

	query := fmt.Sprintf(`SELECT %s FROM cars WHERE %s ORDER BY price ASC, id ASC`,
		carColumns, strings.Join(whereClauses, " AND "))

	var cars []model.Car
	if err := r.db.SelectContext(ctx, &cars, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	return cars, nil
}

// GetCarByID retrieves a single car; returns nil without error when the id
// does not exist
func (r *PostgresRepository) GetCarByID(ctx context.Context, id string) (*model.Car, error) {
	var car model.Car
	query := fmt.Sprintf(`SELECT %s FROM cars WHERE id = $1`, carColumns)
	if err := r.db.GetContext(ctx, &car, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get car: %w", err)
	}
	return &car, nil
}

// GetCarsByIDs retrieves the cars for the given ids. Missing ids are
// simply absent from the result; the caller decides whether that is an
// error.
func (r *PostgresRepository) GetCarsByIDs(ctx context.Context, ids []string) ([]model.Car, error) {
	if len(ids) == 0 {
		return []model.Car{}, nil
	}

	query, args, err := sqlx.In(fmt.Sprintf(`SELECT %s FROM cars WHERE id IN (?) ORDER BY price ASC, id ASC`, carColumns), ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	query = r.db.Rebind(query)

	var cars []model.Car
	if err := r.db.SelectContext(ctx, &cars, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get cars: %w", err)
	}
	return cars, nil
}

// CreateCar inserts a new car and returns the stored record
func (r *PostgresRepository) CreateCar(ctx context.Context, input *model.CarCreate) (*model.Car, error) {
	query := fmt.Sprintf(`
		INSERT INTO cars (id, brand, model, year, price, fuel_type, transmission, seats, doors, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING %s`, carColumns)

	var car model.Car
	err := r.db.GetContext(ctx, &car, query,
		uuid.NewString(), input.Brand, input.Model, input.Year, input.Price,
		input.FuelType, input.Transmission, input.Seats, input.Doors, input.Color)
	if err != nil {
		return nil, fmt.Errorf("failed to create car: %w", err)
	}
	return &car, nil
}

// UpdateCar applies the non-nil fields of the update; returns nil without
// error when the id does not exist
func (r *PostgresRepository) UpdateCar(ctx context.Context, id string, input *model.CarUpdate) (*model.Car, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIndex := 1

	appendSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if input.Brand != nil {
		appendSet("brand", *input.Brand)
	}
	if input.Model != nil {
		appendSet("model", *input.Model)
	}
	if input.Year != nil {
		appendSet("year", *input.Year)
	}
	if input.Price != nil {
		appendSet("price", *input.Price)
	}
	if input.FuelType != nil {
		appendSet("fuel_type", *input.FuelType)
	}
	if input.Transmission != nil {
		appendSet("transmission", *input.Transmission)
	}
	if input.Seats != nil {
		appendSet("seats", *input.Seats)
	}
	if input.Doors != nil {
		appendSet("doors", *input.Doors)
	}
	if input.Color != nil {
		appendSet("color", *input.Color)
	}

	if len(setClauses) == 0 {
		return r.GetCarByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE cars SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIndex, carColumns)
	args = append(args, id)

	var car model.Car
	if err := r.db.GetContext(ctx, &car, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update car: %w", err)
	}
	return &car, nil
}

// DeleteCar removes a car; the bool reports whether a row was deleted
func (r *PostgresRepository) DeleteCar(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete car: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}
