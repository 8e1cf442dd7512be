package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"credit-approval/internal/domain/customer"
	"credit-approval/internal/infrastructure/monitoring"
	"credit-approval/internal/pkg/apperrors"
)

const (
	insertCustomerQuery = `
        INSERT INTO customers (first_name, last_name, phone_number, age, monthly_salary, approved_limit, current_debt)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING customer_id, created_at`

	insertCustomerIfAbsentQuery = `
        INSERT INTO customers (customer_id, first_name, last_name, phone_number, age, monthly_salary, approved_limit, current_debt)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (customer_id) DO NOTHING`

	findCustomerByIDQuery = `
        SELECT customer_id, first_name, last_name, phone_number, age, monthly_salary, approved_limit, current_debt, created_at
        FROM customers
        WHERE customer_id = $1`

	customerExistsQuery = `SELECT EXISTS (SELECT 1 FROM customers WHERE customer_id = $1)`

	syncCustomerSequenceQuery = `
        SELECT setval(pg_get_serial_sequence('customers', 'customer_id'),
                      COALESCE((SELECT MAX(customer_id) FROM customers), 0) + 1, false)`
)

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.Repository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) Create(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	start := time.Now()
	err := r.db.QueryRow(ctx, insertCustomerQuery,
		cust.FirstName,
		cust.LastName,
		cust.PhoneNumber,
		cust.Age,
		cust.MonthlySalary,
		cust.ApprovedLimit,
		cust.CurrentDebt,
	).Scan(&cust.CustomerID, &cust.CreatedAt)
	monitoring.RecordDBQuery("CreateCustomer", monitoring.DBStatus(err), time.Since(start))

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return fmt.Errorf("failed to insert customer: %w", translatedErr)
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", cust.CustomerID))
	return nil
}

func (r *CustomerRepository) InsertIfAbsent(ctx context.Context, cust *customer.Customer) (bool, error) {
	if cust == nil || cust.CustomerID <= 0 {
		return false, fmt.Errorf("%w: customer with a positive id is required", apperrors.ErrInvalidArgument)
	}

	start := time.Now()
	tag, err := r.db.Exec(ctx, insertCustomerIfAbsentQuery,
		cust.CustomerID,
		cust.FirstName,
		cust.LastName,
		cust.PhoneNumber,
		cust.Age,
		cust.MonthlySalary,
		cust.ApprovedLimit,
		cust.CurrentDebt,
	)
	monitoring.RecordDBQuery("InsertCustomerIfAbsent", monitoring.DBStatus(err), time.Since(start))

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			return false, nil
		}
		r.logger.ErrorContext(ctx, "Failed to insert ingested customer", "customerID", cust.CustomerID, slog.Any("error", err))
		return false, translatedErr
	}

	return tag.RowsAffected() == 1, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	start := time.Now()
	var c customer.Customer
	err := r.db.QueryRow(ctx, findCustomerByIDQuery, customerID).Scan(
		&c.CustomerID,
		&c.FirstName,
		&c.LastName,
		&c.PhoneNumber,
		&c.Age,
		&c.MonthlySalary,
		&c.ApprovedLimit,
		&c.CurrentDebt,
		&c.CreatedAt,
	)
	monitoring.RecordDBQuery("FindCustomerByID", monitoring.DBStatus(err), time.Since(start))

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrNotFound) {
			r.logger.DebugContext(ctx, "Customer not found", "customerID", customerID)
			return nil, customer.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to find customer", "customerID", customerID, slog.Any("error", err))
		return nil, translatedErr
	}
	return &c, nil
}

func (r *CustomerRepository) Exists(ctx context.Context, customerID int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, customerExistsQuery, customerID).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "Failed to check customer existence", "customerID", customerID, slog.Any("error", err))
		return false, translateDBError(err, r.logger)
	}
	return exists, nil
}

func (r *CustomerRepository) SyncIDSequence(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, syncCustomerSequenceQuery); err != nil {
		r.logger.ErrorContext(ctx, "Failed to sync customer id sequence", slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to sync customer id sequence")
	}
	return nil
}
