package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"credit-approval/internal/domain/loan"
	"credit-approval/internal/infrastructure/monitoring"
	"credit-approval/internal/pkg/apperrors"
)

const (
	insertLoanQuery = `
        INSERT INTO loans (customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING loan_id, created_at`

	insertLoanIfAbsentQuery = `
        INSERT INTO loans (loan_id, customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (loan_id) DO NOTHING`

	loanColumns = `loan_id, customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, created_at`

	findLoanByIDQuery = `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1`

	findLoansByCustomerQuery = `SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1 ORDER BY loan_id ASC`

	syncLoanSequenceQuery = `
        SELECT setval(pg_get_serial_sequence('loans', 'loan_id'),
                      COALESCE((SELECT MAX(loan_id) FROM loans), 0) + 1, false)`
)

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

func (r *LoanRepository) Create(ctx context.Context, l *loan.Loan) error {
	if l == nil {
		return fmt.Errorf("%w: loan cannot be nil", apperrors.ErrInvalidArgument)
	}

	start := time.Now()
	err := r.db.QueryRow(ctx, insertLoanQuery,
		l.CustomerID,
		l.LoanAmount,
		l.Tenure,
		l.InterestRate,
		l.MonthlyRepayment,
		l.EMIsPaidOnTime,
		l.StartDate,
		l.EndDate,
	).Scan(&l.LoanID, &l.CreatedAt)
	monitoring.RecordDBQuery("CreateLoan", monitoring.DBStatus(err), time.Since(start))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "customerID", l.CustomerID, "error", err)
		return fmt.Errorf("failed to insert loan: %w", translateDBError(err, r.logger))
	}

	r.logger.InfoContext(ctx, "Loan inserted successfully", "loanID", l.LoanID, "customerID", l.CustomerID)
	return nil
}

func (r *LoanRepository) InsertIfAbsent(ctx context.Context, l *loan.Loan) (bool, error) {
	if l == nil || l.LoanID <= 0 {
		return false, fmt.Errorf("%w: loan with a positive id is required", apperrors.ErrInvalidArgument)
	}

	start := time.Now()
	tag, err := r.db.Exec(ctx, insertLoanIfAbsentQuery,
		l.LoanID,
		l.CustomerID,
		l.LoanAmount,
		l.Tenure,
		l.InterestRate,
		l.MonthlyRepayment,
		l.EMIsPaidOnTime,
		l.StartDate,
		l.EndDate,
	)
	monitoring.RecordDBQuery("InsertLoanIfAbsent", monitoring.DBStatus(err), time.Since(start))

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			return false, nil
		}
		return false, translatedErr
	}

	return tag.RowsAffected() == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (*loan.Loan, error) {
	var l loan.Loan
	err := row.Scan(
		&l.LoanID, &l.CustomerID, &l.LoanAmount, &l.Tenure, &l.InterestRate,
		&l.MonthlyRepayment, &l.EMIsPaidOnTime, &l.StartDate, &l.EndDate, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LoanRepository) FindByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	start := time.Now()
	l, err := scanLoan(r.db.QueryRow(ctx, findLoanByIDQuery, loanID))
	monitoring.RecordDBQuery("FindLoanByID", monitoring.DBStatus(err), time.Since(start))

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrNotFound) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, loan.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, translatedErr
	}
	return l, nil
}

func (r *LoanRepository) FindByCustomerID(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	start := time.Now()
	rows, err := r.db.Query(ctx, findLoansByCustomerQuery, customerID)
	if err != nil {
		monitoring.RecordDBQuery("FindLoansByCustomer", "error", time.Since(start))
		r.logger.ErrorContext(ctx, "Failed to query customer loans", "customerID", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]*loan.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			monitoring.RecordDBQuery("FindLoansByCustomer", "error", time.Since(start))
			r.logger.ErrorContext(ctx, "Failed to scan loan row", "customerID", customerID, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}
	err = rows.Err()
	monitoring.RecordDBQuery("FindLoansByCustomer", monitoring.DBStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan rows", "customerID", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return loans, nil
}

func (r *LoanRepository) SyncIDSequence(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, syncLoanSequenceQuery); err != nil {
		r.logger.ErrorContext(ctx, "Failed to sync loan id sequence", "error", err)
		return apperrors.WrapDatabaseError(err, "failed to sync loan id sequence")
	}
	return nil
}
