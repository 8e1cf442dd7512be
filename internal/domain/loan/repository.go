package loan

import (
	"context"
	"credit-approval/internal/pkg/apperrors"
	"fmt"
)

var ErrNotFound = fmt.Errorf("loan %w", apperrors.ErrNotFound)

type Repository interface {
	// Create stores an approved loan under a generated id and fills LoanID and CreatedAt.
	Create(ctx context.Context, loan *Loan) error

	// InsertIfAbsent stores a loan under its own id. It reports false when the
	// id already exists.
	InsertIfAbsent(ctx context.Context, loan *Loan) (bool, error)

	FindByID(ctx context.Context, loanID int64) (*Loan, error)

	FindByCustomerID(ctx context.Context, customerID int64) ([]*Loan, error)

	SyncIDSequence(ctx context.Context) error
}
