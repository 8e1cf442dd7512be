package customer

import (
	"context"
	"credit-approval/internal/pkg/apperrors"
	"fmt"
)

var ErrNotFound = fmt.Errorf("customer %w", apperrors.ErrNotFound)

type Repository interface {
	// Create stores a new customer with a generated id and fills CustomerID and CreatedAt.
	Create(ctx context.Context, customer *Customer) error

	// InsertIfAbsent stores a customer under its own id. It reports false when
	// the id already exists and leaves the stored row untouched.
	InsertIfAbsent(ctx context.Context, customer *Customer) (bool, error)

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	Exists(ctx context.Context, customerID int64) (bool, error)

	// SyncIDSequence moves the id generator past the largest stored id.
	SyncIDSequence(ctx context.Context) error
}
