package ingestion

import (
	"credit-approval/internal/pkg/apperrors"
	"fmt"
)

// RecordKind selects how the cells of a row are interpreted.
type RecordKind string

const (
	KindCustomer RecordKind = "customer"
	KindLoan     RecordKind = "loan"
)

const (
	customerColumnCount = 7
	loanColumnCount     = 9
)

// Columns is the number of leading cells a row of this kind must carry.
func (k RecordKind) Columns() int {
	switch k {
	case KindCustomer:
		return customerColumnCount
	case KindLoan:
		return loanColumnCount
	default:
		return 0
	}
}

func (k RecordKind) String() string {
	return string(k)
}

// InferKind guesses the record kind of an uploaded table from its header width.
func InferKind(columnCount int) (RecordKind, error) {
	switch columnCount {
	case customerColumnCount:
		return KindCustomer, nil
	case loanColumnCount:
		return KindLoan, nil
	default:
		return "", apperrors.NewValidationError("file",
			fmt.Sprintf("Unrecognised data layout: expected %d customer columns or %d loan columns, got %d",
				customerColumnCount, loanColumnCount, columnCount))
	}
}
