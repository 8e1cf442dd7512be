package ingestion

import (
	"context"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/infrastructure/monitoring"
	"credit-approval/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
)

// CustomerStore is the slice of the customer ledger the reconciler writes to.
type CustomerStore interface {
	InsertIfAbsent(ctx context.Context, cust *customer.Customer) (bool, error)
	Exists(ctx context.Context, customerID int64) (bool, error)
	SyncIDSequence(ctx context.Context) error
}

type LoanStore interface {
	InsertIfAbsent(ctx context.Context, l *loan.Loan) (bool, error)
	SyncIDSequence(ctx context.Context) error
}

type Outcome string

const (
	OutcomeCreated                 Outcome = "created"
	OutcomeExisting                Outcome = "existing"
	OutcomeSkippedInvalid          Outcome = "skipped_invalid"
	OutcomeSkippedCustomerNotFound Outcome = "skipped_customer_not_found"
	OutcomeSkippedStoreError       Outcome = "skipped_store_error"
)

// RowResult is the fate of one data row. Line is the 1-based position in the
// source table, header included.
type RowResult struct {
	Line    int
	Outcome Outcome
	Reason  string
}

func (r RowResult) Skipped() bool {
	return r.Outcome != OutcomeCreated && r.Outcome != OutcomeExisting
}

type Summary struct {
	Kind                    RecordKind
	Total                   int
	Imported                int
	Created                 int
	Existing                int
	SkippedInvalid          int
	SkippedCustomerNotFound int
	SkippedStoreError       int
	Results                 []RowResult
}

func (s *Summary) add(r RowResult) {
	s.Total++
	switch r.Outcome {
	case OutcomeCreated:
		s.Created++
		s.Imported++
	case OutcomeExisting:
		s.Existing++
		s.Imported++
	case OutcomeSkippedInvalid:
		s.SkippedInvalid++
	case OutcomeSkippedCustomerNotFound:
		s.SkippedCustomerNotFound++
	case OutcomeSkippedStoreError:
		s.SkippedStoreError++
	}
	s.Results = append(s.Results, r)
}

// Skipped returns the results of rows that were not imported.
func (s *Summary) Skipped() []RowResult {
	skipped := make([]RowResult, 0, s.Total-s.Imported)
	for _, r := range s.Results {
		if r.Skipped() {
			skipped = append(skipped, r)
		}
	}
	return skipped
}

func (s *Summary) Message() string {
	if s.Kind == KindLoan {
		return fmt.Sprintf("Loan data uploaded successfully. %d loans imported, %d skipped (customer not found).",
			s.Imported, s.SkippedCustomerNotFound)
	}
	return fmt.Sprintf("Customer data uploaded successfully. %d customers imported.", s.Imported)
}

// Reconciler merges tabular rows into the ledger. Existing records are never
// updated, so running it twice over the same rows is harmless.
type Reconciler struct {
	customers CustomerStore
	loans     LoanStore
	logger    *slog.Logger
}

func NewReconciler(customers CustomerStore, loans LoanStore, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		customers: customers,
		loans:     loans,
		logger:    logger.With("component", "Reconciler"),
	}
}

// Reconcile processes data rows (header excluded) of the given kind. Only a
// cancelled context stops the batch; every other failure is recorded per row.
func (r *Reconciler) Reconcile(ctx context.Context, kind RecordKind, rows [][]any) (*Summary, error) {
	if kind.Columns() == 0 {
		return nil, fmt.Errorf("%w: unknown record kind %q", apperrors.ErrInvalidArgument, kind)
	}

	summary := &Summary{Kind: kind, Results: make([]RowResult, 0, len(rows))}
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			r.logger.WarnContext(ctx, "Reconciliation aborted", "kind", kind, "processed", summary.Total, "error", err)
			return nil, err
		}
		if isBlankRow(row) {
			continue
		}

		line := i + 2
		var result RowResult
		switch kind {
		case KindCustomer:
			result = r.reconcileCustomer(ctx, line, row)
		case KindLoan:
			result = r.reconcileLoan(ctx, line, row)
		}

		if result.Outcome == OutcomeSkippedStoreError {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		summary.add(result)
	}

	recordSummary(summary)
	r.logger.InfoContext(ctx, "Reconciliation finished",
		"kind", kind,
		"total", summary.Total,
		"created", summary.Created,
		"existing", summary.Existing,
		"skippedInvalid", summary.SkippedInvalid,
		"skippedCustomerNotFound", summary.SkippedCustomerNotFound,
		"skippedStoreError", summary.SkippedStoreError,
	)
	return summary, nil
}

func (r *Reconciler) reconcileCustomer(ctx context.Context, line int, row []any) RowResult {
	cust, err := parseCustomerRow(row)
	if err != nil {
		r.logger.DebugContext(ctx, "Skipping invalid customer row", "line", line, "error", err)
		return RowResult{Line: line, Outcome: OutcomeSkippedInvalid, Reason: err.Error()}
	}

	created, err := r.customers.InsertIfAbsent(ctx, cust)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to store customer row", "line", line, "customerID", cust.CustomerID, "error", err)
		return RowResult{Line: line, Outcome: OutcomeSkippedStoreError, Reason: err.Error()}
	}
	return insertedResult(line, created)
}

func (r *Reconciler) reconcileLoan(ctx context.Context, line int, row []any) RowResult {
	l, err := parseLoanRow(row)
	if err != nil {
		r.logger.DebugContext(ctx, "Skipping invalid loan row", "line", line, "error", err)
		return RowResult{Line: line, Outcome: OutcomeSkippedInvalid, Reason: err.Error()}
	}

	log := r.logger.With("line", line, "loanID", l.LoanID, "customerID", l.CustomerID)

	exists, err := r.customers.Exists(ctx, l.CustomerID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to look up loan owner", "error", err)
		return RowResult{Line: line, Outcome: OutcomeSkippedStoreError, Reason: err.Error()}
	}
	if !exists {
		return customerMissing(line, l.CustomerID)
	}

	created, err := r.loans.InsertIfAbsent(ctx, l)
	if err != nil {
		// The owner can disappear between the lookup and the insert.
		if errors.Is(err, apperrors.ErrNotFound) {
			return customerMissing(line, l.CustomerID)
		}
		log.ErrorContext(ctx, "Failed to store loan row", "error", err)
		return RowResult{Line: line, Outcome: OutcomeSkippedStoreError, Reason: err.Error()}
	}
	return insertedResult(line, created)
}

func insertedResult(line int, created bool) RowResult {
	if created {
		return RowResult{Line: line, Outcome: OutcomeCreated}
	}
	return RowResult{Line: line, Outcome: OutcomeExisting}
}

func customerMissing(line int, customerID int64) RowResult {
	return RowResult{
		Line:    line,
		Outcome: OutcomeSkippedCustomerNotFound,
		Reason:  fmt.Sprintf("customer %d not found", customerID),
	}
}

func recordSummary(s *Summary) {
	kind := s.Kind.String()
	monitoring.RecordIngestedRows(kind, string(OutcomeCreated), s.Created)
	monitoring.RecordIngestedRows(kind, string(OutcomeExisting), s.Existing)
	monitoring.RecordIngestedRows(kind, string(OutcomeSkippedInvalid), s.SkippedInvalid)
	monitoring.RecordIngestedRows(kind, string(OutcomeSkippedCustomerNotFound), s.SkippedCustomerNotFound)
	monitoring.RecordIngestedRows(kind, string(OutcomeSkippedStoreError), s.SkippedStoreError)
}
