package ingestion

import (
	"bytes"
	"context"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/pkg/apperrors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type mockCustomerStore struct {
	mock.Mock
}

func (m *mockCustomerStore) InsertIfAbsent(ctx context.Context, cust *customer.Customer) (bool, error) {
	args := m.Called(ctx, cust)
	return args.Bool(0), args.Error(1)
}

func (m *mockCustomerStore) Exists(ctx context.Context, customerID int64) (bool, error) {
	args := m.Called(ctx, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *mockCustomerStore) SyncIDSequence(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockLoanStore struct {
	mock.Mock
}

func (m *mockLoanStore) InsertIfAbsent(ctx context.Context, l *loan.Loan) (bool, error) {
	args := m.Called(ctx, l)
	return args.Bool(0), args.Error(1)
}

func (m *mockLoanStore) SyncIDSequence(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// workbook renders rows into an in-memory .xlsx file.
func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func customerHeader() []any {
	return []any{"customer_id", "first_name", "last_name", "age", "phone_number", "monthly_salary", "approved_limit"}
}

func loanHeader() []any {
	return []any{"customer_id", "loan_id", "loan_amount", "tenure", "interest_rate", "monthly_repayment", "emis_paid_on_time", "start_date", "end_date"}
}

// memCustomerStore keeps customers keyed by id and never overwrites one.
type memCustomerStore struct {
	rows map[int64]customer.Customer
}

func newMemCustomerStore() *memCustomerStore {
	return &memCustomerStore{rows: make(map[int64]customer.Customer)}
}

func (s *memCustomerStore) InsertIfAbsent(_ context.Context, cust *customer.Customer) (bool, error) {
	if _, ok := s.rows[cust.CustomerID]; ok {
		return false, nil
	}
	s.rows[cust.CustomerID] = *cust
	return true, nil
}

func (s *memCustomerStore) Exists(_ context.Context, customerID int64) (bool, error) {
	_, ok := s.rows[customerID]
	return ok, nil
}

func (s *memCustomerStore) SyncIDSequence(context.Context) error { return nil }

// memLoanStore mirrors the loans table, including the owner foreign key.
type memLoanStore struct {
	owners *memCustomerStore
	rows   map[int64]loan.Loan
}

func newMemLoanStore(owners *memCustomerStore) *memLoanStore {
	return &memLoanStore{owners: owners, rows: make(map[int64]loan.Loan)}
}

func (s *memLoanStore) InsertIfAbsent(_ context.Context, l *loan.Loan) (bool, error) {
	if _, ok := s.owners.rows[l.CustomerID]; !ok {
		return false, fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, l.CustomerID)
	}
	if _, ok := s.rows[l.LoanID]; ok {
		return false, nil
	}
	s.rows[l.LoanID] = *l
	return true, nil
}

func (s *memLoanStore) SyncIDSequence(context.Context) error { return nil }
