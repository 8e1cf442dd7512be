package ingestion

import (
	"bytes"
	"credit-approval/internal/pkg/apperrors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable_CSV(t *testing.T) {
	data := "customer_id,first_name,last_name,age,phone_number,monthly_salary,approved_limit\n" +
		"1,Ana,Ray,34,9876543210,50000,1800000\n" +
		"2,Bo\n"

	table, err := ReadTable("customers.CSV", strings.NewReader(data))

	require.NoError(t, err)
	assert.Len(t, table.Header, 7)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []any{"1", "Ana", "Ray", "34", "9876543210", "50000", "1800000"}, table.Rows[0])
	assert.Equal(t, []any{"2", "Bo"}, table.Rows[1])
}

func TestReadTable_XLSX(t *testing.T) {
	start := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	buf := workbook(t,
		loanHeader(),
		[]any{1, 9001, 100000, 12, 10.5, 8815.89, 12, start, "2024-03-26"},
	)

	table, err := ReadTable("loan_data.xlsx", buf)

	require.NoError(t, err)
	assert.Len(t, table.Header, 9)
	require.Len(t, table.Rows, 1)

	l, err := parseLoanRow(table.Rows[0])
	require.NoError(t, err)
	assert.Equal(t, int64(9001), l.LoanID)
	assert.Equal(t, 8815.89, l.MonthlyRepayment)
	assert.Equal(t, start, l.StartDate)
	assert.Equal(t, time.Date(2024, 3, 26, 0, 0, 0, 0, time.UTC), l.EndDate)
}

func TestReadTable_Errors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		_, err := ReadTable("notes.txt", strings.NewReader("hello"))

		assert.ErrorIs(t, err, apperrors.ErrUnsupportedFileType)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		_, msg := apperrors.ValidationMessage(err)
		assert.Equal(t, "Unsupported file type. Please upload CSV or XLSX files.", msg)
	})

	t.Run("empty csv", func(t *testing.T) {
		_, err := ReadTable("empty.csv", strings.NewReader(""))
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("corrupt workbook", func(t *testing.T) {
		_, err := ReadTable("broken.xlsx", bytes.NewReader([]byte("not a zip archive")))

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		field, _ := apperrors.ValidationMessage(err)
		assert.Equal(t, "file", field)
	})

	t.Run("corrupt legacy workbook", func(t *testing.T) {
		_, err := ReadTable("broken.xls", bytes.NewReader([]byte("not an ole2 document")))
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}
