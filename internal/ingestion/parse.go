package ingestion

import (
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/pkg/apperrors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
}

func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case decimal.Decimal:
		return val.String()
	case time.Time:
		return val.Format(time.DateOnly)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func isBlankRow(row []any) bool {
	for _, cell := range row {
		if cellText(cell) != "" {
			return false
		}
	}
	return true
}

func parseDecimal(field string, v any) (decimal.Decimal, error) {
	switch val := v.(type) {
	case decimal.Decimal:
		return val, nil
	case float64:
		return decimal.NewFromFloat(val), nil
	case int:
		return decimal.NewFromInt(int64(val)), nil
	case int64:
		return decimal.NewFromInt(val), nil
	}

	text := strings.ReplaceAll(cellText(v), ",", "")
	if text == "" {
		return decimal.Zero, fmt.Errorf("%w: %s is empty", apperrors.ErrInvalidArgument, field)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a number", apperrors.ErrInvalidArgument, field, text)
	}
	return d, nil
}

// parseInt accepts integral values only; spreadsheets often store them as "12.0".
func parseInt(field string, v any) (int64, error) {
	d, err := parseDecimal(field, v)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: %s %s is not a whole number", apperrors.ErrInvalidArgument, field, d)
	}
	return d.IntPart(), nil
}

func parseMoney(field string, v any) (float64, error) {
	d, err := parseDecimal(field, v)
	if err != nil {
		return 0, err
	}
	return d.Round(2).InexactFloat64(), nil
}

// parseDate accepts native times, ISO text and Excel serial day numbers.
// The time of day is discarded.
func parseDate(field string, v any) (time.Time, error) {
	if t, ok := v.(time.Time); ok {
		return truncateToDay(t), nil
	}

	text := cellText(v)
	if text == "" {
		return time.Time{}, fmt.Errorf("%w: %s is empty", apperrors.ErrInvalidArgument, field)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return truncateToDay(t), nil
		}
	}

	serial, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q is not a date", apperrors.ErrInvalidArgument, field, text)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q is not a date: %w", apperrors.ErrInvalidArgument, field, text, err)
	}
	return truncateToDay(t), nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func requireCells(kind RecordKind, row []any) error {
	if len(row) < kind.Columns() {
		return fmt.Errorf("%w: %s row has %d cells, need %d", apperrors.ErrInvalidArgument, kind, len(row), kind.Columns())
	}
	return nil
}

// parseCustomerRow reads (customer_id, first_name, last_name, age, phone_number,
// monthly_salary, approved_limit).
func parseCustomerRow(row []any) (*customer.Customer, error) {
	if err := requireCells(KindCustomer, row); err != nil {
		return nil, err
	}

	id, err := parseInt("customer_id", row[0])
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, fmt.Errorf("%w: customer_id must be positive", apperrors.ErrInvalidArgument)
	}
	age, err := parseInt("age", row[3])
	if err != nil {
		return nil, err
	}
	salary, err := parseMoney("monthly_salary", row[5])
	if err != nil {
		return nil, err
	}
	limit, err := parseMoney("approved_limit", row[6])
	if err != nil {
		return nil, err
	}

	return &customer.Customer{
		CustomerID:    id,
		FirstName:     cellText(row[1]),
		LastName:      cellText(row[2]),
		Age:           int(age),
		PhoneNumber:   cellText(row[4]),
		MonthlySalary: salary,
		ApprovedLimit: limit,
		CurrentDebt:   0,
	}, nil
}

// parseLoanRow reads (customer_id, loan_id, loan_amount, tenure, interest_rate,
// monthly_repayment, emis_paid_on_time, start_date, end_date).
func parseLoanRow(row []any) (*loan.Loan, error) {
	if err := requireCells(KindLoan, row); err != nil {
		return nil, err
	}

	customerID, err := parseInt("customer_id", row[0])
	if err != nil {
		return nil, err
	}
	loanID, err := parseInt("loan_id", row[1])
	if err != nil {
		return nil, err
	}
	if customerID <= 0 || loanID <= 0 {
		return nil, fmt.Errorf("%w: customer_id and loan_id must be positive", apperrors.ErrInvalidArgument)
	}
	amount, err := parseMoney("loan_amount", row[2])
	if err != nil {
		return nil, err
	}
	tenure, err := parseInt("tenure", row[3])
	if err != nil {
		return nil, err
	}
	rate, err := parseMoney("interest_rate", row[4])
	if err != nil {
		return nil, err
	}
	repayment, err := parseMoney("monthly_repayment", row[5])
	if err != nil {
		return nil, err
	}
	paid, err := parseInt("emis_paid_on_time", row[6])
	if err != nil {
		return nil, err
	}
	start, err := parseDate("start_date", row[7])
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", row[8])
	if err != nil {
		return nil, err
	}

	return &loan.Loan{
		LoanID:           loanID,
		CustomerID:       customerID,
		LoanAmount:       amount,
		Tenure:           int(tenure),
		InterestRate:     rate,
		MonthlyRepayment: repayment,
		EMIsPaidOnTime:   int(paid),
		StartDate:        start,
		EndDate:          end,
	}, nil
}
