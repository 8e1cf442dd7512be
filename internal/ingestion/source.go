package ingestion

import (
	"bytes"
	"credit-approval/internal/pkg/apperrors"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const unsupportedFileTypeMessage = "Unsupported file type. Please upload CSV or XLSX files."

// Table is a parsed spreadsheet: the header row plus the data rows below it.
type Table struct {
	Header []any
	Rows   [][]any
}

// ReadTable parses the first sheet of a .csv, .xlsx or .xls file. The format
// is chosen by the file name extension.
func ReadTable(filename string, r io.Reader) (*Table, error) {
	var (
		records [][]any
		err     error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		records, err = readCSV(r)
	case ".xlsx":
		records, err = readXLSX(r)
	case ".xls":
		records, err = readXLS(r)
	default:
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUnsupportedFileType,
			apperrors.NewValidationError("file", unsupportedFileTypeMessage))
	}
	if err != nil {
		return nil, apperrors.NewValidationError("file", fmt.Sprintf("Could not read %s: %v", filepath.Base(filename), err))
	}
	if len(records) == 0 {
		return nil, apperrors.NewValidationError("file", "The uploaded file is empty")
	}

	return &Table{Header: records[0], Rows: records[1:]}, nil
}

func readCSV(r io.Reader) ([][]any, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]any
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, stringsToCells(record))
	}
}

func readXLSX(r io.Reader) ([][]any, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	sheet := book.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}
	// Raw values keep dates as serial numbers instead of locale formatted text.
	rows, err := book.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	records := make([][]any, 0, len(rows))
	for _, row := range rows {
		records = append(records, stringsToCells(row))
	}
	return records, nil
}

func readXLS(r io.Reader) (records [][]any, err error) {
	// The legacy reader panics on some malformed files.
	defer func() {
		if rec := recover(); rec != nil {
			records, err = nil, fmt.Errorf("malformed xls workbook: %v", rec)
		}
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if book.NumSheets() == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet := book.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("workbook has no sheets")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		cells := make([]any, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, strings.TrimSpace(row.Col(c)))
		}
		records = append(records, trimTrailingBlanks(cells))
	}
	return trimTrailingEmptyRows(records), nil
}

func stringsToCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func trimTrailingBlanks(cells []any) []any {
	end := len(cells)
	for end > 0 && cellText(cells[end-1]) == "" {
		end--
	}
	return cells[:end]
}

func trimTrailingEmptyRows(records [][]any) [][]any {
	end := len(records)
	for end > 0 && len(records[end-1]) == 0 {
		end--
	}
	return records[:end]
}
