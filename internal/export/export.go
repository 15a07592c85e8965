// Package export renders financial records as downloadable files.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/natovichat/rent-management-app/api/internal/models"
)

// Format is an export file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat is returned by ParseFormat for anything but csv or xlsx.
var ErrUnsupportedFormat = errors.New("format must be csv or xlsx")

// ParseFormat parses a format query value. Empty means csv.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename returns base with the format's extension.
func (f Format) Filename(base string) string {
	return base + "." + string(f)
}

// Table is a titled grid of cells. Cells hold strings, decimals, dates or
// anything fmt can print.
type Table struct {
	Title  string
	Header []string
	Rows   [][]any
}

// ExpenseTable lays out expenses one per row.
func ExpenseTable(expenses []models.Expense) Table {
	t := Table{
		Title:  "Expenses",
		Header: []string{"ID", "Property ID", "Date", "Type", "Amount", "Description"},
		Rows:   make([][]any, 0, len(expenses)),
	}
	for _, e := range expenses {
		t.Rows = append(t.Rows, []any{
			e.ID.String(), e.PropertyID.String(), e.Date, string(e.Type), e.Amount, e.Description,
		})
	}
	return t
}

// IncomeTable lays out income records one per row.
func IncomeTable(income []models.Income) Table {
	t := Table{
		Title:  "Income",
		Header: []string{"ID", "Property ID", "Date", "Type", "Amount", "Source", "Description"},
		Rows:   make([][]any, 0, len(income)),
	}
	for _, in := range income {
		t.Rows = append(t.Rows, []any{
			in.ID.String(), in.PropertyID.String(), in.Date, string(in.Type), in.Amount, in.Source, in.Description,
		})
	}
	return t
}

// Write renders t to w in the given format.
func Write(w io.Writer, format Format, t Table) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	}
	return fmt.Errorf("%w: got %q", ErrUnsupportedFormat, format)
}

// WriteCSV writes a header line then one line per row. Money is printed
// with two decimals and dates as YYYY-MM-DD.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(t.Header))
	for _, row := range t.Rows {
		for i, cell := range row {
			record[i] = csvCell(cell)
		}
		if err := cw.Write(record[:len(row)]); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formulaPrefixes start a formula when a spreadsheet opens the cell.
const formulaPrefixes = "=+-@\t\r"

// safeText quotes free text that a spreadsheet would read as a formula.
func safeText(s string) string {
	if s != "" && strings.ContainsRune(formulaPrefixes, rune(s[0])) {
		return "'" + s
	}
	return s
}

func csvCell(v any) string {
	switch c := v.(type) {
	case string:
		return safeText(c)
	case decimal.Decimal:
		return c.StringFixed(2)
	case time.Time:
		return c.Format(models.DateLayout)
	case nil:
		return ""
	default:
		return fmt.Sprint(c)
	}
}

// WriteXLSX writes t as a single-sheet workbook named after its title, with
// a bold header row and money as numbers.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Title
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for r, row := range t.Rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = xlsxCell(cell)
		}
		axis, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func xlsxCell(v any) any {
	switch c := v.(type) {
	case string:
		return safeText(c)
	case decimal.Decimal:
		return c.Round(2).InexactFloat64()
	case time.Time:
		return c.Format(models.DateLayout)
	default:
		return c
	}
}
