// Package spreadsheet reads the customer and loan workbooks used for the
// initial data load.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"credit-approval/internal/usecase/ingest"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var ErrMissingColumn = errors.New("missing column")

// CellError points at the cell that could not be parsed.
type CellError struct {
	Row    int
	Column string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("row %d, column %q: %v", e.Row, e.Column, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }

const (
	colCustomerID     = "Customer ID"
	colFirstName      = "First Name"
	colLastName       = "Last Name"
	colAge            = "Age"
	colPhoneNumber    = "Phone Number"
	colMonthlySalary  = "Monthly Salary"
	colApprovedLimit  = "Approved Limit"
	colLoanID         = "Loan ID"
	colLoanAmount     = "Loan Amount"
	colTenure         = "Tenure"
	colInterestRate   = "Interest Rate"
	colMonthlyPayment = "Monthly payment"
	colEMIsPaid       = "EMIs paid on Time"
	colApprovalDate   = "Date of Approval"
	colEndDate        = "End Date"
)

func ReadCustomersFile(path string) ([]ingest.CustomerRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCustomers(f)
}

func ReadLoansFile(path string) ([]ingest.LoanRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLoans(f)
}

// ReadCustomers parses the first sheet of a customer workbook.
func ReadCustomers(r io.Reader) ([]ingest.CustomerRow, error) {
	t, err := readTable(r, colCustomerID, colFirstName, colLastName, colMonthlySalary)
	if err != nil {
		return nil, err
	}
	out := make([]ingest.CustomerRow, 0, len(t.rows))
	for _, tr := range t.rows {
		c := t.cursor(tr)
		row := ingest.CustomerRow{
			Row:           c.row,
			CustomerID:    c.id(colCustomerID),
			FirstName:     c.str(colFirstName),
			LastName:      c.str(colLastName),
			Age:           c.count(colAge),
			PhoneNumber:   c.whole(colPhoneNumber),
			MonthlySalary: c.money(colMonthlySalary),
			ApprovedLimit: c.money(colApprovedLimit),
		}
		if c.err != nil {
			return nil, c.err
		}
		out = append(out, row)
	}
	return out, nil
}

// ReadLoans parses the first sheet of a loan workbook.
func ReadLoans(r io.Reader) ([]ingest.LoanRow, error) {
	t, err := readTable(r, colCustomerID, colLoanAmount, colTenure, colInterestRate, colApprovalDate)
	if err != nil {
		return nil, err
	}
	out := make([]ingest.LoanRow, 0, len(t.rows))
	for _, tr := range t.rows {
		c := t.cursor(tr)
		row := ingest.LoanRow{
			Row:            c.row,
			CustomerID:     c.id(colCustomerID),
			LoanID:         c.id(colLoanID),
			LoanAmount:     c.money(colLoanAmount),
			Tenure:         c.count(colTenure),
			InterestRate:   c.money(colInterestRate),
			MonthlyPayment: c.money(colMonthlyPayment),
			EMIsPaidOnTime: c.count(colEMIsPaid),
			ApprovalDate:   c.date(colApprovalDate),
			EndDate:        c.date(colEndDate),
		}
		if c.err != nil {
			return nil, c.err
		}
		out = append(out, row)
	}
	return out, nil
}

type table struct {
	index map[string]int
	rows  []tableRow
}

type tableRow struct {
	num   int // 1-based sheet row
	cells []string
}

func readTable(r io.Reader, required ...string) (*table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	t := &table{index: make(map[string]int)}
	for i, h := range rows[0] {
		t.index[normalize(h)] = i
	}
	for _, col := range required {
		if _, ok := t.index[normalize(col)]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	for i, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		t.rows = append(t.rows, tableRow{num: i + 2, cells: cells})
	}
	return t, nil
}

func normalize(h string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(h)))
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// cursor reads typed cells from one row and keeps the first parse error.
type cursor struct {
	t     *table
	cells []string
	row   int
	err   error
}

func (t *table) cursor(r tableRow) *cursor {
	return &cursor{t: t, cells: r.cells, row: r.num}
}

func (c *cursor) raw(col string) string {
	i, ok := c.t.index[normalize(col)]
	if !ok || i >= len(c.cells) {
		return ""
	}
	return strings.TrimSpace(c.cells[i])
}

func (c *cursor) fail(col string, err error) {
	if c.err == nil {
		c.err = &CellError{Row: c.row, Column: col, Err: err}
	}
}

func (c *cursor) str(col string) string { return c.raw(col) }

func (c *cursor) money(col string) decimal.Decimal {
	v := c.raw(col)
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		c.fail(col, err)
		return decimal.Zero
	}
	return d
}

func (c *cursor) whole(col string) int64 {
	d := c.money(col)
	if !d.Equal(d.Truncate(0)) {
		c.fail(col, fmt.Errorf("%s is not a whole number", d))
		return 0
	}
	return d.IntPart()
}

func (c *cursor) count(col string) int { return int(c.whole(col)) }

func (c *cursor) id(col string) uint64 {
	n := c.whole(col)
	if n < 0 {
		c.fail(col, fmt.Errorf("negative id %d", n))
		return 0
	}
	return uint64(n)
}

var dateLayouts = []string{"2006-01-02", "1/2/2006", "01/02/2006", "2006-01-02 15:04:05", time.RFC3339}

// date accepts Excel serial numbers and the common text layouts.
func (c *cursor) date(col string) time.Time {
	v := c.raw(col)
	if v == "" {
		return time.Time{}
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			c.fail(col, err)
			return time.Time{}
		}
		return t
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	c.fail(col, fmt.Errorf("unrecognised date %q", v))
	return time.Time{}
}
