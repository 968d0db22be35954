// Package report converts transaction lists into downloadable spreadsheets.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"fintrack/internal/core"
)

// ContentType is the xlsx MIME type sent with report downloads.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const dateLayout = "02/01/2006"

// Column maps one transaction attribute to a spreadsheet column.
type Column struct {
	Header string
	Value  func(core.Transaction) any
}

// IncomeColumns is the canonical mapping for income reports.
func IncomeColumns() []Column {
	return []Column{
		{Header: "Source", Value: func(t core.Transaction) any { return t.Label }},
		{Header: "Amount", Value: func(t core.Transaction) any { return t.Amount.Euros() }},
		{Header: "Date", Value: func(t core.Transaction) any { return t.Date.Format(dateLayout) }},
	}
}

// ExpenseColumns is the canonical mapping for expense reports.
func ExpenseColumns() []Column {
	return []Column{
		{Header: "Category", Value: func(t core.Transaction) any { return t.Label }},
		{Header: "Amount", Value: func(t core.Transaction) any { return t.Amount.Euros() }},
		{Header: "Date", Value: func(t core.Transaction) any { return t.Date.Format(dateLayout) }},
	}
}

// SheetName returns the worksheet title for a transaction kind.
func SheetName(kind core.Kind) string {
	if kind == core.KindIncome {
		return "Income"
	}
	return "Expenses"
}

// Filename returns the attachment name for a transaction kind.
func Filename(kind core.Kind) string {
	return string(kind) + "_report.xlsx"
}

// WriteXLSX renders one row per transaction into a single-sheet workbook and
// returns the serialized file. Rows follow the input order; callers sort.
func WriteXLSX(sheet string, txs []core.Transaction, cols []Column) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for c, col := range cols {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return nil, fmt.Errorf("set header %q: %w", col.Header, err)
		}
	}

	for r, tx := range txs {
		for c, col := range cols {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, col.Value(tx)); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
