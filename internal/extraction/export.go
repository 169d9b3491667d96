package extraction

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/zombor/docverify/internal/document"
)

// WorkbookContentType is the MIME type of generated reports
const WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names, one per document kind
const (
	ChequeSheet = "ChequeData"
	BillSheet   = "BillData"
)

// column is one report column and how to render it for a result
type column struct {
	header string
	value  func(r *Result) string
}

var chequeMatchFields = []string{
	document.FieldBank, document.FieldAccountHolder, document.FieldAccountNumber,
	document.FieldAmount, document.FieldIFSCCode, document.FieldDate,
}

var billMatchFields = []string{
	document.FieldVendorName, document.FieldBillNumber, document.FieldDate,
	document.FieldTotalAmount, document.FieldTaxAmount, document.FieldGSTNumber,
	document.FieldVendorPhone, document.FieldVendorEmail, document.FieldCustomerName,
	document.FieldPaymentMethod,
}

func chequeColumns() []column {
	cols := []column{
		{"Bank Name", field(document.FieldBank)},
		{"Account Holder", field(document.FieldAccountHolder)},
		{"Account Number", field(document.FieldAccountNumber)},
		{"Amount", field(document.FieldAmount)},
		{"IFSC Code", field(document.FieldIFSCCode)},
		{"Date", field(document.FieldDate)},
		{"Signature Present", func(r *Result) string { return yesNo(r.Primary.Cheque.HasSignature) }},
		{"Rule-Based Accuracy", confidence},
		{"Bank Valid", valid(document.FieldBank)},
		{"Account Number Valid", valid(document.FieldAccountNumber)},
		{"IFSC Valid", valid(document.FieldIFSCCode)},
		{"Date Valid", valid(document.FieldDate)},
		{"Amount Valid", valid(document.FieldAmount)},
	}
	return append(cols, matchColumns(chequeMatchFields)...)
}

func billColumns() []column {
	cols := []column{
		{"Vendor Name", field(document.FieldVendorName)},
		{"Bill Number", field(document.FieldBillNumber)},
		{"Date", field(document.FieldDate)},
		{"Total Amount", billMoney(func(b *document.Bill) document.Money { return b.TotalAmount })},
		{"Tax Amount", billMoney(func(b *document.Bill) document.Money { return b.TaxAmount })},
		{"GST Number", field(document.FieldGSTNumber)},
		{"Vendor Phone", field(document.FieldVendorPhone)},
		{"Vendor Email", field(document.FieldVendorEmail)},
		{"Customer Name", field(document.FieldCustomerName)},
		{"Payment Method", field(document.FieldPaymentMethod)},
		{"Currency", field(document.FieldCurrency)},
		{"Rule-Based Accuracy", confidence},
		{"Vendor Name Valid", valid(document.FieldVendorName)},
		{"Bill Number Valid", valid(document.FieldBillNumber)},
		{"GST Number Valid", valid(document.FieldGSTNumber)},
		{"Phone Valid", valid(document.FieldVendorPhone)},
		{"Email Valid", valid(document.FieldVendorEmail)},
		{"Date Valid", valid(document.FieldDate)},
		{"Amount Valid", valid(document.FieldTotalAmount)},
	}
	return append(cols, matchColumns(billMatchFields)...)
}

func field(name string) func(r *Result) string {
	return func(r *Result) string {
		v, ok := r.Primary.Value(name)
		if !ok {
			return document.NA
		}
		return v
	}
}

func billMoney(get func(b *document.Bill) document.Money) func(r *Result) string {
	return func(r *Result) string {
		m := get(r.Primary.Bill)
		if !m.Known {
			return document.NA
		}
		return r.Primary.Bill.Currency + m.String()
	}
}

func valid(name string) func(r *Result) string {
	return func(r *Result) string {
		v, _ := r.Verdicts.Get(name)
		return yesNo(v.Valid)
	}
}

func confidence(r *Result) string {
	return fmt.Sprintf("%.1f%%", r.Confidence())
}

func matchColumns(fields []string) []column {
	cols := make([]column, 0, len(fields))
	for _, name := range fields {
		cols = append(cols, column{
			header: name + " Matches",
			value: func(r *Result) string {
				if !r.CrossValidated() {
					return document.NA
				}
				return yesNo(!r.Discrepancies().Has(name))
			},
		})
	}
	return cols
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Rows flattens the results of one kind into a header row and data rows.
// The first column numbers documents of that kind from 1.
func Rows(kind document.Kind, results []*Result) ([]string, [][]string) {
	var cols []column
	var counter string
	switch kind {
	case document.KindCheque:
		cols, counter = chequeColumns(), "Cheque No."
	case document.KindBill:
		cols, counter = billColumns(), "Bill No."
	default:
		return nil, nil
	}

	headers := []string{counter}
	for _, c := range cols {
		headers = append(headers, c.header)
	}

	var rows [][]string
	for _, r := range results {
		if r.Kind != kind || r.Primary == nil {
			continue
		}
		row := []string{strconv.Itoa(len(rows) + 1)}
		for _, c := range cols {
			row = append(row, c.value(r))
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// WriteWorkbook renders results as an XLSX workbook with one sheet per
// document kind present
func WriteWorkbook(results []*Result, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	written := 0
	for _, sheet := range []struct {
		name string
		kind document.Kind
	}{
		{ChequeSheet, document.KindCheque},
		{BillSheet, document.KindBill},
	} {
		headers, rows := Rows(sheet.kind, results)
		if len(rows) == 0 {
			continue
		}
		if _, err := f.NewSheet(sheet.name); err != nil {
			return nil, fmt.Errorf("creating sheet %s: %w", sheet.name, err)
		}
		if err := writeSheet(f, sheet.name, headers, rows); err != nil {
			return nil, err
		}
		written++
	}

	if written == 0 {
		// An empty report still needs one sheet
		if _, err := f.NewSheet(ChequeSheet); err != nil {
			return nil, fmt.Errorf("creating sheet %s: %w", ChequeSheet, err)
		}
		headers, _ := Rows(document.KindCheque, nil)
		if err := writeSheet(f, ChequeSheet, headers, nil); err != nil {
			return nil, err
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("Report generated",
		"rows", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]string) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("writing header %s: %w", h, err)
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("writing cell %s: %w", cell, err)
			}
		}
	}

	last, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetColWidth(sheet, "A", "A", 10)
	_ = f.SetColWidth(sheet, "B", last, 20)
	return nil
}
