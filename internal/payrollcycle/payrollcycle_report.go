package payrollcycle

import (
	"bytes"
	"fmt"
	"time"

	"kazini-payroll/internal/payrollcalc"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"

	reportSheet = "Payroll"
)

var reportHeadings = []string{
	"Employee", "Bank Code", "Account Number", "Gross Pay", "PAYE", "Statutory Deductions", "Net Pay", "Service Fee",
}

func RenderReport(cycle PayrollCycle, items []PayrollCycleItem, format string) (Report, error) {
	name := reportFilename(cycle, format)
	switch format {
	case FormatPDF:
		body, err := renderPDF(cycle, items)
		if err != nil {
			return Report{}, err
		}
		return Report{Filename: name, ContentType: contentTypePDF, Body: body}, nil
	default:
		body, err := renderXLSX(cycle, items)
		if err != nil {
			return Report{}, err
		}
		return Report{Filename: name, ContentType: contentTypeXLSX, Body: body}, nil
	}
}

func reportFilename(cycle PayrollCycle, format string) string {
	count := int64(0)
	if cycle.CycleCount != nil {
		count = *cycle.CycleCount
	}
	return fmt.Sprintf("payroll-cycle-%04d-%s.%s", count, cycle.ID.String()[:8], format)
}

// kes formats cents as a plain major-unit amount.
func kes(cents int64) string {
	return payrollcalc.FromCents(cents).StringFixed(2)
}

func itemRow(i PayrollCycleItem) []any {
	return []any{
		i.FullName,
		i.BankCode,
		i.AccountNumber,
		payrollcalc.FromCents(i.GrossPay).InexactFloat64(),
		payrollcalc.FromCents(i.PayeTax).InexactFloat64(),
		payrollcalc.FromCents(i.StatutoryDeductions).InexactFloat64(),
		payrollcalc.FromCents(i.NetPay).InexactFloat64(),
		payrollcalc.FromCents(i.ServiceFee).InexactFloat64(),
	}
}

func renderXLSX(cycle PayrollCycle, items []PayrollCycleItem) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, err
	}

	for col, h := range reportHeadings {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(reportSheet, cell, h); err != nil {
			return nil, err
		}
	}

	row := 2
	for _, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		values := itemRow(item)
		if err := f.SetSheetRow(reportSheet, cell, &values); err != nil {
			return nil, err
		}
		row++
	}

	totals := []any{
		"TOTAL", "", "",
		payrollcalc.FromCents(cycle.TotalGrossPay).InexactFloat64(),
		payrollcalc.FromCents(cycle.TotalPayeTax).InexactFloat64(),
		payrollcalc.FromCents(cycle.TotalStatutoryDeductions).InexactFloat64(),
		payrollcalc.FromCents(cycle.TotalNetPay).InexactFloat64(),
		payrollcalc.FromCents(cycle.TotalKaziniHRFees).InexactFloat64(),
	}
	if err := f.SetSheetRow(reportSheet, fmt.Sprintf("A%d", row), &totals); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(reportSheet, fmt.Sprintf("A%d", row+1), "Amount due"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(reportSheet, fmt.Sprintf("H%d", row+1), payrollcalc.FromCents(cycle.TotalDisbursementAmount).InexactFloat64()); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPDF(cycle PayrollCycle, items []PayrollCycleItem) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	count := int64(0)
	if cycle.CycleCount != nil {
		count = *cycle.CycleCount
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Payroll Cycle #%d", count))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	if cycle.RunDate != nil {
		pdf.Cell(0, 6, "Run date: "+cycle.RunDate.Format(time.DateOnly))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s    Employees: %d", cycle.Status, cycle.EmployeeCount))
	pdf.Ln(10)

	widths := []float64{60, 20, 35, 30, 28, 35, 30, 28}
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range reportHeadings {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range items {
		cells := []string{
			item.FullName,
			item.BankCode,
			item.AccountNumber,
			kes(item.GrossPay),
			kes(item.PayeTax),
			kes(item.StatutoryDeductions),
			kes(item.NetPay),
			kes(item.ServiceFee),
		}
		for i, v := range cells {
			align := "R"
			if i < 3 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, v, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 9)
	totals := []string{
		"TOTAL", "", "",
		kes(cycle.TotalGrossPay),
		kes(cycle.TotalPayeTax),
		kes(cycle.TotalStatutoryDeductions),
		kes(cycle.TotalNetPay),
		kes(cycle.TotalKaziniHRFees),
	}
	for i, v := range totals {
		pdf.CellFormat(widths[i], 7, v, "1", 0, "R", false, 0, "")
	}
	pdf.Ln(10)
	pdf.Cell(0, 7, "Amount due (KES): "+kes(cycle.TotalDisbursementAmount))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
