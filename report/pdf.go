// Package report renders payroll reports for export.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/tutorpay/payroll-engine/payroll"
)

// PeriodPDF renders the period totals as a printable A4 report: one
// table row per employee plus the organization-wide footer.
func PeriodPDF(totals payroll.PeriodTotals, employees map[payroll.EmployeeID]payroll.Employee, start, end time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(120, 10, "Payroll Period Report")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(120, 8, fmt.Sprintf("Period: %s to %s",
		start.Format("2006-01-02"), end.Format("2006-01-02")))
	pdf.Ln(12)

	widths := []float64{60, 35, 25, 25, 30, 35, 35}
	headers := []string{"Employee", "Pay", "Hours", "Sessions", "Leave Days", "Adjustments", "Paid Days"}

	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range totals.ByEmployee {
		name := string(row.EmployeeID)
		if emp, ok := employees[row.EmployeeID]; ok && emp.Name != "" {
			name = emp.Name
		}
		cells := []string{
			name,
			row.Pay.StringFixed(2),
			row.Hours.StringFixed(2),
			fmt.Sprintf("%d", row.Sessions),
			row.PaidLeaveDays.StringFixed(2),
			row.AdjustmentsSum.StringFixed(2),
			fmt.Sprintf("%d", row.UniquePaidDays),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 8, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	footer := []string{
		"Total",
		totals.TotalPay.StringFixed(2),
		totals.TotalHours.StringFixed(2),
		fmt.Sprintf("%d", totals.TotalSessions),
		totals.TotalPaidLeaveDays.StringFixed(2),
		totals.TotalAdjustments.StringFixed(2),
		fmt.Sprintf("%d", totals.UniquePaidDays),
	}
	for i, cell := range footer {
		pdf.CellFormat(widths[i], 8, cell, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}
