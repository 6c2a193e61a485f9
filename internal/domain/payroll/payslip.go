package payroll

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// RenderPayslip writes a one-page A4 payslip for rec.
func RenderPayslip(w io.Writer, rec Payroll) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", rec.EmployeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Department: %s", rec.Department))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Pay date: %s", rec.PayDate.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", rec.Status))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Basic salary: %.2f", rec.BasicSalary))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Allowances: %.2f", rec.Allowances))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %.2f", rec.Deductions))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net salary: %.2f", rec.NetSalary))
	if rec.BankAccount != "" {
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 8, fmt.Sprintf("Paid to account ending %s", lastDigits(rec.BankAccount, 4)))
	}
	return pdf.Output(w)
}

func renderPayslipBytes(rec Payroll) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderPayslip(&buf, rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lastDigits(value string, n int) string {
	if len(value) <= n {
		return value
	}
	return value[len(value)-n:]
}
