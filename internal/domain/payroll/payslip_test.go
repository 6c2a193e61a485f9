package payroll

import (
	"bytes"
	"testing"
	"time"
)

func TestRenderPayslipProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	rec := Payroll{
		EmployeeName: "Ada Lovelace",
		Department:   "CSE",
		BasicSalary:  5000,
		Allowances:   500,
		Deductions:   200,
		NetSalary:    5300,
		PayDate:      time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		Status:       StatusPaid,
		BankAccount:  "DE89370400440532013000",
	}
	if err := RenderPayslip(&buf, rec); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected pdf header, got %q", buf.Bytes()[:min(8, buf.Len())])
	}
}

func TestLastDigits(t *testing.T) {
	if got := lastDigits("123456789", 4); got != "6789" {
		t.Fatalf("unexpected %q", got)
	}
	if got := lastDigits("12", 4); got != "12" {
		t.Fatalf("unexpected %q", got)
	}
}
