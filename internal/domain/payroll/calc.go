package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComputeNetSalary returns basic + allowances - deductions.
// The sum is taken in decimal so values like 0.1 + 0.2 do not drift.
func ComputeNetSalary(basic, allowances, deductions float64) float64 {
	net := decimal.NewFromFloat(basic).
		Add(decimal.NewFromFloat(allowances)).
		Sub(decimal.NewFromFloat(deductions))
	return net.InexactFloat64()
}

// SumNet totals net salaries in decimal.
func SumNet(records []Payroll) float64 {
	total := decimal.Zero
	for _, rec := range records {
		total = total.Add(decimal.NewFromFloat(rec.NetSalary))
	}
	return total.Round(2).InexactFloat64()
}

// MonthRange parses YYYY-MM into the half-open interval [first, next).
func MonthRange(month string) (time.Time, time.Time, error) {
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return first, first.AddDate(0, 1, 0), nil
}
