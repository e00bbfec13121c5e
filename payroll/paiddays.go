package payroll

import "github.com/shopspring/decimal"

var half = decimal.NewFromFloat(0.5)

// ResolvePaidDays returns the days that count toward base pay.
//
// With pro-rating on it is present + 0.5*half, and it is NOT clamped to the
// denominator: over-marked attendance yields more than 100% of base.
// With pro-rating off every working day is paid, which is zero for a
// range that is all store leave.
func ResolvePaidDays(att AttendanceCounts, wd WorkingDays, opts Options) decimal.Decimal {
	if !opts.ProRate {
		return decimal.NewFromInt(int64(wd.Raw))
	}
	present := decimal.NewFromInt(int64(att.PresentDays))
	halves := decimal.NewFromInt(int64(att.HalfDays)).Mul(half)
	return present.Add(halves)
}
