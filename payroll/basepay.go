package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/salary-engine/generic"
)

// BasePay is the base-salary share earned in a period, at full precision.
type BasePay struct {
	Mode       BaseMode
	UnpaidDays decimal.Decimal
	Portion    decimal.Decimal
}

// ComputeBasePortion selects the formula by the deduction rate:
//
//	per-day:      max(0, base - rate * max(0, raw - paid))
//	proportional: max(0, base * paid / max(1, raw))
//
// Raw working days may be 0 for a range made entirely of store leaves;
// only the divisor is floored. The portion is not rounded here; see
// ActualSalary.
func ComputeBasePortion(baseSalary, leaveDeductionPerDay, paidDays decimal.Decimal, wd WorkingDays) BasePay {
	raw := decimal.NewFromInt(int64(generic.NonNegativeInt(wd.Raw)))
	divisor := wd.Denominator
	if divisor < 1 {
		divisor = 1
	}
	unpaid := generic.NonNegative(raw.Sub(paidDays))

	if leaveDeductionPerDay.IsPositive() {
		return BasePay{
			Mode:       ModePerDay,
			UnpaidDays: unpaid,
			Portion:    generic.NonNegative(baseSalary.Sub(leaveDeductionPerDay.Mul(unpaid))),
		}
	}

	return BasePay{
		Mode:       ModeProportional,
		UnpaidDays: unpaid,
		Portion:    generic.NonNegative(baseSalary.Mul(paidDays).Div(decimal.NewFromInt(int64(divisor)))),
	}
}

// RoundCurrency rounds to whole currency units, half away from zero.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}
