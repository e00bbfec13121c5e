/*
engine.go - The single salary computation entry point

PURPOSE:
  ComputeSalary is the one function every consumer calls: the summary
  table, the payslip, the attendance drill-down and provisioning. It is
  pure: identical inputs give bit-identical results, nothing is cached,
  nothing is read from outside the SalaryInput.

PIPELINE:
  1. Sanitize inputs (negative amounts/counts -> 0, missing data -> empty)
  2. Working days:  ResolveWorkingDays(period, store leaves)
  3. Paid days:     ResolvePaidDays(attendance, working days, pro-rate)
  4. Base portion:  ComputeBasePortion (per-day deduction or proportional)
  5. Incentive:     ResolveIncentive (commission + binary target bonus)
  6. Actual:        max(0, round(base) + incentive)
  7. Suggested:     max(0, actual - given + received)

ROUNDING:
  Only the base portion is rounded, and only where it joins the incentive.
  Every intermediate value stays at full decimal precision.

SEE ALSO:
  - workdays.go, paiddays.go, basepay.go, incentive.go, advances.go
  - aggregate.go: Joins provider data and calls ComputeSalary per employee
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// ComputeSalary derives the gross and net figures for one employee.
func ComputeSalary(in SalaryInput) SalaryResult {
	mapping := in.effectiveMapping()
	att := in.Attendance.Sanitized()
	bill := in.Billing.Sanitized()
	window := in.Period.Window()

	wd := ResolveWorkingDays(in.Period, att.StoreLeaveDates)
	paid := ResolvePaidDays(att, wd, in.Options)
	base := ComputeBasePortion(mapping.BaseSalary, mapping.LeaveDeductionPerDay, paid, wd)
	inc := ResolveIncentive(mapping.Target, mapping.IncentiveBonus, bill.BillingTotal, bill.ComputedIncentive)
	actual := ActualSalary(base.Portion, inc.Total)
	adv := FoldAdvances(AdvancesIn(in.Advances, in.Employee.ID, window))

	return SalaryResult{
		EmployeeID: in.Employee.ID,
		Period:     in.Period,

		BaseSalary:           mapping.BaseSalary,
		Target:               mapping.Target,
		IncentiveBonus:       mapping.IncentiveBonus,
		LeaveDeductionPerDay: mapping.LeaveDeductionPerDay,
		BillingTotal:         bill.BillingTotal,
		ComputedIncentive:    bill.ComputedIncentive,
		PresentDays:          att.PresentDays,
		HalfDays:             att.HalfDays,
		AbsentDays:           att.AbsentDays,
		StoreLeaveDays:       wd.StoreLeaveDays,
		ProRate:              in.Options.ProRate,

		WorkingDays:            wd.Raw,
		WorkingDaysDenominator: wd.Raw,
		PaidDays:               paid,
		UnpaidDays:             base.UnpaidDays,
		BaseMode:               base.Mode,
		BasePortion:            base.Portion,
		TargetHit:              inc.TargetHit,
		TargetBonus:            inc.TargetBonus,
		TotalIncentive:         inc.Total,
		ActualSalary:           actual,
		Advances:               adv,
		SuggestedSalary:        SuggestedSalary(actual, adv),
	}
}

func (in SalaryInput) effectiveMapping() IncentiveMapping {
	if in.Mapping != nil {
		return in.Mapping.Sanitized()
	}
	return IncentiveMapping{
		EmployeeID:           in.Employee.ID,
		Scope:                in.Employee.Scope,
		PayCycle:             CycleMonthly,
		BaseSalary:           in.Employee.DefaultBaseSalary,
		Target:               decimal.Zero,
		IncentiveBonus:       decimal.Zero,
		LeaveDeductionPerDay: decimal.Zero,
	}.Sanitized()
}
