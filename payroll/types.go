// Package payroll implements the salary and incentive computation engine.
// Leaf data (attendance, mappings, billing, advances) comes from providers;
// ComputeSalary joins one employee's inputs into a SalaryResult.
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/salary-engine/generic"
)

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee is referenced by id; the default base salary applies only when
// no incentive mapping exists for the selected cycle.
type Employee struct {
	ID                generic.EmployeeID
	Scope             generic.Scope
	Name              string
	DefaultBaseSalary decimal.Decimal
}

// =============================================================================
// INCENTIVE MAPPING
// =============================================================================

type PayCycle string

const (
	CycleMonthly PayCycle = "monthly"
	CycleWeekly  PayCycle = "weekly"
)

func (c PayCycle) Valid() bool { return c == CycleMonthly || c == CycleWeekly }

// CommissionRow is a per-service fixed commission. Rows feed the billing
// aggregator; the engine only sees the aggregated result.
type CommissionRow struct {
	ServiceID  string
	FixedValue decimal.Decimal
}

// IncentiveMapping is unique per (EmployeeID, PayCycle) within a scope.
// IncentiveBonus <= Target is enforced when the mapping is written.
type IncentiveMapping struct {
	EmployeeID           generic.EmployeeID
	Scope                generic.Scope
	PayCycle             PayCycle
	BaseSalary           decimal.Decimal
	Target               decimal.Decimal
	IncentiveBonus       decimal.Decimal
	LeaveDeductionPerDay decimal.Decimal
	Commissions          []CommissionRow
	UpdatedAt            time.Time
}

// Sanitized returns a copy with every amount clamped at zero.
func (m IncentiveMapping) Sanitized() IncentiveMapping {
	m.BaseSalary = generic.NonNegative(m.BaseSalary)
	m.Target = generic.NonNegative(m.Target)
	m.IncentiveBonus = generic.NonNegative(m.IncentiveBonus)
	m.LeaveDeductionPerDay = generic.NonNegative(m.LeaveDeductionPerDay)
	if m.PayCycle == "" {
		m.PayCycle = CycleMonthly
	}
	return m
}

// CommissionFor returns the fixed commission for a service, if mapped.
func (m IncentiveMapping) CommissionFor(serviceID string) (decimal.Decimal, bool) {
	for _, c := range m.Commissions {
		if c.ServiceID == serviceID {
			return c.FixedValue, true
		}
	}
	return decimal.Zero, false
}

// =============================================================================
// ATTENDANCE
// =============================================================================

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusHalf    AttendanceStatus = "half"
	StatusAbsent  AttendanceStatus = "absent"
)

func (s AttendanceStatus) Valid() bool {
	return s == StatusPresent || s == StatusHalf || s == StatusAbsent
}

// AttendanceCounts are marked days only. Unmarked days are not counted here.
type AttendanceCounts struct {
	PresentDays     int
	HalfDays        int
	AbsentDays      int
	StoreLeaveDates generic.DateSet
}

func (a AttendanceCounts) Sanitized() AttendanceCounts {
	a.PresentDays = generic.NonNegativeInt(a.PresentDays)
	a.HalfDays = generic.NonNegativeInt(a.HalfDays)
	a.AbsentDays = generic.NonNegativeInt(a.AbsentDays)
	if a.StoreLeaveDates == nil {
		a.StoreLeaveDates = generic.NewDateSet()
	}
	return a
}

// AttendanceDay is one marked day for one employee.
type AttendanceDay struct {
	EmployeeID generic.EmployeeID
	Date       generic.TimePoint
	Status     AttendanceStatus
}

// =============================================================================
// BILLING
// =============================================================================

// BillingAggregate is the per-employee, per-period billing rollup.
type BillingAggregate struct {
	BillingTotal      decimal.Decimal
	ComputedIncentive decimal.Decimal
	LineCount         int
}

func (b BillingAggregate) Sanitized() BillingAggregate {
	b.BillingTotal = generic.NonNegative(b.BillingTotal)
	b.ComputedIncentive = generic.NonNegative(b.ComputedIncentive)
	b.LineCount = generic.NonNegativeInt(b.LineCount)
	return b
}

// BillingLine is a single billed service, the raw input of the aggregator.
type BillingLine struct {
	ID         string
	EmployeeID generic.EmployeeID
	Date       generic.TimePoint
	ServiceID  string
	Amount     decimal.Decimal
}

// =============================================================================
// COMPUTATION INPUT / OUTPUT
// =============================================================================

// Options are the per-employee switches that are not part of stored data.
type Options struct {
	// ProRate scales base pay with attendance. When false every working
	// day of the period is paid.
	ProRate bool
}

// DefaultOptions has pro-rating on.
func DefaultOptions() Options { return Options{ProRate: true} }

// SalaryInput is everything ComputeSalary reads. A nil Mapping falls back
// to the employee's default base salary with no target and no deduction rate.
type SalaryInput struct {
	Employee   Employee
	Mapping    *IncentiveMapping
	Attendance AttendanceCounts
	Billing    BillingAggregate
	Advances   []AdvanceEntry
	Period     generic.PayPeriod
	Options    Options
}

// BaseMode names the base-pay formula that was applied.
type BaseMode string

const (
	ModeProportional BaseMode = "proportional"
	ModePerDay       BaseMode = "per_day_deduction"
)

// SalaryResult is derived on every read and never cached across periods.
type SalaryResult struct {
	EmployeeID generic.EmployeeID
	Period     generic.PayPeriod

	// Inputs echoed for display and audit.
	BaseSalary           decimal.Decimal
	Target               decimal.Decimal
	IncentiveBonus       decimal.Decimal
	LeaveDeductionPerDay decimal.Decimal
	BillingTotal         decimal.Decimal
	ComputedIncentive    decimal.Decimal
	PresentDays          int
	HalfDays             int
	AbsentDays           int
	StoreLeaveDays       int
	ProRate              bool

	WorkingDays int
	// WorkingDaysDenominator is the reported denominator. It can be 0 for a
	// range; division always uses max(1, denominator).
	WorkingDaysDenominator int
	PaidDays               decimal.Decimal
	UnpaidDays             decimal.Decimal
	BaseMode               BaseMode
	BasePortion            decimal.Decimal
	TargetHit              bool
	TargetBonus            decimal.Decimal
	TotalIncentive         decimal.Decimal
	ActualSalary           decimal.Decimal
	Advances               AdvanceBreakdown
	SuggestedSalary        decimal.Decimal
}

// RoundedBasePortion is the base portion as it enters ActualSalary.
func (r SalaryResult) RoundedBasePortion() decimal.Decimal {
	return RoundCurrency(r.BasePortion)
}

// =============================================================================
// PROVISIONING
// =============================================================================

// ProvisionedSalary is the only persisted engine output, one per
// (scope, employee, period key). Re-provisioning overwrites it.
type ProvisionedSalary struct {
	ID              string
	Scope           generic.Scope
	EmployeeID      generic.EmployeeID
	PeriodKey       string
	ActualSalary    decimal.Decimal
	SuggestedSalary decimal.Decimal
	CustomSalary    *decimal.Decimal
	FinalSalary     decimal.Decimal
	ProvidedBy      string
	ProvidedAt      time.Time
}
