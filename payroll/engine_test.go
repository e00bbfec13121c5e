package payroll_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/salary-engine/generic"
	"github.com/warp/salary-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertMoney(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.Truef(t, got.Equal(dec(want)), "%s: want %s, got %s", msg, want, got.String())
}

// april2025 has 30 calendar days.
func april2025() generic.PayPeriod {
	return generic.MonthPeriod(generic.MonthKey{Year: 2025, Month: time.April})
}

func day(m time.Month, d int) generic.TimePoint { return generic.NewTimePoint(2025, m, d) }

func mapping(base string) *payroll.IncentiveMapping {
	return &payroll.IncentiveMapping{
		EmployeeID: "emp-1",
		PayCycle:   payroll.CycleMonthly,
		BaseSalary: dec(base),
	}
}

func input(m *payroll.IncentiveMapping, present, halfDays, absent int) payroll.SalaryInput {
	return payroll.SalaryInput{
		Employee:   payroll.Employee{ID: "emp-1", Name: "Asha"},
		Mapping:    m,
		Attendance: payroll.AttendanceCounts{PresentDays: present, HalfDays: halfDays, AbsentDays: absent},
		Period:     april2025(),
		Options:    payroll.DefaultOptions(),
	}
}

func advance(m time.Month, d int, amount string) payroll.AdvanceEntry {
	return payroll.AdvanceEntry{EmployeeID: "emp-1", Date: day(m, d), Amount: dec(amount)}
}

// =============================================================================
// EXAMPLE SCENARIOS
// =============================================================================

func TestComputeSalary_FullAttendance_PaysFullBase(t *testing.T) {
	// GIVEN: 30000 base, 30 working days, no store leaves, present all 30
	// WHEN: Computing with pro-rate on
	// THEN: Base portion is the full base salary

	r := payroll.ComputeSalary(input(mapping("30000"), 30, 0, 0))

	assert.Equal(t, 30, r.WorkingDaysDenominator)
	assertMoney(t, "30", r.PaidDays, "paid days")
	assertMoney(t, "30000", r.BasePortion, "base portion")
	assertMoney(t, "30000", r.ActualSalary, "actual")
	assert.Equal(t, payroll.ModeProportional, r.BaseMode)
}

func TestComputeSalary_HalfAttendance_PaysHalfBase(t *testing.T) {
	r := payroll.ComputeSalary(input(mapping("30000"), 15, 0, 15))

	assertMoney(t, "15000", r.BasePortion, "base portion")
	assertMoney(t, "15000", r.ActualSalary, "actual")
}

func TestComputeSalary_PerDayDeduction(t *testing.T) {
	// GIVEN: 1000/day deduction, 30 working days, 28 paid days
	// THEN: unpaid = 2, base = 30000 - 2000

	m := mapping("30000")
	m.LeaveDeductionPerDay = dec("1000")

	r := payroll.ComputeSalary(input(m, 28, 0, 2))

	assert.Equal(t, payroll.ModePerDay, r.BaseMode)
	assertMoney(t, "2", r.UnpaidDays, "unpaid days")
	assertMoney(t, "28000", r.BasePortion, "base portion")
}

func TestComputeSalary_PerDayDeduction_NeverNegative(t *testing.T) {
	m := mapping("10000")
	m.LeaveDeductionPerDay = dec("1000")

	r := payroll.ComputeSalary(input(m, 0, 0, 30))

	assertMoney(t, "30", r.UnpaidDays, "unpaid days")
	assertMoney(t, "0", r.BasePortion, "base portion floors at zero")
	assertMoney(t, "0", r.ActualSalary, "actual")
}

func TestComputeSalary_TargetBoundary(t *testing.T) {
	// GIVEN: target 50000, bonus 2000
	// WHEN: billing is exactly 50000 vs 49999
	// THEN: bonus included only at/above target

	m := mapping("30000")
	m.Target = dec("50000")
	m.IncentiveBonus = dec("2000")

	at := input(m, 30, 0, 0)
	at.Billing = payroll.BillingAggregate{BillingTotal: dec("50000")}
	below := input(m, 30, 0, 0)
	below.Billing = payroll.BillingAggregate{BillingTotal: dec("49999")}

	hit := payroll.ComputeSalary(at)
	miss := payroll.ComputeSalary(below)

	assert.True(t, hit.TargetHit)
	assertMoney(t, "2000", hit.TotalIncentive, "incentive at target")
	assertMoney(t, "32000", hit.ActualSalary, "actual at target")

	assert.False(t, miss.TargetHit)
	assertMoney(t, "0", miss.TotalIncentive, "incentive below target")
	assertMoney(t, "30000", miss.ActualSalary, "actual below target")
}

func TestComputeSalary_ZeroTargetNeverHits(t *testing.T) {
	m := mapping("30000")
	m.IncentiveBonus = dec("500")

	in := input(m, 30, 0, 0)
	in.Billing = payroll.BillingAggregate{BillingTotal: dec("999999"), ComputedIncentive: dec("120")}
	r := payroll.ComputeSalary(in)

	assert.False(t, r.TargetHit)
	assertMoney(t, "120", r.TotalIncentive, "commission only")
}

func TestComputeSalary_AdvancesNetting(t *testing.T) {
	// GIVEN: actual 28000, 5000 given, 1000 received back
	// THEN: suggested = 28000 - 5000 + 1000 = 24000

	m := mapping("30000")
	m.LeaveDeductionPerDay = dec("1000")
	in := input(m, 28, 0, 2)
	in.Advances = []payroll.AdvanceEntry{
		advance(time.April, 3, "3000"),
		advance(time.April, 10, "2000"),
		advance(time.April, 20, "-1000"),
	}

	r := payroll.ComputeSalary(in)

	assertMoney(t, "28000", r.ActualSalary, "actual")
	assertMoney(t, "5000", r.Advances.Given, "given")
	assertMoney(t, "1000", r.Advances.Received, "received")
	assertMoney(t, "4000", r.Advances.Net, "net")
	assertMoney(t, "24000", r.SuggestedSalary, "suggested")
}

func TestComputeSalary_AllAbsent_IncentiveOnly(t *testing.T) {
	m := mapping("30000")
	in := input(m, 0, 0, 30)
	in.Billing = payroll.BillingAggregate{BillingTotal: dec("8000"), ComputedIncentive: dec("1500")}

	r := payroll.ComputeSalary(in)

	assertMoney(t, "0", r.BasePortion, "base portion")
	assertMoney(t, "1500", r.ActualSalary, "actual is incentive only")
	assert.False(t, r.ActualSalary.IsNegative())
}

// =============================================================================
// PROPERTIES
// =============================================================================

func TestComputeSalary_Deterministic(t *testing.T) {
	m := mapping("31000")
	m.Target = dec("40000")
	m.IncentiveBonus = dec("1500")
	in := input(m, 17, 3, 4)
	in.Period = generic.MonthPeriod(generic.MonthKey{Year: 2025, Month: time.January})
	in.Attendance.StoreLeaveDates = generic.NewDateSet(day(time.January, 1), day(time.January, 26))
	in.Billing = payroll.BillingAggregate{BillingTotal: dec("41000.75"), ComputedIncentive: dec("812.40"), LineCount: 9}
	in.Advances = []payroll.AdvanceEntry{advance(time.January, 5, "2500"), advance(time.January, 9, "-300")}

	first := payroll.ComputeSalary(in)
	second := payroll.ComputeSalary(in)

	assert.Equal(t, first, second)
	assert.Equal(t, first.ActualSalary.String(), second.ActualSalary.String())
	assert.Equal(t, first.SuggestedSalary.String(), second.SuggestedSalary.String())
}

func TestComputeSalary_NonNegative(t *testing.T) {
	bases := []string{"0", "1", "15000", "30000"}
	presents := []int{0, 1, 15, 30, 45}
	givens := []string{"0", "100", "50000", "1000000"}

	for _, base := range bases {
		for _, present := range presents {
			for _, given := range givens {
				m := mapping(base)
				m.LeaveDeductionPerDay = dec("2000")
				in := input(m, present, 0, 0)
				in.Advances = []payroll.AdvanceEntry{advance(time.April, 1, given)}

				r := payroll.ComputeSalary(in)

				assert.False(t, r.ActualSalary.IsNegative(), "base=%s present=%d", base, present)
				assert.False(t, r.SuggestedSalary.IsNegative(), "base=%s present=%d given=%s", base, present, given)
			}
		}
	}
}

func TestComputeSalary_TargetMonotonicity(t *testing.T) {
	// GIVEN: everything fixed except billing crossing the target
	// THEN: actual jumps by exactly the bonus, and not before the crossing

	m := mapping("30000")
	m.Target = dec("50000")
	m.IncentiveBonus = dec("2000")

	at := func(billing string) decimal.Decimal {
		in := input(m, 22, 1, 0)
		in.Billing = payroll.BillingAggregate{BillingTotal: dec(billing), ComputedIncentive: dec("300")}
		return payroll.ComputeSalary(in).ActualSalary
	}

	assert.True(t, at("10000").Equal(at("49999.99")), "no gradual increase below target")
	assertMoney(t, "2000", at("50000").Sub(at("49999.99")), "jump at crossing")
	assert.True(t, at("50000").Equal(at("90000")), "no further increase above target")
}

func TestComputeSalary_ProRateToggleBoundary(t *testing.T) {
	on := input(mapping("30000"), 0, 0, 0)
	off := input(mapping("30000"), 0, 0, 0)
	off.Options = payroll.Options{ProRate: false}

	rOn := payroll.ComputeSalary(on)
	rOff := payroll.ComputeSalary(off)

	assertMoney(t, "0", rOn.BasePortion, "pro-rate on")
	assertMoney(t, "30000", rOff.BasePortion, "pro-rate off")
	assertMoney(t, "30", rOff.PaidDays, "pro-rate off pays every working day")
	assert.False(t, rOff.ProRate)
}

func TestComputeSalary_ProRateOff_UsesDenominatorAfterStoreLeaves(t *testing.T) {
	in := input(mapping("30000"), 3, 0, 0)
	in.Options = payroll.Options{ProRate: false}
	in.Attendance.StoreLeaveDates = generic.NewDateSet(day(time.April, 14), day(time.April, 15))

	r := payroll.ComputeSalary(in)

	assert.Equal(t, 28, r.WorkingDaysDenominator)
	assertMoney(t, "28", r.PaidDays, "paid days")
	assertMoney(t, "30000", r.BasePortion, "full base")
}

func TestComputeSalary_AdvancesSymmetry(t *testing.T) {
	m := mapping("30000")
	withBoth := input(m, 30, 0, 0)
	withBoth.Advances = []payroll.AdvanceEntry{advance(time.April, 2, "5000"), advance(time.April, 9, "-1000")}
	netOnly := input(m, 30, 0, 0)
	netOnly.Advances = []payroll.AdvanceEntry{advance(time.April, 2, "4000")}

	assert.True(t,
		payroll.ComputeSalary(withBoth).SuggestedSalary.Equal(payroll.ComputeSalary(netOnly).SuggestedSalary),
		"g,r == g-r,0")

	huge := input(m, 30, 0, 0)
	huge.Advances = []payroll.AdvanceEntry{advance(time.April, 2, "40000"), advance(time.April, 3, "-500")}
	assertMoney(t, "0", payroll.ComputeSalary(huge).SuggestedSalary, "clamped when given > actual + received")
}

func TestComputeSalary_LeaveDeductionModeSwitch(t *testing.T) {
	proportional := mapping("30000")
	perDay := mapping("30000")
	perDay.LeaveDeductionPerDay = dec("750")

	in := input(proportional, 20, 2, 5)
	in.Attendance.StoreLeaveDates = generic.NewDateSet(day(time.April, 18))
	a := payroll.ComputeSalary(in)
	in.Mapping = perDay
	b := payroll.ComputeSalary(in)

	assert.Equal(t, payroll.ModeProportional, a.BaseMode)
	assert.Equal(t, payroll.ModePerDay, b.BaseMode)
	assert.True(t, a.PaidDays.Equal(b.PaidDays))
	assert.Equal(t, a.WorkingDaysDenominator, b.WorkingDaysDenominator)

	// proportional: 30000 * 21 / 29; per-day: 30000 - 750 * 8
	assertMoney(t, "24000", b.BasePortion, "per-day base")
	assert.False(t, a.BasePortion.Equal(b.BasePortion))
}

// =============================================================================
// EDGE CASES
// =============================================================================

func TestComputeSalary_HalfDaysCountHalf(t *testing.T) {
	r := payroll.ComputeSalary(input(mapping("30000"), 10, 4, 0))

	assertMoney(t, "12", r.PaidDays, "paid days")
	assertMoney(t, "12000", r.BasePortion, "base portion")
}

func TestComputeSalary_HalfDaysCountHalf_WhenProRateOff(t *testing.T) {
	in := input(mapping("30000"), 10, 4, 0)
	in.Options = payroll.Options{ProRate: false}

	r := payroll.ComputeSalary(in)

	assertMoney(t, "30", r.PaidDays, "every working day is paid")
	assert.Equal(t, 4, r.HalfDays)
}

func TestComputeSalary_OverMarkedAttendance_NotClamped(t *testing.T) {
	// GIVEN: 35 present days marked in a 30-day month (bad data)
	// THEN: base exceeds the base salary instead of being silently capped

	r := payroll.ComputeSalary(input(mapping("30000"), 35, 0, 0))

	assertMoney(t, "35", r.PaidDays, "paid days")
	assertMoney(t, "35000", r.BasePortion, "base portion above 100%")
	assertMoney(t, "0", r.UnpaidDays, "no unpaid days")
}

func TestComputeSalary_OverMarkedAttendance_PerDayMode(t *testing.T) {
	m := mapping("30000")
	m.LeaveDeductionPerDay = dec("1000")

	r := payroll.ComputeSalary(input(m, 35, 0, 0))

	assertMoney(t, "0", r.UnpaidDays, "unpaid floors at zero")
	assertMoney(t, "30000", r.BasePortion, "per-day mode never adds")
}

func TestComputeSalary_RoundsBaseOnlyWhenCombined(t *testing.T) {
	// GIVEN: 31-day month, 10 present -> 30000*10/31 = 9677.419...
	in := input(mapping("30000"), 10, 0, 0)
	in.Period = generic.MonthPeriod(generic.MonthKey{Year: 2025, Month: time.January})
	in.Billing = payroll.BillingAggregate{ComputedIncentive: dec("100.25")}

	r := payroll.ComputeSalary(in)

	assert.False(t, r.BasePortion.Equal(r.BasePortion.Round(0)), "base portion keeps full precision")
	assertMoney(t, "9677", r.RoundedBasePortion(), "rounded base")
	assertMoney(t, "9777.25", r.ActualSalary, "actual = round(base) + incentive")
}

func TestComputeSalary_RoundsHalfUp(t *testing.T) {
	r := payroll.ComputeSalary(input(mapping("1001"), 15, 0, 0))

	assertMoney(t, "500.5", r.BasePortion, "base portion")
	assertMoney(t, "501", r.ActualSalary, "actual")
}

func TestComputeSalary_NilMapping_UsesEmployeeDefault(t *testing.T) {
	in := input(nil, 30, 0, 0)
	in.Employee.DefaultBaseSalary = dec("20000")

	r := payroll.ComputeSalary(in)

	assertMoney(t, "20000", r.BaseSalary, "base from employee")
	assertMoney(t, "20000", r.ActualSalary, "actual")
	assert.False(t, r.TargetHit)
}

func TestComputeSalary_NegativeInputsSanitized(t *testing.T) {
	m := &payroll.IncentiveMapping{
		EmployeeID:           "emp-1",
		BaseSalary:           dec("-30000"),
		Target:               dec("-10"),
		IncentiveBonus:       dec("-5"),
		LeaveDeductionPerDay: dec("-100"),
	}
	in := input(m, -3, -2, -1)
	in.Billing = payroll.BillingAggregate{BillingTotal: dec("-1"), ComputedIncentive: dec("-50"), LineCount: -4}

	r := payroll.ComputeSalary(in)

	assert.Equal(t, 0, r.PresentDays)
	assert.Equal(t, 0, r.HalfDays)
	assertMoney(t, "0", r.BaseSalary, "base")
	assertMoney(t, "0", r.ComputedIncentive, "computed incentive")
	assert.Equal(t, payroll.ModeProportional, r.BaseMode)
	assertMoney(t, "0", r.ActualSalary, "actual")
}

func TestComputeSalary_IgnoresAdvancesOutsidePeriodOrEmployee(t *testing.T) {
	in := input(mapping("30000"), 30, 0, 0)
	other := advance(time.April, 5, "700")
	other.EmployeeID = "emp-2"
	in.Advances = []payroll.AdvanceEntry{
		advance(time.March, 31, "1000"),
		advance(time.May, 1, "1000"),
		other,
		advance(time.April, 30, "250"),
	}

	r := payroll.ComputeSalary(in)

	assert.Equal(t, 1, r.Advances.Count)
	assertMoney(t, "29750", r.SuggestedSalary, "only the in-period entry counts")
}

func TestComputeSalary_ExplicitRange(t *testing.T) {
	// GIVEN: 1-15 April with a store leave on the 10th and one outside the range
	from := day(time.April, 1)
	to := day(time.April, 15)
	period, err := generic.RangePeriod(from, to)
	require.NoError(t, err)

	in := input(mapping("14000"), 7, 0, 0)
	in.Period = period
	in.Attendance.StoreLeaveDates = generic.NewDateSet(day(time.April, 10), day(time.April, 20))

	r := payroll.ComputeSalary(in)

	assert.Equal(t, 14, r.WorkingDaysDenominator)
	assert.Equal(t, 1, r.StoreLeaveDays)
	assertMoney(t, "7000", r.BasePortion, "half of the range")
}

// closedRange is 1-3 April with every day a store leave.
func closedRange(t *testing.T, m *payroll.IncentiveMapping, present int) payroll.SalaryInput {
	t.Helper()
	period, err := generic.RangePeriod(day(time.April, 1), day(time.April, 3))
	require.NoError(t, err)

	in := input(m, present, 0, 0)
	in.Period = period
	in.Attendance.StoreLeaveDates = generic.NewDateSet(day(time.April, 1), day(time.April, 2), day(time.April, 3))
	return in
}

func TestComputeSalary_RangeAllStoreLeave_ProRateOff(t *testing.T) {
	// GIVEN: A range with no working days and pro-rating off
	in := closedRange(t, mapping("30000"), 0)
	in.Options.ProRate = false

	// WHEN: Computing
	r := payroll.ComputeSalary(in)

	// THEN: Nothing is paid and the reported denominator is 0
	assert.Equal(t, 0, r.WorkingDays)
	assert.Equal(t, 0, r.WorkingDaysDenominator)
	assertMoney(t, "0", r.PaidDays, "paid days")
	assertMoney(t, "0", r.UnpaidDays, "unpaid days")
	assertMoney(t, "0", r.BasePortion, "base portion")
	assertMoney(t, "0", r.ActualSalary, "actual")
}

func TestComputeSalary_RangeAllStoreLeave_ProRateOn(t *testing.T) {
	r := payroll.ComputeSalary(closedRange(t, mapping("30000"), 0))

	assert.Equal(t, 0, r.WorkingDaysDenominator)
	assertMoney(t, "0", r.PaidDays, "paid days")
	assertMoney(t, "0", r.BasePortion, "base portion")
}

func TestComputeSalary_RangeAllStoreLeave_OverMarkedDividesByOne(t *testing.T) {
	// GIVEN: A day marked present on a closed range; the divisor is floored at 1
	r := payroll.ComputeSalary(closedRange(t, mapping("3000"), 1))

	assert.Equal(t, 0, r.WorkingDaysDenominator)
	assertMoney(t, "1", r.PaidDays, "paid days")
	assertMoney(t, "3000", r.BasePortion, "3000 * 1 / max(1, 0)")
}

func TestComputeSalary_RangeAllStoreLeave_PerDayMode(t *testing.T) {
	m := mapping("30000")
	m.LeaveDeductionPerDay = dec("1000")

	for _, proRate := range []bool{true, false} {
		in := closedRange(t, m, 0)
		in.Options.ProRate = proRate

		r := payroll.ComputeSalary(in)

		assert.Equal(t, payroll.ModePerDay, r.BaseMode)
		assertMoney(t, "0", r.PaidDays, "paid days")
		assertMoney(t, "0", r.UnpaidDays, "no working day can be unpaid")
		assertMoney(t, "30000", r.BasePortion, "nothing to deduct")
	}
}
