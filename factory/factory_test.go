package factory

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/salary-engine/generic"
	"github.com/warp/salary-engine/payroll"
)

var scope = generic.Scope{AccountCode: "acc-1", RetailCode: "ret-1"}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *generic.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	return ve.Fields
}

func TestParseMapping(t *testing.T) {
	// GIVEN: A complete mapping body
	body := []byte(`{
		"employee_id": "emp-1",
		"base_salary": 30000,
		"target": 50000,
		"incentive_bonus": 2000,
		"commissions": [{"service_id": "pt-session", "fixed_value": 150.5}]
	}`)

	// WHEN: Parsing
	m, err := New().ParseMapping(scope, body)

	// THEN: Amounts are decimals and the cycle defaults to monthly
	require.NoError(t, err)
	assert.Equal(t, generic.EmployeeID("emp-1"), m.EmployeeID)
	assert.Equal(t, scope, m.Scope)
	assert.Equal(t, payroll.CycleMonthly, m.PayCycle)
	assert.True(t, m.BaseSalary.Equal(decimal.NewFromInt(30000)))
	assert.True(t, m.LeaveDeductionPerDay.IsZero())
	fixed, ok := m.CommissionFor("pt-session")
	require.True(t, ok)
	assert.True(t, fixed.Equal(decimal.RequireFromString("150.5")))
}

func TestMapping_Validation(t *testing.T) {
	f := New()

	tests := []struct {
		name      string
		mapping   MappingJSON
		wantField string
		wantMsg   string
	}{
		{
			name:      "bonus above target",
			mapping:   MappingJSON{EmployeeID: "emp-1", Target: 1000, IncentiveBonus: 1500},
			wantField: "incentive_bonus",
			wantMsg:   "Incentive Bonus must not exceed target",
		},
		{
			name:      "bonus without target",
			mapping:   MappingJSON{EmployeeID: "emp-1", IncentiveBonus: 1},
			wantField: "incentive_bonus",
		},
		{
			name:      "negative base",
			mapping:   MappingJSON{EmployeeID: "emp-1", BaseSalary: -1},
			wantField: "base_salary",
			wantMsg:   "Base Salary must be >= 0",
		},
		{
			name:      "missing employee",
			mapping:   MappingJSON{BaseSalary: 100},
			wantField: "employee_id",
			wantMsg:   "Employee Id is required",
		},
		{
			name:      "unknown cycle",
			mapping:   MappingJSON{EmployeeID: "emp-1", PayCycle: "daily"},
			wantField: "pay_cycle",
		},
		{
			name:      "commission without service",
			mapping:   MappingJSON{EmployeeID: "emp-1", Commissions: []CommissionJSON{{FixedValue: 10}}},
			wantField: "commissions[0].service_id",
		},
		{
			name: "duplicate commission service",
			mapping: MappingJSON{EmployeeID: "emp-1", Commissions: []CommissionJSON{
				{ServiceID: "pt-session", FixedValue: 10},
				{ServiceID: "pt-session", FixedValue: 20},
			}},
			wantField: "commissions[1].service_id",
			wantMsg:   "Service Id is duplicated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Mapping(scope, tt.mapping)
			require.Error(t, err)
			assert.ErrorIs(t, err, generic.ErrInvalidInput)

			fields := fieldsOf(t, err)
			require.Contains(t, fields, tt.wantField)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, fields[tt.wantField])
			}
		})
	}
}

func TestMapping_BonusEqualToTargetAllowed(t *testing.T) {
	m, err := New().Mapping(scope, MappingJSON{EmployeeID: "emp-1", PayCycle: "weekly", Target: 2000, IncentiveBonus: 2000})

	require.NoError(t, err)
	assert.Equal(t, payroll.CycleWeekly, m.PayCycle)
}

func TestParseMapping_MalformedJSON(t *testing.T) {
	_, err := New().ParseMapping(scope, []byte(`{"employee_id": `))
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestAdvance(t *testing.T) {
	f := New()

	received, err := f.Advance(scope, AdvanceJSON{EmployeeID: "emp-1", Date: "2025-04-10", Amount: -1000, Note: "  returned  "})
	require.NoError(t, err)
	assert.True(t, received.Amount.Equal(decimal.NewFromInt(-1000)))
	assert.False(t, received.IsGiven())
	assert.Equal(t, "returned", received.Note)
	assert.Equal(t, "2025-04-10", received.Date.String())

	_, err = f.Advance(scope, AdvanceJSON{EmployeeID: "emp-1", Date: "2025-04-10", Amount: 0})
	assert.Contains(t, fieldsOf(t, err), "amount")

	_, err = f.Advance(scope, AdvanceJSON{EmployeeID: "emp-1", Date: "10/04/2025", Amount: 5})
	assert.Contains(t, fieldsOf(t, err), "date")
}

func TestAttendance(t *testing.T) {
	f := New()

	day, err := f.Attendance(AttendanceJSON{EmployeeID: "emp-1", Date: "2025-04-01", Status: "half"})
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusHalf, day.Status)

	_, err = f.Attendance(AttendanceJSON{EmployeeID: "emp-1", Date: "2025-04-01", Status: "sick"})
	assert.Contains(t, fieldsOf(t, err), "status")
}

func TestStoreLeaves(t *testing.T) {
	f := New()

	month, days, err := f.StoreLeaves(StoreLeavesJSON{Month: "2025-04", Dates: []string{"2025-04-14", "2025-04-15"}})
	require.NoError(t, err)
	assert.Equal(t, generic.MonthKey{Year: 2025, Month: time.April}, month)
	assert.Len(t, days, 2)

	_, _, err = f.StoreLeaves(StoreLeavesJSON{Month: "2025-04", Dates: []string{"2025-05-01"}})
	assert.Contains(t, fieldsOf(t, err), "dates[0]")

	_, _, err = f.StoreLeaves(StoreLeavesJSON{Month: "April", Dates: nil})
	assert.Contains(t, fieldsOf(t, err), "month")
}

func TestProvide(t *testing.T) {
	f := New()
	off := false
	custom := 12500.0

	req, err := f.Provide(scope, ProvideJSON{
		EmployeeID:   "emp-1",
		Month:        "2025-04",
		From:         "2025-04-01",
		To:           "2025-04-15",
		ProRate:      &off,
		CustomAmount: &custom,
		ProvidedBy:   "owner",
	})

	require.NoError(t, err)
	assert.True(t, req.Period.IsRange(), "explicit range wins over month")
	assert.Equal(t, "2025-04-01..2025-04-15", req.Period.Key())
	assert.False(t, req.Options.ProRate)
	require.NotNil(t, req.CustomAmount)
	assert.True(t, req.CustomAmount.Equal(decimal.NewFromInt(12500)))
	assert.Equal(t, payroll.CycleMonthly, req.Cycle)
}

func TestProvide_Invalid(t *testing.T) {
	f := New()
	negative := -5.0

	_, err := f.Provide(scope, ProvideJSON{EmployeeID: "emp-1", Month: "2025-04", CustomAmount: &negative})
	assert.Contains(t, fieldsOf(t, err), "custom_amount")

	_, err = f.Provide(scope, ProvideJSON{EmployeeID: "emp-1", From: "2025-04-15", To: "2025-04-01"})
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)

	_, err = f.Provide(scope, ProvideJSON{EmployeeID: "emp-1", From: "2025-04-15"})
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod, "half a range")

	_, err = f.Provide(scope, ProvideJSON{EmployeeID: "emp-1", From: "15-04-2025", To: "2025-04-20"})
	assert.Contains(t, fieldsOf(t, err), "from")

	_, err = f.Provide(scope, ProvideJSON{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
}

func TestEmployee_GeneratesID(t *testing.T) {
	e, err := New().Employee(scope, EmployeeJSON{Name: " Asha ", DefaultBaseSalary: 20000})

	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "Asha", e.Name)
}

func TestParseCycle(t *testing.T) {
	c, err := ParseCycle("")
	require.NoError(t, err)
	assert.Equal(t, payroll.CycleMonthly, c)

	c, err = ParseCycle("Weekly")
	require.NoError(t, err)
	assert.Equal(t, payroll.CycleWeekly, c)

	_, err = ParseCycle("yearly")
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestPresetsPassValidation(t *testing.T) {
	f := New()
	for _, mj := range []MappingJSON{
		TrainerMapping("emp-1", 30000, 60000, 3000, 250),
		FrontDeskMapping("emp-2", 18000, 600),
		RetailMapping("emp-3", 20000, 40000, 1500),
	} {
		_, err := f.Mapping(scope, mj)
		assert.NoError(t, err, mj.EmployeeID)
	}
}
