/*
Package factory converts JSON request bodies into payroll domain values.

PURPOSE:
  Every write that reaches the stores goes through here. The JSON shapes
  carry float64 amounts (what clients send); the factory validates them
  with go-playground/validator, then converts to decimal.Decimal so nothing
  downstream ever sees a float.

JSON SCHEMA (incentive mapping):
  {
    "employee_id": "emp-1",
    "pay_cycle": "monthly",
    "base_salary": 30000,
    "target": 50000,
    "incentive_bonus": 2000,
    "leave_deduction_per_day": 0,
    "commissions": [
      {"service_id": "pt-session", "fixed_value": 150}
    ]
  }

RULES ENFORCED ON WRITE:
  - amounts >= 0 (advances excepted: signed, non-zero)
  - incentive_bonus <= target
  - pay_cycle in {monthly, weekly}, defaulting to monthly
  - dates are YYYY-MM-DD, months YYYY-MM

USAGE:
  f := factory.New()

  mapping, err := f.ParseMapping(scope, body)
  if err != nil {
      // errors.Is(err, generic.ErrInvalidInput) -> 400
  }

SEE ALSO:
  - factory/validate.go: validator setup and error mapping
  - factory/presets.go: Ready-made mappings for the demo scenarios
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/warp/salary-engine/generic"
	"github.com/warp/salary-engine/payroll"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// EmployeeJSON registers an employee. An empty id is generated.
type EmployeeJSON struct {
	ID                string  `json:"id" validate:"max=64"`
	Name              string  `json:"name" validate:"required,max=120"`
	DefaultBaseSalary float64 `json:"default_base_salary" validate:"gte=0"`
}

// MappingJSON is the incentive mapping of one employee for one pay cycle.
type MappingJSON struct {
	EmployeeID           string           `json:"employee_id" validate:"required"`
	PayCycle             string           `json:"pay_cycle" validate:"omitempty,oneof=monthly weekly"`
	BaseSalary           float64          `json:"base_salary" validate:"gte=0"`
	Target               float64          `json:"target" validate:"gte=0"`
	IncentiveBonus       float64          `json:"incentive_bonus" validate:"gte=0,ltefield=Target"`
	LeaveDeductionPerDay float64          `json:"leave_deduction_per_day" validate:"gte=0"`
	Commissions          []CommissionJSON `json:"commissions" validate:"dive"`
}

// CommissionJSON is a fixed commission earned per billed service.
type CommissionJSON struct {
	ServiceID  string  `json:"service_id" validate:"required"`
	FixedValue float64 `json:"fixed_value" validate:"gte=0"`
}

// AttendanceJSON marks one day for one employee.
type AttendanceJSON struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Status     string `json:"status" validate:"required,oneof=present half absent"`
}

// StoreLeavesJSON replaces the closure days of one month.
type StoreLeavesJSON struct {
	Month string   `json:"month" validate:"required,datetime=2006-01"`
	Dates []string `json:"dates" validate:"dive,datetime=2006-01-02"`
}

// BillingLineJSON is one billed service.
type BillingLineJSON struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
	ServiceID  string  `json:"service_id" validate:"required"`
	Amount     float64 `json:"amount" validate:"gte=0"`
}

// AdvanceJSON is a signed advance: positive given, negative received back.
type AdvanceJSON struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
	Amount     float64 `json:"amount" validate:"ne=0"`
	Note       string  `json:"note" validate:"max=200"`
}

// ProvideJSON asks for a salary to be provisioned. Either month or
// from/to selects the period; from/to wins when both are given.
type ProvideJSON struct {
	EmployeeID   string   `json:"employee_id" validate:"required"`
	Month        string   `json:"month" validate:"omitempty,datetime=2006-01"`
	From         string   `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To           string   `json:"to" validate:"omitempty,datetime=2006-01-02"`
	PayCycle     string   `json:"pay_cycle" validate:"omitempty,oneof=monthly weekly"`
	ProRate      *bool    `json:"pro_rate"`
	CustomAmount *float64 `json:"custom_amount" validate:"omitnil,gte=0"`
	ProvidedBy   string   `json:"provided_by" validate:"max=120"`
}

// =============================================================================
// FACTORY
// =============================================================================

// Factory validates request bodies and builds domain values.
type Factory struct {
	validate *validator.Validate
}

func New() *Factory {
	return &Factory{validate: newValidator()}
}

func (f *Factory) check(v any) error {
	if err := f.validate.Struct(v); err != nil {
		return toValidationError(err)
	}
	return nil
}

func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: malformed JSON: %v", generic.ErrInvalidInput, err)
	}
	return nil
}

// Employee validates and converts an employee registration.
func (f *Factory) Employee(scope generic.Scope, ej EmployeeJSON) (payroll.Employee, error) {
	if err := f.check(ej); err != nil {
		return payroll.Employee{}, err
	}
	id := strings.TrimSpace(ej.ID)
	if id == "" {
		id = uuid.NewString()
	}
	return payroll.Employee{
		ID:                generic.EmployeeID(id),
		Scope:             scope,
		Name:              strings.TrimSpace(ej.Name),
		DefaultBaseSalary: generic.SanitizeFloat(ej.DefaultBaseSalary),
	}, nil
}

// ParseMapping decodes and converts a mapping body.
func (f *Factory) ParseMapping(scope generic.Scope, data []byte) (payroll.IncentiveMapping, error) {
	var mj MappingJSON
	if err := decode(data, &mj); err != nil {
		return payroll.IncentiveMapping{}, err
	}
	return f.Mapping(scope, mj)
}

// Mapping validates and converts an incentive mapping.
func (f *Factory) Mapping(scope generic.Scope, mj MappingJSON) (payroll.IncentiveMapping, error) {
	if err := f.check(mj); err != nil {
		return payroll.IncentiveMapping{}, err
	}

	m := payroll.IncentiveMapping{
		EmployeeID:           generic.EmployeeID(mj.EmployeeID),
		Scope:                scope,
		PayCycle:             parseCycle(mj.PayCycle),
		BaseSalary:           generic.SanitizeFloat(mj.BaseSalary),
		Target:               generic.SanitizeFloat(mj.Target),
		IncentiveBonus:       generic.SanitizeFloat(mj.IncentiveBonus),
		LeaveDeductionPerDay: generic.SanitizeFloat(mj.LeaveDeductionPerDay),
	}

	seen := make(map[string]bool, len(mj.Commissions))
	for i, c := range mj.Commissions {
		if seen[c.ServiceID] {
			return payroll.IncentiveMapping{}, invalid(fmt.Sprintf("commissions[%d].service_id", i), "is duplicated")
		}
		seen[c.ServiceID] = true
		m.Commissions = append(m.Commissions, payroll.CommissionRow{
			ServiceID:  c.ServiceID,
			FixedValue: generic.SanitizeFloat(c.FixedValue),
		})
	}
	return m, nil
}

// Attendance validates one attendance mark.
func (f *Factory) Attendance(aj AttendanceJSON) (payroll.AttendanceDay, error) {
	if err := f.check(aj); err != nil {
		return payroll.AttendanceDay{}, err
	}
	d, err := generic.ParseDate(aj.Date)
	if err != nil {
		return payroll.AttendanceDay{}, invalid("date", "is not a valid date")
	}
	return payroll.AttendanceDay{
		EmployeeID: generic.EmployeeID(aj.EmployeeID),
		Date:       d,
		Status:     payroll.AttendanceStatus(aj.Status),
	}, nil
}

// StoreLeaves validates a month's closure days. Every date must fall
// inside the month.
func (f *Factory) StoreLeaves(sj StoreLeavesJSON) (generic.MonthKey, []generic.TimePoint, error) {
	if err := f.check(sj); err != nil {
		return generic.MonthKey{}, nil, err
	}
	month, err := generic.ParseMonthKey(sj.Month)
	if err != nil {
		return generic.MonthKey{}, nil, err
	}
	window := month.Window()
	days := make([]generic.TimePoint, 0, len(sj.Dates))
	for i, s := range sj.Dates {
		d, err := generic.ParseDate(s)
		if err != nil || !window.Contains(d) {
			return generic.MonthKey{}, nil, invalid(fmt.Sprintf("dates[%d]", i), "must be a day of "+month.String())
		}
		days = append(days, d)
	}
	return month, days, nil
}

// BillingLine validates one billed service.
func (f *Factory) BillingLine(bj BillingLineJSON) (payroll.BillingLine, error) {
	if err := f.check(bj); err != nil {
		return payroll.BillingLine{}, err
	}
	d, err := generic.ParseDate(bj.Date)
	if err != nil {
		return payroll.BillingLine{}, invalid("date", "is not a valid date")
	}
	return payroll.BillingLine{
		EmployeeID: generic.EmployeeID(bj.EmployeeID),
		Date:       d,
		ServiceID:  bj.ServiceID,
		Amount:     generic.SanitizeFloat(bj.Amount),
	}, nil
}

// Advance validates a signed advance entry.
func (f *Factory) Advance(scope generic.Scope, aj AdvanceJSON) (payroll.AdvanceEntry, error) {
	if err := f.check(aj); err != nil {
		return payroll.AdvanceEntry{}, err
	}
	d, err := generic.ParseDate(aj.Date)
	if err != nil {
		return payroll.AdvanceEntry{}, invalid("date", "is not a valid date")
	}
	amount := generic.SignedFloat(aj.Amount)
	if amount.IsZero() {
		return payroll.AdvanceEntry{}, invalid("amount", "must not be 0")
	}
	return payroll.AdvanceEntry{
		Scope:      scope,
		EmployeeID: generic.EmployeeID(aj.EmployeeID),
		Date:       d,
		Amount:     amount,
		Note:       strings.TrimSpace(aj.Note),
	}, nil
}

// Provide validates a provisioning request.
func (f *Factory) Provide(scope generic.Scope, pj ProvideJSON) (payroll.ProvideRequest, error) {
	if err := f.check(pj); err != nil {
		return payroll.ProvideRequest{}, err
	}
	period, err := generic.ResolvePeriod(pj.Month, pj.From, pj.To)
	if err != nil {
		return payroll.ProvideRequest{}, err
	}

	req := payroll.ProvideRequest{
		Scope:      scope,
		EmployeeID: generic.EmployeeID(pj.EmployeeID),
		Period:     period,
		Cycle:      parseCycle(pj.PayCycle),
		Options:    payroll.DefaultOptions(),
		ProvidedBy: strings.TrimSpace(pj.ProvidedBy),
	}
	if pj.ProRate != nil {
		req.Options.ProRate = *pj.ProRate
	}
	if pj.CustomAmount != nil {
		custom := generic.SanitizeFloat(*pj.CustomAmount)
		req.CustomAmount = &custom
	}
	return req, nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseCycle(s string) payroll.PayCycle {
	if c := payroll.PayCycle(s); c.Valid() {
		return c
	}
	return payroll.CycleMonthly
}

// ParseCycle reads a pay cycle from a query value. Empty means monthly.
func ParseCycle(s string) (payroll.PayCycle, error) {
	if s == "" {
		return payroll.CycleMonthly, nil
	}
	c := payroll.PayCycle(strings.ToLower(s))
	if !c.Valid() {
		return "", invalid("cycle", "must be one of: monthly, weekly")
	}
	return c, nil
}

// MappingToJSON converts a stored mapping back to its JSON shape.
func MappingToJSON(m payroll.IncentiveMapping) MappingJSON {
	mj := MappingJSON{
		EmployeeID:           string(m.EmployeeID),
		PayCycle:             string(m.PayCycle),
		BaseSalary:           generic.ToFloat(m.BaseSalary),
		Target:               generic.ToFloat(m.Target),
		IncentiveBonus:       generic.ToFloat(m.IncentiveBonus),
		LeaveDeductionPerDay: generic.ToFloat(m.LeaveDeductionPerDay),
		Commissions:          []CommissionJSON{},
	}
	for _, c := range m.Commissions {
		mj.Commissions = append(mj.Commissions, CommissionJSON{ServiceID: c.ServiceID, FixedValue: generic.ToFloat(c.FixedValue)})
	}
	return mj
}
