// Package memory provides an in-memory implementation of every payroll
// provider and the provision store (for testing/dev).
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warp/salary-engine/generic"
	"github.com/warp/salary-engine/payroll"
)

type mappingKey struct {
	Scope      generic.Scope
	EmployeeID generic.EmployeeID
	Cycle      payroll.PayCycle
}

type provisionKey struct {
	Scope      generic.Scope
	EmployeeID generic.EmployeeID
	PeriodKey  string
}

type Store struct {
	mu          sync.RWMutex
	employees   map[generic.Scope]map[generic.EmployeeID]payroll.Employee
	mappings    map[mappingKey]payroll.IncentiveMapping
	attendance  map[generic.Scope][]payroll.AttendanceDay
	storeLeaves map[generic.Scope]generic.DateSet
	billing     map[generic.Scope][]payroll.BillingLine
	advances    map[generic.Scope][]payroll.AdvanceEntry
	provisioned map[provisionKey]payroll.ProvisionedSalary
}

func New() *Store {
	s := &Store{}
	s.clear()
	return s
}

// Reset clears all data.
func (m *Store) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clear()
	return nil
}

func (m *Store) clear() {
	m.employees = make(map[generic.Scope]map[generic.EmployeeID]payroll.Employee)
	m.mappings = make(map[mappingKey]payroll.IncentiveMapping)
	m.attendance = make(map[generic.Scope][]payroll.AttendanceDay)
	m.storeLeaves = make(map[generic.Scope]generic.DateSet)
	m.billing = make(map[generic.Scope][]payroll.BillingLine)
	m.advances = make(map[generic.Scope][]payroll.AdvanceEntry)
	m.provisioned = make(map[provisionKey]payroll.ProvisionedSalary)
}

// Compile-time checks
var (
	_ payroll.EmployeeProvider   = (*Store)(nil)
	_ payroll.MappingProvider    = (*Store)(nil)
	_ payroll.AttendanceProvider = (*Store)(nil)
	_ payroll.BillingProvider    = (*Store)(nil)
	_ payroll.AdvanceProvider    = (*Store)(nil)
	_ payroll.ProvisionStore     = (*Store)(nil)
)

// Sources exposes the store as every leaf provider.
func (m *Store) Sources() payroll.Sources {
	return payroll.Sources{Employees: m, Mappings: m, Attendance: m, Billing: m, Advances: m}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Store) SaveEmployee(_ context.Context, e payroll.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.employees[e.Scope] == nil {
		m.employees[e.Scope] = make(map[generic.EmployeeID]payroll.Employee)
	}
	m.employees[e.Scope][e.ID] = e
	return nil
}

func (m *Store) ListEmployees(_ context.Context, scope generic.Scope) ([]payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]payroll.Employee, 0, len(m.employees[scope]))
	for _, e := range m.employees[scope] {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Store) GetEmployee(_ context.Context, scope generic.Scope, id generic.EmployeeID) (*payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[scope][id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// =============================================================================
// INCENTIVE MAPPINGS
// =============================================================================

// UpsertMapping replaces the mapping for (scope, employee, cycle).
func (m *Store) UpsertMapping(_ context.Context, mp payroll.IncentiveMapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mp.UpdatedAt = time.Now().UTC()
	mp.Commissions = append([]payroll.CommissionRow(nil), mp.Commissions...)
	m.mappings[mappingKey{Scope: mp.Scope, EmployeeID: mp.EmployeeID, Cycle: mp.PayCycle}] = mp
	return nil
}

func (m *Store) ListMappings(_ context.Context, scope generic.Scope, cycle payroll.PayCycle) ([]payroll.IncentiveMapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []payroll.IncentiveMapping
	for k, mp := range m.mappings {
		if k.Scope == scope && k.Cycle == cycle {
			out = append(out, mp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

// =============================================================================
// ATTENDANCE + STORE LEAVES
// =============================================================================

// MarkAttendance records a day's status, replacing any earlier mark.
func (m *Store) MarkAttendance(_ context.Context, scope generic.Scope, day payroll.AttendanceDay) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	days := m.attendance[scope]
	for i, d := range days {
		if d.EmployeeID == day.EmployeeID && d.Date.Equal(day.Date) {
			days[i] = day
			return nil
		}
	}
	m.attendance[scope] = append(days, day)
	return nil
}

func (m *Store) AttendanceDays(_ context.Context, scope generic.Scope, employeeID generic.EmployeeID, window generic.Window) ([]payroll.AttendanceDay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []payroll.AttendanceDay
	for _, d := range m.attendance[scope] {
		if d.EmployeeID == employeeID && window.Contains(d.Date) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *Store) AttendanceSummary(_ context.Context, scope generic.Scope, window generic.Window) (payroll.AttendanceSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byEmployee := make(map[generic.EmployeeID][]payroll.AttendanceDay)
	for _, d := range m.attendance[scope] {
		byEmployee[d.EmployeeID] = append(byEmployee[d.EmployeeID], d)
	}
	sum := payroll.AttendanceSummary{
		Counts:          make(map[generic.EmployeeID]payroll.AttendanceCounts, len(byEmployee)),
		StoreLeaveDates: generic.NewDateSet(),
	}
	for id, days := range byEmployee {
		sum.Counts[id] = payroll.CountDays(days, window)
	}
	for _, d := range m.storeLeaves[scope] {
		if window.Contains(d) {
			sum.StoreLeaveDates.Add(d)
		}
	}
	return sum, nil
}

// ReplaceStoreLeaves swaps a month's closure days for the given set.
func (m *Store) ReplaceStoreLeaves(_ context.Context, scope generic.Scope, month generic.MonthKey, days []generic.TimePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	window := month.Window()
	next := generic.NewDateSet()
	for _, d := range m.storeLeaves[scope] {
		if !window.Contains(d) {
			next.Add(d)
		}
	}
	for _, d := range days {
		if !window.Contains(d) {
			return fmt.Errorf("%w: %s is outside %s", generic.ErrInvalidPeriod, d, month)
		}
		next.Add(d)
	}
	m.storeLeaves[scope] = next
	return nil
}

func (m *Store) StoreLeaves(_ context.Context, scope generic.Scope, month generic.MonthKey) (generic.DateSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := generic.NewDateSet()
	window := month.Window()
	for _, d := range m.storeLeaves[scope] {
		if window.Contains(d) {
			out.Add(d)
		}
	}
	return out, nil
}

// =============================================================================
// BILLING
// =============================================================================

func (m *Store) AddBillingLine(_ context.Context, scope generic.Scope, line payroll.BillingLine) (payroll.BillingLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if line.ID == "" {
		line.ID = uuid.NewString()
	}
	m.billing[scope] = append(m.billing[scope], line)
	return line, nil
}

func (m *Store) BillingAggregates(ctx context.Context, scope generic.Scope, window generic.Window, cycle payroll.PayCycle) (map[generic.EmployeeID]payroll.BillingAggregate, error) {
	mappings, err := m.ListMappings(ctx, scope, cycle)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return payroll.AggregateAllBilling(m.billing[scope], window, mappings), nil
}

// =============================================================================
// ADVANCES
// =============================================================================

func (m *Store) AddAdvance(_ context.Context, e payroll.AdvanceEntry) (payroll.AdvanceEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	m.advances[e.Scope] = append(m.advances[e.Scope], e)
	return e, nil
}

func (m *Store) DeleteAdvance(_ context.Context, scope generic.Scope, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.advances[scope]
	for i, e := range entries {
		if e.ID == id {
			m.advances[scope] = append(entries[:i:i], entries[i+1:]...)
			return nil
		}
	}
	return generic.ErrAdvanceNotFound
}

func (m *Store) ListAdvances(_ context.Context, scope generic.Scope, employeeID generic.EmployeeID, window generic.Window) ([]payroll.AdvanceEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []payroll.AdvanceEntry
	for _, e := range m.advances[scope] {
		if employeeID != "" && e.EmployeeID != employeeID {
			continue
		}
		if window.Contains(e.Date) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// =============================================================================
// PROVISIONED SALARIES
// =============================================================================

func (m *Store) SaveProvisionedSalary(_ context.Context, ps payroll.ProvisionedSalary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.provisioned[provisionKey{Scope: ps.Scope, EmployeeID: ps.EmployeeID, PeriodKey: ps.PeriodKey}] = ps
	return nil
}

func (m *Store) ListProvisionedSalaries(_ context.Context, scope generic.Scope, periodKey string) ([]payroll.ProvisionedSalary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []payroll.ProvisionedSalary
	for k, ps := range m.provisioned {
		if k.Scope == scope && k.PeriodKey == periodKey {
			out = append(out, ps)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}
