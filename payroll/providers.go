/*
providers.go - Interfaces between the engine and its data sources

PURPOSE:
  The engine never talks to a database. Each leaf source is an interface
  with its own read, so the aggregator can fetch them independently and
  degrade one at a time.

KEY INTERFACES:
  EmployeeProvider:   Employees in a scope
  MappingProvider:    Incentive mappings for a pay cycle
  AttendanceProvider: Marked-day counts + store-wide leave dates
  BillingProvider:    Billing totals + precomputed commission
  AdvanceProvider:    Signed advance entries
  ProvisionStore:     The single write path (provisioned salaries)

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - store/memory/memory.go: In-memory for testing
*/
package payroll

import (
	"context"

	"github.com/warp/salary-engine/generic"
)

type EmployeeProvider interface {
	ListEmployees(ctx context.Context, scope generic.Scope) ([]Employee, error)
	GetEmployee(ctx context.Context, scope generic.Scope, id generic.EmployeeID) (*Employee, error)
}

type MappingProvider interface {
	// ListMappings returns at most one mapping per employee for the cycle.
	ListMappings(ctx context.Context, scope generic.Scope, cycle PayCycle) ([]IncentiveMapping, error)
}

// AttendanceSummary is the attendance provider's answer for a window.
type AttendanceSummary struct {
	Counts          map[generic.EmployeeID]AttendanceCounts
	StoreLeaveDates generic.DateSet
}

type AttendanceProvider interface {
	AttendanceSummary(ctx context.Context, scope generic.Scope, window generic.Window) (AttendanceSummary, error)
}

type BillingProvider interface {
	BillingAggregates(ctx context.Context, scope generic.Scope, window generic.Window, cycle PayCycle) (map[generic.EmployeeID]BillingAggregate, error)
}

type AdvanceProvider interface {
	// ListAdvances returns entries dated in the window; an empty employeeID
	// means every employee in the scope.
	ListAdvances(ctx context.Context, scope generic.Scope, employeeID generic.EmployeeID, window generic.Window) ([]AdvanceEntry, error)
}

// ProvisionStore persists provisioned salaries. Saves are last-write-wins
// upserts on (scope, employee, period key).
type ProvisionStore interface {
	SaveProvisionedSalary(ctx context.Context, ps ProvisionedSalary) error
	ListProvisionedSalaries(ctx context.Context, scope generic.Scope, periodKey string) ([]ProvisionedSalary, error)
}

// Sources bundles the leaf providers. Any nil provider reads as empty.
type Sources struct {
	Employees  EmployeeProvider
	Mappings   MappingProvider
	Attendance AttendanceProvider
	Billing    BillingProvider
	Advances   AdvanceProvider
}
