/*
aggregate.go - Joins the leaf providers into per-employee salary rows

PURPOSE:
  For one scope and period, fetch employees, mappings, attendance, billing
  and advances concurrently, key them by employee id, and run
  ComputeSalary once per employee.

DEGRADATION:
  A provider that fails is logged and read as empty (0 attendance,
  0 billing, no advances, no mapping). The snapshot lists the degraded
  provider names so a caller can show that figures are partial. Only a
  cancelled context aborts the load.

SEE ALSO:
  - engine.go: ComputeSalary
  - board.go: Discards snapshots that arrive for a stale period
*/
package payroll

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/warp/salary-engine/generic"
)

// Provider names reported in Snapshot.Degraded.
const (
	ProviderEmployees  = "employees"
	ProviderMappings   = "incentive_mappings"
	ProviderAttendance = "attendance"
	ProviderBilling    = "billing"
	ProviderAdvances   = "advances"
)

// LoadRequest selects what to aggregate.
type LoadRequest struct {
	Scope  generic.Scope
	Period generic.PayPeriod
	Cycle  PayCycle
	// EmployeeID limits the load to one employee when set.
	EmployeeID generic.EmployeeID
	// NoProRate lists employees whose pro-rate toggle is off.
	NoProRate map[generic.EmployeeID]bool
}

// Row is one employee's joined inputs and computed result.
type Row struct {
	Employee   Employee
	Mapping    *IncentiveMapping
	Attendance AttendanceCounts
	Billing    BillingAggregate
	Advances   []AdvanceEntry
	Options    Options
	Result     SalaryResult
}

// Input rebuilds the exact SalaryInput the row was computed from.
func (r Row) Input(period generic.PayPeriod) SalaryInput {
	return SalaryInput{
		Employee:   r.Employee,
		Mapping:    r.Mapping,
		Attendance: r.Attendance,
		Billing:    r.Billing,
		Advances:   r.Advances,
		Period:     period,
		Options:    r.Options,
	}
}

// Totals sums the rows of a snapshot.
type Totals struct {
	Employees       int
	BillingTotal    decimal.Decimal
	ActualSalary    decimal.Decimal
	SuggestedSalary decimal.Decimal
	AdvancesGiven   decimal.Decimal
	AdvancesRecv    decimal.Decimal
}

// Snapshot is the joined view of one period.
type Snapshot struct {
	Scope           generic.Scope
	Period          generic.PayPeriod
	Cycle           PayCycle
	StoreLeaveDates generic.DateSet
	Rows            []Row
	Totals          Totals
	Degraded        []string
}

// Row returns the row of one employee.
func (s Snapshot) Row(id generic.EmployeeID) (Row, bool) {
	for _, r := range s.Rows {
		if r.Employee.ID == id {
			return r, true
		}
	}
	return Row{}, false
}

// Aggregator loads provider data and computes rows.
type Aggregator struct {
	sources Sources
	logger  *slog.Logger
}

func NewAggregator(sources Sources, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{sources: sources, logger: logger}
}

// Load fetches all providers concurrently and computes one row per employee.
func (a *Aggregator) Load(ctx context.Context, req LoadRequest) (Snapshot, error) {
	if req.Cycle == "" {
		req.Cycle = CycleMonthly
	}
	window := req.Period.Window()

	var (
		employees  []Employee
		mappings   []IncentiveMapping
		attendance AttendanceSummary
		billing    map[generic.EmployeeID]BillingAggregate
		advances   []AdvanceEntry

		mu       sync.Mutex
		degraded []string
	)

	degrade := func(name string, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.logger.WarnContext(ctx, "provider unavailable, using empty data",
			slog.String("provider", name),
			slog.String("scope", req.Scope.String()),
			slog.String("period", req.Period.Key()),
			slog.Any("error", err),
		)
		mu.Lock()
		degraded = append(degraded, name)
		mu.Unlock()
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	if a.sources.Employees != nil {
		g.Go(func() error {
			var err error
			if req.EmployeeID != "" {
				var emp *Employee
				emp, err = a.sources.Employees.GetEmployee(gctx, req.Scope, req.EmployeeID)
				if err == nil && emp != nil {
					employees = []Employee{*emp}
				}
			} else {
				employees, err = a.sources.Employees.ListEmployees(gctx, req.Scope)
			}
			if err != nil {
				return degrade(ProviderEmployees, err)
			}
			return nil
		})
	}
	if a.sources.Mappings != nil {
		g.Go(func() error {
			var err error
			if mappings, err = a.sources.Mappings.ListMappings(gctx, req.Scope, req.Cycle); err != nil {
				return degrade(ProviderMappings, err)
			}
			return nil
		})
	}
	if a.sources.Attendance != nil {
		g.Go(func() error {
			var err error
			if attendance, err = a.sources.Attendance.AttendanceSummary(gctx, req.Scope, window); err != nil {
				return degrade(ProviderAttendance, err)
			}
			return nil
		})
	}
	if a.sources.Billing != nil {
		g.Go(func() error {
			var err error
			if billing, err = a.sources.Billing.BillingAggregates(gctx, req.Scope, window, req.Cycle); err != nil {
				return degrade(ProviderBilling, err)
			}
			return nil
		})
	}
	if a.sources.Advances != nil {
		g.Go(func() error {
			var err error
			if advances, err = a.sources.Advances.ListAdvances(gctx, req.Scope, req.EmployeeID, window); err != nil {
				return degrade(ProviderAdvances, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	sort.Strings(degraded)
	snap := Snapshot{
		Scope:           req.Scope,
		Period:          req.Period,
		Cycle:           req.Cycle,
		StoreLeaveDates: attendance.StoreLeaveDates,
		Degraded:        degraded,
	}
	if snap.StoreLeaveDates == nil {
		snap.StoreLeaveDates = generic.NewDateSet()
	}
	snap.Rows = joinRows(req, employees, mappings, attendance, billing, advances, snap.StoreLeaveDates)
	snap.Totals = sumRows(snap.Rows)
	return snap, nil
}

func joinRows(
	req LoadRequest,
	employees []Employee,
	mappings []IncentiveMapping,
	attendance AttendanceSummary,
	billing map[generic.EmployeeID]BillingAggregate,
	advances []AdvanceEntry,
	storeLeaves generic.DateSet,
) []Row {
	byID := make(map[generic.EmployeeID]*Row)
	var order []generic.EmployeeID

	ensure := func(id generic.EmployeeID) *Row {
		if r, ok := byID[id]; ok {
			return r
		}
		r := &Row{Employee: Employee{ID: id, Scope: req.Scope, Name: string(id)}}
		byID[id] = r
		order = append(order, id)
		return r
	}

	wanted := func(id generic.EmployeeID) bool {
		return req.EmployeeID == "" || req.EmployeeID == id
	}

	for _, e := range employees {
		if !wanted(e.ID) {
			continue
		}
		ensure(e.ID).Employee = e
	}
	for i := range mappings {
		m := mappings[i]
		if !wanted(m.EmployeeID) {
			continue
		}
		ensure(m.EmployeeID).Mapping = &m
	}

	rows := make([]Row, 0, len(order))
	for _, id := range order {
		r := byID[id]
		counts := attendance.Counts[id]
		counts.StoreLeaveDates = storeLeaves
		r.Attendance = counts
		r.Billing = billing[id]
		r.Advances = AdvancesIn(advances, id, req.Period.Window())
		r.Options = Options{ProRate: !req.NoProRate[id]}
		r.Result = ComputeSalary(r.Input(req.Period))
		rows = append(rows, *r)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Employee.Name != rows[j].Employee.Name {
			return rows[i].Employee.Name < rows[j].Employee.Name
		}
		return rows[i].Employee.ID < rows[j].Employee.ID
	})
	return rows
}

func sumRows(rows []Row) Totals {
	t := Totals{
		BillingTotal:    decimal.Zero,
		ActualSalary:    decimal.Zero,
		SuggestedSalary: decimal.Zero,
		AdvancesGiven:   decimal.Zero,
		AdvancesRecv:    decimal.Zero,
	}
	for _, r := range rows {
		t.Employees++
		t.BillingTotal = t.BillingTotal.Add(r.Result.BillingTotal)
		t.ActualSalary = t.ActualSalary.Add(r.Result.ActualSalary)
		t.SuggestedSalary = t.SuggestedSalary.Add(r.Result.SuggestedSalary)
		t.AdvancesGiven = t.AdvancesGiven.Add(r.Result.Advances.Given)
		t.AdvancesRecv = t.AdvancesRecv.Add(r.Result.Advances.Received)
	}
	return t
}
