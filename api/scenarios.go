/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate a scope with a realistic
	gym back office: employees, incentive mappings, attendance, store
	closures, billing and advances. Everything goes through the factory,
	so scenario data obeys the same validation as client requests.

AVAILABLE SCENARIOS:

	gym-april:  Trainer, front desk, supplement counter and an unmapped
	            new hire for April 2025, one store closure day
	new-hires:  Employees with no incentive mapping, paid from their
	            default base salary

HOW SCENARIOS WORK:
 1. Reset the store (clear all data)
 2. Register employees
 3. Upsert incentive mappings from factory presets
 4. Replace the month's store leaves
 5. Mark attendance, record billing lines and advances

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "gym-april"}

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler wiring
  - factory/presets.go: Mapping presets
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/salary-engine/factory"
	"github.com/warp/salary-engine/generic"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "gym-april",
		Name:        "Gym, April 2025",
		Description: "Trainer with target bonus, front desk with per-day deduction, supplement counter, unmapped new hire",
	},
	{
		ID:          "new-hires",
		Name:        "New Hires",
		Description: "No incentive mappings; salaries fall back to each employee's default base",
	},
}

// scenarioMonth is the month every scenario populates.
var scenarioMonth = generic.MonthKey{Year: 2025, Month: time.April}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the store and loads a predefined scenario into the
// request's scope.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var load func(context.Context, generic.Scope) error
	switch req.ScenarioID {
	case "gym-april":
		load = h.loadGymAprilScenario
	case "new-hires":
		load = h.loadNewHiresScenario
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("%w: %q", generic.ErrInvalidInput, req.ScenarioID))
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	scope := h.scope(r)
	if err := load(ctx, scope); err != nil {
		h.fail(w, r, "Failed to load scenario", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()

	h.Logger.InfoContext(ctx, "scenario loaded",
		"scenario", req.ScenarioID,
		"scope", scope.String(),
		"month", scenarioMonth.String(),
	)
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "loaded",
		"scenario": req.ScenarioID,
		"month":    scenarioMonth.String(),
	})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// loadGymAprilScenario: April 2025 has 30 days; the 14th is a store
// closure, so every employee has 29 working days.
//
//	emp-asha  trainer, 27 present + 1 half, billing 22000 >= target 20000
//	emp-ravi  front desk, 600/day deduction, 3 absences
//	emp-meera supplement counter, full attendance, below target
//	emp-kiran no mapping, present the first two weeks only
func (h *Handler) loadGymAprilScenario(ctx context.Context, scope generic.Scope) error {
	employees := []factory.EmployeeJSON{
		{ID: "emp-asha", Name: "Asha Rao", DefaultBaseSalary: 30000},
		{ID: "emp-ravi", Name: "Ravi Kumar", DefaultBaseSalary: 18000},
		{ID: "emp-meera", Name: "Meera Shah", DefaultBaseSalary: 20000},
		{ID: "emp-kiran", Name: "Kiran Das", DefaultBaseSalary: 15000},
	}
	if err := h.saveEmployees(ctx, scope, employees); err != nil {
		return err
	}

	mappings := []factory.MappingJSON{
		factory.TrainerMapping("emp-asha", 30000, 20000, 2000, 250),
		factory.FrontDeskMapping("emp-ravi", 18000, 600),
		factory.RetailMapping("emp-meera", 20000, 40000, 1500),
	}
	for _, mj := range mappings {
		m, err := h.Factory.Mapping(scope, mj)
		if err != nil {
			return fmt.Errorf("mapping %s: %w", mj.EmployeeID, err)
		}
		m.UpdatedAt = h.now().UTC()
		if err := h.Store.UpsertMapping(ctx, m); err != nil {
			return err
		}
	}

	closure := "2025-04-14"
	month, leaves, err := h.Factory.StoreLeaves(factory.StoreLeavesJSON{Month: scenarioMonth.String(), Dates: []string{closure}})
	if err != nil {
		return err
	}
	if err := h.Store.ReplaceStoreLeaves(ctx, scope, month, leaves); err != nil {
		return err
	}

	exceptions := map[string]map[string]string{
		"emp-asha":  {"2025-04-21": "absent", "2025-04-22": "half"},
		"emp-ravi":  {"2025-04-07": "absent", "2025-04-08": "absent", "2025-04-09": "absent"},
		"emp-meera": {},
	}
	for _, id := range []string{"emp-asha", "emp-ravi", "emp-meera"} {
		if err := h.markMonth(ctx, scope, id, closure, exceptions[id], 31); err != nil {
			return err
		}
	}
	if err := h.markMonth(ctx, scope, "emp-kiran", closure, nil, 16); err != nil {
		return err
	}

	var lines []factory.BillingLineJSON
	for i := 0; i < 8; i++ {
		lines = append(lines, factory.BillingLineJSON{EmployeeID: "emp-asha", Date: fmt.Sprintf("2025-04-%02d", 1+i*3), ServiceID: "pt-session", Amount: 2500})
	}
	lines = append(lines,
		factory.BillingLineJSON{EmployeeID: "emp-asha", Date: "2025-04-10", ServiceID: "diet-plan", Amount: 1000},
		factory.BillingLineJSON{EmployeeID: "emp-asha", Date: "2025-04-24", ServiceID: "diet-plan", Amount: 1000},
	)
	for _, d := range []string{"2025-04-03", "2025-04-15", "2025-04-28"} {
		lines = append(lines, factory.BillingLineJSON{EmployeeID: "emp-ravi", Date: d, ServiceID: "membership", Amount: 1500})
	}
	for i := 0; i < 5; i++ {
		lines = append(lines, factory.BillingLineJSON{EmployeeID: "emp-meera", Date: fmt.Sprintf("2025-04-%02d", 5+i*5), ServiceID: "supplement", Amount: 2000})
	}
	for _, bj := range lines {
		line, err := h.Factory.BillingLine(bj)
		if err != nil {
			return err
		}
		if _, err := h.Store.AddBillingLine(ctx, scope, line); err != nil {
			return err
		}
	}

	return h.addAdvances(ctx, scope, []factory.AdvanceJSON{
		{EmployeeID: "emp-asha", Date: "2025-04-10", Amount: 5000, Note: "rent"},
		{EmployeeID: "emp-asha", Date: "2025-04-25", Amount: -1000, Note: "partly returned"},
		{EmployeeID: "emp-meera", Date: "2025-04-18", Amount: 2000},
	})
}

// loadNewHiresScenario has no mappings: base salary comes from each
// employee's default and there is no incentive.
func (h *Handler) loadNewHiresScenario(ctx context.Context, scope generic.Scope) error {
	employees := []factory.EmployeeJSON{
		{ID: "emp-neha", Name: "Neha Iyer", DefaultBaseSalary: 16000},
		{ID: "emp-arjun", Name: "Arjun Mehta", DefaultBaseSalary: 21000},
	}
	if err := h.saveEmployees(ctx, scope, employees); err != nil {
		return err
	}
	if err := h.markMonth(ctx, scope, "emp-neha", "", nil, 31); err != nil {
		return err
	}
	if err := h.markMonth(ctx, scope, "emp-arjun", "", map[string]string{"2025-04-01": "half"}, 11); err != nil {
		return err
	}
	return h.addAdvances(ctx, scope, []factory.AdvanceJSON{
		{EmployeeID: "emp-arjun", Date: "2025-04-05", Amount: 3000, Note: "joining advance"},
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) saveEmployees(ctx context.Context, scope generic.Scope, list []factory.EmployeeJSON) error {
	for _, ej := range list {
		emp, err := h.Factory.Employee(scope, ej)
		if err != nil {
			return fmt.Errorf("employee %s: %w", ej.ID, err)
		}
		if err := h.Store.SaveEmployee(ctx, emp); err != nil {
			return err
		}
	}
	return nil
}

// markMonth marks days 1..untilDay-1 of the scenario month present, except
// the closure day and the listed exceptions.
func (h *Handler) markMonth(ctx context.Context, scope generic.Scope, employeeID, closure string, exceptions map[string]string, untilDay int) error {
	for d := 1; d < untilDay && d <= scenarioMonth.Days(); d++ {
		date := fmt.Sprintf("%s-%02d", scenarioMonth.String(), d)
		if date == closure {
			continue
		}
		status := "present"
		if s, ok := exceptions[date]; ok {
			status = s
		}
		day, err := h.Factory.Attendance(factory.AttendanceJSON{EmployeeID: employeeID, Date: date, Status: status})
		if err != nil {
			return err
		}
		if err := h.Store.MarkAttendance(ctx, scope, day); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) addAdvances(ctx context.Context, scope generic.Scope, list []factory.AdvanceJSON) error {
	for _, aj := range list {
		entry, err := h.Factory.Advance(scope, aj)
		if err != nil {
			return err
		}
		if _, err := h.Store.AddAdvance(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}
