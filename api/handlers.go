/*
handlers.go - HTTP API handlers for the salary engine

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the factory (validation), the
  stores (leaf data) and the payroll package (computation).

ENDPOINTS:
  Employees:
    GET    /api/employees                 List employees of a scope
    POST   /api/employees                 Register/update an employee

  Incentive mappings:
    GET    /api/incentive-mappings        Summary table: mappings joined with
                                          attendance, billing and advances
    POST   /api/incentive-mappings        Upsert a mapping (employee, cycle)

  Attendance:
    GET    /api/attendance/{employeeId}   Month drill-down + salary figures
    PUT    /api/attendance                Mark one day
    GET    /api/store-leaves              Closure days of a month
    PUT    /api/store-leaves              Replace a month's closure days

  Billing and advances:
    POST   /api/billing                   Record a billed service
    GET    /api/advances                  Ledger entries of a period
    POST   /api/advances                  Add a signed entry
    DELETE /api/advances/{id}             Remove an entry

  Salaries:
    POST   /api/salaries/provide          Provision a final salary
    GET    /api/salaries/provided         Final salaries of a period
    GET    /api/payslips/{employeeId}     Payslip as JSON, text or PDF

  Board:
    GET    /api/board                     Selected period and its summary
    PUT    /api/board/period              Select a period and load it

SCOPE AND PERIOD:
  Every request is scoped by ?account_code=&retail_code= (config defaults
  apply when absent). Periods come from ?month=YYYY-MM or
  ?from=YYYY-MM-DD&to=YYYY-MM-DD; from/to wins, and with neither the
  current month is used.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid period or month key
  - 404: Employee or advance not found
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/salary-engine/factory"
	"github.com/warp/salary-engine/generic"
	"github.com/warp/salary-engine/payroll"
	"github.com/warp/salary-engine/payslip"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is everything the handlers read and write. Both store/sqlite and
// store/memory satisfy it.
type Store interface {
	payroll.EmployeeProvider
	payroll.MappingProvider
	payroll.AttendanceProvider
	payroll.BillingProvider
	payroll.AdvanceProvider
	payroll.ProvisionStore

	Sources() payroll.Sources
	SaveEmployee(ctx context.Context, e payroll.Employee) error
	UpsertMapping(ctx context.Context, m payroll.IncentiveMapping) error
	MarkAttendance(ctx context.Context, scope generic.Scope, day payroll.AttendanceDay) error
	AttendanceDays(ctx context.Context, scope generic.Scope, employeeID generic.EmployeeID, window generic.Window) ([]payroll.AttendanceDay, error)
	ReplaceStoreLeaves(ctx context.Context, scope generic.Scope, month generic.MonthKey, days []generic.TimePoint) error
	StoreLeaves(ctx context.Context, scope generic.Scope, month generic.MonthKey) (generic.DateSet, error)
	AddBillingLine(ctx context.Context, scope generic.Scope, line payroll.BillingLine) (payroll.BillingLine, error)
	AddAdvance(ctx context.Context, e payroll.AdvanceEntry) (payroll.AdvanceEntry, error)
	DeleteAdvance(ctx context.Context, scope generic.Scope, id string) error
	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store       Store
	Factory     *factory.Factory
	Aggregator  *payroll.Aggregator
	Provisioner *payroll.Provisioner
	Boards      *payroll.Boards

	// DefaultScope applies when a request names no account/retail code.
	DefaultScope generic.Scope
	Logger       *slog.Logger

	now func() time.Time

	mu              sync.Mutex
	currentScenario string
}

// NewHandler wires the engine over a store.
func NewHandler(store Store, defaultScope generic.Scope, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	agg := payroll.NewAggregator(store.Sources(), logger)
	return &Handler{
		Store:        store,
		Factory:      factory.New(),
		Aggregator:   agg,
		Provisioner:  payroll.NewProvisioner(agg, store, logger),
		Boards:       payroll.NewBoards(),
		DefaultScope: defaultScope,
		Logger:       logger,
		now:          time.Now,
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns the employees of a scope.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	scope := h.scope(r)
	employees, err := h.Store.ListEmployees(r.Context(), scope)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveEmployee registers or updates an employee.
func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	var req factory.EmployeeJSON
	if !decodeBody(w, r, &req) {
		return
	}
	emp, err := h.Factory.Employee(h.scope(r), req)
	if err != nil {
		h.fail(w, r, "Invalid employee", err)
		return
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// =============================================================================
// INCENTIVE MAPPING HANDLERS
// =============================================================================

// GetSummary returns the mappings of a period joined with billing,
// attendance and advances, one computed salary row per employee.
//
// Query: month | from&to, pay_cycle (monthly|weekly), no_prorate=emp-1,emp-2
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	req, ok := h.loadRequest(w, r)
	if !ok {
		return
	}

	snap, err := h.Aggregator.Load(r.Context(), req)
	if err != nil {
		h.fail(w, r, "Failed to load salaries", err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryResponse(snap, h.provided(r.Context(), req)))
}

// UpsertMapping creates or replaces the mapping of (employee, pay cycle).
func (h *Handler) UpsertMapping(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	scope := h.scope(r)
	m, err := h.Factory.ParseMapping(scope, body)
	if err != nil {
		h.fail(w, r, "Invalid incentive mapping", err)
		return
	}
	if !h.employeeExists(w, r, scope, m.EmployeeID) {
		return
	}
	m.UpdatedAt = h.now().UTC()
	if err := h.Store.UpsertMapping(r.Context(), m); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save incentive mapping", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.MappingToJSON(m))
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// GetAttendanceDetail lists a month day by day for one employee, with the
// same salary figures the summary shows for the same query.
//
// Query: month | from&to, pay_cycle, no_prorate, as for the summary. The
// salary covers the requested period; the date lists cover its month.
func (h *Handler) GetAttendanceDetail(w http.ResponseWriter, r *http.Request) {
	employeeID := generic.EmployeeID(chi.URLParam(r, "employeeId"))
	req, ok := h.loadRequest(w, r)
	if !ok {
		return
	}
	req.EmployeeID = employeeID

	snap, err := h.Aggregator.Load(r.Context(), req)
	if err != nil {
		h.fail(w, r, "Failed to load salary", err)
		return
	}
	row, ok := snap.Row(employeeID)
	if !ok {
		writeError(w, http.StatusNotFound, "Employee not found", generic.ErrEmployeeNotFound)
		return
	}

	month := req.Period.Month
	leaves := snap.StoreLeaveDates
	if req.Period.IsRange() {
		if leaves, err = h.Store.StoreLeaves(r.Context(), req.Scope, month); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load store leaves", err)
			return
		}
	}
	days, err := h.Store.AttendanceDays(r.Context(), req.Scope, employeeID, month.Window())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load attendance", err)
		return
	}
	detail := payroll.BuildAttendanceDetail(month, days, leaves, row)
	writeJSON(w, http.StatusOK, toAttendanceDetailDTO(detail, row))
}

// MarkAttendance records one day's status, replacing any earlier mark.
func (h *Handler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req factory.AttendanceJSON
	if !decodeBody(w, r, &req) {
		return
	}
	day, err := h.Factory.Attendance(req)
	if err != nil {
		h.fail(w, r, "Invalid attendance", err)
		return
	}
	scope := h.scope(r)
	if !h.employeeExists(w, r, scope, day.EmployeeID) {
		return
	}
	if err := h.Store.MarkAttendance(r.Context(), scope, day); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to mark attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, AttendanceDTO{
		EmployeeID: string(day.EmployeeID),
		Date:       day.Date.String(),
		Status:     string(day.Status),
	})
}

// GetStoreLeaves returns the closure days of ?month=.
func (h *Handler) GetStoreLeaves(w http.ResponseWriter, r *http.Request) {
	month, err := h.month(r)
	if err != nil {
		h.fail(w, r, "Invalid month", err)
		return
	}
	set, err := h.Store.StoreLeaves(r.Context(), h.scope(r), month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load store leaves", err)
		return
	}
	writeJSON(w, http.StatusOK, StoreLeavesResponse{Month: month.String(), Dates: dateStrings(set.Sorted())})
}

// ReplaceStoreLeaves swaps the whole month's closure days in one write.
// ?month= overrides the month in the body.
func (h *Handler) ReplaceStoreLeaves(w http.ResponseWriter, r *http.Request) {
	var req factory.StoreLeavesJSON
	if !decodeBody(w, r, &req) {
		return
	}
	if m := r.URL.Query().Get("month"); m != "" {
		req.Month = m
	}
	month, days, err := h.Factory.StoreLeaves(req)
	if err != nil {
		h.fail(w, r, "Invalid store leaves", err)
		return
	}
	if err := h.Store.ReplaceStoreLeaves(r.Context(), h.scope(r), month, days); err != nil {
		h.fail(w, r, "Failed to replace store leaves", err)
		return
	}
	writeJSON(w, http.StatusOK, StoreLeavesResponse{Month: month.String(), Dates: dateStrings(generic.NewDateSet(days...).Sorted())})
}

// =============================================================================
// BILLING AND ADVANCE HANDLERS
// =============================================================================

// AddBillingLine records one billed service.
func (h *Handler) AddBillingLine(w http.ResponseWriter, r *http.Request) {
	var req factory.BillingLineJSON
	if !decodeBody(w, r, &req) {
		return
	}
	line, err := h.Factory.BillingLine(req)
	if err != nil {
		h.fail(w, r, "Invalid billing line", err)
		return
	}
	scope := h.scope(r)
	if !h.employeeExists(w, r, scope, line.EmployeeID) {
		return
	}
	saved, err := h.Store.AddBillingLine(r.Context(), scope, line)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record billing line", err)
		return
	}
	writeJSON(w, http.StatusCreated, BillingLineDTO{
		ID:         saved.ID,
		EmployeeID: string(saved.EmployeeID),
		Date:       saved.Date.String(),
		ServiceID:  saved.ServiceID,
		Amount:     generic.ToFloat(saved.Amount),
	})
}

// ListAdvances returns the ledger entries of a period, optionally for one
// employee (?employee_id=).
func (h *Handler) ListAdvances(w http.ResponseWriter, r *http.Request) {
	period, err := h.period(r)
	if err != nil {
		h.fail(w, r, "Invalid period", err)
		return
	}
	employeeID := generic.EmployeeID(r.URL.Query().Get("employee_id"))
	entries, err := h.Store.ListAdvances(r.Context(), h.scope(r), employeeID, period.Window())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list advances", err)
		return
	}

	fold := payroll.FoldAdvances(entries)
	resp := AdvanceListResponse{
		Period:   period.Key(),
		Entries:  make([]AdvanceDTO, len(entries)),
		Given:    generic.ToFloat(fold.Given),
		Received: generic.ToFloat(fold.Received),
		Net:      generic.ToFloat(fold.Net),
	}
	for i, e := range entries {
		resp.Entries[i] = toAdvanceDTO(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddAdvance appends a signed entry: positive given, negative received.
func (h *Handler) AddAdvance(w http.ResponseWriter, r *http.Request) {
	var req factory.AdvanceJSON
	if !decodeBody(w, r, &req) {
		return
	}
	scope := h.scope(r)
	entry, err := h.Factory.Advance(scope, req)
	if err != nil {
		h.fail(w, r, "Invalid advance", err)
		return
	}
	if !h.employeeExists(w, r, scope, entry.EmployeeID) {
		return
	}
	saved, err := h.Store.AddAdvance(r.Context(), entry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add advance", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAdvanceDTO(saved))
}

// DeleteAdvance removes one ledger entry.
func (h *Handler) DeleteAdvance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteAdvance(r.Context(), h.scope(r), id); err != nil {
		h.fail(w, r, "Failed to delete advance", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// =============================================================================
// SALARY HANDLERS
// =============================================================================

// ProvideSalary recomputes one employee's salary from current data and
// records final = custom_amount ?? suggested.
func (h *Handler) ProvideSalary(w http.ResponseWriter, r *http.Request) {
	var req factory.ProvideJSON
	if !decodeBody(w, r, &req) {
		return
	}
	provide, err := h.Factory.Provide(h.scope(r), req)
	if err != nil {
		h.fail(w, r, "Invalid provisioning request", err)
		return
	}
	ps, err := h.Provisioner.Provide(r.Context(), provide)
	if err != nil {
		h.fail(w, r, "Failed to provide salary", err)
		return
	}
	writeJSON(w, http.StatusOK, toProvisionedDTO(ps))
}

// ListProvided maps employee id to the final salary of a period.
func (h *Handler) ListProvided(w http.ResponseWriter, r *http.Request) {
	period, err := h.period(r)
	if err != nil {
		h.fail(w, r, "Invalid period", err)
		return
	}
	provided, err := h.Provisioner.Provided(r.Context(), h.scope(r), period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list provided salaries", err)
		return
	}

	resp := ProvidedResponse{
		Period:   period.Key(),
		Salaries: make(map[string]float64, len(provided)),
		Records:  make(map[string]ProvisionedDTO, len(provided)),
	}
	for id, ps := range provided {
		resp.Salaries[string(id)] = generic.ToFloat(ps.FinalSalary)
		resp.Records[string(id)] = toProvisionedDTO(ps)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetPayslip renders one employee's payslip. ?format=json (default),
// text or pdf; the period and pro-rate query match the summary. The
// printed net pay is the gross; advances are listed but not deducted.
func (h *Handler) GetPayslip(w http.ResponseWriter, r *http.Request) {
	employeeID := generic.EmployeeID(chi.URLParam(r, "employeeId"))
	req, ok := h.loadRequest(w, r)
	if !ok {
		return
	}
	req.EmployeeID = employeeID
	period := req.Period

	snap, err := h.Aggregator.Load(r.Context(), req)
	if err != nil {
		h.fail(w, r, "Failed to load salary", err)
		return
	}
	row, ok := snap.Row(employeeID)
	if !ok {
		writeError(w, http.StatusNotFound, "Employee not found", generic.ErrEmployeeNotFound)
		return
	}
	statement := payslip.Build(row.Employee, row.Result, h.now())

	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "json":
		writeJSON(w, http.StatusOK, statement)
	case "text", "txt":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := payslip.RenderText(w, statement); err != nil {
			h.Logger.ErrorContext(r.Context(), "render payslip text", slog.Any("error", err))
		}
	case "pdf":
		data, err := payslip.PDFBytes(statement)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to render payslip", err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("inline; filename=payslip-%s-%s.pdf", employeeID, period.Key()))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "Invalid format", fmt.Errorf("%w: format must be json, text or pdf", generic.ErrInvalidInput))
	}
}

// =============================================================================
// BOARD HANDLERS
// =============================================================================

// GetBoard returns the scope's selected period and its loaded summary.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	req, snap, selected := h.Boards.For(h.scope(r)).Current()
	resp := BoardResponse{Selected: selected}
	if selected {
		resp.Period = req.Period.Key()
		resp.PayCycle = string(req.Cycle)
	}
	if snap != nil {
		summary := toSummaryResponse(*snap, h.provided(r.Context(), req))
		resp.Summary = &summary
	}
	writeJSON(w, http.StatusOK, resp)
}

// SelectBoardPeriod selects a period and loads it. If another selection
// lands while this one is loading, the late result is not applied and
// applied=false is returned.
func (h *Handler) SelectBoardPeriod(w http.ResponseWriter, r *http.Request) {
	var body SelectPeriodRequest
	if !decodeBody(w, r, &body) {
		return
	}
	period, err := generic.ResolvePeriod(body.Month, body.From, body.To)
	if err != nil {
		h.fail(w, r, "Invalid period", err)
		return
	}
	cycle, err := factory.ParseCycle(body.PayCycle)
	if err != nil {
		h.fail(w, r, "Invalid pay cycle", err)
		return
	}

	req := payroll.LoadRequest{Scope: h.scope(r), Period: period, Cycle: cycle}
	snap, applied, err := h.Boards.For(req.Scope).Refresh(r.Context(), h.Aggregator, req)
	if err != nil {
		h.fail(w, r, "Failed to load salaries", err)
		return
	}
	summary := toSummaryResponse(snap, h.provided(r.Context(), req))
	writeJSON(w, http.StatusOK, BoardResponse{
		Selected: true,
		Period:   period.Key(),
		PayCycle: string(cycle),
		Applied:  &applied,
		Summary:  &summary,
	})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) scope(r *http.Request) generic.Scope {
	q := r.URL.Query()
	scope := h.DefaultScope
	if v := strings.TrimSpace(q.Get("account_code")); v != "" {
		scope.AccountCode = v
	}
	if v := strings.TrimSpace(q.Get("retail_code")); v != "" {
		scope.RetailCode = v
	}
	return scope
}

// period reads ?month= or ?from=&to=, defaulting to the current month.
func (h *Handler) period(r *http.Request) (generic.PayPeriod, error) {
	q := r.URL.Query()
	month, from, to := q.Get("month"), q.Get("from"), q.Get("to")
	if month == "" && from == "" && to == "" {
		return generic.MonthPeriod(generic.DateOf(h.now()).MonthKey()), nil
	}
	return generic.ResolvePeriod(month, from, to)
}

func (h *Handler) month(r *http.Request) (generic.MonthKey, error) {
	m := r.URL.Query().Get("month")
	if m == "" {
		return generic.DateOf(h.now()).MonthKey(), nil
	}
	return generic.ParseMonthKey(m)
}

func (h *Handler) loadRequest(w http.ResponseWriter, r *http.Request) (payroll.LoadRequest, bool) {
	period, err := h.period(r)
	if err != nil {
		h.fail(w, r, "Invalid period", err)
		return payroll.LoadRequest{}, false
	}
	cycle, err := factory.ParseCycle(r.URL.Query().Get("pay_cycle"))
	if err != nil {
		h.fail(w, r, "Invalid pay cycle", err)
		return payroll.LoadRequest{}, false
	}
	req := payroll.LoadRequest{Scope: h.scope(r), Period: period, Cycle: cycle}
	// One shape for every screen: no_prorate=emp-1,emp-2 turns pro-rating
	// off for the listed employees.
	if ids := r.URL.Query().Get("no_prorate"); ids != "" {
		req.NoProRate = make(map[generic.EmployeeID]bool)
		for _, id := range strings.Split(ids, ",") {
			if id = strings.TrimSpace(id); id != "" {
				req.NoProRate[generic.EmployeeID(id)] = true
			}
		}
	}
	return req, true
}

// provided is best effort: the summary still renders without it.
func (h *Handler) provided(ctx context.Context, req payroll.LoadRequest) map[generic.EmployeeID]payroll.ProvisionedSalary {
	out, err := h.Provisioner.Provided(ctx, req.Scope, req.Period)
	if err != nil {
		h.Logger.WarnContext(ctx, "provided salaries unavailable",
			slog.String("scope", req.Scope.String()),
			slog.String("period", req.Period.Key()),
			slog.Any("error", err),
		)
		return nil
	}
	return out
}

func (h *Handler) employeeExists(w http.ResponseWriter, r *http.Request, scope generic.Scope, id generic.EmployeeID) bool {
	emp, err := h.Store.GetEmployee(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load employee", err)
		return false
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", fmt.Errorf("%w: %s", generic.ErrEmployeeNotFound, id))
		return false
	}
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

// fail maps domain errors onto status codes.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	var ve *generic.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Details: err.Error(), Fields: ve.Fields})
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	default:
		h.Logger.ErrorContext(r.Context(), message, slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
