/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Domain amounts are
  decimal.Decimal; they are converted to float64 only here, at the edge.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types not already covered by factory JSON types
  - *Response: Complex response wrappers

TYPES:
  Employees:  EmployeeDTO
  Summary:    SalaryRowDTO, TotalsDTO, SummaryResponse
  Attendance: AttendanceDetailDTO
  Advances:   AdvanceDTO, AdvanceListResponse
  Salaries:   ProvisionedDTO, ProvidedResponse
  Board:      SelectPeriodRequest, BoardResponse
  Scenarios:  ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Request bodies reuse factory's JSON types, which carry validator tags.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/requests.go: Request JSON types
*/
package api

import (
	"time"

	"github.com/warp/salary-engine/generic"
	"github.com/warp/salary-engine/payroll"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	AccountCode       string  `json:"account_code"`
	RetailCode        string  `json:"retail_code"`
	DefaultBaseSalary float64 `json:"default_base_salary"`
}

// SalaryRowDTO is one line of the incentive/salary summary table.
type SalaryRowDTO struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	HasMapping   bool   `json:"has_mapping"`

	BaseSalary           float64 `json:"base_salary"`
	Target               float64 `json:"target"`
	IncentiveBonus       float64 `json:"incentive_bonus"`
	LeaveDeductionPerDay float64 `json:"leave_deduction_per_day"`

	BillingTotal      float64 `json:"billing_total"`
	ComputedIncentive float64 `json:"computed_incentive"`
	BillingLines      int     `json:"billing_lines"`

	PresentDays    int  `json:"present_days"`
	HalfDays       int  `json:"half_days"`
	AbsentDays     int  `json:"absent_days"`
	StoreLeaveDays int  `json:"store_leave_days"`
	ProRate        bool `json:"pro_rate"`

	WorkingDays            int     `json:"working_days"`
	WorkingDaysDenominator int     `json:"working_days_denominator"`
	PaidDays               float64 `json:"paid_days"`
	UnpaidDays             float64 `json:"unpaid_days"`
	BaseMode               string  `json:"base_mode"`
	BasePortion            float64 `json:"base_portion"`
	TargetHit              bool    `json:"target_hit"`
	TargetBonus            float64 `json:"target_bonus"`
	TotalIncentive         float64 `json:"total_incentive"`
	ActualSalary           float64 `json:"actual_salary"`

	AdvancesGiven    float64 `json:"advances_given"`
	AdvancesReceived float64 `json:"advances_received"`
	SuggestedSalary  float64 `json:"suggested_salary"`

	// ProvidedSalary is the final salary already provisioned for the
	// period, if any.
	ProvidedSalary *float64 `json:"provided_salary,omitempty"`
}

// TotalsDTO sums the summary rows.
type TotalsDTO struct {
	Employees        int     `json:"employees"`
	BillingTotal     float64 `json:"billing_total"`
	ActualSalary     float64 `json:"actual_salary"`
	SuggestedSalary  float64 `json:"suggested_salary"`
	AdvancesGiven    float64 `json:"advances_given"`
	AdvancesReceived float64 `json:"advances_received"`
}

// SummaryResponse is the joined incentive-mapping view of one period.
type SummaryResponse struct {
	AccountCode     string         `json:"account_code"`
	RetailCode      string         `json:"retail_code"`
	Period          string         `json:"period"`
	PayCycle        string         `json:"pay_cycle"`
	StoreLeaveDates []string       `json:"store_leave_dates"`
	Rows            []SalaryRowDTO `json:"rows"`
	Totals          TotalsDTO      `json:"totals"`
	// Degraded names providers whose data could not be read; their
	// figures are shown as zero.
	Degraded []string `json:"degraded"`
}

// AttendanceDetailDTO is the day-by-day drill-down of one month. Period is
// what the salary was computed over, which may be a range.
type AttendanceDetailDTO struct {
	EmployeeID string       `json:"employee_id"`
	Month      string       `json:"month"`
	Period     string       `json:"period"`
	Present    []string     `json:"present"`
	Half       []string     `json:"half"`
	Absent     []string     `json:"absent"`
	Unmarked   []string     `json:"unmarked"`
	StoreLeave []string     `json:"store_leave"`
	Salary     SalaryRowDTO `json:"salary"`
}

// StoreLeavesResponse lists the closure days of a month.
type StoreLeavesResponse struct {
	Month string   `json:"month"`
	Dates []string `json:"dates"`
}

// AttendanceDTO echoes a stored attendance mark.
type AttendanceDTO struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}

// BillingLineDTO echoes a stored billing line.
type BillingLineDTO struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	ServiceID  string  `json:"service_id"`
	Amount     float64 `json:"amount"`
}

// AdvanceDTO is one signed ledger entry.
type AdvanceDTO struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	Amount     float64 `json:"amount"`
	Kind       string  `json:"kind"` // "given" or "received"
	Note       string  `json:"note,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// AdvanceListResponse lists entries with their fold.
type AdvanceListResponse struct {
	Period   string       `json:"period"`
	Entries  []AdvanceDTO `json:"entries"`
	Given    float64      `json:"given"`
	Received float64      `json:"received"`
	Net      float64      `json:"net"`
}

// ProvisionedDTO is a persisted final salary.
type ProvisionedDTO struct {
	ID              string   `json:"id"`
	EmployeeID      string   `json:"employee_id"`
	Period          string   `json:"period"`
	ActualSalary    float64  `json:"actual_salary"`
	SuggestedSalary float64  `json:"suggested_salary"`
	CustomSalary    *float64 `json:"custom_salary,omitempty"`
	FinalSalary     float64  `json:"final_salary"`
	ProvidedBy      string   `json:"provided_by,omitempty"`
	ProvidedAt      string   `json:"provided_at"`
}

// ProvidedResponse maps employee id to final salary for a period.
type ProvidedResponse struct {
	Period   string                    `json:"period"`
	Salaries map[string]float64        `json:"salaries"`
	Records  map[string]ProvisionedDTO `json:"records"`
}

// SelectPeriodRequest selects the board's period.
type SelectPeriodRequest struct {
	Month    string `json:"month"`
	From     string `json:"from"`
	To       string `json:"to"`
	PayCycle string `json:"pay_cycle"`
}

// BoardResponse is the board's current view. Summary is nil until the
// selected period has loaded.
type BoardResponse struct {
	Selected bool             `json:"selected"`
	Period   string           `json:"period,omitempty"`
	PayCycle string           `json:"pay_cycle,omitempty"`
	Applied  *bool            `json:"applied,omitempty"`
	Summary  *SummaryResponse `json:"summary"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toEmployeeDTO(e payroll.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:                string(e.ID),
		Name:              e.Name,
		AccountCode:       e.Scope.AccountCode,
		RetailCode:        e.Scope.RetailCode,
		DefaultBaseSalary: generic.ToFloat(e.DefaultBaseSalary),
	}
}

func toSalaryRowDTO(row payroll.Row) SalaryRowDTO {
	res := row.Result
	return SalaryRowDTO{
		EmployeeID:   string(row.Employee.ID),
		EmployeeName: row.Employee.Name,
		HasMapping:   row.Mapping != nil,

		BaseSalary:           generic.ToFloat(res.BaseSalary),
		Target:               generic.ToFloat(res.Target),
		IncentiveBonus:       generic.ToFloat(res.IncentiveBonus),
		LeaveDeductionPerDay: generic.ToFloat(res.LeaveDeductionPerDay),

		BillingTotal:      generic.ToFloat(res.BillingTotal),
		ComputedIncentive: generic.ToFloat(res.ComputedIncentive),
		BillingLines:      row.Billing.LineCount,

		PresentDays:    res.PresentDays,
		HalfDays:       res.HalfDays,
		AbsentDays:     res.AbsentDays,
		StoreLeaveDays: res.StoreLeaveDays,
		ProRate:        res.ProRate,

		WorkingDays:            res.WorkingDays,
		WorkingDaysDenominator: res.WorkingDaysDenominator,
		PaidDays:               generic.ToFloat(res.PaidDays),
		UnpaidDays:             generic.ToFloat(res.UnpaidDays),
		BaseMode:               string(res.BaseMode),
		BasePortion:            generic.ToFloat(res.RoundedBasePortion()),
		TargetHit:              res.TargetHit,
		TargetBonus:            generic.ToFloat(res.TargetBonus),
		TotalIncentive:         generic.ToFloat(res.TotalIncentive),
		ActualSalary:           generic.ToFloat(res.ActualSalary),

		AdvancesGiven:    generic.ToFloat(res.Advances.Given),
		AdvancesReceived: generic.ToFloat(res.Advances.Received),
		SuggestedSalary:  generic.ToFloat(res.SuggestedSalary),
	}
}

func toSummaryResponse(snap payroll.Snapshot, provided map[generic.EmployeeID]payroll.ProvisionedSalary) SummaryResponse {
	resp := SummaryResponse{
		AccountCode:     snap.Scope.AccountCode,
		RetailCode:      snap.Scope.RetailCode,
		Period:          snap.Period.Key(),
		PayCycle:        string(snap.Cycle),
		StoreLeaveDates: dateStrings(snap.StoreLeaveDates.Sorted()),
		Rows:            make([]SalaryRowDTO, 0, len(snap.Rows)),
		Totals: TotalsDTO{
			Employees:        snap.Totals.Employees,
			BillingTotal:     generic.ToFloat(snap.Totals.BillingTotal),
			ActualSalary:     generic.ToFloat(snap.Totals.ActualSalary),
			SuggestedSalary:  generic.ToFloat(snap.Totals.SuggestedSalary),
			AdvancesGiven:    generic.ToFloat(snap.Totals.AdvancesGiven),
			AdvancesReceived: generic.ToFloat(snap.Totals.AdvancesRecv),
		},
		Degraded: snap.Degraded,
	}
	if resp.Degraded == nil {
		resp.Degraded = []string{}
	}
	for _, row := range snap.Rows {
		dto := toSalaryRowDTO(row)
		if ps, ok := provided[row.Employee.ID]; ok {
			final := generic.ToFloat(ps.FinalSalary)
			dto.ProvidedSalary = &final
		}
		resp.Rows = append(resp.Rows, dto)
	}
	return resp
}

func toAttendanceDetailDTO(d payroll.AttendanceDetail, row payroll.Row) AttendanceDetailDTO {
	return AttendanceDetailDTO{
		EmployeeID: string(d.EmployeeID),
		Month:      d.Month.String(),
		Period:     row.Result.Period.Key(),
		Present:    dateStrings(d.Present),
		Half:       dateStrings(d.Half),
		Absent:     dateStrings(d.Absent),
		Unmarked:   dateStrings(d.Unmarked),
		StoreLeave: dateStrings(d.StoreLeave),
		Salary:     toSalaryRowDTO(row),
	}
}

func toAdvanceDTO(e payroll.AdvanceEntry) AdvanceDTO {
	kind := "given"
	if !e.IsGiven() {
		kind = "received"
	}
	return AdvanceDTO{
		ID:         e.ID,
		EmployeeID: string(e.EmployeeID),
		Date:       e.Date.String(),
		Amount:     generic.ToFloat(e.Amount),
		Kind:       kind,
		Note:       e.Note,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
}

func toProvisionedDTO(ps payroll.ProvisionedSalary) ProvisionedDTO {
	dto := ProvisionedDTO{
		ID:              ps.ID,
		EmployeeID:      string(ps.EmployeeID),
		Period:          ps.PeriodKey,
		ActualSalary:    generic.ToFloat(ps.ActualSalary),
		SuggestedSalary: generic.ToFloat(ps.SuggestedSalary),
		FinalSalary:     generic.ToFloat(ps.FinalSalary),
		ProvidedBy:      ps.ProvidedBy,
		ProvidedAt:      ps.ProvidedAt.Format(time.RFC3339),
	}
	if ps.CustomSalary != nil {
		custom := generic.ToFloat(*ps.CustomSalary)
		dto.CustomSalary = &custom
	}
	return dto
}

func dateStrings(days []generic.TimePoint) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.String()
	}
	return out
}
