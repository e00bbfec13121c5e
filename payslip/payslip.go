/*
payslip.go - Printable salary statement for one employee and period

PURPOSE:
  Turns a SalaryResult into a statement a store owner can hand over.
  The statement prints the gross (actual salary) as Net Pay. Advances
  are listed for information only and are NOT deducted here; the
  advance-netted suggested salary is an owner-side figure and does not
  appear on the payslip.

SEE ALSO:
  - payroll/engine.go: ComputeSalary produces the figures
  - api/handlers.go: Serves the statement as JSON or PDF
*/
package payslip

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/warp/salary-engine/payroll"
)

// Line is one labelled amount on the statement.
type Line struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Attendance is the day count block of the statement.
type Attendance struct {
	WorkingDays    int             `json:"working_days"`
	StoreLeaveDays int             `json:"store_leave_days"`
	PresentDays    int             `json:"present_days"`
	HalfDays       int             `json:"half_days"`
	AbsentDays     int             `json:"absent_days"`
	PaidDays       decimal.Decimal `json:"paid_days"`
	ProRate        bool            `json:"pro_rate"`
}

// Statement is the payslip content, independent of output format.
type Statement struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Period       string          `json:"period"`
	PeriodLabel  string          `json:"period_label"`
	Attendance   Attendance      `json:"attendance"`
	Earnings     []Line          `json:"earnings"`
	Gross        decimal.Decimal `json:"gross"`
	// Informational only; not subtracted from NetPay.
	AdvancesGiven    decimal.Decimal `json:"advances_given"`
	AdvancesReceived decimal.Decimal `json:"advances_received"`
	NetPay           decimal.Decimal `json:"net_pay"`
	IssuedAt         time.Time       `json:"issued_at"`
}

// Build lays out a statement. NetPay always equals the gross.
func Build(emp payroll.Employee, res payroll.SalaryResult, issuedAt time.Time) Statement {
	name := emp.Name
	if name == "" {
		name = string(emp.ID)
	}

	earnings := []Line{{Label: "Base pay", Amount: res.RoundedBasePortion()}}
	if res.ComputedIncentive.IsPositive() {
		earnings = append(earnings, Line{Label: "Service commission", Amount: res.ComputedIncentive})
	}
	if res.TargetHit && res.TargetBonus.IsPositive() {
		earnings = append(earnings, Line{Label: "Target bonus", Amount: res.TargetBonus})
	}

	return Statement{
		EmployeeID:   string(res.EmployeeID),
		EmployeeName: name,
		Period:       res.Period.Key(),
		PeriodLabel:  periodLabel(res),
		Attendance: Attendance{
			WorkingDays:    res.WorkingDays,
			StoreLeaveDays: res.StoreLeaveDays,
			PresentDays:    res.PresentDays,
			HalfDays:       res.HalfDays,
			AbsentDays:     res.AbsentDays,
			PaidDays:       res.PaidDays,
			ProRate:        res.ProRate,
		},
		Earnings:         earnings,
		Gross:            res.ActualSalary,
		AdvancesGiven:    res.Advances.Given,
		AdvancesReceived: res.Advances.Received,
		NetPay:           res.ActualSalary,
		IssuedAt:         issuedAt,
	}
}

func periodLabel(res payroll.SalaryResult) string {
	if res.Period.IsRange() {
		w := res.Period.Window()
		return fmt.Sprintf("%s to %s", w.Start, w.End)
	}
	return res.Period.Month.FirstDay().Time.Format("January 2006")
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// =============================================================================
// RENDERERS
// =============================================================================

// RenderText writes a plain-text statement.
func RenderText(w io.Writer, s Statement) error {
	var b strings.Builder
	fmt.Fprintf(&b, "PAYSLIP  %s\n", s.PeriodLabel)
	fmt.Fprintf(&b, "Employee: %s (%s)\n\n", s.EmployeeName, s.EmployeeID)
	fmt.Fprintf(&b, "Working days: %d (store leave %d)\n", s.Attendance.WorkingDays, s.Attendance.StoreLeaveDays)
	fmt.Fprintf(&b, "Present %d, half %d, absent %d, paid %s\n\n",
		s.Attendance.PresentDays, s.Attendance.HalfDays, s.Attendance.AbsentDays, s.Attendance.PaidDays.String())
	for _, l := range s.Earnings {
		fmt.Fprintf(&b, "%-22s %12s\n", l.Label, money(l.Amount))
	}
	fmt.Fprintf(&b, "%-22s %12s\n", "Gross", money(s.Gross))
	if !s.AdvancesGiven.IsZero() || !s.AdvancesReceived.IsZero() {
		fmt.Fprintf(&b, "\nAdvances given %s, received %s (not deducted)\n",
			money(s.AdvancesGiven), money(s.AdvancesReceived))
	}
	fmt.Fprintf(&b, "\n%-22s %12s\n", "NET PAY", money(s.NetPay))
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderPDF writes an A4 statement.
func RenderPDF(w io.Writer, s Statement) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+s.EmployeeName+" "+s.Period, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", s.EmployeeName, s.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, "Period: "+s.PeriodLabel)
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Working days: %d  Paid days: %s  Store leave: %d",
		s.Attendance.WorkingDays, s.Attendance.PaidDays.String(), s.Attendance.StoreLeaveDays))
	pdf.Ln(12)

	for _, l := range s.Earnings {
		pdf.CellFormat(120, 8, l.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, money(l.Amount), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 8, "Gross", "T", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, money(s.Gross), "T", 1, "R", false, 0, "")

	if !s.AdvancesGiven.IsZero() || !s.AdvancesReceived.IsZero() {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Ln(4)
		pdf.Cell(0, 6, fmt.Sprintf("Advances given %s, received %s (not deducted)",
			money(s.AdvancesGiven), money(s.AdvancesReceived)))
		pdf.Ln(8)
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(120, 10, "Net Pay", "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 10, money(s.NetPay), "", 1, "R", false, 0, "")

	return pdf.Output(w)
}

// PDFBytes renders the statement into memory.
func PDFBytes(s Statement) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderPDF(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
