package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/salary-engine/generic"
)

// =============================================================================
// ADVANCE LEDGER
// =============================================================================

// AdvanceEntry is a signed cash movement: positive was given to the
// employee, negative was received back. Entries are never edited, only
// deleted explicitly.
type AdvanceEntry struct {
	ID         string
	Scope      generic.Scope
	EmployeeID generic.EmployeeID
	Date       generic.TimePoint
	Amount     decimal.Decimal
	Note       string
	CreatedAt  time.Time
}

// IsGiven reports whether the entry paid cash out to the employee.
func (e AdvanceEntry) IsGiven() bool { return !e.Amount.IsNegative() }

// AdvanceBreakdown is the fold of a period's entries.
type AdvanceBreakdown struct {
	Given    decimal.Decimal
	Received decimal.Decimal
	Net      decimal.Decimal
	Count    int
}

// FoldAdvances sums given (amount >= 0) and received (|amount| for amount < 0).
func FoldAdvances(entries []AdvanceEntry) AdvanceBreakdown {
	b := AdvanceBreakdown{Given: decimal.Zero, Received: decimal.Zero}
	for _, e := range entries {
		if e.IsGiven() {
			b.Given = b.Given.Add(e.Amount)
		} else {
			b.Received = b.Received.Add(e.Amount.Abs())
		}
		b.Count++
	}
	b.Net = b.Given.Sub(b.Received)
	return b
}

// AdvancesIn keeps the entries of one employee dated inside the window.
// An empty EmployeeID on an entry is treated as belonging to the caller.
func AdvancesIn(entries []AdvanceEntry, employeeID generic.EmployeeID, window generic.Window) []AdvanceEntry {
	var out []AdvanceEntry
	for _, e := range entries {
		if e.EmployeeID != "" && e.EmployeeID != employeeID {
			continue
		}
		if !window.Contains(e.Date) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// SuggestedSalary nets advances against the gross: max(0, actual - given + received).
func SuggestedSalary(actual decimal.Decimal, adv AdvanceBreakdown) decimal.Decimal {
	return generic.NonNegative(actual.Sub(adv.Given).Add(adv.Received))
}
