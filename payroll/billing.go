package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/salary-engine/generic"
)

// AggregateBilling rolls billed lines up into a BillingAggregate. Each line
// earns the fixed commission mapped for its service, if any. Lines outside
// the window or belonging to another employee are skipped.
func AggregateBilling(lines []BillingLine, employeeID generic.EmployeeID, window generic.Window, mapping *IncentiveMapping) BillingAggregate {
	agg := BillingAggregate{BillingTotal: decimal.Zero, ComputedIncentive: decimal.Zero}
	for _, l := range lines {
		if l.EmployeeID != employeeID || !window.Contains(l.Date) {
			continue
		}
		agg.BillingTotal = agg.BillingTotal.Add(generic.NonNegative(l.Amount))
		agg.LineCount++
		if mapping == nil {
			continue
		}
		if fixed, ok := mapping.CommissionFor(l.ServiceID); ok {
			agg.ComputedIncentive = agg.ComputedIncentive.Add(generic.NonNegative(fixed))
		}
	}
	return agg
}

// AggregateAllBilling groups lines per employee and aggregates each.
func AggregateAllBilling(lines []BillingLine, window generic.Window, mappings []IncentiveMapping) map[generic.EmployeeID]BillingAggregate {
	byEmployee := make(map[generic.EmployeeID]*IncentiveMapping, len(mappings))
	for i := range mappings {
		byEmployee[mappings[i].EmployeeID] = &mappings[i]
	}
	seen := make(map[generic.EmployeeID]bool)
	out := make(map[generic.EmployeeID]BillingAggregate)
	for _, l := range lines {
		if seen[l.EmployeeID] {
			continue
		}
		seen[l.EmployeeID] = true
		out[l.EmployeeID] = AggregateBilling(lines, l.EmployeeID, window, byEmployee[l.EmployeeID])
	}
	return out
}
