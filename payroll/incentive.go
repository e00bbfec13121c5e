package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/salary-engine/generic"
)

// Incentive is commission plus the all-or-nothing target bonus.
type Incentive struct {
	TargetHit   bool
	TargetBonus decimal.Decimal
	Total       decimal.Decimal
}

// ResolveIncentive awards the bonus only when a target is configured
// (target > 0) and billing reaches it. A zero target never hits.
func ResolveIncentive(target, incentiveBonus, billingTotal, computedIncentive decimal.Decimal) Incentive {
	hit := target.IsPositive() && billingTotal.GreaterThanOrEqual(target)
	inc := Incentive{TargetHit: hit, TargetBonus: decimal.Zero, Total: computedIncentive}
	if hit {
		inc.TargetBonus = incentiveBonus
		inc.Total = computedIncentive.Add(incentiveBonus)
	}
	return inc
}

// ActualSalary is the gross figure: max(0, round(base) + incentive).
func ActualSalary(basePortion, totalIncentive decimal.Decimal) decimal.Decimal {
	return generic.NonNegative(RoundCurrency(basePortion).Add(totalIncentive))
}
