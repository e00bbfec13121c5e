/*
Package generic provides the domain-agnostic primitives the salary engine
is built on.

KEY CONCEPTS:
  - Money/quantities: decimal.Decimal, never float64, inside the engine
  - Sanitisation: floats entering from JSON or storage are coerced to a
    finite, non-negative decimal at the boundary
  - TimePoint/Window/PayPeriod: calendar-day arithmetic (time.go, period.go)
  - Scope: the (account, retail store) tenant every leaf read is keyed by

SEE ALSO:
  - period.go: Month keys and explicit ranges
  - errors.go: Sentinel and structured errors
  - payroll/engine.go: The computation built on these types
*/
package generic

import (
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string

// Scope identifies one retail location of one account.
type Scope struct {
	AccountCode string
	RetailCode  string
}

func (s Scope) String() string { return s.AccountCode + "/" + s.RetailCode }

// =============================================================================
// NUMERIC BOUNDARY
// =============================================================================

// SanitizeFloat converts an untrusted float into a decimal, mapping NaN,
// ±Inf and negative values to zero.
func SanitizeFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// SignedFloat converts an untrusted float that may legitimately be negative
// (advance entries). Non-finite values become zero.
func SignedFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// NonNegative clamps a decimal at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// NonNegativeInt clamps a count at zero.
func NonNegativeInt(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// MustParseDecimal parses a stored decimal string; unparsable input reads as zero.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ToFloat converts for JSON output.
func ToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
