package payroll

import "github.com/warp/salary-engine/generic"

// WorkingDays is the pro-ration denominator and how it was derived.
type WorkingDays struct {
	CalendarDays   int
	StoreLeaveDays int
	// Raw is calendar days minus store leaves, floored at 1 for a month
	// and at 0 for an explicit range.
	Raw int
	// Denominator is Raw floored at 1; it is the only value ever divided by.
	Denominator int
}

// ResolveWorkingDays computes the denominator for the active period
// representation. Store leaves outside the period are ignored.
func ResolveWorkingDays(period generic.PayPeriod, storeLeaves generic.DateSet) WorkingDays {
	window := period.Window()
	wd := WorkingDays{
		CalendarDays:   window.Len(),
		StoreLeaveDays: storeLeaves.CountWithin(window),
	}

	wd.Raw = wd.CalendarDays - wd.StoreLeaveDays
	if period.IsRange() {
		if wd.Raw < 0 {
			wd.Raw = 0
		}
	} else if wd.Raw < 1 {
		wd.Raw = 1
	}

	wd.Denominator = wd.Raw
	if wd.Denominator < 1 {
		wd.Denominator = 1
	}
	return wd
}
