package payroll

import "github.com/warp/salary-engine/generic"

// AttendanceDetail is the day-by-day drill-down of one employee's month.
// For rendering, an unmarked day that is not a store leave is listed as
// absent; the salary figures still only count marked days.
type AttendanceDetail struct {
	EmployeeID generic.EmployeeID
	Month      generic.MonthKey
	Present    []generic.TimePoint
	Half       []generic.TimePoint
	Absent     []generic.TimePoint
	Unmarked   []generic.TimePoint
	StoreLeave []generic.TimePoint
	Result     SalaryResult
}

// CountDays folds marked days into counts, ignoring days outside the window.
// A later mark for the same date replaces an earlier one.
func CountDays(days []AttendanceDay, window generic.Window) AttendanceCounts {
	latest := make(map[string]AttendanceStatus)
	for _, d := range days {
		if window.Contains(d.Date) && d.Status.Valid() {
			latest[d.Date.String()] = d.Status
		}
	}
	var c AttendanceCounts
	for _, s := range latest {
		switch s {
		case StatusPresent:
			c.PresentDays++
		case StatusHalf:
			c.HalfDays++
		case StatusAbsent:
			c.AbsentDays++
		}
	}
	return c
}

// BuildAttendanceDetail lays out the month and attaches the row's result,
// which comes from the same ComputeSalary call the summary table uses.
func BuildAttendanceDetail(month generic.MonthKey, days []AttendanceDay, storeLeaves generic.DateSet, row Row) AttendanceDetail {
	marks := make(map[string]AttendanceStatus)
	for _, d := range days {
		if d.Status.Valid() {
			marks[d.Date.String()] = d.Status
		}
	}
	if storeLeaves == nil {
		storeLeaves = generic.NewDateSet()
	}

	detail := AttendanceDetail{
		EmployeeID: row.Employee.ID,
		Month:      month,
		Result:     row.Result,
	}
	for _, day := range month.Window().Days() {
		status, marked := marks[day.String()]
		switch {
		case marked && status == StatusPresent:
			detail.Present = append(detail.Present, day)
		case marked && status == StatusHalf:
			detail.Half = append(detail.Half, day)
		case marked && status == StatusAbsent:
			detail.Absent = append(detail.Absent, day)
		case storeLeaves.Has(day):
			// closed for everyone; neither worked nor absent
		default:
			detail.Unmarked = append(detail.Unmarked, day)
			detail.Absent = append(detail.Absent, day)
		}
	}
	detail.StoreLeave = storeLeaves.Sorted()
	return detail
}
