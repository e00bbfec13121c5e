package factory

// =============================================================================
// MAPPING PRESETS
// =============================================================================
// Typical gym roles. Each returns the JSON shape so it goes through the same
// validation as a client request.

// TrainerMapping is a personal trainer: proportional pro-ration, a billing
// target with a bonus, and a fixed commission per PT session.
func TrainerMapping(employeeID string, base, target, bonus, perSession float64) MappingJSON {
	return MappingJSON{
		EmployeeID:     employeeID,
		PayCycle:       "monthly",
		BaseSalary:     base,
		Target:         target,
		IncentiveBonus: bonus,
		Commissions: []CommissionJSON{
			{ServiceID: "pt-session", FixedValue: perSession},
			{ServiceID: "diet-plan", FixedValue: perSession / 2},
		},
	}
}

// FrontDeskMapping is salaried staff with a flat deduction per unpaid day
// and a small commission on memberships sold.
func FrontDeskMapping(employeeID string, base, deductionPerDay float64) MappingJSON {
	return MappingJSON{
		EmployeeID:           employeeID,
		PayCycle:             "monthly",
		BaseSalary:           base,
		LeaveDeductionPerDay: deductionPerDay,
		Commissions: []CommissionJSON{
			{ServiceID: "membership", FixedValue: 100},
		},
	}
}

// RetailMapping is a supplement counter role: target-driven with commission
// on supplement sales.
func RetailMapping(employeeID string, base, target, bonus float64) MappingJSON {
	return MappingJSON{
		EmployeeID:     employeeID,
		PayCycle:       "monthly",
		BaseSalary:     base,
		Target:         target,
		IncentiveBonus: bonus,
		Commissions: []CommissionJSON{
			{ServiceID: "supplement", FixedValue: 40},
		},
	}
}
