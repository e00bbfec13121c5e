package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/salary-engine/generic"
)

// ProvideRequest asks for a final salary to be recorded.
type ProvideRequest struct {
	Scope        generic.Scope
	EmployeeID   generic.EmployeeID
	Period       generic.PayPeriod
	Cycle        PayCycle
	Options      Options
	CustomAmount *decimal.Decimal
	ProvidedBy   string
}

// Provisioner records final salaries. It always recomputes from fresh
// provider data at submit time.
type Provisioner struct {
	agg    *Aggregator
	store  ProvisionStore
	logger *slog.Logger
	now    func() time.Time
}

func NewProvisioner(agg *Aggregator, store ProvisionStore, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provisioner{agg: agg, store: store, logger: logger, now: time.Now}
}

// Provide computes the employee's salary for the period and persists
// final = custom ?? suggested. A second call for the same employee and
// period overwrites the first (last write wins).
func (p *Provisioner) Provide(ctx context.Context, req ProvideRequest) (ProvisionedSalary, error) {
	if req.EmployeeID == "" {
		return ProvisionedSalary{}, &generic.ValidationError{Fields: map[string]string{"employee_id": "required"}}
	}
	if req.CustomAmount != nil && req.CustomAmount.IsNegative() {
		return ProvisionedSalary{}, &generic.ValidationError{Fields: map[string]string{"custom_amount": "must be >= 0"}}
	}

	noProRate := map[generic.EmployeeID]bool{req.EmployeeID: !req.Options.ProRate}
	snap, err := p.agg.Load(ctx, LoadRequest{
		Scope:      req.Scope,
		Period:     req.Period,
		Cycle:      req.Cycle,
		EmployeeID: req.EmployeeID,
		NoProRate:  noProRate,
	})
	if err != nil {
		return ProvisionedSalary{}, fmt.Errorf("load salary inputs: %w", err)
	}
	row, ok := snap.Row(req.EmployeeID)
	if !ok {
		return ProvisionedSalary{}, fmt.Errorf("%w: %s", generic.ErrEmployeeNotFound, req.EmployeeID)
	}

	ps := ProvisionedSalary{
		ID:              uuid.NewString(),
		Scope:           req.Scope,
		EmployeeID:      req.EmployeeID,
		PeriodKey:       req.Period.Key(),
		ActualSalary:    row.Result.ActualSalary,
		SuggestedSalary: row.Result.SuggestedSalary,
		FinalSalary:     row.Result.SuggestedSalary,
		ProvidedBy:      req.ProvidedBy,
		ProvidedAt:      p.now().UTC(),
	}
	if req.CustomAmount != nil {
		custom := *req.CustomAmount
		ps.CustomSalary = &custom
		ps.FinalSalary = custom
	}

	if err := p.store.SaveProvisionedSalary(ctx, ps); err != nil {
		return ProvisionedSalary{}, fmt.Errorf("save provisioned salary: %w", err)
	}

	p.logger.InfoContext(ctx, "salary provided",
		slog.String("scope", req.Scope.String()),
		slog.String("employee_id", string(req.EmployeeID)),
		slog.String("period", ps.PeriodKey),
		slog.String("final_salary", ps.FinalSalary.String()),
		slog.Bool("custom", ps.CustomSalary != nil),
		slog.Any("degraded", snap.Degraded),
	)
	return ps, nil
}

// Provided returns employee id -> final salary for a period.
func (p *Provisioner) Provided(ctx context.Context, scope generic.Scope, period generic.PayPeriod) (map[generic.EmployeeID]ProvisionedSalary, error) {
	list, err := p.store.ListProvisionedSalaries(ctx, scope, period.Key())
	if err != nil {
		return nil, fmt.Errorf("list provisioned salaries: %w", err)
	}
	out := make(map[generic.EmployeeID]ProvisionedSalary, len(list))
	for _, ps := range list {
		out[ps.EmployeeID] = ps
	}
	return out, nil
}
