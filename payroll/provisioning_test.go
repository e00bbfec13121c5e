package payroll_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/salary-engine/generic"
	"github.com/warp/salary-engine/payroll"
)

func TestProvisioner_Provide_DefaultsToSuggested(t *testing.T) {
	// GIVEN: Asha's April suggested salary is 24400
	s := seedGym(t)
	p := payroll.NewProvisioner(payroll.NewAggregator(s.Sources(), quietLogger()), s, quietLogger())

	// WHEN: Providing without a custom amount
	ps, err := p.Provide(context.Background(), payroll.ProvideRequest{
		Scope:      gym,
		EmployeeID: "emp-1",
		Period:     april2025(),
		Options:    payroll.DefaultOptions(),
		ProvidedBy: "manager",
	})

	// THEN: Final equals suggested
	require.NoError(t, err)
	assert.NotEmpty(t, ps.ID)
	assert.Equal(t, "2025-04", ps.PeriodKey)
	assert.Nil(t, ps.CustomSalary)
	assertMoney(t, "27400", ps.ActualSalary, "actual")
	assertMoney(t, "24400", ps.FinalSalary, "final")
	assert.Equal(t, "manager", ps.ProvidedBy)
}

func TestProvisioner_Provide_CustomAmountWins(t *testing.T) {
	s := seedGym(t)
	p := payroll.NewProvisioner(payroll.NewAggregator(s.Sources(), quietLogger()), s, quietLogger())
	custom := dec("25000")

	ps, err := p.Provide(context.Background(), payroll.ProvideRequest{
		Scope: gym, EmployeeID: "emp-1", Period: april2025(), Options: payroll.DefaultOptions(), CustomAmount: &custom,
	})

	require.NoError(t, err)
	require.NotNil(t, ps.CustomSalary)
	assertMoney(t, "25000", *ps.CustomSalary, "custom")
	assertMoney(t, "25000", ps.FinalSalary, "final")
	assertMoney(t, "24400", ps.SuggestedSalary, "suggested kept for audit")
}

func TestProvisioner_Provide_ZeroCustomAmountIsKept(t *testing.T) {
	s := seedGym(t)
	p := payroll.NewProvisioner(payroll.NewAggregator(s.Sources(), quietLogger()), s, quietLogger())
	zero := dec("0")

	ps, err := p.Provide(context.Background(), payroll.ProvideRequest{
		Scope: gym, EmployeeID: "emp-1", Period: april2025(), Options: payroll.DefaultOptions(), CustomAmount: &zero,
	})

	require.NoError(t, err)
	assertMoney(t, "0", ps.FinalSalary, "explicit zero is not replaced by suggested")
}

func TestProvisioner_Provide_OverwritesSamePeriod(t *testing.T) {
	// GIVEN: A first provision with a custom amount
	ctx := context.Background()
	s := seedGym(t)
	p := payroll.NewProvisioner(payroll.NewAggregator(s.Sources(), quietLogger()), s, quietLogger())
	custom := dec("30000")
	_, err := p.Provide(ctx, payroll.ProvideRequest{Scope: gym, EmployeeID: "emp-1", Period: april2025(), Options: payroll.DefaultOptions(), CustomAmount: &custom})
	require.NoError(t, err)

	// WHEN: Providing again without one
	_, err = p.Provide(ctx, payroll.ProvideRequest{Scope: gym, EmployeeID: "emp-1", Period: april2025(), Options: payroll.DefaultOptions()})
	require.NoError(t, err)

	// THEN: Exactly one record remains, holding the latest values
	provided, err := p.Provided(ctx, gym, april2025())
	require.NoError(t, err)
	require.Len(t, provided, 1)
	assert.Nil(t, provided["emp-1"].CustomSalary)
	assertMoney(t, "24400", provided["emp-1"].FinalSalary, "last write wins")
}

func TestProvisioner_Provide_RecomputesFromFreshData(t *testing.T) {
	// GIVEN: A board snapshot loaded before a new advance was recorded
	ctx := context.Background()
	s := seedGym(t)
	agg := payroll.NewAggregator(s.Sources(), quietLogger())
	before, err := agg.Load(ctx, payroll.LoadRequest{Scope: gym, Period: april2025()})
	require.NoError(t, err)

	_, err = s.AddAdvance(ctx, payroll.AdvanceEntry{Scope: gym, EmployeeID: "emp-1", Date: day(time.April, 20), Amount: dec("1000")})
	require.NoError(t, err)

	// WHEN: Providing
	ps, err := payroll.NewProvisioner(agg, s, quietLogger()).Provide(ctx, payroll.ProvideRequest{
		Scope: gym, EmployeeID: "emp-1", Period: april2025(), Options: payroll.DefaultOptions(),
	})
	require.NoError(t, err)

	// THEN: The stored figure reflects the new advance, not the stale snapshot
	stale, _ := before.Row("emp-1")
	assertMoney(t, "24400", stale.Result.SuggestedSalary, "stale snapshot")
	assertMoney(t, "23400", ps.FinalSalary, "fresh computation")
}

func TestProvisioner_Provide_PeriodsAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := seedGym(t)
	p := payroll.NewProvisioner(payroll.NewAggregator(s.Sources(), quietLogger()), s, quietLogger())
	firstHalf, err := generic.RangePeriod(day(time.April, 1), day(time.April, 15))
	require.NoError(t, err)

	_, err = p.Provide(ctx, payroll.ProvideRequest{Scope: gym, EmployeeID: "emp-1", Period: april2025(), Options: payroll.DefaultOptions()})
	require.NoError(t, err)
	ps, err := p.Provide(ctx, payroll.ProvideRequest{Scope: gym, EmployeeID: "emp-1", Period: firstHalf, Options: payroll.DefaultOptions()})
	require.NoError(t, err)

	assert.Equal(t, "2025-04-01..2025-04-15", ps.PeriodKey)
	month, err := p.Provided(ctx, gym, april2025())
	require.NoError(t, err)
	assert.Len(t, month, 1)
	rng, err := p.Provided(ctx, gym, firstHalf)
	require.NoError(t, err)
	assert.Len(t, rng, 1)
}

func TestProvisioner_Provide_Validation(t *testing.T) {
	s := seedGym(t)
	p := payroll.NewProvisioner(payroll.NewAggregator(s.Sources(), quietLogger()), s, quietLogger())
	negative := dec("-1")

	tests := []struct {
		name string
		req  payroll.ProvideRequest
		want error
	}{
		{
			name: "missing employee",
			req:  payroll.ProvideRequest{Scope: gym, Period: april2025()},
			want: generic.ErrInvalidInput,
		},
		{
			name: "negative custom amount",
			req:  payroll.ProvideRequest{Scope: gym, EmployeeID: "emp-1", Period: april2025(), CustomAmount: &negative},
			want: generic.ErrInvalidInput,
		},
		{
			name: "unknown employee",
			req:  payroll.ProvideRequest{Scope: gym, EmployeeID: "ghost", Period: april2025()},
			want: generic.ErrEmployeeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Provide(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	provided, err := p.Provided(context.Background(), gym, april2025())
	require.NoError(t, err)
	assert.Empty(t, provided, "failed requests store nothing")
}
