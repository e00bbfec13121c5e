package payroll_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/salary-engine/generic"
	"github.com/warp/salary-engine/payroll"
)

func TestBoard_StaleLoadIsDiscarded(t *testing.T) {
	// GIVEN: March is selected, then April is selected before March returns
	b := payroll.NewBoard()
	march := generic.MonthPeriod(generic.MonthKey{Year: 2025, Month: time.March})

	marchTicket := b.Select(payroll.LoadRequest{Scope: gym, Period: march})
	aprilTicket := b.Select(payroll.LoadRequest{Scope: gym, Period: april2025()})

	// WHEN: The March load completes late
	applied := b.Apply(marchTicket, payroll.Snapshot{Period: march})

	// THEN: It is dropped and the board still waits for April
	assert.False(t, applied)
	req, snap, selected := b.Current()
	assert.True(t, selected)
	assert.Nil(t, snap)
	assert.True(t, req.Period.Equal(april2025()))

	assert.True(t, b.Apply(aprilTicket, payroll.Snapshot{Period: april2025()}))
	_, snap, _ = b.Current()
	require.NotNil(t, snap)
	assert.True(t, snap.Period.Equal(april2025()))
}

func TestBoard_ReselectingSamePeriodInvalidatesOlderTicket(t *testing.T) {
	b := payroll.NewBoard()
	first := b.Select(payroll.LoadRequest{Scope: gym, Period: april2025()})
	second := b.Select(payroll.LoadRequest{Scope: gym, Period: april2025()})

	assert.False(t, b.Apply(first, payroll.Snapshot{}))
	assert.True(t, b.Apply(second, payroll.Snapshot{}))
}

func TestBoard_CurrentBeforeSelect(t *testing.T) {
	_, snap, selected := payroll.NewBoard().Current()
	assert.False(t, selected)
	assert.Nil(t, snap)
}

func TestBoard_Refresh(t *testing.T) {
	s := seedGym(t)
	agg := payroll.NewAggregator(s.Sources(), quietLogger())
	b := payroll.NewBoard()

	snap, applied, err := b.Refresh(context.Background(), agg, payroll.LoadRequest{Scope: gym, Period: april2025()})

	require.NoError(t, err)
	assert.True(t, applied)
	assert.Len(t, snap.Rows, 2)
	_, current, _ := b.Current()
	require.NotNil(t, current)
	assert.Len(t, current.Rows, 2)
}

func TestBoards_OneBoardPerScope(t *testing.T) {
	bs := payroll.NewBoards()
	other := generic.Scope{AccountCode: "acc-1", RetailCode: "ret-2"}

	assert.Same(t, bs.For(gym), bs.For(gym))
	assert.NotSame(t, bs.For(gym), bs.For(other))
}
