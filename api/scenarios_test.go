/*
scenarios_test.go - Tests for demo scenarios

PURPOSE:
	Loads each scenario into a SQLite store and checks the salary summary
	the API returns for it. These double as end-to-end tests of the
	aggregator over the SQL providers.
*/
package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/salary-engine/generic"
	"github.com/warp/salary-engine/store/sqlite"
)

func setupSQLiteHandler(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return newTestRouter(store)
}

func TestScenario_GymApril(t *testing.T) {
	// GIVEN: The gym-april scenario
	_, router := setupSQLiteHandler(t)
	rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "gym-april"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// WHEN: Reading the April summary
	rec = do(t, router, http.MethodGet, "/api/incentive-mappings?month=2025-04", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decodeAs[SummaryResponse](t, rec)

	// THEN: Each role is paid by its own formula over 29 working days
	assert.Equal(t, []string{"2025-04-14"}, summary.StoreLeaveDates)
	assert.Empty(t, summary.Degraded)
	require.Len(t, summary.Rows, 4)

	asha := rowOf(t, summary, "emp-asha")
	assert.Equal(t, 29, asha.WorkingDays)
	assert.Equal(t, 27.5, asha.PaidDays)
	assert.Equal(t, "proportional", asha.BaseMode)
	assert.Equal(t, 28448.0, asha.BasePortion, "30000 * 27.5 / 29 rounded")
	assert.Equal(t, 22000.0, asha.BillingTotal)
	assert.Equal(t, 2250.0, asha.ComputedIncentive)
	assert.True(t, asha.TargetHit)
	assert.Equal(t, 32698.0, asha.ActualSalary)
	assert.Equal(t, 5000.0, asha.AdvancesGiven)
	assert.Equal(t, 1000.0, asha.AdvancesReceived)
	assert.Equal(t, 28698.0, asha.SuggestedSalary)

	ravi := rowOf(t, summary, "emp-ravi")
	assert.Equal(t, "per_day_deduction", ravi.BaseMode)
	assert.Equal(t, 3.0, ravi.UnpaidDays)
	assert.Equal(t, 16200.0, ravi.BasePortion)
	assert.False(t, ravi.TargetHit, "a zero target never hits")
	assert.Equal(t, 16500.0, ravi.ActualSalary)
	assert.Equal(t, 16500.0, ravi.SuggestedSalary)

	meera := rowOf(t, summary, "emp-meera")
	assert.False(t, meera.TargetHit)
	assert.Equal(t, 20200.0, meera.ActualSalary)
	assert.Equal(t, 18200.0, meera.SuggestedSalary)

	kiran := rowOf(t, summary, "emp-kiran")
	assert.False(t, kiran.HasMapping)
	assert.Equal(t, 14, kiran.PresentDays)
	assert.Equal(t, 7241.0, kiran.ActualSalary, "15000 * 14 / 29 rounded")

	assert.Equal(t, 4, summary.Totals.Employees)
	assert.Equal(t, 76639.0, summary.Totals.ActualSalary)
	assert.Equal(t, 70639.0, summary.Totals.SuggestedSalary)
}

func TestScenario_NewHires(t *testing.T) {
	_, router := setupSQLiteHandler(t)
	rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "new-hires"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/incentive-mappings?month=2025-04", nil)
	summary := decodeAs[SummaryResponse](t, rec)

	neha := rowOf(t, summary, "emp-neha")
	assert.Equal(t, 16000.0, neha.ActualSalary)

	arjun := rowOf(t, summary, "emp-arjun")
	assert.Equal(t, 9.5, arjun.PaidDays)
	assert.Equal(t, 6650.0, arjun.ActualSalary, "21000 * 9.5 / 30")
	assert.Equal(t, 3650.0, arjun.SuggestedSalary)
}

func TestScenario_LoadResetsPreviousData(t *testing.T) {
	h, router := setupSQLiteHandler(t)
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "gym-april"}).Code)
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "new-hires"}).Code)

	employees, err := h.Store.ListEmployees(context.Background(), h.DefaultScope)
	require.NoError(t, err)
	assert.Len(t, employees, 2)

	rec := do(t, router, http.MethodGet, "/api/scenarios/current", nil)
	assert.Equal(t, "new-hires", decodeAs[ScenarioDTO](t, rec).ID)
}

func TestScenario_Unknown(t *testing.T) {
	_, router := setupSQLiteHandler(t)

	rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScenario_LoadsIntoRequestedScope(t *testing.T) {
	h, router := setupSQLiteHandler(t)

	rec := do(t, router, http.MethodPost, "/api/scenarios/load?account_code=acc-9&retail_code=branch-2", LoadScenarioRequest{ScenarioID: "new-hires"})
	require.Equal(t, http.StatusOK, rec.Code)

	other, err := h.Store.ListEmployees(context.Background(), generic.Scope{AccountCode: "acc-9", RetailCode: "branch-2"})
	require.NoError(t, err)
	assert.Len(t, other, 2)

	def, err := h.Store.ListEmployees(context.Background(), h.DefaultScope)
	require.NoError(t, err)
	assert.Empty(t, def)
}
