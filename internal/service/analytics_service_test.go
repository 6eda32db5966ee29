package service_test

import (
	"context"
	"testing"

	"github.com/Gopal274/Ssdn/internal/dto"
	"github.com/Gopal274/Ssdn/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAnalyticsSvc() (service.AnalyticsService, service.LedgerService) {
	repo := newStubProductRepo()
	ledger := service.NewLedgerService(repo, nil, nil)
	return service.NewAnalyticsService(repo), ledger
}

func seedProduct(t *testing.T, ledger service.LedgerService, name, party string, rate, gst int64) {
	t.Helper()
	req := dto.CreateProductRequest{
		ProductName: name,
		Unit:        "kg",
		Rate:        decimal.NewFromInt(rate),
		GST:         decimal.NewFromInt(gst),
		PartyName:   party,
	}
	_, err := ledger.Create(context.Background(), req)
	require.NoError(t, err)
}

func TestAnalyticsOverview_Empty(t *testing.T) {
	svc, _ := buildAnalyticsSvc()

	resp, err := svc.Overview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, resp.TotalProducts)
	assert.Equal(t, 0, resp.TrackedSuppliers)
	assert.True(t, resp.AvgFinalRate.IsZero())
	// Every slab is reported even when empty, so the dashboard axes are stable.
	require.Len(t, resp.GSTSlabs, 5)
	for _, slab := range resp.GSTSlabs {
		assert.Zero(t, slab.Count)
	}
}

func TestAnalyticsOverview_SlabDistribution(t *testing.T) {
	svc, ledger := buildAnalyticsSvc()
	seedProduct(t, ledger, "Cement OPC 53", "Sharma Traders", 100, 18)
	seedProduct(t, ledger, "Steel TMT 12mm", "Sharma Traders", 200, 18)
	seedProduct(t, ledger, "River Sand", "Verma Suppliers", 50, 5)

	resp, err := svc.Overview(context.Background())

	require.NoError(t, err)
	counts := map[string]int{}
	for _, slab := range resp.GSTSlabs {
		counts[slab.Slab] = slab.Count
	}
	assert.Equal(t, 2, counts["18%"])
	assert.Equal(t, 1, counts["5%"])
	assert.Equal(t, 0, counts["28%"])
}

func TestAnalyticsOverview_TopParties(t *testing.T) {
	svc, ledger := buildAnalyticsSvc()
	seedProduct(t, ledger, "Cement OPC 53", "Sharma Traders", 100, 18)
	seedProduct(t, ledger, "Steel TMT 12mm", "Sharma Traders", 200, 18)
	seedProduct(t, ledger, "River Sand", "Verma Suppliers", 50, 5)

	resp, err := svc.Overview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, resp.TrackedSuppliers)
	require.NotEmpty(t, resp.TopParties)
	assert.Equal(t, "Sharma Traders", resp.TopParties[0].PartyName)
	assert.Equal(t, 2, resp.TopParties[0].Count)
}

func TestAnalyticsOverview_AvgFinalRate(t *testing.T) {
	svc, ledger := buildAnalyticsSvc()
	// Final rates: 118.00 and 236.00; average 177.00.
	seedProduct(t, ledger, "Cement OPC 53", "Sharma Traders", 100, 18)
	seedProduct(t, ledger, "Steel TMT 12mm", "Sharma Traders", 200, 18)

	resp, err := svc.Overview(context.Background())

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(177).Equal(resp.AvgFinalRate),
		"expected 177, got %s", resp.AvgFinalRate)
}
