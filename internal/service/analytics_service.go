package service

import (
	"context"
	"sort"

	"github.com/Gopal274/Ssdn/internal/dto"
	"github.com/Gopal274/Ssdn/internal/repository"

	"github.com/shopspring/decimal"
)

// gstSlabs are the standard GST brackets the dashboard reports on.
var gstSlabs = []int64{0, 5, 12, 18, 28}

const topPartyLimit = 10

// AnalyticsService computes read-side projections over the materialized
// product list. No invariants of its own; nothing here mutates the ledger.
type AnalyticsService interface {
	Overview(ctx context.Context) (*dto.AnalyticsResponse, error)
}

type analyticsService struct {
	repo repository.ProductRepository
}

func NewAnalyticsService(repo repository.ProductRepository) AnalyticsService {
	return &analyticsService{repo: repo}
}

func (s *analyticsService) Overview(ctx context.Context) (*dto.AnalyticsResponse, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	slabCounts := make(map[int64]int, len(gstSlabs))
	partyCounts := make(map[string]int)
	sum := decimal.Zero

	for i := range products {
		current := products[i].CurrentRate
		for _, slab := range gstSlabs {
			if current.GST.Equal(decimal.NewFromInt(slab)) {
				slabCounts[slab]++
				break
			}
		}
		if current.PartyName != "" {
			partyCounts[current.PartyName]++
		}
		sum = sum.Add(current.FinalRate)
	}

	slabs := make([]dto.GSTSlabCount, 0, len(gstSlabs))
	for _, slab := range gstSlabs {
		slabs = append(slabs, dto.GSTSlabCount{
			Slab:  decimal.NewFromInt(slab).String() + "%",
			Count: slabCounts[slab],
		})
	}

	parties := make([]dto.PartyCount, 0, len(partyCounts))
	for name, count := range partyCounts {
		parties = append(parties, dto.PartyCount{PartyName: name, Count: count})
	}
	// Biggest suppliers first; ties broken by name so the order is stable.
	sort.Slice(parties, func(i, j int) bool {
		if parties[i].Count != parties[j].Count {
			return parties[i].Count > parties[j].Count
		}
		return parties[i].PartyName < parties[j].PartyName
	})
	if len(parties) > topPartyLimit {
		parties = parties[:topPartyLimit]
	}

	avg := decimal.Zero
	if len(products) > 0 {
		avg = sum.Div(decimal.NewFromInt(int64(len(products)))).Round(2)
	}

	return &dto.AnalyticsResponse{
		TotalProducts:    len(products),
		TrackedSuppliers: len(partyCounts),
		AvgFinalRate:     avg,
		GSTSlabs:         slabs,
		TopParties:       parties,
	}, nil
}
