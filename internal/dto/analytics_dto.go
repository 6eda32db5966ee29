package dto

import "github.com/shopspring/decimal"

// GSTSlabCount is how many products currently sit in one GST slab.
type GSTSlabCount struct {
	Slab  string `json:"slab"`
	Count int    `json:"count"`
}

// PartyCount is how many products a supplier currently quotes.
type PartyCount struct {
	PartyName string `json:"party_name"`
	Count     int    `json:"count"`
}

// AnalyticsResponse is a pure read-side projection over the product list.
// It carries no invariants of its own.
type AnalyticsResponse struct {
	TotalProducts    int             `json:"total_products"`
	TrackedSuppliers int             `json:"tracked_suppliers"`
	AvgFinalRate     decimal.Decimal `json:"avg_final_rate"`
	GSTSlabs         []GSTSlabCount  `json:"gst_slabs"`
	TopParties       []PartyCount    `json:"top_parties"`
}
