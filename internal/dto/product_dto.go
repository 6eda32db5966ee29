package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	ProductName string          `json:"product_name" validate:"required,min=1,max=120"`
	Unit        string          `json:"unit"         validate:"required,max=30"`
	Rate        decimal.Decimal `json:"rate"         validate:"required,gt=0"`
	GST         decimal.Decimal `json:"gst"          validate:"min=0,max=100"`
	PartyName   string          `json:"party_name"   validate:"required,max=120"`
	BillDate    *string         `json:"bill_date"`
	PageNo      *string         `json:"page_no"`
	Category    *string         `json:"category"`
}

// UpdateRateRequest supersedes the current quotation. The old current rate is
// pushed to the front of the history; this never merges or deduplicates.
type UpdateRateRequest struct {
	Rate      decimal.Decimal `json:"rate"       validate:"required,gt=0"`
	GST       decimal.Decimal `json:"gst"        validate:"min=0,max=100"`
	PartyName string          `json:"party_name" validate:"required,max=120"`
	BillDate  *string         `json:"bill_date"`
	PageNo    *string         `json:"page_no"`
	Category  *string         `json:"category"`
}

// AmendDetailsRequest patches metadata on the current quotation only.
// A field left out of the JSON body is untouched; an empty string clears it.
// Price fields and the quotation timestamp are never touched by this request.
type AmendDetailsRequest struct {
	BillDate *string `json:"bill_date"`
	PageNo   *string `json:"page_no"`
	Category *string `json:"category"`
}

// DeleteHistoryEntryRequest identifies one history entry, either by its
// synthetic entry id (preferred) or by exact quotation timestamp.
type DeleteHistoryEntryRequest struct {
	EntryID   *string    `json:"entry_id"   validate:"omitempty,uuid"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type SuggestCategoryRequest struct {
	ProductName string `json:"product_name" validate:"required,min=1,max=120"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Name     string `form:"name"`
	Party    string `form:"party"`
	Category string `form:"category"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RateResponse struct {
	EntryID   string          `json:"entry_id"`
	Rate      decimal.Decimal `json:"rate"`
	GST       decimal.Decimal `json:"gst"`
	FinalRate decimal.Decimal `json:"final_rate"`
	PartyName string          `json:"party_name"`
	BillDate  *string         `json:"bill_date,omitempty"`
	PageNo    *string         `json:"page_no,omitempty"`
	Category  *string         `json:"category,omitempty"`
	UpdatedAt string          `json:"updated_at"`
}

type ProductResponse struct {
	ID          string         `json:"id"`
	ProductName string         `json:"product_name"`
	Unit        string         `json:"unit"`
	CurrentRate RateResponse   `json:"current_rate"`
	RateHistory []RateResponse `json:"rate_history"`
	CreatedAt   string         `json:"created_at"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type HistoryListResponse struct {
	Data  []RateResponse `json:"data"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// RateCheckResponse is returned by the public rate check endpoint.
type RateCheckResponse struct {
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	FinalRate   decimal.Decimal `json:"final_rate"`
	PartyName   string          `json:"party_name"`
	Category    *string         `json:"category,omitempty"`
	UpdatedAt   string          `json:"updated_at"`
}

type SuggestCategoryResponse struct {
	Category string `json:"category"`
}
