package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rate is a single price quotation for a product. It is a value object:
// it only ever exists embedded in a Product, either as the current rate or
// inside the rate history. EntryID is assigned once, when the quotation is
// created, and travels with it into history — history entries are therefore
// addressable even when two supersessions share a timestamp.
type Rate struct {
	EntryID   uuid.UUID       `json:"entry_id"`
	Rate      decimal.Decimal `json:"rate"`
	GST       decimal.Decimal `json:"gst"`
	FinalRate decimal.Decimal `json:"final_rate"`
	PartyName string          `json:"party_name"`
	BillDate  *time.Time      `json:"bill_date,omitempty"`
	PageNo    *string         `json:"page_no,omitempty"`
	Category  *string         `json:"category,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewRate builds a quotation with the tax-inclusive final rate derived and
// frozen at construction time. FinalRate is stored, never recomputed on read.
func NewRate(rate, gst decimal.Decimal, partyName string, now time.Time) Rate {
	return Rate{
		EntryID:   uuid.New(),
		Rate:      rate,
		GST:       gst,
		FinalRate: ComputeFinalRate(rate, gst),
		PartyName: partyName,
		UpdatedAt: now,
	}
}

// ComputeFinalRate returns rate + rate*gst/100 rounded to 2 decimal places.
func ComputeFinalRate(rate, gst decimal.Decimal) decimal.Decimal {
	return rate.Add(rate.Mul(gst).Div(decimal.NewFromInt(100))).Round(2)
}

// IsZero reports whether the quotation is the uninitialized zero value.
// An existing product must never have a zero current rate.
func (r Rate) IsZero() bool {
	return r.EntryID == uuid.Nil && r.UpdatedAt.IsZero()
}

// Value serializes the quotation into its jsonb column.
func (r Rate) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan deserializes the quotation from its jsonb column.
func (r *Rate) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	case nil:
		*r = Rate{}
		return nil
	default:
		return fmt.Errorf("rate: cannot scan %T", src)
	}
}
