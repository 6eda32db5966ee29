package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RateHistory is the ordered trail of superseded quotations, most recent
// first. All mutations go through the methods below — insertion is always at
// the front and removal is by predicate — so the newest-first invariant is a
// structural guarantee rather than a convention callers must remember.
type RateHistory []Rate

// PushFront prepends a retired quotation. Called only at supersession.
func (h *RateHistory) PushFront(r Rate) {
	*h = append(RateHistory{r}, *h...)
}

// PopFront removes and returns the most recent entry. The second return is
// false when the history is empty.
func (h *RateHistory) PopFront() (Rate, bool) {
	if len(*h) == 0 {
		return Rate{}, false
	}
	head := (*h)[0]
	*h = (*h)[1:]
	return head, true
}

// RemoveByEntryID removes the entry carrying the given synthetic id.
// Returns false when no entry matches.
func (h *RateHistory) RemoveByEntryID(id uuid.UUID) bool {
	for i, r := range *h {
		if r.EntryID == id {
			*h = append((*h)[:i], (*h)[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveByUpdatedAt removes the first (most recent) entry whose timestamp
// equals ts exactly. At most one entry is removed even if several share the
// timestamp; callers that need unambiguous deletion use RemoveByEntryID.
func (h *RateHistory) RemoveByUpdatedAt(ts time.Time) bool {
	for i, r := range *h {
		if r.UpdatedAt.Equal(ts) {
			*h = append((*h)[:i], (*h)[i+1:]...)
			return true
		}
	}
	return false
}

// Value serializes the history into its jsonb column.
func (h RateHistory) Value() (driver.Value, error) {
	if h == nil {
		return json.Marshal(RateHistory{})
	}
	return json.Marshal(h)
}

// Scan deserializes the history from its jsonb column.
func (h *RateHistory) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	case nil:
		*h = RateHistory{}
		return nil
	default:
		return fmt.Errorf("rate history: cannot scan %T", src)
	}
}
