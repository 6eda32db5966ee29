package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeFinalRate(t *testing.T) {
	cases := []struct {
		name string
		rate string
		gst  string
		want string
	}{
		{"standard slab", "100", "18", "118"},
		{"zero gst", "50.5", "0", "50.5"},
		{"rounds half up", "99.99", "18", "117.99"},
		{"fractional rate", "33.33", "12", "37.33"},
		{"high slab", "1000", "28", "1280"},
		{"fractional gst", "100", "2.5", "102.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeFinalRate(d(tc.rate), d(tc.gst))
			assert.True(t, d(tc.want).Equal(got), "want %s, got %s", tc.want, got)
		})
	}
}

func TestNewRate(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	r := NewRate(d("100"), d("18"), "Sharma Traders", now)

	assert.NotEqual(t, uuid.Nil, r.EntryID)
	assert.True(t, d("118").Equal(r.FinalRate))
	assert.Equal(t, "Sharma Traders", r.PartyName)
	assert.Equal(t, now, r.UpdatedAt)
	assert.False(t, r.IsZero())
}

func TestNewRate_DistinctEntryIDs(t *testing.T) {
	now := time.Now().UTC()
	a := NewRate(d("100"), d("18"), "X", now)
	b := NewRate(d("100"), d("18"), "X", now)

	// Identical values, same instant: the ids still distinguish them.
	assert.NotEqual(t, a.EntryID, b.EntryID)
}

func TestRateIsZero(t *testing.T) {
	var r Rate
	assert.True(t, r.IsZero())
}

func TestRateScanRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	orig := NewRate(d("100"), d("18"), "Sharma Traders", now)
	page := "B-14"
	orig.PageNo = &page

	val, err := orig.Value()
	require.NoError(t, err)

	var got Rate
	require.NoError(t, got.Scan(val))

	assert.Equal(t, orig.EntryID, got.EntryID)
	assert.True(t, orig.FinalRate.Equal(got.FinalRate))
	require.NotNil(t, got.PageNo)
	assert.Equal(t, "B-14", *got.PageNo)
	assert.True(t, orig.UpdatedAt.Equal(got.UpdatedAt))
}

func TestRateScanNil(t *testing.T) {
	r := NewRate(d("100"), d("18"), "X", time.Now())
	require.NoError(t, r.Scan(nil))
	assert.True(t, r.IsZero())
}
