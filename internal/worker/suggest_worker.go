package worker

// Auto-categorization worker. Products created without a category get one
// suggested by the sidecar after the fact; the ledger write path never waits
// on the oracle.

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxSuggestAttempts = 3

// SuggestJobPayload is the job envelope for QueueSuggest.
type SuggestJobPayload struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Attempts    int    `json:"attempts"`
}

// CategorySuggester asks the oracle for a category.
type CategorySuggester interface {
	Suggest(ctx context.Context, productName string) (string, error)
}

// CategoryAmender fills in an empty category on a product's current rate.
type CategoryAmender interface {
	AmendCategory(ctx context.Context, id uuid.UUID, category string) error
}

// SuggestWorker processes auto-categorization jobs. Failures re-enqueue with
// an attempt counter; exhausted jobs go to the DLQ. Everything here is
// best-effort — a product without a category is valid forever.
type SuggestWorker struct {
	suggester  CategorySuggester
	amender    CategoryAmender
	dispatcher *Dispatcher
	rdb        *redis.Client
}

func NewSuggestWorker(suggester CategorySuggester, amender CategoryAmender, dispatcher *Dispatcher, rdb *redis.Client) *SuggestWorker {
	return &SuggestWorker{suggester: suggester, amender: amender, dispatcher: dispatcher, rdb: rdb}
}

// Process handles one job: ask the oracle, then fill the category in.
func (w *SuggestWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload SuggestJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("suggest_worker: invalid payload")
		return
	}
	productID, err := uuid.Parse(payload.ProductID)
	if err != nil {
		log.Error().Str("product_id", payload.ProductID).Msg("suggest_worker: invalid product id")
		return
	}

	category, err := w.suggester.Suggest(ctx, payload.ProductName)
	if err != nil {
		w.retry(ctx, payload, raw, err)
		return
	}

	if err := w.amender.AmendCategory(ctx, productID, category); err != nil {
		w.retry(ctx, payload, raw, err)
		return
	}
	log.Info().
		Str("product_id", payload.ProductID).
		Str("category", category).
		Msg("suggest_worker: category filled in")
}

func (w *SuggestWorker) retry(ctx context.Context, payload SuggestJobPayload, raw json.RawMessage, cause error) {
	payload.Attempts++
	if payload.Attempts >= maxSuggestAttempts {
		if w.rdb != nil {
			SendToDLQ(ctx, w.rdb, QueueSuggest, "suggest-category", raw, cause.Error(), payload.Attempts)
		}
		return
	}
	if w.dispatcher == nil {
		return
	}
	if err := w.dispatcher.EnqueueSuggestion(ctx, payload); err != nil {
		log.Error().Err(err).Str("product_id", payload.ProductID).Msg("suggest_worker: re-enqueue failed")
		return
	}
	log.Warn().
		Err(cause).
		Str("product_id", payload.ProductID).
		Int("attempt", payload.Attempts).
		Msg("suggest_worker: suggestion failed, re-enqueued")
}
