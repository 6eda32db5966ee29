package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Gopal274/Ssdn/internal/dto"
	"github.com/Gopal274/Ssdn/internal/model"
	"github.com/Gopal274/Ssdn/internal/repository"
	"github.com/Gopal274/Ssdn/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// billDateFormat is the wire format for bill dates. RFC3339 is accepted too.
const billDateFormat = "2006-01-02"

// RateCacheKey is the redis key under which the public rate check caches a
// product's current quotation. The ledger deletes it on every mutation.
func RateCacheKey(productName string) string {
	return "rate:" + productName
}

// LedgerService is the rate ledger engine: it owns the product/rate model and
// the state transitions that mutate a product's price record over time. Every
// mutation is one load, one in-memory transformation, one versioned save —
// the versioned save is what makes concurrent operations on the same product
// serialize instead of interleaving.
type LedgerService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	SupersedeRate(ctx context.Context, id uuid.UUID, req dto.UpdateRateRequest) (*dto.ProductResponse, error)
	AmendDetails(ctx context.Context, id uuid.UUID, req dto.AmendDetailsRequest) (*dto.ProductResponse, error)
	DeleteHistoryEntry(ctx context.Context, id uuid.UUID, req dto.DeleteHistoryEntryRequest) (*dto.ProductResponse, error)
	RestoreFromHistory(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// AmendCategory fills in the current rate's category when it is still
	// empty. Called by the async auto-categorization worker; a manually set
	// category is never overwritten.
	AmendCategory(ctx context.Context, id uuid.UUID, category string) error
}

type ledgerService struct {
	repo       repository.ProductRepository
	rdb        *redis.Client
	dispatcher *worker.Dispatcher
}

// NewLedgerService wires the engine to its storage collaborator. rdb and
// dispatcher may be nil (unit tests); both are strictly best-effort.
func NewLedgerService(repo repository.ProductRepository, rdb *redis.Client, dispatcher *worker.Dispatcher) LedgerService {
	return &ledgerService{repo: repo, rdb: rdb, dispatcher: dispatcher}
}

// ── Create ───────────────────────────────────────────────────────────────────

func (s *ledgerService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	fields := map[string]string{}
	name := strings.TrimSpace(req.ProductName)
	unit := strings.TrimSpace(req.Unit)
	party := strings.TrimSpace(req.PartyName)
	if name == "" {
		fields["product_name"] = "required"
	}
	if unit == "" {
		fields["unit"] = "required"
	}
	validateAmounts(fields, req.Rate, req.GST)
	if party == "" {
		fields["party_name"] = "required"
	}
	billDate, ok := parseBillDate(req.BillDate)
	if !ok {
		fields["bill_date"] = "must be YYYY-MM-DD or RFC3339"
	}
	if len(fields) > 0 {
		return nil, newValidationError(fields)
	}

	// Explicit uniqueness precondition. The unique index on product_name is
	// the second line of defense: it closes the window between this check
	// and the insert.
	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, ErrDuplicateName
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	current := model.NewRate(req.Rate, req.GST, party, time.Now().UTC())
	current.BillDate = billDate
	current.PageNo = normalize(req.PageNo)
	current.Category = normalize(req.Category)

	product := &model.Product{
		ID:          uuid.New(),
		ProductName: name,
		Unit:        unit,
		CurrentRate: current,
		RateHistory: model.RateHistory{},
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}

	// Products created without a category get one suggested asynchronously.
	// Enqueue failure is logged and ignored — the product is already saved.
	if current.Category == nil && s.dispatcher != nil {
		payload := worker.SuggestJobPayload{ProductID: product.ID.String(), ProductName: product.ProductName}
		if err := s.dispatcher.EnqueueSuggestion(ctx, payload); err != nil {
			log.Warn().Err(err).Str("product_id", product.ID.String()).Msg("failed to enqueue category suggestion")
		}
	}

	return productToDTO(product), nil
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *ledgerService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return productToDTO(product), nil
}

func (s *ledgerService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToDTO(&products[i]))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.ProductListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// ── SupersedeRate ────────────────────────────────────────────────────────────
// The only operation that grows the history. Unconditional: every
// supersession is recorded, no dedup, no merge.

func (s *ledgerService) SupersedeRate(ctx context.Context, id uuid.UUID, req dto.UpdateRateRequest) (*dto.ProductResponse, error) {
	fields := map[string]string{}
	party := strings.TrimSpace(req.PartyName)
	validateAmounts(fields, req.Rate, req.GST)
	if party == "" {
		fields["party_name"] = "required"
	}
	billDate, ok := parseBillDate(req.BillDate)
	if !ok {
		fields["bill_date"] = "must be YYYY-MM-DD or RFC3339"
	}
	if len(fields) > 0 {
		return nil, newValidationError(fields)
	}

	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.CurrentRate.IsZero() {
		return nil, ErrInvalidState
	}

	product.RateHistory.PushFront(product.CurrentRate)

	next := model.NewRate(req.Rate, req.GST, party, time.Now().UTC())
	next.BillDate = billDate
	next.PageNo = normalize(req.PageNo)
	next.Category = normalize(req.Category)
	product.CurrentRate = next

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateRateCache(ctx, product.ProductName)
	return productToDTO(product), nil
}

// ── AmendDetails ─────────────────────────────────────────────────────────────
// Metadata-only amendment of the current rate. Price fields, party, and the
// quotation timestamp stay untouched; history is never consulted.

func (s *ledgerService) AmendDetails(ctx context.Context, id uuid.UUID, req dto.AmendDetailsRequest) (*dto.ProductResponse, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.CurrentRate.IsZero() {
		return nil, ErrInvalidState
	}

	changed := false
	if req.BillDate != nil {
		billDate, ok := parseBillDate(req.BillDate)
		if !ok {
			return nil, newValidationError(map[string]string{"bill_date": "must be YYYY-MM-DD or RFC3339"})
		}
		product.CurrentRate.BillDate = billDate
		changed = true
	}
	if req.PageNo != nil {
		product.CurrentRate.PageNo = normalize(req.PageNo)
		changed = true
	}
	if req.Category != nil {
		product.CurrentRate.Category = normalize(req.Category)
		changed = true
	}

	// A request with no recognized field is a successful no-op.
	if changed {
		if err := s.save(ctx, product); err != nil {
			return nil, err
		}
		s.invalidateRateCache(ctx, product.ProductName)
	}
	return productToDTO(product), nil
}

// ── DeleteHistoryEntry ───────────────────────────────────────────────────────

func (s *ledgerService) DeleteHistoryEntry(ctx context.Context, id uuid.UUID, req dto.DeleteHistoryEntryRequest) (*dto.ProductResponse, error) {
	if req.EntryID == nil && req.UpdatedAt == nil {
		return nil, newValidationError(map[string]string{"entry_id": "entry_id or updated_at is required"})
	}

	var entryID uuid.UUID
	if req.EntryID != nil {
		var err error
		entryID, err = uuid.Parse(*req.EntryID)
		if err != nil {
			return nil, newValidationError(map[string]string{"entry_id": "must be a uuid"})
		}
	}

	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// Removing zero entries is an error, not a silent success.
	var removed bool
	if req.EntryID != nil {
		removed = product.RateHistory.RemoveByEntryID(entryID)
	} else {
		removed = product.RateHistory.RemoveByUpdatedAt(*req.UpdatedAt)
	}
	if !removed {
		return nil, ErrEntryNotFound
	}

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}
	return productToDTO(product), nil
}

// ── RestoreFromHistory ───────────────────────────────────────────────────────
// Discards the current rate and promotes the most recent history entry —
// "undo last supersession". The restored entry keeps its original timestamp.

func (s *ledgerService) RestoreFromHistory(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// Restoring with an empty history would destroy the last known rate.
	head, ok := product.RateHistory.PopFront()
	if !ok {
		return nil, ErrNoHistory
	}
	product.CurrentRate = head

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateRateCache(ctx, product.ProductName)
	return productToDTO(product), nil
}

// ── Delete ───────────────────────────────────────────────────────────────────

func (s *ledgerService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateRateCache(ctx, product.ProductName)
	return nil
}

// ── AmendCategory ────────────────────────────────────────────────────────────

func (s *ledgerService) AmendCategory(ctx context.Context, id uuid.UUID, category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil
	}

	product, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if product.CurrentRate.IsZero() {
		return ErrInvalidState
	}
	// Only fill a blank — a category someone set deliberately wins over the
	// oracle's guess.
	if product.CurrentRate.Category != nil {
		return nil
	}

	product.CurrentRate.Category = &category
	if err := s.save(ctx, product); err != nil {
		return err
	}
	s.invalidateRateCache(ctx, product.ProductName)
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *ledgerService) load(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *ledgerService) save(ctx context.Context, p *model.Product) error {
	err := s.repo.SaveVersioned(ctx, p)
	if errors.Is(err, repository.ErrVersionConflict) {
		return ErrConflict
	}
	if errors.Is(err, repository.ErrDuplicateName) {
		return ErrDuplicateName
	}
	return err
}

func (s *ledgerService) invalidateRateCache(ctx context.Context, productName string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, RateCacheKey(productName)).Err(); err != nil {
		log.Warn().Err(err).Str("product", productName).Msg("rate cache invalidation failed")
	}
}

func validateAmounts(fields map[string]string, rate, gst decimal.Decimal) {
	if !rate.IsPositive() {
		fields["rate"] = "must be greater than zero"
	}
	if gst.IsNegative() {
		fields["gst"] = "must not be negative"
	}
}

// normalize trims a pointer string; empty means "clear the field".
func normalize(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// parseBillDate accepts YYYY-MM-DD or RFC3339. A nil or empty input clears
// the field; the bool is false only on a malformed value.
func parseBillDate(s *string) (*time.Time, bool) {
	if s == nil {
		return nil, true
	}
	raw := strings.TrimSpace(*s)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(billDateFormat, raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	return nil, false
}

func rateToDTO(r model.Rate) dto.RateResponse {
	resp := dto.RateResponse{
		EntryID:   r.EntryID.String(),
		Rate:      r.Rate,
		GST:       r.GST,
		FinalRate: r.FinalRate,
		PartyName: r.PartyName,
		PageNo:    r.PageNo,
		Category:  r.Category,
		UpdatedAt: r.UpdatedAt.Format(time.RFC3339),
	}
	if r.BillDate != nil {
		d := r.BillDate.Format(billDateFormat)
		resp.BillDate = &d
	}
	return resp
}

func productToDTO(p *model.Product) *dto.ProductResponse {
	history := make([]dto.RateResponse, 0, len(p.RateHistory))
	for _, r := range p.RateHistory {
		history = append(history, rateToDTO(r))
	}
	return &dto.ProductResponse{
		ID:          p.ID.String(),
		ProductName: p.ProductName,
		Unit:        p.Unit,
		CurrentRate: rateToDTO(p.CurrentRate),
		RateHistory: history,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
