package repository

import (
	"context"
	"errors"

	"github.com/Gopal274/Ssdn/internal/dto"
	"github.com/Gopal274/Ssdn/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Storage-level failures. Services translate these into the ledger's typed
// error taxonomy; test stubs return them directly.
var (
	// ErrNotFound — no product with the given id or name.
	ErrNotFound = errors.New("product not found")
	// ErrDuplicateName — the unique index on product_name rejected an insert.
	// This is the second line of defense behind the explicit service-level
	// check; it closes the race window between check and insert.
	ErrDuplicateName = errors.New("product name already exists")
	// ErrVersionConflict — a versioned save matched zero rows, meaning another
	// operation committed first. The stored record is untouched.
	ErrVersionConflict = errors.New("concurrent update conflict")
)

// ProductRepository is the storage collaborator for the rate ledger.
// One product is one record; the ledger only ever loads and saves whole
// records, so every operation is a single read-modify-write.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByName(ctx context.Context, name string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	FindAll(ctx context.Context) ([]model.Product, error)

	// SaveVersioned writes the record back only if its version is unchanged
	// since load, then bumps the version. Zero rows matched means another
	// writer won the race: ErrVersionConflict, nothing written.
	SaveVersioned(ctx context.Context, p *model.Product) error

	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateName
	}
	return err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByName(ctx context.Context, name string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "product_name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns products ordered by current quotation recency, newest first —
// the same ordering the dashboard shows.
func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.Name != "" {
		q = q.Where("product_name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Party != "" {
		q = q.Where("current_rate->>'party_name' = ?", filter.Party)
	}
	if filter.Category != "" {
		q = q.Where("current_rate->>'category' = ?", filter.Category)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("(current_rate->>'updated_at')::timestamptz DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Find(&products).Error
	return products, err
}

func (r *productRepo) SaveVersioned(ctx context.Context, p *model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Updates(map[string]interface{}{
			"product_name": p.ProductName,
			"unit":         p.Unit,
			"current_rate": p.CurrentRate,
			"rate_history": p.RateHistory,
			"version":      p.Version + 1,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	p.Version++
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
