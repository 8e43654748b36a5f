package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

type ProductFilter struct {
	Name       string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	MinRating  *float64
	CategoryID *uuid.UUID
}

func (f ProductFilter) predicates() []Predicate {
	var preds []Predicate
	if f.Name != "" {
		preds = append(preds, Contains("name", f.Name))
	}
	if f.MinPrice != nil {
		preds = append(preds, AtLeast("price", *f.MinPrice))
	}
	if f.MaxPrice != nil {
		preds = append(preds, AtMost("price", *f.MaxPrice))
	}
	if f.MinRating != nil {
		preds = append(preds, AtLeast("rating", *f.MinRating))
	}
	if f.CategoryID != nil {
		preds = append(preds, Equal("category_id", *f.CategoryID))
	}
	return preds
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.insert(ctx, p)
}

// GetProduct loads a live product together with its (live) category.
func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return find[models.Product](ctx, r.DB, Live, id, preload("Category", Live))
}

func (r *GormRepo) ProductExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists[models.Product](ctx, r.DB, id)
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter, req PageRequest) (Page[models.Product], error) {
	return paginate[models.Product](ctx, r.DB, listQuery{
		vis:   Live,
		preds: f.predicates(),
		order: []clause.OrderByColumn{asc("created_at"), asc("id")},
	}, req)
}

// ProductsByIDs returns the live products among ids, in the order of ids.
func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var found []models.Product
	err := r.DB.WithContext(ctx).Scopes(Live.Scope).
		Where(clause.IN{Column: idColumn(), Values: toAny(ids)}).
		Find(&found).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
			delete(byID, id)
		}
	}
	return out, nil
}

func (r *GormRepo) UpdateProduct(ctx context.Context, p *models.Product) error {
	return r.update(ctx, p, Live.Scope)
}

// SetProductRating stores the mean rating of the live reviews of a product.
func (r *GormRepo) SetProductRating(ctx context.Context, productID uuid.UUID) error {
	var rating float64
	row := r.DB.WithContext(ctx).Model(&models.Review{}).
		Scopes(Live.Scope, Equal("product_id", productID)).
		Select("COALESCE(AVG(rating), 0)").
		Row()
	if err := row.Scan(&rating); err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Model(&models.Product{}).
		Where(clause.Eq{Column: idColumn(), Value: productID}).
		UpdateColumn("rating", rating).Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.Product](ctx, r.DB, id)
}

func (r *GormRepo) RestoreProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if err := restore[models.Product](ctx, r.DB, id); err != nil {
		return nil, err
	}
	return r.GetProduct(ctx, id)
}

// EachProduct walks live products in batches, for index rebuilds.
func (r *GormRepo) EachProduct(ctx context.Context, batch int, fn func([]models.Product) error) error {
	var rows []models.Product
	res := r.DB.WithContext(ctx).Scopes(Live.Scope).
		FindInBatches(&rows, batch, func(tx *gorm.DB, _ int) error {
			return fn(rows)
		})
	return res.Error
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
