package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

type PromotionFilter struct {
	ActiveAt  *time.Time
	ProductID *uuid.UUID
}

func (f PromotionFilter) predicates() []Predicate {
	var preds []Predicate
	if f.ActiveAt != nil {
		preds = append(preds, activeAt(*f.ActiveAt))
	}
	if f.ProductID != nil {
		preds = append(preds, linkedTo(*f.ProductID))
	}
	return preds
}

func activeAt(now time.Time) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		return db.Scopes(AtMost("start_date", now), AtLeast("end_date", now))
	}
}

func linkedTo(productID uuid.UUID) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"EXISTS (SELECT 1 FROM promotion_products pp WHERE pp.promotion_id = promotions.id AND pp.product_id = ?)",
			productID,
		)
	}
}

var promotionOrder = []clause.OrderByColumn{desc("start_date"), asc("id")}

func withProducts(db *gorm.DB) *gorm.DB {
	return db.Preload("Products", func(db *gorm.DB) *gorm.DB {
		return db.Scopes(Live.Scope).Order(asc("name"))
	})
}

func (r *GormRepo) CreatePromotion(ctx context.Context, p *models.Promotion) error {
	products := p.Products
	p.Products = nil
	if err := r.insert(ctx, p); err != nil {
		return err
	}
	return r.ReplacePromotionProducts(ctx, p, products)
}

func (r *GormRepo) GetPromotion(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	return find[models.Promotion](ctx, r.DB, Live, id, withProducts)
}

func (r *GormRepo) ListPromotions(ctx context.Context, f PromotionFilter, req PageRequest) (Page[models.Promotion], error) {
	return paginate[models.Promotion](ctx, r.DB, listQuery{
		vis:      Live,
		preds:    f.predicates(),
		order:    promotionOrder,
		preloads: []func(*gorm.DB) *gorm.DB{withProducts},
	}, req)
}

// FindPromotions returns every live promotion matching f, unpaged.
func (r *GormRepo) FindPromotions(ctx context.Context, f PromotionFilter) ([]models.Promotion, error) {
	out := make([]models.Promotion, 0)
	q := r.DB.WithContext(ctx).Scopes(Live.Scope).Scopes(f.predicates()...).Scopes(withProducts)
	for _, o := range promotionOrder {
		q = q.Order(o)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) UpdatePromotion(ctx context.Context, p *models.Promotion) error {
	return r.update(ctx, p, Live.Scope)
}

// ReplacePromotionProducts overwrites the product links of p with products.
// Only the join table is written.
func (r *GormRepo) ReplacePromotionProducts(ctx context.Context, p *models.Promotion, products []models.Product) error {
	assoc := r.DB.WithContext(ctx).Model(p).Omit("Products.*").Association("Products")
	var err error
	if len(products) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(products)
	}
	if err != nil {
		return err
	}
	p.Products = products
	return nil
}

func (r *GormRepo) DeletePromotion(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.Promotion](ctx, r.DB, id)
}

func (r *GormRepo) RestorePromotion(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	if err := restore[models.Promotion](ctx, r.DB, id); err != nil {
		return nil, err
	}
	return r.GetPromotion(ctx, id)
}
