package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

type CartFilter struct {
	ProductID   *uuid.UUID
	MinQuantity *int
	MaxQuantity *int
}

func (f CartFilter) predicates(userID uuid.UUID) []Predicate {
	preds := []Predicate{liveProductOnly, Equal("user_id", userID)}
	if f.ProductID != nil {
		preds = append(preds, Equal("product_id", *f.ProductID))
	}
	if f.MinQuantity != nil {
		preds = append(preds, AtLeast("quantity", *f.MinQuantity))
	}
	if f.MaxQuantity != nil {
		preds = append(preds, AtMost("quantity", *f.MaxQuantity))
	}
	return preds
}

// liveProductOnly hides cart lines whose product has been soft-deleted.
func liveProductOnly(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN products ON products.id = cart_items.product_id AND products.deleted_at IS NULL")
}

func cartScope(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Scopes(liveProductOnly, Equal("user_id", userID))
	}
}

// AddCartItem inserts the line or, when the user already has this product
// in the cart, adds item.Quantity to the stored quantity in the same
// statement.
func (r *GormRepo) AddCartItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	now := r.now()
	item.Stamp(now)
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": now,
		}),
	}).Create(item).Error
	if err != nil {
		return nil, err
	}

	var stored models.CartItem
	err = r.DB.WithContext(ctx).
		Preload("Product").
		Where(&models.CartItem{UserID: item.UserID, ProductID: item.ProductID}).
		Take(&stored).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *GormRepo) GetCartItem(ctx context.Context, userID, id uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).
		Scopes(cartScope(userID)).
		Preload("Product").
		Where(clause.Eq{Column: idColumn(), Value: id}).
		Take(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) ListCartItems(ctx context.Context, userID uuid.UUID, f CartFilter, req PageRequest) (Page[models.CartItem], error) {
	return paginate[models.CartItem](ctx, r.DB, listQuery{
		vis:      WithDeleted, // cart lines are removed physically
		preds:    f.predicates(userID),
		order:    []clause.OrderByColumn{asc("created_at"), asc("id")},
		preloads: []func(*gorm.DB) *gorm.DB{preload("Product", Live)},
	}, req)
}

func (r *GormRepo) UpdateCartItem(ctx context.Context, item *models.CartItem) error {
	return r.update(ctx, item, Equal("user_id", item.UserID))
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, userID, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Where(clause.Eq{Column: idColumn(), Value: id}).
		Where(clause.Eq{Column: column("user_id"), Value: userID}).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where(clause.Eq{Column: column("user_id"), Value: userID}).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// CartCount is the total quantity over the user's visible cart lines.
func (r *GormRepo) CartCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	row := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Scopes(cartScope(userID)).
		Select("COALESCE(SUM(cart_items.quantity), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
