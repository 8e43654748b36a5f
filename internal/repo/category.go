package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.insert(ctx, c)
}

func (r *GormRepo) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return find[models.Category](ctx, r.DB, Live, id)
}

func (r *GormRepo) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists[models.Category](ctx, r.DB, id)
}

// CategoryNameTaken reports whether a live category other than except
// already uses name.
func (r *GormRepo) CategoryNameTaken(ctx context.Context, name string, except uuid.UUID) (bool, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(&models.Category{}).Scopes(Live.Scope, Equal("name", name))
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) ListCategories(ctx context.Context, req PageRequest) (Page[models.Category], error) {
	return paginate[models.Category](ctx, r.DB, listQuery{
		vis:   Live,
		order: []clause.OrderByColumn{asc("name"), asc("id")},
	}, req)
}

func (r *GormRepo) UpdateCategory(ctx context.Context, c *models.Category) error {
	return r.update(ctx, c, Live.Scope)
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.Category](ctx, r.DB, id)
}

func (r *GormRepo) RestoreCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if err := restore[models.Category](ctx, r.DB, id); err != nil {
		return nil, err
	}
	return r.GetCategory(ctx, id)
}
