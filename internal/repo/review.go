package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

type ReviewFilter struct {
	ProductID *uuid.UUID
	UserID    *uuid.UUID
	MinRating *int
	MaxRating *int
}

func (f ReviewFilter) predicates() []Predicate {
	var preds []Predicate
	if f.ProductID != nil {
		preds = append(preds, Equal("product_id", *f.ProductID))
	}
	if f.UserID != nil {
		preds = append(preds, Equal("user_id", *f.UserID))
	}
	if f.MinRating != nil {
		preds = append(preds, AtLeast("rating", *f.MinRating))
	}
	if f.MaxRating != nil {
		preds = append(preds, AtMost("rating", *f.MaxRating))
	}
	return preds
}

type RatingStats struct {
	Total   int64
	Average float64
	Counts  map[int]int64
}

func (r *GormRepo) CreateReview(ctx context.Context, rv *models.Review) error {
	return r.insert(ctx, rv)
}

func (r *GormRepo) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	return find[models.Review](ctx, r.DB, Live, id)
}

func (r *GormRepo) HasReviewed(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Review{}).
		Scopes(Live.Scope, Equal("user_id", userID), Equal("product_id", productID)).
		Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) ListReviews(ctx context.Context, f ReviewFilter, req PageRequest) (Page[models.Review], error) {
	return paginate[models.Review](ctx, r.DB, listQuery{
		vis:   Live,
		preds: f.predicates(),
		order: []clause.OrderByColumn{desc("created_at"), desc("id")},
	}, req)
}

func (r *GormRepo) UpdateReview(ctx context.Context, rv *models.Review) error {
	return r.update(ctx, rv, Live.Scope)
}

func (r *GormRepo) DeleteReview(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.Review](ctx, r.DB, id)
}

func (r *GormRepo) ReviewStats(ctx context.Context, productID uuid.UUID) (RatingStats, error) {
	var rows []struct {
		Rating int
		N      int64
	}
	err := r.DB.WithContext(ctx).Model(&models.Review{}).
		Scopes(Live.Scope, Equal("product_id", productID)).
		Select("rating, COUNT(*) AS n").
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return RatingStats{}, err
	}

	stats := RatingStats{Counts: make(map[int]int64, 5)}
	var sum int64
	for _, row := range rows {
		stats.Counts[row.Rating] = row.N
		stats.Total += row.N
		sum += int64(row.Rating) * row.N
	}
	if stats.Total > 0 {
		stats.Average = float64(sum) / float64(stats.Total)
	}
	return stats, nil
}
