package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type ReviewService struct {
	Repo   *repo.GormRepo
	Events Publisher
}

var errAlreadyReviewed = &Error{Kind: ErrConflict, Detail: "You have already reviewed this product"}

func (s *ReviewService) requireProduct(ctx context.Context, id uuid.UUID) error {
	ok, err := s.Repo.ProductExists(ctx, id)
	if err != nil {
		return fmt.Errorf("check product: %w", err)
	}
	if !ok {
		return notFound("Product", id)
	}
	return nil
}

// Create stores the review and refreshes the product rating in one
// transaction. The partial unique index backs the duplicate check.
func (s *ReviewService) Create(ctx context.Context, userID uuid.UUID, req transport.CreateReviewRequest) (*models.Review, error) {
	if err := s.requireProduct(ctx, req.ProductID); err != nil {
		return nil, err
	}

	rv := &models.Review{UserID: userID, ProductID: req.ProductID, Text: req.Text, Rating: req.Rating}
	err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		reviewed, err := tx.HasReviewed(ctx, userID, req.ProductID)
		if err != nil {
			return err
		}
		if reviewed {
			return errAlreadyReviewed
		}
		if err := tx.CreateReview(ctx, rv); err != nil {
			return err
		}
		return tx.SetProductRating(ctx, req.ProductID)
	})
	if err != nil {
		switch {
		case errors.Is(err, errAlreadyReviewed):
			return nil, err
		case repo.IsDuplicate(err):
			return nil, errAlreadyReviewed
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	publish(ctx, s.Events, TopicReview, Event{Type: "review_created", EntityID: rv.ID.String(), UserID: userID.String(), Payload: rv})
	return rv, nil
}

func (s *ReviewService) List(ctx context.Context, f repo.ReviewFilter, req repo.PageRequest) (repo.Page[models.Review], error) {
	return s.Repo.ListReviews(ctx, f, req)
}

func (s *ReviewService) ListForProduct(ctx context.Context, productID uuid.UUID, f repo.ReviewFilter, req repo.PageRequest) (repo.Page[models.Review], error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return repo.Page[models.Review]{}, err
	}
	f.ProductID = &productID
	return s.Repo.ListReviews(ctx, f, req)
}

func (s *ReviewService) ListMine(ctx context.Context, userID uuid.UUID, req repo.PageRequest) (repo.Page[models.Review], error) {
	return s.Repo.ListReviews(ctx, repo.ReviewFilter{UserID: &userID}, req)
}

func (s *ReviewService) Get(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	rv, err := s.Repo.GetReview(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, notFound("Review", id)
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return rv, nil
}

func (s *ReviewService) Statistics(ctx context.Context, productID uuid.UUID) (*transport.ReviewStatistics, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	stats, err := s.Repo.ReviewStats(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}

	counts := make(map[string]int64, 5)
	for star := 1; star <= 5; star++ {
		counts[fmt.Sprintf("%d_star", star)] = stats.Counts[star]
	}
	return &transport.ReviewStatistics{
		ProductID:     productID,
		AverageRating: math.Round(stats.Average*10) / 10,
		TotalReviews:  stats.Total,
		RatingCounts:  counts,
	}, nil
}

func (s *ReviewService) authored(ctx context.Context, userID, id uuid.UUID, action string) (*models.Review, error) {
	rv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rv.UserID != userID {
		return nil, newError(ErrForbidden, "You don't have permission to %s this review", action)
	}
	return rv, nil
}

func (s *ReviewService) Update(ctx context.Context, userID, id uuid.UUID, req transport.UpdateReviewRequest) (*models.Review, error) {
	rv, err := s.authored(ctx, userID, id, "update")
	if err != nil {
		return nil, err
	}
	if req.Text != nil {
		rv.Text = *req.Text
	}
	if req.Rating != nil {
		rv.Rating = *req.Rating
	}

	err = s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		if err := tx.UpdateReview(ctx, rv); err != nil {
			return err
		}
		return tx.SetProductRating(ctx, rv.ProductID)
	})
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, notFound("Review", id)
		}
		return nil, fmt.Errorf("update review: %w", err)
	}

	publish(ctx, s.Events, TopicReview, Event{Type: "review_updated", EntityID: id.String(), UserID: userID.String(), Payload: rv})
	return rv, nil
}

func (s *ReviewService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	rv, err := s.authored(ctx, userID, id, "delete")
	if err != nil {
		return err
	}

	err = s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		if err := tx.DeleteReview(ctx, id); err != nil {
			return err
		}
		return tx.SetProductRating(ctx, rv.ProductID)
	})
	if err != nil {
		if repo.IsNotFound(err) {
			return notFound("Review", id)
		}
		return fmt.Errorf("delete review: %w", err)
	}

	publish(ctx, s.Events, TopicReview, Event{Type: "review_deleted", EntityID: id.String(), UserID: userID.String()})
	return nil
}
