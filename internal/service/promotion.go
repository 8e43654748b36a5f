package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type PromotionService struct {
	Repo   *repo.GormRepo
	Events Publisher
}

func promotionNotFound(id uuid.UUID) error {
	return notFound("Promotion", id)
}

func checkWindow(start, end time.Time) error {
	if end.Before(start) {
		return newError(ErrValidation, "end_date must not be before start_date")
	}
	return nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// resolveLenient keeps the ids that name live products and drops the rest.
func (s *PromotionService) resolveLenient(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	products, err := s.Repo.ProductsByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return products, nil
}

// resolveStrict fails on the first id that does not name a live product.
func (s *PromotionService) resolveStrict(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	ids = dedupe(ids)
	products, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	if len(products) == len(ids) {
		return products, nil
	}
	found := make(map[uuid.UUID]struct{}, len(products))
	for _, p := range products {
		found[p.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, newError(ErrBadRequest, "Product with ID %s not found", id)
		}
	}
	return products, nil
}

func (s *PromotionService) Create(ctx context.Context, req transport.CreatePromotionRequest) (*models.Promotion, error) {
	start, end := req.StartDate.UTC(), req.EndDate.UTC()
	if err := checkWindow(start, end); err != nil {
		return nil, err
	}
	products, err := s.resolveLenient(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}

	p := &models.Promotion{
		Name:        req.Name,
		Description: req.Description,
		URL:         req.URL,
		ImagePath:   req.ImagePath,
		ImageURL:    req.ImageURL,
		StartDate:   start,
		EndDate:     end,
		Products:    products,
	}
	if err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		return tx.CreatePromotion(ctx, p)
	}); err != nil {
		return nil, fmt.Errorf("create promotion: %w", err)
	}

	created, err := s.Get(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.Events, TopicPromotion, Event{Type: "promotion_created", EntityID: p.ID.String(), Payload: created})
	return created, nil
}

func (s *PromotionService) List(ctx context.Context, activeOnly bool, productID *uuid.UUID, req repo.PageRequest) (repo.Page[models.Promotion], error) {
	f := repo.PromotionFilter{ProductID: productID}
	if activeOnly {
		now := s.Repo.DB.NowFunc()
		f.ActiveAt = &now
	}
	return s.Repo.ListPromotions(ctx, f, req)
}

func (s *PromotionService) Active(ctx context.Context) ([]models.Promotion, error) {
	now := s.Repo.DB.NowFunc()
	promos, err := s.Repo.FindPromotions(ctx, repo.PromotionFilter{ActiveAt: &now})
	if err != nil {
		return nil, fmt.Errorf("active promotions: %w", err)
	}
	return promos, nil
}

func (s *PromotionService) ForProduct(ctx context.Context, productID uuid.UUID) ([]models.Promotion, error) {
	ok, err := s.Repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("check product: %w", err)
	}
	if !ok {
		return nil, notFound("Product", productID)
	}
	promos, err := s.Repo.FindPromotions(ctx, repo.PromotionFilter{ProductID: &productID})
	if err != nil {
		return nil, fmt.Errorf("product promotions: %w", err)
	}
	return promos, nil
}

func (s *PromotionService) Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	p, err := s.Repo.GetPromotion(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, promotionNotFound(id)
		}
		return nil, fmt.Errorf("get promotion: %w", err)
	}
	return p, nil
}

// Update applies the fields present in req. A present product_ids list
// replaces the links, silently skipping unknown products.
func (s *PromotionService) Update(ctx context.Context, id uuid.UUID, req transport.UpdatePromotionRequest) (*models.Promotion, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.URL != nil {
		p.URL = req.URL
	}
	if req.ImagePath != nil {
		p.ImagePath = req.ImagePath
	}
	if req.ImageURL != nil {
		p.ImageURL = req.ImageURL
	}
	if req.StartDate != nil {
		p.StartDate = req.StartDate.UTC()
	}
	if req.EndDate != nil {
		p.EndDate = req.EndDate.UTC()
	}
	if err := checkWindow(p.StartDate, p.EndDate); err != nil {
		return nil, err
	}

	var products []models.Product
	if req.ProductIDs != nil {
		if products, err = s.resolveLenient(ctx, *req.ProductIDs); err != nil {
			return nil, err
		}
	}

	err = s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		if err := tx.UpdatePromotion(ctx, p); err != nil {
			return err
		}
		if req.ProductIDs != nil {
			return tx.ReplacePromotionProducts(ctx, p, products)
		}
		return nil
	})
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, promotionNotFound(id)
		}
		return nil, fmt.Errorf("update promotion: %w", err)
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.Events, TopicPromotion, Event{Type: "promotion_updated", EntityID: id.String(), Payload: updated})
	return updated, nil
}

// ReplaceProducts overwrites the product links and fails as a whole when
// any id is unknown.
func (s *PromotionService) ReplaceProducts(ctx context.Context, id uuid.UUID, ids []uuid.UUID) (*models.Promotion, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := s.resolveStrict(ctx, ids)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		return tx.ReplacePromotionProducts(ctx, p, products)
	}); err != nil {
		return nil, fmt.Errorf("replace promotion products: %w", err)
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.Events, TopicPromotion, Event{
		Type:     "promotion_products_replaced",
		EntityID: id.String(),
		Payload:  map[string]any{"product_ids": dedupe(ids)},
	})
	return updated, nil
}

func (s *PromotionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeletePromotion(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return promotionNotFound(id)
		}
		return fmt.Errorf("delete promotion: %w", err)
	}
	publish(ctx, s.Events, TopicPromotion, Event{Type: "promotion_deleted", EntityID: id.String()})
	return nil
}

func (s *PromotionService) Restore(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	p, err := s.Repo.RestorePromotion(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, notFound("Deleted promotion", id)
		}
		return nil, fmt.Errorf("restore promotion: %w", err)
	}
	publish(ctx, s.Events, TopicPromotion, Event{Type: "promotion_restored", EntityID: id.String(), Payload: p})
	return p, nil
}
