package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events Publisher
}

func cartItemNotFound(id uuid.UUID) error {
	return notFound("Cart item", id)
}

func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req transport.AddCartItemRequest) (*models.CartItem, error) {
	ok, err := s.Repo.ProductExists(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("check product: %w", err)
	}
	if !ok {
		return nil, notFound("Product", req.ProductID)
	}

	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	item, err := s.Repo.AddCartItem(ctx, &models.CartItem{UserID: userID, ProductID: req.ProductID, Quantity: qty})
	if err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}

	publish(ctx, s.Events, TopicCart, Event{
		Type:     "cart_item_added",
		EntityID: item.ID.String(),
		UserID:   userID.String(),
		Payload:  map[string]any{"product_id": req.ProductID, "added": qty, "quantity": item.Quantity},
	})
	return item, nil
}

func (s *CartService) ListItems(ctx context.Context, userID uuid.UUID, f repo.CartFilter, req repo.PageRequest) (repo.Page[models.CartItem], error) {
	return s.Repo.ListCartItems(ctx, userID, f, req)
}

func (s *CartService) GetItem(ctx context.Context, userID, id uuid.UUID) (*models.CartItem, error) {
	item, err := s.Repo.GetCartItem(ctx, userID, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, cartItemNotFound(id)
		}
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return item, nil
}

func (s *CartService) UpdateItem(ctx context.Context, userID, id uuid.UUID, req transport.UpdateCartItemRequest) (*models.CartItem, error) {
	item, err := s.GetItem(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	item.Quantity = req.Quantity
	if err := s.Repo.UpdateCartItem(ctx, item); err != nil {
		if repo.IsNotFound(err) {
			return nil, cartItemNotFound(id)
		}
		return nil, fmt.Errorf("update cart item: %w", err)
	}

	publish(ctx, s.Events, TopicCart, Event{
		Type:     "cart_item_updated",
		EntityID: id.String(),
		UserID:   userID.String(),
		Payload:  map[string]any{"product_id": item.ProductID, "quantity": item.Quantity},
	})
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.Repo.DeleteCartItem(ctx, userID, id); err != nil {
		if repo.IsNotFound(err) {
			return cartItemNotFound(id)
		}
		return fmt.Errorf("delete cart item: %w", err)
	}
	publish(ctx, s.Events, TopicCart, Event{Type: "cart_item_removed", EntityID: id.String(), UserID: userID.String()})
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	n, err := s.Repo.ClearCart(ctx, userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	publish(ctx, s.Events, TopicCart, Event{
		Type:     "cart_cleared",
		EntityID: userID.String(),
		UserID:   userID.String(),
		Payload:  map[string]any{"removed": n},
	})
	return nil
}

func (s *CartService) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.Repo.CartCount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count cart: %w", err)
	}
	return n, nil
}
