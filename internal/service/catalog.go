package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
)

// ProductIndex mirrors live products into a full-text search engine.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	RemoveProduct(ctx context.Context, id uuid.UUID) error
	SearchProducts(ctx context.Context, query string, from, size int) (int64, []uuid.UUID, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Events Publisher
	Index  ProductIndex
}

func (s *CatalogService) ListCategories(ctx context.Context, req repo.PageRequest) (repo.Page[models.Category], error) {
	return s.Repo.ListCategories(ctx, req)
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.ensureCategoryName(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	c := &models.Category{Name: name}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		if repo.IsDuplicate(err) {
			return nil, categoryExists(name)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	publish(ctx, s.Events, TopicCatalog, Event{Type: "category_created", EntityID: c.ID.String(), Payload: c})
	return c, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, notFound("Category", id)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req transport.UpdateCategoryRequest) (*models.Category, error) {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == nil {
		return c, nil
	}

	name := strings.TrimSpace(*req.Name)
	if name != c.Name {
		if err := s.ensureCategoryName(ctx, name, id); err != nil {
			return nil, err
		}
	}
	c.Name = name

	if err := s.Repo.UpdateCategory(ctx, c); err != nil {
		switch {
		case repo.IsNotFound(err):
			return nil, notFound("Category", id)
		case repo.IsDuplicate(err):
			return nil, categoryExists(name)
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	publish(ctx, s.Events, TopicCatalog, Event{Type: "category_updated", EntityID: id.String(), Payload: c})
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return notFound("Category", id)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	publish(ctx, s.Events, TopicCatalog, Event{Type: "category_deleted", EntityID: id.String()})
	return nil
}

func (s *CatalogService) RestoreCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.Repo.RestoreCategory(ctx, id)
	if err != nil {
		switch {
		case repo.IsNotFound(err):
			return nil, notFound("Deleted category", id)
		case repo.IsDuplicate(err):
			return nil, newError(ErrConflict, "Category with this name already exists")
		}
		return nil, fmt.Errorf("restore category: %w", err)
	}
	publish(ctx, s.Events, TopicCatalog, Event{Type: "category_restored", EntityID: id.String(), Payload: c})
	return c, nil
}

func (s *CatalogService) ensureCategoryName(ctx context.Context, name string, except uuid.UUID) error {
	taken, err := s.Repo.CategoryNameTaken(ctx, name, except)
	if err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if taken {
		return categoryExists(name)
	}
	return nil
}

func categoryExists(name string) error {
	return newError(ErrConflict, "Category with name '%s' already exists", name)
}

func (s *CatalogService) requireCategory(ctx context.Context, id uuid.UUID) error {
	ok, err := s.Repo.CategoryExists(ctx, id)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !ok {
		return notFound("Category", id)
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Price == nil {
		return nil, newError(ErrValidation, "price is required")
	}
	if err := s.requireCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:       strings.TrimSpace(req.Name),
		Price:      *req.Price,
		CategoryID: req.CategoryID,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.index(ctx, p)
	publish(ctx, s.Events, TopicCatalog, Event{Type: "product_created", EntityID: p.ID.String(), Payload: p})
	return p, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, notFound("Product", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, f repo.ProductFilter, req repo.PageRequest) (repo.Page[models.Product], error) {
	return s.Repo.ListProducts(ctx, f, req)
}

// SearchProducts matches query against product names on top of the
// regular listing filters.
func (s *CatalogService) SearchProducts(ctx context.Context, query string, f repo.ProductFilter, req repo.PageRequest) (repo.Page[models.Product], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return repo.Page[models.Product]{}, newError(ErrValidation, "query must not be empty")
	}
	f.Name = query
	return s.Repo.ListProducts(ctx, f, req)
}

func (s *CatalogService) ListCategoryProducts(ctx context.Context, categoryID uuid.UUID, f repo.ProductFilter, req repo.PageRequest) (repo.Page[models.Product], error) {
	if err := s.requireCategory(ctx, categoryID); err != nil {
		return repo.Page[models.Product]{}, err
	}
	f.CategoryID = &categoryID
	return s.Repo.ListProducts(ctx, f, req)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req transport.UpdateProductRequest) (*models.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil && *req.CategoryID != p.CategoryID {
		if err := s.requireCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		p.CategoryID = *req.CategoryID
		p.Category = nil
	}
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		p.Price = *req.Price
	}

	if err := s.Repo.UpdateProduct(ctx, p); err != nil {
		if repo.IsNotFound(err) {
			return nil, notFound("Product", id)
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.index(ctx, p)
	publish(ctx, s.Events, TopicCatalog, Event{Type: "product_updated", EntityID: id.String(), Payload: p})
	return s.GetProduct(ctx, id)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return notFound("Product", id)
		}
		return fmt.Errorf("delete product: %w", err)
	}

	if s.Index != nil {
		if err := s.Index.RemoveProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Error("search_remove_failed", "product_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, TopicCatalog, Event{Type: "product_deleted", EntityID: id.String()})
	return nil
}

func (s *CatalogService) RestoreProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.RestoreProduct(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, notFound("Deleted product", id)
		}
		return nil, fmt.Errorf("restore product: %w", err)
	}
	s.index(ctx, p)
	publish(ctx, s.Events, TopicCatalog, Event{Type: "product_restored", EntityID: id.String(), Payload: p})
	return p, nil
}

// FullTextSearch ranks products with the search index and then reloads the
// hits through the live filter, so deleted products never surface.
func (s *CatalogService) FullTextSearch(ctx context.Context, query string, req repo.PageRequest) (repo.Page[models.Product], error) {
	if s.Index == nil {
		return repo.Page[models.Product]{}, newError(ErrUnavailable, "Full-text search is not configured")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return repo.Page[models.Product]{}, newError(ErrValidation, "q must not be empty")
	}

	from, size := util.Calculate(req.Page, req.PageSize)
	total, ids, err := s.Index.SearchProducts(ctx, query, from, size)
	if err != nil {
		return repo.Page[models.Product]{}, fmt.Errorf("search index: %w", err)
	}
	items, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return repo.Page[models.Product]{}, fmt.Errorf("load hits: %w", err)
	}

	return repo.Page[models.Product]{
		Items:    items,
		Total:    total,
		Page:     req.Page,
		PageSize: size,
		Pages:    repo.PageCount(total, size),
	}, nil
}

// Reindex pushes every live product to the search index.
func (s *CatalogService) Reindex(ctx context.Context, batch int) (int, error) {
	if s.Index == nil {
		return 0, newError(ErrUnavailable, "Full-text search is not configured")
	}
	n := 0
	err := s.Repo.EachProduct(ctx, batch, func(products []models.Product) error {
		for i := range products {
			if err := s.Index.IndexProduct(ctx, &products[i]); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}

func (s *CatalogService) index(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Error("search_index_failed", "product_id", p.ID, "error", err)
	}
}
