package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type ProductHTTP struct {
	Svc *service.CatalogService
}

func (h *ProductHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list_products")

	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	f, err := productFilter(c)
	if err != nil {
		return err
	}

	page, err := h.Svc.ListProducts(ctx, f, req)
	if err != nil {
		return failure(l, "list_products_failed", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search_products")

	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	f, err := productFilter(c)
	if err != nil {
		return err
	}

	page, err := h.Svc.SearchProducts(ctx, c.QueryParam("query"), f, req)
	if err != nil {
		return failure(l, "search_products_failed", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ProductHTTP) ListCategoryProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list_category_products")

	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	f, err := productFilter(c)
	if err != nil {
		return err
	}

	page, err := h.Svc.ListCategoryProducts(ctx, id, f, req)
	if err != nil {
		return failure(l, "list_category_products_failed", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return failure(l, "get_product_failed", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.CreateProductRequest
	if err := bindBody(c, &req); err != nil {
		l.Warn("create_product_failed", "status", 422, "reason", "invalid body", "error", err)
		return err
	}

	p, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return failure(l, "create_product_failed", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpdateProductRequest
	if err := bindBody(c, &req); err != nil {
		l.Warn("update_product_failed", "status", 422, "reason", "invalid body", "error", err)
		return err
	}

	p, err := h.Svc.UpdateProduct(ctx, id, req)
	if err != nil {
		return failure(l, "update_product_failed", err)
	}

	l.Info("update_product_success", "product_id", id)
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return failure(l, "delete_product_failed", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHTTP) RestoreProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.restore_product")

	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.Svc.RestoreProduct(ctx, id)
	if err != nil {
		return failure(l, "restore_product_failed", err)
	}

	l.Info("restore_product_success", "product_id", id)
	return c.JSON(http.StatusOK, p)
}

// FullTextSearch serves GET /search from the search index.
func (h *ProductHTTP) FullTextSearch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.full_text")

	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	page, err := h.Svc.FullTextSearch(ctx, c.QueryParam("q"), req)
	if err != nil {
		return failure(l, "full_text_search_failed", err)
	}
	return c.JSON(http.StatusOK, page)
}
