package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type CategoryHTTP struct {
	Svc *service.CatalogService
}

func (h *CategoryHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list_categories")

	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	page, err := h.Svc.ListCategories(ctx, req)
	if err != nil {
		return failure(l, "list_categories_failed", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CategoryHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create_category")

	var req transport.CategoryRequest
	if err := bindBody(c, &req); err != nil {
		l.Warn("create_category_failed", "status", 422, "reason", "invalid body", "error", err)
		return err
	}

	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return failure(l, "create_category_failed", err)
	}

	l.Info("create_category_success", "category_id", cat.ID)
	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_category")

	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	cat, err := h.Svc.GetCategory(ctx, id)
	if err != nil {
		return failure(l, "get_category_failed", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update_category")

	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpdateCategoryRequest
	if err := bindBody(c, &req); err != nil {
		l.Warn("update_category_failed", "status", 422, "reason", "invalid body", "error", err)
		return err
	}

	cat, err := h.Svc.UpdateCategory(ctx, id, req)
	if err != nil {
		return failure(l, "update_category_failed", err)
	}

	l.Info("update_category_success", "category_id", id)
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete_category")

	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return failure(l, "delete_category_failed", err)
	}

	l.Info("delete_category_success", "category_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CategoryHTTP) RestoreCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.restore_category")

	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	cat, err := h.Svc.RestoreCategory(ctx, id)
	if err != nil {
		return failure(l, "restore_category_failed", err)
	}

	l.Info("restore_category_success", "category_id", id)
	return c.JSON(http.StatusOK, cat)
}
