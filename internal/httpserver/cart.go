package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	var req transport.AddCartItemRequest
	if err := bindBody(c, &req); err != nil {
		l.Warn("add_item_failed", "status", 422, "reason", "invalid body", "error", err)
		return err
	}

	item, err := h.Svc.AddItem(ctx, userID, req)
	if err != nil {
		return failure(l, "add_item_failed", err)
	}

	l.Info("add_item_success", "cart_item_id", item.ID, "quantity", item.Quantity)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) ListItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.list_items")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	req, err := pageRequest(c)
	if err != nil {
		return err
	}

	var f repo.CartFilter
	if f.ProductID, err = queryUUID(c, "product_id"); err != nil {
		return err
	}
	if f.MinQuantity, err = queryInt(c, "min_quantity"); err != nil {
		return err
	}
	if f.MaxQuantity, err = queryInt(c, "max_quantity"); err != nil {
		return err
	}

	page, err := h.Svc.ListItems(ctx, userID, f, req)
	if err != nil {
		return failure(l, "list_items_failed", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CartHTTP) GetItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_item")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	item, err := h.Svc.GetItem(ctx, userID, id)
	if err != nil {
		return failure(l, "get_item_failed", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpdateCartItemRequest
	if err := bindBody(c, &req); err != nil {
		l.Warn("update_item_failed", "status", 422, "reason", "invalid body", "error", err)
		return err
	}

	item, err := h.Svc.UpdateItem(ctx, userID, id, req)
	if err != nil {
		return failure(l, "update_item_failed", err)
	}

	l.Info("update_item_success", "cart_item_id", id)
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.RemoveItem(ctx, userID, id); err != nil {
		return failure(l, "remove_item_failed", err)
	}

	l.Info("remove_item_success", "cart_item_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Clear(ctx, userID); err != nil {
		return failure(l, "clear_cart_failed", err)
	}

	l.Info("clear_cart_success")
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) Count(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.count")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	n, err := h.Svc.Count(ctx, userID)
	if err != nil {
		return failure(l, "count_cart_failed", err)
	}
	return c.JSON(http.StatusOK, transport.CartCountResponse{Count: n})
}
