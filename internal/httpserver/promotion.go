package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type PromotionHTTP struct {
	Svc *service.PromotionService
}

func (h *PromotionHTTP) CreatePromotion(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "promotion.create_promotion")

	var req transport.CreatePromotionRequest
	if err := bindBody(c, &req); err != nil {
		l.Warn("create_promotion_failed", "status", 422, "reason", "invalid body", "error", err)
		return err
	}

	p, err := h.Svc.Create(ctx, req)
	if err != nil {
		return failure(l, "create_promotion_failed", err)
	}

	l.Info("create_promotion_success", "promotion_id", p.ID, "products", len(p.Products))
	return c.JSON(http.StatusCreated, p)
}

func (h *PromotionHTTP) ListPromotions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "promotion.list_promotions")

	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	activeOnly, err := queryBool(c, "active_only")
	if err != nil {
		return err
	}
	productID, err := queryUUID(c, "product_id")
	if err != nil {
		return err
	}

	page, err := h.Svc.List(ctx, activeOnly, productID, req)
	if err != nil {
		return failure(l, "list_promotions_failed", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *PromotionHTTP) ActivePromotions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "promotion.active_promotions")

	promos, err := h.Svc.Active(ctx)
	if err != nil {
		return failure(l, "active_promotions_failed", err)
	}
	return c.JSON(http.StatusOK, promos)
}

func (h *PromotionHTTP) ProductPromotions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "promotion.product_promotions")

	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	promos, err := h.Svc.ForProduct(ctx, id)
	if err != nil {
		return failure(l, "product_promotions_failed", err)
	}
	return c.JSON(http.StatusOK, promos)
}

func (h *PromotionHTTP) GetPromotion(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "promotion.get_promotion")

	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.Svc.Get(ctx, id)
	if err != nil {
		return failure(l, "get_promotion_failed", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PromotionHTTP) UpdatePromotion(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "promotion.update_promotion")

	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpdatePromotionRequest
	if err := bindBody(c, &req); err != nil {
		l.Warn("update_promotion_failed", "status", 422, "reason", "invalid body", "error", err)
		return err
	}

	p, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return failure(l, "update_promotion_failed", err)
	}

	l.Info("update_promotion_success", "promotion_id", id)
	return c.JSON(http.StatusOK, p)
}

func (h *PromotionHTTP) ReplaceProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "promotion.replace_products")

	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req transport.PromotionProductsRequest
	if err := bindBody(c, &req); err != nil {
		l.Warn("replace_products_failed", "status", 422, "reason", "invalid body", "error", err)
		return err
	}

	p, err := h.Svc.ReplaceProducts(ctx, id, req.ProductIDs)
	if err != nil {
		return failure(l, "replace_products_failed", err)
	}

	l.Info("replace_products_success", "promotion_id", id, "products", len(p.Products))
	return c.JSON(http.StatusOK, p)
}

func (h *PromotionHTTP) DeletePromotion(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "promotion.delete_promotion")

	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return failure(l, "delete_promotion_failed", err)
	}

	l.Info("delete_promotion_success", "promotion_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *PromotionHTTP) RestorePromotion(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "promotion.restore_promotion")

	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.Svc.Restore(ctx, id)
	if err != nil {
		return failure(l, "restore_promotion_failed", err)
	}

	l.Info("restore_promotion_success", "promotion_id", id)
	return c.JSON(http.StatusOK, p)
}
