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

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create_review")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	var req transport.CreateReviewRequest
	if err := bindBody(c, &req); err != nil {
		l.Warn("create_review_failed", "status", 422, "reason", "invalid body", "error", err)
		return err
	}

	rv, err := h.Svc.Create(ctx, userID, req)
	if err != nil {
		return failure(l, "create_review_failed", err)
	}

	l.Info("create_review_success", "review_id", rv.ID)
	return c.JSON(http.StatusCreated, rv)
}

func (h *ReviewHTTP) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.list_reviews")

	req, err := pageRequest(c)
	if err != nil {
		return err
	}

	f, err := ratingFilter(c)
	if err != nil {
		return err
	}
	if f.ProductID, err = queryUUID(c, "product_id"); err != nil {
		return err
	}
	if f.UserID, err = queryUUID(c, "user_id"); err != nil {
		return err
	}

	page, err := h.Svc.List(ctx, f, req)
	if err != nil {
		return failure(l, "list_reviews_failed", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ReviewHTTP) ListProductReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.list_product_reviews")

	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	f, err := ratingFilter(c)
	if err != nil {
		return err
	}

	page, err := h.Svc.ListForProduct(ctx, id, f, req)
	if err != nil {
		return failure(l, "list_product_reviews_failed", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ReviewHTTP) ListMyReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.list_my_reviews")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	req, err := pageRequest(c)
	if err != nil {
		return err
	}

	page, err := h.Svc.ListMine(ctx, userID, req)
	if err != nil {
		return failure(l, "list_my_reviews_failed", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ReviewHTTP) Statistics(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.statistics")

	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	stats, err := h.Svc.Statistics(ctx, id)
	if err != nil {
		return failure(l, "review_statistics_failed", err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *ReviewHTTP) GetReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.get_review")

	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	rv, err := h.Svc.Get(ctx, id)
	if err != nil {
		return failure(l, "get_review_failed", err)
	}
	return c.JSON(http.StatusOK, rv)
}

func (h *ReviewHTTP) UpdateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.update_review")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpdateReviewRequest
	if err := bindBody(c, &req); err != nil {
		l.Warn("update_review_failed", "status", 422, "reason", "invalid body", "error", err)
		return err
	}

	rv, err := h.Svc.Update(ctx, userID, id, req)
	if err != nil {
		return failure(l, "update_review_failed", err)
	}

	l.Info("update_review_success", "review_id", id)
	return c.JSON(http.StatusOK, rv)
}

func (h *ReviewHTTP) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.delete_review")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, userID, id); err != nil {
		return failure(l, "delete_review_failed", err)
	}

	l.Info("delete_review_success", "review_id", id)
	return c.NoContent(http.StatusNoContent)
}

func ratingFilter(c echo.Context) (repo.ReviewFilter, error) {
	var (
		f   repo.ReviewFilter
		err error
	)
	if f.MinRating, err = queryRating(c, "min_rating"); err != nil {
		return f, err
	}
	if f.MaxRating, err = queryRating(c, "max_rating"); err != nil {
		return f, err
	}
	return f, nil
}

func queryRating(c echo.Context, name string) (*int, error) {
	v, err := queryInt(c, name)
	if err != nil {
		return nil, err
	}
	if v != nil && (*v < 1 || *v > 5) {
		return nil, unprocessable("%s must be between 1 and 5", name)
	}
	return v, nil
}
