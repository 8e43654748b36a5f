package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/util"
)

var bodyBinder = &echo.DefaultBinder{}

func unprocessable(format string, args ...any) error {
	return echo.NewHTTPError(http.StatusUnprocessableEntity, fmt.Sprintf(format, args...))
}

// bindBody decodes the JSON body into req and validates it.
func bindBody(c echo.Context, req any) error {
	if err := bodyBinder.BindBody(c, req); err != nil {
		return unprocessable("Invalid request body")
	}
	return c.Validate(req)
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, unprocessable("%s must be a valid UUID", name)
	}
	return id, nil
}

func pageRequest(c echo.Context) (repo.PageRequest, error) {
	page, err := util.ParseIntDefault(c.QueryParam("page"), repo.DefaultPage)
	if err != nil || page < 1 {
		return repo.PageRequest{}, unprocessable("page must be an integer >= 1")
	}
	size, err := util.ParseIntDefault(c.QueryParam("page_size"), repo.DefaultPageSize)
	if err != nil || size < 1 || size > repo.MaxPageSize {
		return repo.PageRequest{}, unprocessable("page_size must be an integer between 1 and %d", repo.MaxPageSize)
	}
	return repo.PageRequest{Page: page, PageSize: size}, nil
}

// The query helpers return nil for an absent parameter and 422 for one
// that does not parse.

func queryInt(c echo.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, unprocessable("%s must be an integer", name)
	}
	return &v, nil
}

func queryFloat(c echo.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, unprocessable("%s must be a number", name)
	}
	return &v, nil
}

func queryDecimal(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, unprocessable("%s must be a number", name)
	}
	return &v, nil
}

func queryUUID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := uuid.Parse(raw)
	if err != nil {
		return nil, unprocessable("%s must be a valid UUID", name)
	}
	return &v, nil
}

func queryBool(c echo.Context, name string) (bool, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, unprocessable("%s must be a boolean", name)
	}
	return v, nil
}

func productFilter(c echo.Context) (repo.ProductFilter, error) {
	var (
		f   repo.ProductFilter
		err error
	)
	f.Name = strings.TrimSpace(c.QueryParam("name"))
	if f.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
		return f, err
	}
	if f.MinRating, err = queryFloat(c, "min_rating"); err != nil {
		return f, err
	}
	if f.CategoryID, err = queryUUID(c, "category_id"); err != nil {
		return f, err
	}
	return f, nil
}
