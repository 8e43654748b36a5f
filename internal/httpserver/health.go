package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/logging"
)

const dbCheckTimeout = 3 * time.Second

type HealthHTTP struct {
	DB *gorm.DB
}

func (h *HealthHTTP) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHTTP) Database(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbCheckTimeout)
	defer cancel()

	if err := db.Ping(ctx, h.DB); err != nil {
		logging.FromContext(ctx).Error("db_health_failed", "status", 503, "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "Database connection failed",
			"details": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "Database connection established"})
}
