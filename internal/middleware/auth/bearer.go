package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
)

const (
	userIDKey = "user_id"
	tokenKey  = "token"

	notAuthenticated = "Not authenticated"
)

type BearerAuth struct {
	Svc *service.AuthService
}

func NewBearerAuth(svc *service.AuthService) *BearerAuth {
	return &BearerAuth{Svc: svc}
}

// RequireToken accepts any stored token, expired or not.
func (m *BearerAuth) RequireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, false)
}

// RequireFreshToken also rejects tokens past their expiry.
func (m *BearerAuth) RequireFreshToken(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, true)
}

func (m *BearerAuth) require(next echo.HandlerFunc, fresh bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "bearer_auth")

		raw, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			l.Warn("auth_failed", "status", 403, "reason", "missing bearer credentials")
			return echo.NewHTTPError(http.StatusForbidden, notAuthenticated)
		}

		tok, err := m.Svc.Authenticate(ctx, raw, fresh)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				l.Warn("auth_failed", "status", 401, "reason", "invalid token", "error", err)
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return echo.NewHTTPError(http.StatusUnauthorized, service.Detail(err))
			}
			l.Error("auth_failed", "status", 500, "reason", "cannot load token", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
		}

		c.Set(userIDKey, tok.UserID)
		c.Set(tokenKey, tok)
		c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, logging.FromContext(ctx).With("user_id", tok.UserID))))
		return next(c)
	}
}

func bearer(header string) (string, bool) {
	scheme, cred, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	cred = strings.TrimSpace(cred)
	return cred, cred != ""
}

// UserID returns the authenticated caller set by the middleware.
func UserID(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get(userIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusForbidden, notAuthenticated)
	}
	return id, nil
}

func Token(c echo.Context) *models.UserToken {
	tok, _ := c.Get(tokenKey).(*models.UserToken)
	return tok
}
