package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bindBody(c, &req); err != nil {
		l.Warn("register_failed", "status", 422, "reason", "invalid body", "error", err)
		return err
	}

	u, err := h.Svc.Register(ctx, req)
	if err != nil {
		return failure(l, "register_failed", err)
	}

	l.Info("register_success", "user_id", u.ID)
	return c.JSON(http.StatusCreated, u)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bindBody(c, &req); err != nil {
		l.Warn("login_failed", "status", 422, "reason", "invalid body", "error", err)
		return err
	}

	tok, err := h.Svc.Login(ctx, req)
	if err != nil {
		return failure(l, "login_failed", err)
	}

	l.Info("login_success", "user_id", tok.UserID)
	return c.JSON(http.StatusOK, transport.TokenResponse{
		AccessToken: tok.ID,
		TokenType:   "bearer",
		ExpiredAt:   tok.ExpiredAt,
	})
}
