package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/dbtest"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type authEnv struct {
	e     *echo.Echo
	repo  *repo.GormRepo
	user  *models.User
	token string
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()
	ctx := context.Background()
	r := repo.New(dbtest.New(t))
	svc := &service.AuthService{Repo: r, TokenTTL: time.Hour}

	u, err := svc.Register(ctx, transport.RegisterRequest{
		Username: "dora", Name: "D", LastName: "E", Email: "dora@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	tok, err := svc.Login(ctx, transport.LoginRequest{Username: "dora", Password: "secret1"})
	require.NoError(t, err)

	mw := NewBearerAuth(svc)
	e := echo.New()
	whoami := func(c echo.Context) error {
		id, err := UserID(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, id.String())
	}
	e.GET("/fresh", whoami, mw.RequireFreshToken)
	e.GET("/any", whoami, mw.RequireToken)

	return &authEnv{e: e, repo: r, user: u, token: tok.ID}
}

func (env *authEnv) do(path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func TestBearerAuth(t *testing.T) {
	env := newAuthEnv(t)

	stale := &models.UserToken{ID: uuid.NewString(), UserID: env.user.ID, ExpiredAt: time.Now().UTC().Add(-time.Minute)}
	require.NoError(t, env.repo.CreateToken(context.Background(), stale))

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
		wantChalg  bool
	}{
		{name: "no header", path: "/fresh", wantStatus: http.StatusForbidden, wantBody: "Not authenticated"},
		{name: "wrong scheme", path: "/fresh", header: "Basic abc", wantStatus: http.StatusForbidden, wantBody: "Not authenticated"},
		{name: "empty credential", path: "/fresh", header: "Bearer ", wantStatus: http.StatusForbidden},
		{name: "unknown token", path: "/fresh", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantBody: "Could not validate credentials", wantChalg: true},
		{name: "valid token", path: "/fresh", header: "Bearer " + env.token, wantStatus: http.StatusOK, wantBody: env.user.ID.String()},
		{name: "lowercase scheme", path: "/fresh", header: "bearer " + env.token, wantStatus: http.StatusOK},
		{name: "expired token on fresh route", path: "/fresh", header: "Bearer " + stale.ID, wantStatus: http.StatusUnauthorized, wantChalg: true},
		{name: "expired token on lenient route", path: "/any", header: "Bearer " + stale.ID, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(tt.path, tt.header)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			if tt.wantChalg {
				assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
			}
		})
	}
}
