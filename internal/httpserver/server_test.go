package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/dbtest"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
)

type testEnv struct {
	T *testing.T
	E *echo.Echo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := dbtest.New(t)
	r := repo.New(gdb)
	ev := service.NopPublisher{}

	e := New(logging.NewWithWriter(io.Discard, "error"), nil)
	Register(e, &Deps{
		DB:         gdb,
		Auth:       &service.AuthService{Repo: r, TokenTTL: time.Hour},
		Catalog:    &service.CatalogService{Repo: r, Events: ev},
		Cart:       &service.CartService{Repo: r, Events: ev},
		Reviews:    &service.ReviewService{Repo: r, Events: ev},
		Promotions: &service.PromotionService{Repo: r, Events: ev},
	})
	return &testEnv{T: t, E: e}
}

func (env *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	env.T.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(env.T, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, rec)["detail"].(string)
}

// login registers username and returns a bearer token for it.
func (env *testEnv) login(username string) string {
	env.T.Helper()
	rec := env.do(http.MethodPost, "/auth/register", map[string]string{
		"username": username, "name": "N", "last_name": "L",
		"email": username + "@example.com", "password": "password1",
	}, "")
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, "/auth/login", map[string]string{"username": username, "password": "password1"}, "")
	require.Equal(env.T, http.StatusOK, rec.Code, rec.Body.String())
	tok := decode[map[string]any](env.T, rec)
	require.Equal(env.T, "bearer", tok["token_type"])
	return tok["access_token"].(string)
}

func (env *testEnv) create(path string, body any, token, idField string) string {
	env.T.Helper()
	rec := env.do(http.MethodPost, path, body, token)
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[map[string]any](env.T, rec)[idField].(string)
}

type pageBody struct {
	Items    []map[string]any `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Pages    int              `json:"pages"`
}

func TestCatalogEndToEnd(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	tok := env.login("admin")

	catID := env.create("/category", map[string]any{"name": "Tools"}, tok, "category_id")
	_, err := uuid.Parse(catID)
	require.NoError(t, err)

	prodID := env.create("/product", map[string]any{"name": "Drill", "price": 19.99, "category_id": catID}, tok, "product_id")
	env.create("/product", map[string]any{"name": "Saw", "price": 25, "category_id": catID}, tok, "product_id")

	rec := env.do(http.MethodGet, "/product?min_price=20", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[pageBody](t, rec)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Saw", page.Items[0]["name"])

	rec = env.do(http.MethodGet, "/product/"+prodID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.Equal(t, 19.99, got["price"])
	assert.Equal(t, "Tools", got["category"].(map[string]any)["name"])

	rec = env.do(http.MethodDelete, "/product/"+prodID, nil, tok)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, "/product/"+prodID, nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product with ID "+prodID+" not found", detail(t, rec))

	rec = env.do(http.MethodDelete, "/product/"+prodID, nil, tok)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodPost, "/product/"+prodID+"/restore", nil, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(http.MethodGet, "/product/"+prodID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCategoryConflictAndPaging(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	tok := env.login("admin")

	for _, name := range []string{"Garden", "Tools", "Kitchen"} {
		env.create("/category", map[string]any{"name": name}, tok, "category_id")
	}

	rec := env.do(http.MethodPost, "/category", map[string]any{"name": "Tools"}, tok)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Category with name 'Tools' already exists", detail(t, rec))

	rec = env.do(http.MethodGet, "/category?page=2&page_size=2", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[pageBody](t, rec)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, 2, page.PageSize)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Tools", page.Items[0]["name"])

	rec = env.do(http.MethodGet, "/category?page=9", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[pageBody](t, rec)
	assert.Empty(t, page.Items)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 1, page.Pages)

	rec = env.do(http.MethodGet, "/category?page=4611686018427387904&page_size=100", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[pageBody](t, rec)
	assert.Empty(t, page.Items)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 4611686018427387904, page.Page)
}

func TestCategoryPartialUpdate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	tok := env.login("admin")

	catID := env.create("/category", map[string]any{"name": "Tools"}, tok, "category_id")

	rec := env.do(http.MethodPut, "/category/"+catID, map[string]any{}, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Tools", decode[map[string]any](t, rec)["name"])

	rec = env.do(http.MethodPut, "/category/"+catID, map[string]any{"name": "Hand tools"}, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hand tools", decode[map[string]any](t, rec)["name"])

	rec = env.do(http.MethodPut, "/category/"+catID, map[string]any{"name": ""}, tok)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestProductRatingIgnoresClientValue(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	tok := env.login("admin")

	catID := env.create("/category", map[string]any{"name": "Tools"}, tok, "category_id")
	prodID := env.create("/product", map[string]any{"name": "Drill", "price": 5, "rating": 5, "category_id": catID}, tok, "product_id")

	rec := env.do(http.MethodGet, "/product/"+prodID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode[map[string]any](t, rec)["rating"])

	env.create("/review", map[string]any{"product_id": prodID, "text": "fine", "rating": 3}, tok, "review_id")

	rec = env.do(http.MethodPut, "/product/"+prodID, map[string]any{"rating": 5, "name": "Drill 2"}, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.EqualValues(t, 3, got["rating"])
	assert.Equal(t, "Drill 2", got["name"])
}

func TestAuthGate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/category", map[string]any{"name": "Tools"}, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authenticated", detail(t, rec))

	rec = env.do(http.MethodPost, "/category", map[string]any{"name": "Tools"}, "not-a-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Could not validate credentials", detail(t, rec))
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))

	rec = env.do(http.MethodGet, "/cart/items", nil, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodPost, "/auth/login", map[string]string{"username": "ghost", "password": "x"}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Incorrect username or password", detail(t, rec))

	env.login("bob")
	rec = env.do(http.MethodPost, "/auth/register", map[string]string{
		"username": "bob", "name": "B", "last_name": "B", "email": "other@example.com", "password": "password1",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	tok := env.login("val")
	catID := env.create("/category", map[string]any{"name": "Tools"}, tok, "category_id")
	prodID := env.create("/product", map[string]any{"name": "Drill", "price": 10, "category_id": catID}, tok, "product_id")

	now := time.Now().UTC()
	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{name: "bad uuid path", method: http.MethodGet, path: "/product/nope"},
		{name: "page zero", method: http.MethodGet, path: "/product?page=0"},
		{name: "page size too big", method: http.MethodGet, path: "/product?page_size=101"},
		{name: "non numeric filter", method: http.MethodGet, path: "/product?min_price=abc"},
		{name: "empty search", method: http.MethodGet, path: "/product/search?query=%20"},
		{name: "malformed json", method: http.MethodPost, path: "/category", body: "{"},
		{name: "missing name", method: http.MethodPost, path: "/category", body: map[string]any{}},
		{name: "negative price", method: http.MethodPost, path: "/product", body: map[string]any{"name": "X", "price": -1, "category_id": catID}},
		{name: "missing price", method: http.MethodPost, path: "/product", body: map[string]any{"name": "X", "category_id": catID}},
		{name: "min rating below one", method: http.MethodGet, path: "/review/product/" + prodID + "?min_rating=0"},
		{name: "max rating above five", method: http.MethodGet, path: "/review?max_rating=6"},
		{name: "rating above five", method: http.MethodPost, path: "/review", body: map[string]any{"product_id": prodID, "text": "t", "rating": 6}},
		{name: "zero quantity", method: http.MethodPost, path: "/cart/items", body: map[string]any{"product_id": prodID, "quantity": 0}},
		{name: "end before start", method: http.MethodPost, path: "/promotion", body: map[string]any{
			"name": "P", "description": "d", "start_date": now, "end_date": now.Add(-time.Hour),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(tt.method, tt.path, tt.body, tok)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			assert.NotEmpty(t, detail(t, rec))
		})
	}
}

func TestCartFlow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.login("alice")
	bob := env.login("bob")

	catID := env.create("/category", map[string]any{"name": "Tools"}, alice, "category_id")
	prodID := env.create("/product", map[string]any{"name": "Drill", "price": 10, "category_id": catID}, alice, "product_id")

	itemID := env.create("/cart/items", map[string]any{"product_id": prodID, "quantity": 3}, alice, "cart_item_id")
	rec := env.do(http.MethodPost, "/cart/items", map[string]any{"product_id": prodID, "quantity": 2}, alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	item := decode[map[string]any](t, rec)
	assert.Equal(t, itemID, item["cart_item_id"])
	assert.EqualValues(t, 5, item["quantity"])

	rec = env.do(http.MethodGet, "/cart/items", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[pageBody](t, rec)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Drill", page.Items[0]["product"].(map[string]any)["name"])

	rec = env.do(http.MethodGet, "/cart/items/"+itemID, nil, bob)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Cart item with ID "+itemID+" not found", detail(t, rec))

	rec = env.do(http.MethodPut, "/cart/items/"+itemID, map[string]any{"quantity": 7}, alice)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/cart/count", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 7, decode[map[string]any](t, rec)["count"])

	rec = env.do(http.MethodPost, "/cart/items", map[string]any{"product_id": uuid.NewString()}, alice)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodDelete, "/cart/items", nil, alice)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(http.MethodGet, "/cart/count", nil, alice)
	assert.EqualValues(t, 0, decode[map[string]any](t, rec)["count"])
}

func TestReviewFlow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.login("alice")
	bob := env.login("bob")

	catID := env.create("/category", map[string]any{"name": "Tools"}, alice, "category_id")
	prodID := env.create("/product", map[string]any{"name": "Drill", "price": 10, "category_id": catID}, alice, "product_id")

	reviewID := env.create("/review", map[string]any{"product_id": prodID, "text": "great", "rating": 5}, alice, "review_id")
	env.create("/review", map[string]any{"product_id": prodID, "text": "ok", "rating": 4}, bob, "review_id")

	rec := env.do(http.MethodPost, "/review", map[string]any{"product_id": prodID, "text": "again", "rating": 1}, alice)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You have already reviewed this product", detail(t, rec))

	rec = env.do(http.MethodPut, "/review/"+reviewID, map[string]any{"text": "mine now"}, bob)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You don't have permission to update this review", detail(t, rec))

	rec = env.do(http.MethodGet, "/review/statistics/"+prodID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	assert.Equal(t, 4.5, stats["average_rating"])
	assert.EqualValues(t, 2, stats["total_reviews"])
	counts := stats["rating_counts"].(map[string]any)
	assert.EqualValues(t, 1, counts["5_star"])
	assert.EqualValues(t, 1, counts["4_star"])
	assert.EqualValues(t, 0, counts["1_star"])

	rec = env.do(http.MethodGet, "/product/"+prodID, nil, "")
	assert.Equal(t, 4.5, decode[map[string]any](t, rec)["rating"])

	rec = env.do(http.MethodGet, "/review/my", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[pageBody](t, rec).Total)

	rec = env.do(http.MethodGet, "/review/product/"+prodID+"?min_rating=5", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[pageBody](t, rec)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.EqualValues(t, 5, page.Items[0]["rating"])

	rec = env.do(http.MethodGet, "/review/product/"+prodID+"?max_rating=4", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[pageBody](t, rec)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.EqualValues(t, 4, page.Items[0]["rating"])

	rec = env.do(http.MethodGet, "/review/product/"+uuid.NewString(), nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodDelete, "/review/"+reviewID, nil, alice)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(http.MethodGet, "/review/"+reviewID, nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPromotionFlow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	tok := env.login("marketing")

	catID := env.create("/category", map[string]any{"name": "Tools"}, tok, "category_id")
	drill := env.create("/product", map[string]any{"name": "Drill", "price": 10, "category_id": catID}, tok, "product_id")
	ghost := uuid.NewString()

	now := time.Now().UTC()
	promoID := env.create("/promotion", map[string]any{
		"name": "Spring", "description": "sale",
		"start_date": now.Add(-time.Hour), "end_date": now.Add(time.Hour),
		"product_ids": []string{drill, ghost},
	}, tok, "promotion_id")

	rec := env.do(http.MethodGet, "/promotion/"+promoID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	products := decode[map[string]any](t, rec)["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, drill, products[0].(map[string]any)["product_id"])

	rec = env.do(http.MethodPost, "/promotion/"+promoID+"/products", map[string]any{"product_ids": []string{ghost}}, tok)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Product with ID "+ghost+" not found", detail(t, rec))

	rec = env.do(http.MethodPost, "/promotion/"+promoID+"/products", map[string]any{"product_ids": []string{}}, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[map[string]any](t, rec)["products"])

	rec = env.do(http.MethodGet, "/promotion/active", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = env.do(http.MethodGet, "/promotion?active_only=true", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[pageBody](t, rec).Total)

	rec = env.do(http.MethodDelete, "/promotion/"+promoID, nil, tok)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(http.MethodGet, "/promotion/"+promoID, nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndSearch(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])

	rec = env.do(http.MethodGet, "/health/db", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Database connection established", decode[map[string]string](t, rec)["status"])

	rec = env.do(http.MethodGet, "/search?q=drill", nil, "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Full-text search is not configured", detail(t, rec))

	rec = env.do(http.MethodGet, "/nowhere", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", detail(t, rec))
}
