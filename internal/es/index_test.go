package es

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

type seenRequest struct {
	Method string
	Path   string
	Body   string
}

type fakeES struct {
	mu   sync.Mutex
	seen []seenRequest
	srv  *httptest.Server
}

func newFakeES(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) *fakeES {
	t.Helper()
	f := &fakeES{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.seen = append(f.seen, seenRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		f.mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handle(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeES) last() seenRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[len(f.seen)-1]
}

func (f *fakeES) index(t *testing.T) *ProductIndex {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{f.srv.URL}})
	require.NoError(t, err)
	return NewProductIndex(client, "products")
}

func TestSearchProductsReturnsIDsInRankOrder(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	f := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":7},"hits":[{"_id":"`+b.String()+`"},{"_id":"junk"},{"_id":"`+a.String()+`"}]}}`)
	})

	total, ids, err := f.index(t).SearchProducts(context.Background(), "drill", 10, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.Equal(t, []uuid.UUID{b, a}, ids)

	req := f.last()
	assert.Equal(t, "/products/_search", req.Path)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.Body), &body))
	assert.EqualValues(t, 10, body["from"])
	assert.EqualValues(t, 5, body["size"])
	mm := body["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "drill", mm["query"])
	assert.Equal(t, "AUTO", mm["fuzziness"])
}

func TestIndexProductWritesDocument(t *testing.T) {
	f := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	p := &models.Product{ID: uuid.New(), Name: "Drill", Price: decimal.RequireFromString("19.99"), Rating: 4.5, CategoryID: uuid.New()}
	require.NoError(t, f.index(t).IndexProduct(context.Background(), p))

	req := f.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/products/_doc/"+p.ID.String(), req.Path)

	var doc productDoc
	require.NoError(t, json.Unmarshal([]byte(req.Body), &doc))
	assert.Equal(t, "Drill", doc.Name)
	assert.Equal(t, 19.99, doc.Price)
	assert.Equal(t, p.CategoryID.String(), doc.CategoryID)
}

func TestRemoveProductIgnoresMissingDocument(t *testing.T) {
	f := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	})

	id := uuid.New()
	require.NoError(t, f.index(t).RemoveProduct(context.Background(), id))
	assert.Equal(t, http.MethodDelete, f.last().Method)
	assert.Equal(t, "/products/_doc/"+id.String(), f.last().Path)
}

func TestSearchProductsSurfacesErrors(t *testing.T) {
	f := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"bad query"}`)
	})

	_, _, err := f.index(t).SearchProducts(context.Background(), "x", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad query")
}

func TestNewClientChecksCluster(t *testing.T) {
	f := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`)
	})

	client, err := NewClient(context.Background(), Options{URL: f.srv.URL}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.Equal(t, "/", f.last().Path)
}
