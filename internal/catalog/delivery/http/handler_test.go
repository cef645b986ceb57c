package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/pickup-store/internal/catalog/repository"
	"github.com/tair/pickup-store/pkg/cache"
	"github.com/tair/pickup-store/pkg/database"
	"github.com/tair/pickup-store/pkg/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func newRouter(t *testing.T) *mux.Router {
	t.Helper()
	db, err := database.NewInMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	products := repository.NewGormProductRepository(db)
	require.NoError(t, products.AutoMigrate())

	reg := prometheus.NewRegistry()
	h := NewCatalogHandler(
		products,
		repository.NewGormCategoryRepository(db),
		middleware.NewMetrics(reg, "test"),
		cache.NewResponseCache(nil, "catalog", 0),
		reg,
	)
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func do(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestProductLifecycle(t *testing.T) {
	router := newRouter(t)

	rec, env := do(t, router, http.MethodPost, "/api/products",
		`{"name":"Fresh Espresso","price":"180.00","stock":50,"image_url":"x","category_id":"cat-1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)

	var created struct {
		ID    string `json:"id"`
		Stock int    `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Regexp(t, `^P-`, created.ID)

	rec, env = do(t, router, http.MethodPatch, "/api/products/"+created.ID, `{"stock":3}`)
	require.Equal(t, http.StatusOK, rec.Code, env.Error)

	rec, env = do(t, router, http.MethodGet, "/api/products/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, 3, created.Stock)

	rec, _ = do(t, router, http.MethodDelete, "/api/products/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = do(t, router, http.MethodDelete, "/api/products/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = do(t, router, http.MethodGet, "/api/products/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Code)
}

func TestCreateProductRejectsInvalidInput(t *testing.T) {
	router := newRouter(t)

	for _, body := range []string{
		`{"price":"1","stock":1}`,
		`{"name":"Tea","stock":1}`,
		`{"name":"Tea","price":"-1","stock":1}`,
		`{"name":"Tea","price":"abc","stock":1}`,
		`{"name":"Tea","price":"1","stock":-2}`,
		`not json`,
	} {
		rec, env := do(t, router, http.MethodPost, "/api/products", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "validation", env.Code, body)
	}
}

func TestCategoriesAndFilters(t *testing.T) {
	router := newRouter(t)

	rec, env := do(t, router, http.MethodPost, "/api/categories", `{"name":"Coffee"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var category struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &category))

	do(t, router, http.MethodPost, "/api/products", `{"name":"Latte","price":"150","stock":5,"category_id":"`+category.ID+`"}`)
	do(t, router, http.MethodPost, "/api/products", `{"name":"Bagel","price":"90","stock":5}`)

	rec, env = do(t, router, http.MethodGet, "/api/products?category="+category.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var products []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Latte", products[0].Name)

	rec, env = do(t, router, http.MethodGet, "/api/products?sort=asc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &products))
	require.Len(t, products, 2)
	assert.Equal(t, "Bagel", products[0].Name)

	rec, _ = do(t, router, http.MethodDelete, "/api/categories/"+category.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = do(t, router, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestAdjustStockEndpoint(t *testing.T) {
	router := newRouter(t)

	rec, env := do(t, router, http.MethodPost, "/api/products", `{"name":"Scone","price":"75","stock":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var p struct {
		ID    string `json:"id"`
		Stock int    `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))

	rec, env = do(t, router, http.MethodPost, "/api/products/"+p.ID+"/stock", `{"delta":3}`)
	require.Equal(t, http.StatusOK, rec.Code, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, 5, p.Stock)

	rec, env = do(t, router, http.MethodPost, "/api/products/"+p.ID+"/stock", `{"delta":-6}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "insufficient_stock", env.Code)
}
