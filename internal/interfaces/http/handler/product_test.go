package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/ecomsync/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	products   []commerce.Product
	lastFilter shared.Filter
}

func (f *fakeProductRepo) Upsert(context.Context, *commerce.Product) (commerce.UpsertOutcome, error) {
	return commerce.UpsertInserted, nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uint) (*commerce.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProductRepo) FindByNaturalKey(context.Context, commerce.Platform, string) (*commerce.Product, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeProductRepo) List(_ context.Context, filter shared.Filter) ([]commerce.Product, int64, error) {
	f.lastFilter = filter
	return f.products, int64(len(f.products)), nil
}

func newProductRouter(repo *fakeProductRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api")
	NewProductHandler(repo).RegisterRoutes(api)
	return engine
}

func TestProductHandlerList(t *testing.T) {
	repo := &fakeProductRepo{products: []commerce.Product{
		{ID: 1, Platform: commerce.PlatformShopify, PlatformID: "p1", Title: "Hoodie", Price: decimal.RequireFromString("39.99"), Currency: "USD", Quantity: 5},
	}}
	engine := newProductRouter(repo)

	t.Run("returns envelope with meta", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/products?page=2&per_page=10", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data []commerce.Product `json:"data"`
			Meta struct {
				Page    int   `json:"page"`
				PerPage int   `json:"per_page"`
				Total   int64 `json:"total"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Len(t, body.Data, 1)
		assert.Equal(t, 2, body.Meta.Page)
		assert.Equal(t, 10, body.Meta.PerPage)
		assert.Equal(t, int64(1), body.Meta.Total)
	})

	t.Run("passes filters to the repository", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/products?platform=shopify&min_price=10&max_price=50&min_quantity=1&search=hoodie", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, commerce.PlatformShopify, repo.lastFilter.Filters["platform"])
		assert.Equal(t, 10.0, repo.lastFilter.Filters["min_price"])
		assert.Equal(t, 50.0, repo.lastFilter.Filters["max_price"])
		assert.Equal(t, 1, repo.lastFilter.Filters["min_quantity"])
		assert.Equal(t, "hoodie", repo.lastFilter.Search)
	})

	t.Run("rejects unknown platform", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/products?platform=etsy", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects non-numeric price bound", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/products?min_price=cheap", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("caps per_page", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/products?per_page=10000", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, maxPageSize, repo.lastFilter.PageSize)
	})
}

func TestProductHandlerGet(t *testing.T) {
	repo := &fakeProductRepo{products: []commerce.Product{
		{ID: 7, Platform: commerce.PlatformShopify, PlatformID: "p7", Title: "Mug", Price: decimal.RequireFromString("14.50"), Currency: "USD"},
	}}
	engine := newProductRouter(repo)

	t.Run("found", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/products/7", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data commerce.Product `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Mug", body.Data.Title)
	})

	t.Run("missing returns 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/products/999", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric id returns 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/products/abc", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
