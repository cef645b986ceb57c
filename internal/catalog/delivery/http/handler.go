package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/tair/pickup-store/internal/catalog/domain"
	"github.com/tair/pickup-store/internal/catalog/usecase/command"
	"github.com/tair/pickup-store/internal/catalog/usecase/query"
	"github.com/tair/pickup-store/pkg/cache"
	"github.com/tair/pickup-store/pkg/httpx"
	"github.com/tair/pickup-store/pkg/logger"
	"github.com/tair/pickup-store/pkg/middleware"
)

// CatalogHandler handles HTTP requests for products and categories
type CatalogHandler struct {
	createHandler         *command.CreateProductHandler
	updateHandler         *command.UpdateProductHandler
	deleteHandler         *command.DeleteProductHandler
	adjustStockHandler    *command.AdjustStockHandler
	createCategoryHandler *command.CreateCategoryHandler
	deleteCategoryHandler *command.DeleteCategoryHandler

	getProductHandler     *query.GetProductHandler
	listHandler           *query.ListProductsHandler
	statsHandler          *query.GetStatsHandler
	listCategoriesHandler *query.ListCategoriesHandler

	metrics       *middleware.Metrics
	cache         *cache.ResponseCache
	totalProducts prometheus.Gauge
}

// NewCatalogHandler wires the handler from repositories (manual DI).
func NewCatalogHandler(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	metrics *middleware.Metrics,
	responseCache *cache.ResponseCache,
	reg prometheus.Registerer,
) *CatalogHandler {
	return NewCatalogHandlerWithDI(
		command.NewCreateProductHandler(products),
		command.NewUpdateProductHandler(products),
		command.NewDeleteProductHandler(products),
		command.NewAdjustStockHandler(products),
		command.NewCreateCategoryHandler(categories),
		command.NewDeleteCategoryHandler(categories),
		query.NewGetProductHandler(products),
		query.NewListProductsHandler(products),
		query.NewGetStatsHandler(products, categories),
		query.NewListCategoriesHandler(categories),
		metrics, responseCache, reg,
	)
}

// NewCatalogHandlerWithDI is the constructor used by Wire.
func NewCatalogHandlerWithDI(
	createHandler *command.CreateProductHandler,
	updateHandler *command.UpdateProductHandler,
	deleteHandler *command.DeleteProductHandler,
	adjustStockHandler *command.AdjustStockHandler,
	createCategoryHandler *command.CreateCategoryHandler,
	deleteCategoryHandler *command.DeleteCategoryHandler,
	getProductHandler *query.GetProductHandler,
	listHandler *query.ListProductsHandler,
	statsHandler *query.GetStatsHandler,
	listCategoriesHandler *query.ListCategoriesHandler,
	metrics *middleware.Metrics,
	responseCache *cache.ResponseCache,
	reg prometheus.Registerer,
) *CatalogHandler {
	totalProducts := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_catalog_products",
		Help: "Number of products in the catalog",
	})
	reg.MustRegister(totalProducts)

	return &CatalogHandler{
		createHandler:         createHandler,
		updateHandler:         updateHandler,
		deleteHandler:         deleteHandler,
		adjustStockHandler:    adjustStockHandler,
		createCategoryHandler: createCategoryHandler,
		deleteCategoryHandler: deleteCategoryHandler,
		getProductHandler:     getProductHandler,
		listHandler:           listHandler,
		statsHandler:          statsHandler,
		listCategoriesHandler: listCategoriesHandler,
		metrics:               metrics,
		cache:                 responseCache,
		totalProducts:         totalProducts,
	}
}

func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	cached := func(endpoint string, fn http.HandlerFunc) http.Handler {
		return h.cache.Middleware(h.metrics.Instrument(endpoint, fn))
	}

	router.Handle("/api/products", cached("/api/products", h.ListProducts)).Methods(http.MethodGet)
	router.Handle("/api/products/stats", cached("/api/products/stats", h.GetStats)).Methods(http.MethodGet)
	router.HandleFunc("/api/products/{id}", h.metrics.Instrument("/api/products/{id}", h.GetProduct)).Methods(http.MethodGet)
	router.HandleFunc("/api/products", h.metrics.Instrument("/api/products", h.CreateProduct)).Methods(http.MethodPost)
	router.HandleFunc("/api/products/{id}", h.metrics.Instrument("/api/products/{id}", h.UpdateProduct)).Methods(http.MethodPut, http.MethodPatch)
	router.HandleFunc("/api/products/{id}", h.metrics.Instrument("/api/products/{id}", h.DeleteProduct)).Methods(http.MethodDelete)
	router.HandleFunc("/api/products/{id}/stock", h.metrics.Instrument("/api/products/{id}/stock", h.AdjustStock)).Methods(http.MethodPost)

	router.Handle("/api/categories", cached("/api/categories", h.ListCategories)).Methods(http.MethodGet)
	router.HandleFunc("/api/categories", h.metrics.Instrument("/api/categories", h.CreateCategory)).Methods(http.MethodPost)
	router.HandleFunc("/api/categories/{id}", h.metrics.Instrument("/api/categories/{id}", h.DeleteCategory)).Methods(http.MethodDelete)
}

type createProductRequest struct {
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    string           `json:"image_url"`
	Stock       *int             `json:"stock"`
	Description string           `json:"description"`
	CategoryID  string           `json:"category_id"`
}

// CreateProduct handles POST /api/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	product, err := h.createHandler.Handle(r.Context(), command.CreateProductCommand{
		Name:        req.Name,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	h.catalogChanged(r)
	logger.Info(r.Context()).Str("product_id", product.ID).Msg("Product created")
	httpx.RespondData(w, http.StatusCreated, "Product created successfully", product)
}

// ListProducts handles GET /api/products?search=&category=&sort=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.listHandler.Handle(r.Context(), query.ListProductsQuery{
		Search:     q.Get("search"),
		CategoryID: q.Get("category"),
		Sort:       q.Get("sort"),
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, "", products)
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.getProductHandler.Handle(r.Context(), query.GetProductQuery{ID: mux.Vars(r)["id"]})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, "", product)
}

// UpdateProduct handles PUT and PATCH /api/products/{id}; both merge the given fields.
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProductPatch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	product, err := h.updateHandler.Handle(r.Context(), command.UpdateProductCommand{
		ID:    mux.Vars(r)["id"],
		Patch: patch,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	h.catalogChanged(r)
	httpx.RespondData(w, http.StatusOK, "Product updated successfully", product)
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.deleteHandler.Handle(r.Context(), command.DeleteProductCommand{ID: mux.Vars(r)["id"]}); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	h.catalogChanged(r)
	w.WriteHeader(http.StatusNoContent)
}

// AdjustStock handles POST /api/products/{id}/stock with a signed delta
func (h *CatalogHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.adjustStockHandler.Handle(r.Context(), command.AdjustStockCommand{ProductID: id, Delta: req.Delta}); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	h.catalogChanged(r)

	product, err := h.getProductHandler.Handle(r.Context(), query.GetProductQuery{ID: id})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, "Stock updated", product)
}

// GetStats handles GET /api/products/stats
func (h *CatalogHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle(r.Context(), query.GetStatsQuery{})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	h.totalProducts.Set(float64(stats.TotalProducts))
	httpx.RespondData(w, http.StatusOK, "", stats)
}

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.listCategoriesHandler.Handle(r.Context(), query.ListCategoriesQuery{})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, "", categories)
}

// CreateCategory handles POST /api/categories
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	category, err := h.createCategoryHandler.Handle(r.Context(), command.CreateCategoryCommand{Name: req.Name})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	h.catalogChanged(r)
	httpx.RespondData(w, http.StatusCreated, "Category created successfully", category)
}

// DeleteCategory handles DELETE /api/categories/{id}
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.deleteCategoryHandler.Handle(r.Context(), command.DeleteCategoryCommand{ID: mux.Vars(r)["id"]}); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	h.catalogChanged(r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) catalogChanged(r *http.Request) {
	h.cache.InvalidateQuietly(r.Context())
}
