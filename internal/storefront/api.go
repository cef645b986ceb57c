// Package storefront assembles the store's HTTP API from its modules.
package storefront

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"gorm.io/gorm"

	catalogHTTP "github.com/tair/pickup-store/internal/catalog/delivery/http"
	identityHTTP "github.com/tair/pickup-store/internal/identity/delivery/http"
	orderHTTP "github.com/tair/pickup-store/internal/order/delivery/http"
	"github.com/tair/pickup-store/pkg/cache"
	"github.com/tair/pickup-store/pkg/middleware"
)

// API is the storefront's HTTP surface
type API struct {
	catalog  *catalogHTTP.CatalogHandler
	users    *identityHTTP.UserHandler
	orders   *orderHTTP.OrderHandler
	health   *HealthChecker
	gatherer prometheus.Gatherer
}

// NewAPI creates the API from its module handlers
func NewAPI(
	catalog *catalogHTTP.CatalogHandler,
	users *identityHTTP.UserHandler,
	orders *orderHTTP.OrderHandler,
	db *gorm.DB,
	responseCache *cache.ResponseCache,
	gatherer prometheus.Gatherer,
) *API {
	return &API{
		catalog:  catalog,
		users:    users,
		orders:   orders,
		health:   NewHealthChecker(db, responseCache),
		gatherer: gatherer,
	}
}

// Handler returns the routed API wrapped in the middleware chain.
func (a *API) Handler(cfg *middleware.Config) http.Handler {
	router := mux.NewRouter()
	middleware.Register(router, cfg)

	a.catalog.RegisterRoutes(router)
	a.users.RegisterRoutes(router)
	a.orders.RegisterRoutes(router)

	router.HandleFunc("/health", a.health.ServeHTTP).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return middleware.CORS(cfg, router)
}
