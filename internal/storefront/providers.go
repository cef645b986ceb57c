package storefront

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	catalogHTTP "github.com/tair/pickup-store/internal/catalog/delivery/http"
	catalog "github.com/tair/pickup-store/internal/catalog/domain"
	catalogRepo "github.com/tair/pickup-store/internal/catalog/repository"
	catalogCommand "github.com/tair/pickup-store/internal/catalog/usecase/command"
	catalogQuery "github.com/tair/pickup-store/internal/catalog/usecase/query"
	identityHTTP "github.com/tair/pickup-store/internal/identity/delivery/http"
	identity "github.com/tair/pickup-store/internal/identity/domain"
	identityRepo "github.com/tair/pickup-store/internal/identity/repository"
	identityCommand "github.com/tair/pickup-store/internal/identity/usecase/command"
	identityQuery "github.com/tair/pickup-store/internal/identity/usecase/query"
	orderHTTP "github.com/tair/pickup-store/internal/order/delivery/http"
	order "github.com/tair/pickup-store/internal/order/domain"
	orderRepo "github.com/tair/pickup-store/internal/order/repository"
	orderCommand "github.com/tair/pickup-store/internal/order/usecase/command"
	orderQuery "github.com/tair/pickup-store/internal/order/usecase/query"
	"github.com/tair/pickup-store/pkg/middleware"
)

// MetricsNamespace prefixes the per-route request metrics.
const MetricsNamespace = "storefront"

// ProvideProductRepository provides the traced product repository
func ProvideProductRepository(db *gorm.DB) catalog.ProductRepository {
	return catalogRepo.NewProductRepositoryWithTracing(catalogRepo.NewGormProductRepository(db))
}

// ProvideCategoryRepository provides the traced category repository
func ProvideCategoryRepository(db *gorm.DB) catalog.CategoryRepository {
	return catalogRepo.NewCategoryRepositoryWithTracing(catalogRepo.NewGormCategoryRepository(db))
}

// ProvideUserRepository provides the user repository
func ProvideUserRepository(db *gorm.DB) identity.UserRepository {
	return identityRepo.NewGormUserRepository(db)
}

// ProvideOrderRepository provides the order repository
func ProvideOrderRepository(db *gorm.DB) order.Repository {
	return orderRepo.NewGormOrderRepository(db)
}

// ProvideMetrics provides the request metrics shared by every handler
func ProvideMetrics(reg prometheus.Registerer) *middleware.Metrics {
	return middleware.NewMetrics(reg, MetricsNamespace)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideProductRepository,
	ProvideCategoryRepository,
	ProvideUserRepository,
	ProvideOrderRepository,
)

var CatalogSet = wire.NewSet(
	catalogCommand.NewCreateProductHandler,
	catalogCommand.NewUpdateProductHandler,
	catalogCommand.NewDeleteProductHandler,
	catalogCommand.NewAdjustStockHandler,
	catalogCommand.NewCreateCategoryHandler,
	catalogCommand.NewDeleteCategoryHandler,
	catalogQuery.NewGetProductHandler,
	catalogQuery.NewListProductsHandler,
	catalogQuery.NewGetStatsHandler,
	catalogQuery.NewListCategoriesHandler,
	catalogHTTP.NewCatalogHandlerWithDI,
)

var IdentitySet = wire.NewSet(
	identityCommand.NewLoginUserHandler,
	identityCommand.NewRegisterUserHandler,
	identityCommand.NewAddUserHandler,
	identityQuery.NewGetUserHandler,
	identityQuery.NewListUsersHandler,
	identityHTTP.NewUserHandlerWithDI,
)

var OrderSet = wire.NewSet(
	orderCommand.NewCreateOrderHandler,
	orderCommand.NewUpdateStatusHandler,
	orderCommand.NewCancelOrderHandler,
	orderQuery.NewListOrdersHandler,
	orderQuery.NewGetOrderHandler,
	orderHTTP.NewOrderHandlerWithDI,
)

var APISet = wire.NewSet(
	RepositorySet,
	CatalogSet,
	IdentitySet,
	OrderSet,
	ProvideMetrics,
	NewAPI,
)
