//go:build wireinject
// +build wireinject

package storefront

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	order "github.com/tair/pickup-store/internal/order/domain"
	"github.com/tair/pickup-store/pkg/auth"
	"github.com/tair/pickup-store/pkg/cache"
)

// InitializeAPI builds every repository, use case and handler of the API
func InitializeAPI(
	db *gorm.DB,
	responseCache *cache.ResponseCache,
	publisher order.EventPublisher,
	issuer *auth.Issuer,
	registry *prometheus.Registry,
) (*API, error) {
	wire.Build(
		APISet,
		wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
		wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
	)
	return nil, nil
}
