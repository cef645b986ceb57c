package session

import (
	"context"

	catalog "github.com/tair/pickup-store/internal/catalog/domain"
	identity "github.com/tair/pickup-store/internal/identity/domain"
	order "github.com/tair/pickup-store/internal/order/domain"
)

// Account is the result of a successful login.
type Account struct {
	User    identity.User
	IsAdmin bool
}

// Backend is the store surface a session talks to. Errors carry the
// apperror kinds so callers can use errors.Is.
type Backend interface {
	Login(ctx context.Context, userID string) (*Account, error)
	Register(ctx context.Context, name string) (*identity.User, error)
	AddUser(ctx context.Context, user identity.User) (*identity.User, error)
	ListUsers(ctx context.Context) ([]identity.User, error)

	ListProducts(ctx context.Context) ([]catalog.Product, error)
	CreateProduct(ctx context.Context, draft catalog.ProductDraft) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id string, patch catalog.ProductPatch) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	CreateCategory(ctx context.Context, name string) (*catalog.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	PlaceOrder(ctx context.Context, draft order.Draft) (*order.Order, error)
	ListOrders(ctx context.Context, requesterID string) ([]order.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error)
	CancelOrder(ctx context.Context, orderID, customerID string) (*order.Order, error)
}
