package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UncategorizedName is shown for products whose category is unset or no longer exists.
const UncategorizedName = "Uncategorized"

// Product represents a sellable item of the catalog.
// CategoryID is a weak reference; it may point at a deleted category.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;size:32"`
	Name        string          `json:"name" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	ImageURL    string          `json:"image_url"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	Description string          `json:"description,omitempty"`
	CategoryID  string          `json:"category_id,omitempty" gorm:"size:64;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// IsAvailable reports whether the product can be added to a cart.
func (p *Product) IsAvailable() bool {
	return p.Stock > 0
}

// ProductDraft holds the caller supplied fields of a new product.
type ProductDraft struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Stock       int             `json:"stock"`
	Description string          `json:"description,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
}

// ProductPatch is a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string          `json:"name,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Description *string          `json:"description,omitempty"`
	CategoryID  *string          `json:"category_id,omitempty"`
}

// Columns maps the provided fields to their columns. Absent fields are left
// out so a partial update never rewrites them.
func (patch ProductPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if patch.Name != nil {
		cols["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Price != nil {
		cols["price"] = *patch.Price
	}
	if patch.ImageURL != nil {
		cols["image_url"] = *patch.ImageURL
	}
	if patch.Stock != nil {
		cols["stock"] = *patch.Stock
	}
	if patch.Description != nil {
		cols["description"] = *patch.Description
	}
	if patch.CategoryID != nil {
		cols["category_id"] = *patch.CategoryID
	}
	return cols
}

// Apply merges the provided fields into p.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
}

// Sort orders accepted by ProductFilter.
const (
	SortDefault  = ""
	SortNameAsc  = "asc"
	SortNameDesc = "desc"
)

// ProductFilter narrows a product listing. Zero value lists everything in creation order.
type ProductFilter struct {
	Search     string
	CategoryID string
	Sort       string
}

// StockLine is one product quantity taken from or returned to stock.
type StockLine struct {
	ProductID string
	Quantity  int
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)
	Exists(ctx context.Context, id string) (bool, error)
	// Update writes only the given columns of id.
	Update(ctx context.Context, id string, columns map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)

	// AdjustStock adds delta to the stock of id. Missing products are ignored.
	AdjustStock(ctx context.Context, id string, delta int) error
	// ReserveStock checks every line and then decrements all of them.
	// Lines for missing products are skipped. On error nothing is reserved
	// provided the call runs inside a transaction.
	ReserveStock(ctx context.Context, lines []StockLine) error
	// ReleaseStock credits every line back. Missing products are skipped.
	ReleaseStock(ctx context.Context, lines []StockLine) error
}
