package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	catalog "github.com/tair/pickup-store/internal/catalog/domain"
)

// Item is a line of an order: a snapshot of the product taken when it was
// put in the cart, plus the quantity. JSON "id" is the product id.
type Item struct {
	LineID      uint            `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID     string          `json:"-" gorm:"size:40;index;not null"`
	Position    int             `json:"-" gorm:"not null"`
	ProductID   string          `json:"id" gorm:"size:32;not null"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	ImageURL    string          `json:"image_url"`
	Description string          `json:"description,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	Quantity    int             `json:"quantity" gorm:"not null"`
}

// TableName specifies the table name
func (Item) TableName() string {
	return "order_items"
}

// Subtotal is price times quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemFromProduct snapshots a product as a cart line.
func ItemFromProduct(p catalog.Product, quantity int) Item {
	return Item{
		ProductID:   p.ID,
		Name:        p.Name,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Quantity:    quantity,
	}
}

// Order is a customer's scheduled pickup. Only Status changes after creation.
type Order struct {
	ID         string          `json:"id" gorm:"primaryKey;size:40"`
	CustomerID string          `json:"customer_id" gorm:"size:32;index;not null"`
	Items      []Item          `json:"items" gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	Total      decimal.Decimal `json:"total" gorm:"type:numeric(12,2);not null"`
	PickupDate string          `json:"pickup_date" gorm:"not null"`
	PickupTime string          `json:"pickup_time" gorm:"not null"`
	Status     Status          `json:"status" gorm:"size:16;index;not null"`
	CreatedAt  time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// StockLines returns the quantities this order holds in stock.
func (o *Order) StockLines() []catalog.StockLine {
	lines := make([]catalog.StockLine, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, catalog.StockLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}

// ComputeTotal sums the line subtotals.
func ComputeTotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Draft is an order as submitted by a client. Total is advisory; the
// stored total is always recomputed from the items.
type Draft struct {
	CustomerID string           `json:"customer_id"`
	Items      []Item           `json:"items"`
	Total      *decimal.Decimal `json:"total,omitempty"`
	PickupDate string           `json:"pickup_date"`
	PickupTime string           `json:"pickup_time"`
}

// ListScope selects which orders a listing returns.
// All lists every order oldest first; otherwise only CustomerID's orders, newest first.
type ListScope struct {
	CustomerID string
	All        bool
}

// Repository defines the contract for order data access
type Repository interface {
	// Create reserves stock for every line and stores the order in one transaction.
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	FindAll(ctx context.Context, scope ListScope) ([]Order, error)
	Exists(ctx context.Context, id string) (bool, error)
	// TransitionStatus moves the order to status and returns it with its
	// previous status. Entering cancelled releases stock exactly once.
	// A same-status request changes nothing.
	TransitionStatus(ctx context.Context, id string, status Status) (*Order, Status, error)
}

// EventPublisher receives order lifecycle events after they are committed.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *Order) error
	PublishStatusChanged(ctx context.Context, order *Order, previous Status) error
}
