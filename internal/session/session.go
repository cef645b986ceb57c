package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tair/pickup-store/internal/apperror"
	catalog "github.com/tair/pickup-store/internal/catalog/domain"
	identity "github.com/tair/pickup-store/internal/identity/domain"
	order "github.com/tair/pickup-store/internal/order/domain"
	"github.com/tair/pickup-store/pkg/logger"
)

// PlacedMessage is the notification shown after a successful checkout.
const PlacedMessage = "Order placed! Pay Cash on Pickup."

// Notification is an in-memory message for the current user.
type Notification struct {
	ID        string
	Message   string
	Type      NotificationType
	Timestamp time.Time
}

// Session holds one client's view of the store: the logged in user, the
// cart it owns, cached reads refreshed by polling, and notifications.
type Session struct {
	backend Backend
	now     func() time.Time

	// poll serializes refreshes; ticks that find it held are skipped.
	poll sync.Mutex

	mu            sync.RWMutex
	account       *Account
	products      []catalog.Product
	categories    []catalog.Category
	users         []identity.User
	orders        []order.Order
	cart          []order.Item
	notifications []Notification
	snapshot      Snapshot
	onNotify      func(Notification)
}

// New creates a logged out session.
func New(backend Backend) *Session {
	return &Session{backend: backend, now: time.Now}
}

// OnNotify registers a callback run for every new notification.
func (s *Session) OnNotify(fn func(Notification)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onNotify = fn
}

// Login resolves id against the identity store. Unknown ids return false
// with no error; the session starts fresh with an empty cart.
func (s *Session) Login(ctx context.Context, id string) (bool, error) {
	account, err := s.backend.Login(ctx, strings.TrimSpace(id))
	if errors.Is(err, apperror.ErrUnauthenticated) || errors.Is(err, apperror.ErrValidation) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.reset()
	s.account = account
	s.mu.Unlock()

	logger.Component("session").Info().
		Str("user_id", account.User.ID).
		Bool("is_admin", account.IsAdmin).
		Msg("Logged in")

	s.refreshAfter(ctx, "login")
	return true, nil
}

// Logout forgets the user and everything tied to them.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Session) reset() {
	s.account = nil
	s.cart = nil
	s.orders = nil
	s.users = nil
	s.notifications = nil
	s.snapshot = Snapshot{}
}

// User returns the logged in user, or nil.
func (s *Session) User() *identity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return nil
	}
	u := s.account.User
	return &u
}

// IsAdmin reports whether a staff member is logged in.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account != nil && s.account.IsAdmin
}

func (s *Session) Products() []catalog.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]catalog.Product(nil), s.products...)
}

func (s *Session) Categories() []catalog.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]catalog.Category(nil), s.categories...)
}

func (s *Session) Users() []identity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]identity.User(nil), s.users...)
}

func (s *Session) Orders() []order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]order.Order(nil), s.orders...)
}

// Notifications returns the notifications, newest first.
func (s *Session) Notifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notification(nil), s.notifications...)
}

// CategoryName resolves a product's category id for display.
func (s *Session) CategoryName(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.CategoryName(s.categories, id)
}

// Notify adds a notification on top of the list.
func (s *Session) Notify(message string, kind NotificationType) Notification {
	s.mu.Lock()
	n := s.pushLocked(message, kind)
	hook := s.onNotify
	s.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	return n
}

func (s *Session) pushLocked(message string, kind NotificationType) Notification {
	n := Notification{ID: uuid.NewString(), Message: message, Type: kind, Timestamp: s.now()}
	s.notifications = append([]Notification{n}, s.notifications...)
	return n
}

// Dismiss removes a notification. It reports whether one was removed.
func (s *Session) Dismiss(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return true
		}
	}
	return false
}

// Refresh reloads the caches, waiting for a poll already in flight.
func (s *Session) Refresh(ctx context.Context) error {
	s.poll.Lock()
	defer s.poll.Unlock()
	return s.refresh(ctx)
}

// Poll refreshes unless another refresh is running, in which case it
// returns false straight away.
func (s *Session) Poll(ctx context.Context) (bool, error) {
	if !s.poll.TryLock() {
		return false, nil
	}
	defer s.poll.Unlock()
	return true, s.refresh(ctx)
}

func (s *Session) refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	account := s.account
	s.mu.RUnlock()

	products, err := s.backend.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	categories, err := s.backend.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	var (
		users  []identity.User
		orders []order.Order
	)
	if account != nil {
		if account.IsAdmin {
			if users, err = s.backend.ListUsers(ctx); err != nil {
				return fmt.Errorf("failed to load users: %w", err)
			}
		}
		if orders, err = s.backend.ListOrders(ctx, account.User.ID); err != nil {
			return fmt.Errorf("failed to load orders: %w", err)
		}
	}

	s.mu.Lock()
	s.products = products
	s.categories = categories
	// A logout or a different login while the poll ran makes the rest stale.
	if account == nil || s.account == nil || s.account.User.ID != account.User.ID {
		s.mu.Unlock()
		return nil
	}
	s.users = users
	s.orders = orders

	next := TakeSnapshot(orders, account.IsAdmin)
	events := DeriveEvents(s.snapshot, next)
	s.snapshot = next

	added := make([]Notification, 0, len(events))
	for _, e := range events {
		added = append(added, s.pushLocked(e.Message, e.Type))
	}
	hook := s.onNotify
	s.mu.Unlock()

	if hook != nil {
		for _, n := range added {
			hook(n)
		}
	}
	return nil
}

// refreshAfter refreshes following a successful write; a failed refresh
// only means the caches stay stale until the next poll.
func (s *Session) refreshAfter(ctx context.Context, action string) {
	if err := s.Refresh(ctx); err != nil {
		logger.Component("session").Warn().Err(err).Str("after", action).Msg("Refresh failed")
	}
}

// Cart returns a copy of the cart lines.
func (s *Session) Cart() []order.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]order.Item(nil), s.cart...)
}

// AddToCart puts one unit of p in the cart, merging with an existing line.
// Out of stock products are ignored and false is returned.
func (s *Session) AddToCart(p catalog.Product) bool {
	if p.Stock <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].ProductID == p.ID {
			s.cart[i].Quantity++
			return true
		}
	}
	s.cart = append(s.cart, order.ItemFromProduct(p, 1))
	return true
}

// RemoveFromCart drops the line for productID.
func (s *Session) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].ProductID == productID {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return
		}
	}
}

// SetCartQuantity sets a line's quantity; zero or less removes the line.
func (s *Session) SetCartQuantity(productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(productID)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].ProductID == productID {
			s.cart[i].Quantity = quantity
			return
		}
	}
}

// CartTotal is the sum of the cart lines.
func (s *Session) CartTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return order.ComputeTotal(s.cart)
}

// PlaceOrder submits the cart for pickup at the given date and time. On
// success only the submitted quantities leave the cart; on failure the cart
// is left as it was.
func (s *Session) PlaceOrder(ctx context.Context, pickupDate, pickupTime string) (*order.Order, error) {
	const op = "session.PlaceOrder"

	s.mu.RLock()
	account := s.account
	items := append([]order.Item(nil), s.cart...)
	s.mu.RUnlock()

	if account == nil {
		return nil, apperror.Unauthenticated(op, "log in to place an order")
	}
	if len(items) == 0 {
		return nil, apperror.Validation(op, "cart is empty")
	}

	total := order.ComputeTotal(items)
	placed, err := s.backend.PlaceOrder(ctx, order.Draft{
		CustomerID: account.User.ID,
		Items:      items,
		Total:      &total,
		PickupDate: pickupDate,
		PickupTime: pickupTime,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.account == nil || s.account.User.ID != account.User.ID {
		// the user changed while the order was in flight
		s.mu.Unlock()
		return placed, nil
	}
	s.cart = subtractLines(s.cart, items)
	s.mu.Unlock()
	s.Notify(PlacedMessage, NotificationSuccess)
	s.refreshAfter(ctx, "place order")
	return placed, nil
}

// subtractLines takes the ordered quantities off cart, dropping lines that
// reach zero. Lines added after the order was sent stay.
func subtractLines(cart, ordered []order.Item) []order.Item {
	taken := make(map[string]int, len(ordered))
	for _, item := range ordered {
		taken[item.ProductID] += item.Quantity
	}
	kept := cart[:0]
	for _, item := range cart {
		item.Quantity -= taken[item.ProductID]
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}
	return kept
}

// CancelOrder withdraws one of the customer's own pending orders.
func (s *Session) CancelOrder(ctx context.Context, orderID string) (*order.Order, error) {
	account, err := s.requireAccount("session.CancelOrder")
	if err != nil {
		return nil, err
	}
	o, err := s.backend.CancelOrder(ctx, orderID, account.User.ID)
	if err != nil {
		return nil, err
	}
	s.refreshAfter(ctx, "cancel order")
	return o, nil
}

// Register creates a customer account. No login is required.
func (s *Session) Register(ctx context.Context, name string) (*identity.User, error) {
	return s.backend.Register(ctx, name)
}

func (s *Session) requireAccount(op string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return nil, apperror.Unauthenticated(op, "not logged in")
	}
	return s.account, nil
}

func (s *Session) requireAdmin(op string) error {
	account, err := s.requireAccount(op)
	if err != nil {
		return err
	}
	if !account.IsAdmin {
		return apperror.Unauthenticated(op, "staff only")
	}
	return nil
}

// UpdateStatus moves an order through fulfilment.
func (s *Session) UpdateStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error) {
	if err := s.requireAdmin("session.UpdateStatus"); err != nil {
		return nil, err
	}
	o, err := s.backend.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	s.refreshAfter(ctx, "update status")
	return o, nil
}

func (s *Session) CreateProduct(ctx context.Context, draft catalog.ProductDraft) (*catalog.Product, error) {
	if err := s.requireAdmin("session.CreateProduct"); err != nil {
		return nil, err
	}
	p, err := s.backend.CreateProduct(ctx, draft)
	if err != nil {
		return nil, err
	}
	s.refreshAfter(ctx, "create product")
	return p, nil
}

func (s *Session) UpdateProduct(ctx context.Context, id string, patch catalog.ProductPatch) (*catalog.Product, error) {
	if err := s.requireAdmin("session.UpdateProduct"); err != nil {
		return nil, err
	}
	p, err := s.backend.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.refreshAfter(ctx, "update product")
	return p, nil
}

func (s *Session) DeleteProduct(ctx context.Context, id string) error {
	if err := s.requireAdmin("session.DeleteProduct"); err != nil {
		return err
	}
	if err := s.backend.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.refreshAfter(ctx, "delete product")
	return nil
}

func (s *Session) CreateCategory(ctx context.Context, name string) (*catalog.Category, error) {
	if err := s.requireAdmin("session.CreateCategory"); err != nil {
		return nil, err
	}
	c, err := s.backend.CreateCategory(ctx, name)
	if err != nil {
		return nil, err
	}
	s.refreshAfter(ctx, "create category")
	return c, nil
}

func (s *Session) DeleteCategory(ctx context.Context, id string) error {
	if err := s.requireAdmin("session.DeleteCategory"); err != nil {
		return err
	}
	if err := s.backend.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.refreshAfter(ctx, "delete category")
	return nil
}

// AddUser creates a user with a caller chosen id.
func (s *Session) AddUser(ctx context.Context, user identity.User) (*identity.User, error) {
	if err := s.requireAdmin("session.AddUser"); err != nil {
		return nil, err
	}
	u, err := s.backend.AddUser(ctx, user)
	if err != nil {
		return nil, err
	}
	s.refreshAfter(ctx, "add user")
	return u, nil
}
