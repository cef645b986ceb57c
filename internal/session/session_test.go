package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/pickup-store/internal/apperror"
	catalog "github.com/tair/pickup-store/internal/catalog/domain"
	identity "github.com/tair/pickup-store/internal/identity/domain"
	order "github.com/tair/pickup-store/internal/order/domain"
)

// fakeBackend keeps everything in memory and applies no stock rules
// beyond what a test asks for.
type fakeBackend struct {
	mu          sync.Mutex
	users       map[string]identity.User
	products    []catalog.Product
	categories  []catalog.Category
	orders      []order.Order
	placeErr    error
	listErr     error
	duringPlace func()
	listCalls   atomic.Int32
	block       chan struct{}
	seq         int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users: map[string]identity.User{
			"CUST-001":  {ID: "CUST-001", Name: "John Doe", Role: identity.RoleCustomer},
			"ADMIN-001": {ID: "ADMIN-001", Name: "Store Manager", Role: identity.RoleAdmin},
		},
		products: []catalog.Product{
			{ID: "P-001", Name: "Fresh Espresso", Price: decimal.RequireFromString("180"), Stock: 50, CategoryID: "cat-1"},
			{ID: "P-009", Name: "Sold Out Muffin", Price: decimal.RequireFromString("90"), Stock: 0},
		},
		categories: []catalog.Category{{ID: "cat-1", Name: "Coffee"}},
	}
}

func (f *fakeBackend) Login(_ context.Context, id string) (*Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.Unauthenticated("fake.Login", "unknown user id")
	}
	return &Account{User: u, IsAdmin: u.IsAdmin()}, nil
}

func (f *fakeBackend) Register(_ context.Context, name string) (*identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := identity.User{ID: fmt.Sprintf("CUST-%03d", 100+len(f.users)), Name: name, Role: identity.RoleCustomer}
	f.users[u.ID] = u
	return &u, nil
}

func (f *fakeBackend) AddUser(_ context.Context, u identity.User) (*identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return &u, nil
}

func (f *fakeBackend) ListUsers(context.Context) ([]identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]identity.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, u)
	}
	return users, nil
}

func (f *fakeBackend) ListProducts(context.Context) ([]catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.Product(nil), f.products...), nil
}

func (f *fakeBackend) CreateProduct(_ context.Context, d catalog.ProductDraft) (*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := catalog.Product{ID: fmt.Sprintf("P-%03d", len(f.products)+100), Name: d.Name, Price: d.Price, Stock: d.Stock}
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeBackend) UpdateProduct(_ context.Context, id string, patch catalog.ProductPatch) (*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == id {
			patch.Apply(&f.products[i])
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, apperror.NotFound("fake.UpdateProduct", "product", id)
}

func (f *fakeBackend) DeleteProduct(context.Context, string) error { return nil }

func (f *fakeBackend) ListCategories(context.Context) ([]catalog.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.Category(nil), f.categories...), nil
}

func (f *fakeBackend) CreateCategory(_ context.Context, name string) (*catalog.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := catalog.Category{ID: fmt.Sprintf("cat-%d", len(f.categories)+1), Name: name}
	f.categories = append(f.categories, c)
	return &c, nil
}

func (f *fakeBackend) DeleteCategory(context.Context, string) error { return nil }

func (f *fakeBackend) PlaceOrder(_ context.Context, d order.Draft) (*order.Order, error) {
	if f.duringPlace != nil {
		f.duringPlace()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.placeErr != nil {
		return nil, f.placeErr
	}
	f.seq++
	o := order.Order{
		ID:         fmt.Sprintf("ORD-%d", f.seq),
		CustomerID: d.CustomerID,
		Items:      d.Items,
		Total:      order.ComputeTotal(d.Items),
		PickupDate: d.PickupDate,
		PickupTime: d.PickupTime,
		Status:     order.StatusPending,
	}
	f.orders = append(f.orders, o)
	return &o, nil
}

func (f *fakeBackend) ListOrders(_ context.Context, requester string) ([]order.Order, error) {
	f.listCalls.Add(1)
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []order.Order
	for _, o := range f.orders {
		if identity.LooksLikeAdminID(requester) || o.CustomerID == requester {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeBackend) setStatus(id string, status order.Status) *order.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
			o := f.orders[i]
			return &o
		}
	}
	return nil
}

func (f *fakeBackend) UpdateOrderStatus(_ context.Context, id string, status order.Status) (*order.Order, error) {
	if o := f.setStatus(id, status); o != nil {
		return o, nil
	}
	return nil, apperror.NotFound("fake.UpdateOrderStatus", "order", id)
}

func (f *fakeBackend) CancelOrder(_ context.Context, id, _ string) (*order.Order, error) {
	return f.UpdateOrderStatus(context.Background(), id, order.StatusCancelled)
}

func loggedIn(t *testing.T, backend *fakeBackend, id string) *Session {
	t.Helper()
	s := New(backend)
	ok, err := s.Login(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	return s
}

func TestLoginUnknownUserIsNotAnError(t *testing.T) {
	s := New(newFakeBackend())
	ok, err := s.Login(context.Background(), "CUST-404")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, s.User())
}

func TestLoginLoadsCaches(t *testing.T) {
	s := loggedIn(t, newFakeBackend(), "ADMIN-001")
	assert.True(t, s.IsAdmin())
	assert.Len(t, s.Products(), 2)
	assert.Len(t, s.Users(), 2)
	assert.Equal(t, "Coffee", s.CategoryName("cat-1"))
	assert.Equal(t, catalog.UncategorizedName, s.CategoryName("cat-gone"))
	assert.Equal(t, catalog.UncategorizedName, s.CategoryName(""))
}

func TestCartMergesAndSkipsOutOfStock(t *testing.T) {
	backend := newFakeBackend()
	s := loggedIn(t, backend, "CUST-001")
	espresso, soldOut := backend.products[0], backend.products[1]

	assert.True(t, s.AddToCart(espresso))
	assert.True(t, s.AddToCart(espresso))
	assert.False(t, s.AddToCart(soldOut))

	cart := s.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.True(t, s.CartTotal().Equal(decimal.RequireFromString("360")))
	assert.Empty(t, s.Notifications())

	s.SetCartQuantity("P-001", 5)
	assert.Equal(t, 5, s.Cart()[0].Quantity)
	s.SetCartQuantity("P-001", 0)
	assert.Empty(t, s.Cart())

	s.AddToCart(espresso)
	s.RemoveFromCart("P-001")
	assert.Empty(t, s.Cart())
}

func TestPlaceOrderRequirements(t *testing.T) {
	backend := newFakeBackend()

	s := New(backend)
	s.AddToCart(backend.products[0])
	_, err := s.PlaceOrder(context.Background(), "2026-10-20", "09:30")
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)

	s = loggedIn(t, backend, "CUST-001")
	_, err = s.PlaceOrder(context.Background(), "2026-10-20", "09:30")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestPlaceOrderFailureKeepsCart(t *testing.T) {
	backend := newFakeBackend()
	s := loggedIn(t, backend, "CUST-001")
	s.AddToCart(backend.products[0])

	backend.placeErr = &apperror.InsufficientStockError{ProductID: "P-001", ProductName: "Fresh Espresso"}
	_, err := s.PlaceOrder(context.Background(), "2026-10-20", "09:30")
	require.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.Len(t, s.Cart(), 1)
	assert.Empty(t, s.Notifications())
}

func TestPlaceOrderClearsCartAndNotifies(t *testing.T) {
	backend := newFakeBackend()
	s := loggedIn(t, backend, "CUST-001")

	var hooked []Notification
	s.OnNotify(func(n Notification) { hooked = append(hooked, n) })

	s.AddToCart(backend.products[0])
	placed, err := s.PlaceOrder(context.Background(), "2026-10-20", "09:30")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, placed.Status)
	assert.Empty(t, s.Cart())
	require.Len(t, s.Orders(), 1)

	notes := s.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, PlacedMessage, notes[0].Message)
	assert.Equal(t, NotificationSuccess, notes[0].Type)
	assert.Len(t, hooked, 1)

	assert.True(t, s.Dismiss(notes[0].ID))
	assert.False(t, s.Dismiss(notes[0].ID))
	assert.Empty(t, s.Notifications())
}

func TestPlaceOrderKeepsLinesAddedInFlight(t *testing.T) {
	backend := newFakeBackend()
	s := loggedIn(t, backend, "CUST-001")
	espresso := backend.products[0]
	croissant := catalog.Product{ID: "P-002", Name: "Classic Croissant", Price: decimal.RequireFromString("120"), Stock: 20}

	s.AddToCart(espresso)
	s.AddToCart(espresso)
	backend.duringPlace = func() {
		s.AddToCart(croissant)
		s.AddToCart(espresso)
	}

	placed, err := s.PlaceOrder(context.Background(), "2026-10-20", "09:30")
	require.NoError(t, err)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, 2, placed.Items[0].Quantity)

	cart := s.Cart()
	require.Len(t, cart, 2)
	assert.Equal(t, "P-001", cart[0].ProductID)
	assert.Equal(t, 1, cart[0].Quantity)
	assert.Equal(t, "P-002", cart[1].ProductID)
	assert.Equal(t, 1, cart[1].Quantity)
}

func TestPlaceOrderLeavesNextUserAlone(t *testing.T) {
	backend := newFakeBackend()
	s := loggedIn(t, backend, "CUST-001")
	s.AddToCart(backend.products[0])

	backend.duringPlace = func() {
		s.Logout()
		ok, err := s.Login(context.Background(), "ADMIN-001")
		require.NoError(t, err)
		require.True(t, ok)
		s.AddToCart(backend.products[0])
	}

	placed, err := s.PlaceOrder(context.Background(), "2026-10-20", "09:30")
	require.NoError(t, err)
	assert.Equal(t, "CUST-001", placed.CustomerID)

	assert.Equal(t, "ADMIN-001", s.User().ID)
	assert.Len(t, s.Cart(), 1)
	assert.Empty(t, s.Notifications())
}

func TestPollNotifiesCustomerOfProgress(t *testing.T) {
	backend := newFakeBackend()
	s := loggedIn(t, backend, "CUST-001")
	s.AddToCart(backend.products[0])
	placed, err := s.PlaceOrder(context.Background(), "2026-10-20", "09:30")
	require.NoError(t, err)
	s.Dismiss(s.Notifications()[0].ID)

	backend.setStatus(placed.ID, order.StatusPacked)
	require.NoError(t, s.Refresh(context.Background()))
	backend.setStatus(placed.ID, order.StatusReady)
	require.NoError(t, s.Refresh(context.Background()))
	require.NoError(t, s.Refresh(context.Background()))

	notes := s.Notifications()
	require.Len(t, notes, 2)
	assert.Equal(t, "Order #"+placed.ID+" Ready!", notes[0].Message)
	assert.Equal(t, NotificationSuccess, notes[0].Type)
	assert.Equal(t, "Order #"+placed.ID+" Packed!", notes[1].Message)
	assert.Equal(t, NotificationInfo, notes[1].Type)
}

func TestPollNotifiesAdminOfNewOrders(t *testing.T) {
	backend := newFakeBackend()
	customer := loggedIn(t, backend, "CUST-001")
	customer.AddToCart(backend.products[0])
	_, err := customer.PlaceOrder(context.Background(), "2026-10-20", "09:30")
	require.NoError(t, err)

	admin := loggedIn(t, backend, "ADMIN-001")
	assert.Empty(t, admin.Notifications(), "orders present at login are not news")

	customer.AddToCart(backend.products[0])
	_, err = customer.PlaceOrder(context.Background(), "2026-10-21", "10:00")
	require.NoError(t, err)

	require.NoError(t, admin.Refresh(context.Background()))
	notes := admin.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, NotificationOrder, notes[0].Type)
	assert.Equal(t, "New order received!", notes[0].Message)
}

func TestFailedPollKeepsPreviousSnapshot(t *testing.T) {
	backend := newFakeBackend()
	s := loggedIn(t, backend, "CUST-001")
	s.AddToCart(backend.products[0])
	placed, err := s.PlaceOrder(context.Background(), "2026-10-20", "09:30")
	require.NoError(t, err)

	backend.setStatus(placed.ID, order.StatusReady)
	backend.listErr = errors.New("backend down")
	require.Error(t, s.Refresh(context.Background()))

	backend.listErr = nil
	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, "Order #"+placed.ID+" Ready!", s.Notifications()[0].Message)
}

func TestLogoutClearsEverything(t *testing.T) {
	backend := newFakeBackend()
	s := loggedIn(t, backend, "CUST-001")
	s.AddToCart(backend.products[0])
	_, err := s.PlaceOrder(context.Background(), "2026-10-20", "09:30")
	require.NoError(t, err)
	s.AddToCart(backend.products[0])

	s.Logout()
	assert.Nil(t, s.User())
	assert.False(t, s.IsAdmin())
	assert.Empty(t, s.Cart())
	assert.Empty(t, s.Orders())
	assert.Empty(t, s.Notifications())

	s = loggedIn(t, backend, "ADMIN-001")
	assert.Empty(t, s.Cart())
}

func TestAdminOperationsRequireStaff(t *testing.T) {
	backend := newFakeBackend()
	s := loggedIn(t, backend, "CUST-001")

	_, err := s.CreateProduct(context.Background(), catalog.ProductDraft{Name: "Tea"})
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
	_, err = s.UpdateStatus(context.Background(), "ORD-1", order.StatusReady)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)

	admin := loggedIn(t, backend, "ADMIN-001")
	p, err := admin.CreateProduct(context.Background(), catalog.ProductDraft{Name: "Tea", Price: decimal.NewFromInt(60), Stock: 4})
	require.NoError(t, err)
	assert.Len(t, admin.Products(), 3)

	stock := 9
	_, err = admin.UpdateProduct(context.Background(), p.ID, catalog.ProductPatch{Stock: &stock})
	require.NoError(t, err)

	_, err = admin.CreateCategory(context.Background(), "Tea")
	require.NoError(t, err)
	assert.Len(t, admin.Categories(), 2)

	_, err = admin.AddUser(context.Background(), identity.User{ID: "CUST-777", Name: "Ana", Role: identity.RoleCustomer})
	require.NoError(t, err)
	assert.Len(t, admin.Users(), 3)
}

func TestPollSkipsWhileInFlight(t *testing.T) {
	backend := newFakeBackend()
	s := loggedIn(t, backend, "CUST-001")

	backend.block = make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ran, err := s.Poll(context.Background())
		assert.True(t, ran)
		assert.NoError(t, err)
	}()

	require.Eventually(t, func() bool { return backend.listCalls.Load() == 2 }, time.Second, time.Millisecond)
	ran, err := s.Poll(context.Background())
	assert.False(t, ran)
	assert.NoError(t, err)

	close(backend.block)
	<-done
	assert.Equal(t, int32(2), backend.listCalls.Load())
}

func TestPollerStopsOnCancel(t *testing.T) {
	backend := newFakeBackend()
	s := loggedIn(t, backend, "CUST-001")
	before := backend.listCalls.Load()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- NewPoller(s, 5*time.Millisecond).Run(ctx) }()

	require.Eventually(t, func() bool { return backend.listCalls.Load() >= before+2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestPollerCountsSkippedTicks(t *testing.T) {
	backend := newFakeBackend()
	s := loggedIn(t, backend, "CUST-001")
	backend.block = make(chan struct{})

	var skipped atomic.Int32
	p := NewPoller(s, 2*time.Millisecond)
	p.skipped = func() { skipped.Add(1) }

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return skipped.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	close(backend.block)
	<-errc
	assert.Equal(t, int32(2), backend.listCalls.Load(), "only one poll ran after login")
}
