package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/pickup-store/internal/apperror"
	"github.com/tair/pickup-store/internal/order/domain"
	"github.com/tair/pickup-store/internal/order/usecase/command"
	"github.com/tair/pickup-store/internal/order/usecase/query"
	"github.com/tair/pickup-store/pkg/auth"
	"github.com/tair/pickup-store/pkg/cache"
	"github.com/tair/pickup-store/pkg/httpx"
	"github.com/tair/pickup-store/pkg/middleware"
)

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	createHandler *command.CreateOrderHandler
	updateHandler *command.UpdateStatusHandler
	cancelHandler *command.CancelOrderHandler
	listHandler   *query.ListOrdersHandler
	getHandler    *query.GetOrderHandler

	issuer       *auth.Issuer
	metrics      *middleware.Metrics
	catalogCache *cache.ResponseCache

	ordersPlaced    prometheus.Counter
	stockRejections prometheus.Counter
	transitions     *prometheus.CounterVec
}

// NewOrderHandlerWithDI creates a new order handler; used by Wire.
func NewOrderHandlerWithDI(
	createHandler *command.CreateOrderHandler,
	updateHandler *command.UpdateStatusHandler,
	cancelHandler *command.CancelOrderHandler,
	listHandler *query.ListOrdersHandler,
	getHandler *query.GetOrderHandler,
	issuer *auth.Issuer,
	metrics *middleware.Metrics,
	catalogCache *cache.ResponseCache,
	reg prometheus.Registerer,
) *OrderHandler {
	h := &OrderHandler{
		createHandler: createHandler,
		updateHandler: updateHandler,
		cancelHandler: cancelHandler,
		listHandler:   listHandler,
		getHandler:    getHandler,
		issuer:        issuer,
		metrics:       metrics,
		catalogCache:  catalogCache,
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Orders successfully placed",
		}),
		stockRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_rejected_stock_total",
			Help: "Orders rejected for insufficient stock",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_order_transitions_total",
			Help: "Applied order status transitions",
		}, []string{"from", "to"}),
	}
	reg.MustRegister(h.ordersPlaced, h.stockRejections, h.transitions)
	return h
}

func (h *OrderHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/orders", h.metrics.Instrument("/api/orders", h.CreateOrder)).Methods(http.MethodPost)
	router.HandleFunc("/api/orders", h.metrics.Instrument("/api/orders", h.withIdentity(h.ListOrders))).Methods(http.MethodGet)
	router.HandleFunc("/api/orders/{id}", h.metrics.Instrument("/api/orders/{id}", h.GetOrder)).Methods(http.MethodGet)
	router.HandleFunc("/api/orders/{id}/status", h.metrics.Instrument("/api/orders/{id}/status", h.UpdateStatus)).Methods(http.MethodPatch, http.MethodPut)
	router.HandleFunc("/api/orders/{id}/cancel", h.metrics.Instrument("/api/orders/{id}/cancel", h.withIdentity(h.CancelOrder))).Methods(http.MethodPost)
}

func (h *OrderHandler) withIdentity(next http.HandlerFunc) http.HandlerFunc {
	if h.issuer == nil {
		return next
	}
	return h.issuer.OptionalIdentity(next)
}

// requesterID prefers the explicit customer_id and falls back to the bearer token.
func requesterID(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if claims, ok := auth.FromContext(r.Context()); ok {
		return claims.UserID
	}
	return ""
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var draft domain.Draft
	if err := httpx.DecodeJSON(r, &draft); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	order, err := h.createHandler.Handle(r.Context(), command.CreateOrderCommand{
		CustomerID:  draft.CustomerID,
		Items:       draft.Items,
		ClientTotal: draft.Total,
		PickupDate:  draft.PickupDate,
		PickupTime:  draft.PickupTime,
	})
	if err != nil {
		if errors.Is(err, apperror.ErrInsufficientStock) {
			h.stockRejections.Inc()
		}
		httpx.RespondError(w, r, err)
		return
	}

	h.ordersPlaced.Inc()
	h.catalogCache.InvalidateQuietly(r.Context())
	httpx.RespondData(w, http.StatusCreated, "Order placed! Pay Cash on Pickup.", order)
}

// ListOrders handles GET /api/orders?customer_id=
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.listHandler.Handle(r.Context(), query.ListOrdersQuery{
		RequesterID: requesterID(r, r.URL.Query().Get("customer_id")),
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, "", orders)
}

// GetOrder handles GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.getHandler.Handle(r.Context(), query.GetOrderQuery{ID: mux.Vars(r)["id"]})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, "", order)
}

// UpdateStatus handles PATCH /api/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	res, err := h.updateHandler.Handle(r.Context(), command.UpdateStatusCommand{
		OrderID: mux.Vars(r)["id"],
		Status:  req.Status,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	h.statusChanged(r, res)
	httpx.RespondData(w, http.StatusOK, "Order status updated", res.Order)
}

// CancelOrder handles POST /api/orders/{id}/cancel for the owning customer
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string `json:"customer_id"`
	}
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.RespondError(w, r, err)
			return
		}
	}

	res, err := h.cancelHandler.Handle(r.Context(), command.CancelOrderCommand{
		OrderID:    mux.Vars(r)["id"],
		CustomerID: requesterID(r, req.CustomerID),
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	h.statusChanged(r, res)
	httpx.RespondData(w, http.StatusOK, "Order cancelled", res.Order)
}

func (h *OrderHandler) statusChanged(r *http.Request, res *command.UpdateStatusResult) {
	if !res.Changed {
		return
	}
	h.transitions.WithLabelValues(string(res.Previous), string(res.Order.Status)).Inc()
	if res.Order.Status == domain.StatusCancelled {
		h.catalogCache.InvalidateQuietly(r.Context())
	}
}
