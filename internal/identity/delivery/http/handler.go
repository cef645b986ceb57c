package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/pickup-store/internal/identity/usecase/command"
	"github.com/tair/pickup-store/internal/identity/usecase/query"
	"github.com/tair/pickup-store/pkg/httpx"
	"github.com/tair/pickup-store/pkg/logger"
	"github.com/tair/pickup-store/pkg/middleware"
)

// UserHandler handles HTTP requests for login and user management
type UserHandler struct {
	loginHandler    *command.LoginUserHandler
	registerHandler *command.RegisterUserHandler
	addHandler      *command.AddUserHandler
	getHandler      *query.GetUserHandler
	listHandler     *query.ListUsersHandler
	metrics         *middleware.Metrics
}

// NewUserHandlerWithDI creates a new user handler; used by Wire.
func NewUserHandlerWithDI(
	loginHandler *command.LoginUserHandler,
	registerHandler *command.RegisterUserHandler,
	addHandler *command.AddUserHandler,
	getHandler *query.GetUserHandler,
	listHandler *query.ListUsersHandler,
	metrics *middleware.Metrics,
) *UserHandler {
	return &UserHandler{
		loginHandler:    loginHandler,
		registerHandler: registerHandler,
		addHandler:      addHandler,
		getHandler:      getHandler,
		listHandler:     listHandler,
		metrics:         metrics,
	}
}

func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/auth/login", h.metrics.Instrument("/api/auth/login", h.Login)).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/register", h.metrics.Instrument("/api/auth/register", h.Register)).Methods(http.MethodPost)
	router.HandleFunc("/api/users", h.metrics.Instrument("/api/users", h.ListUsers)).Methods(http.MethodGet)
	router.HandleFunc("/api/users", h.metrics.Instrument("/api/users", h.AddUser)).Methods(http.MethodPost)
	router.HandleFunc("/api/users/{id}", h.metrics.Instrument("/api/users/{id}", h.GetUser)).Methods(http.MethodGet)
}

// Login handles POST /api/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string `json:"customer_id"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	resp, err := h.loginHandler.Handle(r.Context(), command.LoginUserCommand{ID: req.CustomerID})
	if err != nil {
		logger.Warn(r.Context()).Err(err).Str("customer_id", req.CustomerID).Msg("Login failed")
		httpx.RespondError(w, r, err)
		return
	}

	logger.Info(r.Context()).Str("user_id", resp.User.ID).Bool("is_admin", resp.IsAdmin).Msg("User logged in")
	httpx.RespondData(w, http.StatusOK, "Login successful", resp)
}

// Register handles POST /api/auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	user, err := h.registerHandler.Handle(r.Context(), command.RegisterUserCommand{Name: req.Name})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondData(w, http.StatusCreated, "User registered successfully", user)
}

// AddUser handles POST /api/users
func (h *UserHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Role string `json:"role"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	user, err := h.addHandler.Handle(r.Context(), command.AddUserCommand{ID: req.ID, Name: req.Name, Role: req.Role})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondData(w, http.StatusCreated, "User added successfully", user)
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.listHandler.Handle(r.Context(), query.ListUsersQuery{})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, "", users)
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.getHandler.Handle(r.Context(), query.GetUserQuery{ID: mux.Vars(r)["id"]})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, "", user)
}
