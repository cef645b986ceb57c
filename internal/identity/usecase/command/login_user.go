package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tair/pickup-store/internal/apperror"
	"github.com/tair/pickup-store/internal/identity/domain"
	"github.com/tair/pickup-store/pkg/auth"
)

// LoginUserCommand represents the command to log in by id
type LoginUserCommand struct {
	ID string
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	User    *domain.User `json:"user"`
	IsAdmin bool         `json:"is_admin"`
	Token   string       `json:"token,omitempty"`
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo   domain.UserRepository
	issuer *auth.Issuer
}

// NewLoginUserHandler creates a new login user handler. A nil issuer skips token issuing.
func NewLoginUserHandler(repo domain.UserRepository, issuer *auth.Issuer) *LoginUserHandler {
	return &LoginUserHandler{repo: repo, issuer: issuer}
}

// Handle resolves the id to a user. Unknown ids are unauthenticated.
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*LoginResponse, error) {
	id := strings.TrimSpace(cmd.ID)
	if id == "" {
		return nil, apperror.Validation("user.Login", "customer id is required")
	}

	user, err := h.repo.FindByID(ctx, id)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.Unauthenticated("user.Login", "unknown user id")
	}
	if err != nil {
		return nil, err
	}

	resp := &LoginResponse{User: user, IsAdmin: user.IsAdmin()}
	if h.issuer != nil {
		token, err := h.issuer.GenerateToken(user.ID, user.Role)
		if err != nil {
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}
		resp.Token = token
	}
	return resp, nil
}
