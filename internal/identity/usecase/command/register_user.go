package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/pickup-store/internal/apperror"
	"github.com/tair/pickup-store/internal/identity/domain"
	"github.com/tair/pickup-store/pkg/idgen"
)

// RegisterUserCommand represents the command to self-register a customer
type RegisterUserCommand struct {
	Name string
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo domain.UserRepository
	ids  idgen.Generator
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo, ids: idgen.Customer}
}

// Handle creates a customer with a fresh CUST-### id.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*domain.User, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, apperror.Validation("user.Register", "name is required")
	}

	id, err := h.ids.Generate(ctx, h.repo.Exists)
	if err != nil {
		return nil, err
	}

	user := &domain.User{ID: id, Name: name, Role: domain.RoleCustomer}
	if err := h.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}
