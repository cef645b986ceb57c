package command

import (
	"context"
	"strings"

	"github.com/tair/pickup-store/internal/apperror"
	"github.com/tair/pickup-store/internal/identity/domain"
)

// AddUserCommand represents the staff action of adding a user with a chosen id
type AddUserCommand struct {
	ID   string
	Name string
	Role string
}

// AddUserHandler handles manual user creation
type AddUserHandler struct {
	repo domain.UserRepository
}

// NewAddUserHandler creates a new add user handler
func NewAddUserHandler(repo domain.UserRepository) *AddUserHandler {
	return &AddUserHandler{repo: repo}
}

// Handle stores the user. An existing id is a conflict, never an overwrite.
func (h *AddUserHandler) Handle(ctx context.Context, cmd AddUserCommand) (*domain.User, error) {
	const op = "user.Add"

	id := strings.TrimSpace(cmd.ID)
	name := strings.TrimSpace(cmd.Name)
	role := strings.ToLower(strings.TrimSpace(cmd.Role))
	if role == "" {
		role = domain.RoleCustomer
	}

	if id == "" {
		return nil, apperror.Validation(op, "user id is required")
	}
	if name == "" {
		return nil, apperror.Validation(op, "name is required")
	}
	if !domain.ValidRole(role) {
		return nil, apperror.Validation(op, "unknown role %q", cmd.Role)
	}

	exists, err := h.repo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict(op, id, "user already exists")
	}

	user := &domain.User{ID: id, Name: name, Role: role}
	if err := h.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
