package user

import (
	"context"

	userRepo "dencare/database/repository/user"
	"dencare/models"
)

// RegisterInput is the signup payload after transport validation.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// AuthResponse carries the account and its freshly issued session token.
type AuthResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// UserService defines business logic for patient accounts.
type UserService interface {
	// Register validates signup details and creates a new account.
	Register(ctx context.Context, in RegisterInput) (*AuthResponse, error)
	// Authenticate verifies credentials and issues a session token.
	Authenticate(ctx context.Context, email, password string) (*AuthResponse, error)
	// GetByID retrieves an account by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Revoke invalidates the account's active session token (logout).
	Revoke(ctx context.Context, id string) error

	// Admin route
	GetAllUsers(ctx context.Context) ([]models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}
