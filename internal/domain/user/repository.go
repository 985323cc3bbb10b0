package user

import (
	"context"

	"github.com/BruksfildServices01/repair-desk/internal/httperr"
	"github.com/BruksfildServices01/repair-desk/internal/models"
)

var (
	ErrEmailTaken   = httperr.ErrValidation("email_taken", "This email is already registered.")
	ErrUserNotFound = httperr.ErrNotFound("user_not_found", "User not found.")
)

type Repository interface {
	// CreateUser returns ErrEmailTaken on a duplicate email.
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}
