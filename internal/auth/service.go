// Package auth authenticates callers: password hashing, session tokens and
// logout. It hands an authz.Identity to everything downstream.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BruksfildServices01/repair-desk/internal/authz"
	"github.com/BruksfildServices01/repair-desk/internal/domain/user"
	"github.com/BruksfildServices01/repair-desk/internal/httperr"
	"github.com/BruksfildServices01/repair-desk/internal/models"
	"github.com/BruksfildServices01/repair-desk/internal/validators"
)

var (
	ErrInvalidCredentials = httperr.ErrUnauthorized("invalid_credentials", "Invalid email or password.")
	ErrInvalidToken       = httperr.ErrUnauthorized("invalid_token", "Session is invalid or has expired.")
)

type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

type Service struct {
	users       user.Repository
	tokens      *Tokens
	revoker     Revoker
	checkDomain bool
}

func NewService(users user.Repository, tokens *Tokens, revoker Revoker, checkDomain bool) *Service {
	return &Service{
		users:       users,
		tokens:      tokens,
		revoker:     revoker,
		checkDomain: checkDomain,
	}
}

// Register creates an account. Self-registration always yields the user
// role; operators pass RoleAdmin through deskctl.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email, ok := validators.NormalizeEmail(in.Email)
	if !ok {
		return nil, httperr.ErrValidation("invalid_email", "Email address is not valid.")
	}
	if s.checkDomain && !validators.IsEmailDomainValid(email) {
		return nil, httperr.ErrValidation("invalid_email_domain", "The email domain does not appear to be valid.")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, httperr.ErrValidation("missing_field", "name is required.")
	}
	if len(in.Password) < minPasswordLen {
		return nil, httperr.ErrValidation("weak_password", "Password must have at least 6 characters.")
	}

	role := string(authz.ParseRole(in.Role))

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email, _ = validators.NormalizeEmail(email)

	u, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := CheckPassword(u.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: u}, nil
}

// Authenticate turns a presented token into the caller's identity.
func (s *Service) Authenticate(ctx context.Context, token string) (*authz.Identity, *Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, ErrInvalidToken
	}

	id, err := claims.UserID()
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	return &authz.Identity{
		UserID: id,
		Name:   claims.Name,
		Role:   authz.ParseRole(claims.Role),
	}, claims, nil
}

func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *Service) Me(ctx context.Context, id *authz.Identity) (*models.User, error) {
	if err := authz.RequireAuthenticated(id); err != nil {
		return nil, err
	}
	return s.users.GetUser(ctx, id.UserID)
}

func (s *Service) TokenTTL() time.Duration {
	return s.tokens.TTL()
}
