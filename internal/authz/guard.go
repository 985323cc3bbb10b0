// Package authz is the role gate in front of every ticket and executor
// operation. It only reads the caller's role; it holds no state.
package authz

import (
	"github.com/BruksfildServices01/repair-desk/internal/httperr"
	"github.com/BruksfildServices01/repair-desk/internal/models"
)

type Role string

const (
	RoleAdmin Role = models.RoleAdmin
	RoleUser  Role = models.RoleUser
)

// Identity is the authenticated caller.
type Identity struct {
	UserID uint
	Name   string
	Role   Role
}

func (id *Identity) Authenticated() bool {
	return id != nil && id.UserID != 0
}

func (id *Identity) IsAdmin() bool {
	return id.Authenticated() && id.Role == RoleAdmin
}

// Require allows the call only when the caller's role equals required.
// Unauthenticated callers are rejected before the role is looked at.
func Require(id *Identity, required Role) error {
	if !id.Authenticated() {
		return httperr.ErrUnauthorized("authentication_required", "Authentication required.")
	}
	if id.Role != required {
		return httperr.ErrForbidden("permission_denied", "You do not have permission to perform this action.")
	}
	return nil
}

// RequireAuthenticated is the gate for operations open to any role.
func RequireAuthenticated(id *Identity) error {
	if !id.Authenticated() {
		return httperr.ErrUnauthorized("authentication_required", "Authentication required.")
	}
	return nil
}

// ParseRole maps a stored role string to a Role; anything unknown is
// treated as the least privileged role.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}
