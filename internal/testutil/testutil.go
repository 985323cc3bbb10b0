// Package testutil builds throwaway databases for package tests.
package testutil

import (
	"fmt"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/repair-desk/internal/audit"
	"github.com/BruksfildServices01/repair-desk/internal/authz"
	dbpkg "github.com/BruksfildServices01/repair-desk/internal/db"
	"github.com/BruksfildServices01/repair-desk/internal/models"
)

// NewDB returns a migrated in-memory sqlite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := dbpkg.Open(dbpkg.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()

	u := &models.User{
		Email:        fmt.Sprintf("%s@desk.test", sanitize(name)),
		PasswordHash: "x",
		Name:         name,
		Role:         role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %q: %v", name, err)
	}
	return u
}

func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+'a'-'A')
		default:
			out = append(out, '.')
		}
	}
	return string(out)
}

// Admin and Member build identities for already persisted users.
func Admin(u *models.User) *authz.Identity {
	return &authz.Identity{UserID: u.ID, Name: u.Name, Role: authz.RoleAdmin}
}

func Member(u *models.User) *authz.Identity {
	return &authz.Identity{UserID: u.ID, Name: u.Name, Role: authz.RoleUser}
}

// Recorder collects audit events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *Recorder) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *Recorder) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Action
	}
	return out
}
