package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	dbpkg "github.com/BruksfildServices01/repair-desk/internal/db"
	"github.com/BruksfildServices01/repair-desk/internal/models"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "desk.db")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("APP_ENV", "dev")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", path)
	return path
}

func TestRun_CreateAdminAndExecutor(t *testing.T) {
	path := setupEnv(t)
	ctx := context.Background()
	var out bytes.Buffer

	if err := run(ctx, []string{"migrate"}, &out, &out); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := run(ctx, []string{"create-user", "--email", "boss@desk.example.com", "--name", "Boss", "--password", "hunter22", "--role", "admin"}, &out, &out); err != nil {
		t.Fatalf("create-user: %v", err)
	}
	if err := run(ctx, []string{"add-executor", "--name", "Tech1"}, &out, &out); err != nil {
		t.Fatalf("add-executor: %v", err)
	}
	if err := run(ctx, []string{"add-executor", "--name", "Tech1"}, &out, &out); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("duplicate executor: %v", err)
	}

	db, err := dbpkg.Open(dbpkg.DriverSQLite, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var u models.User
	if err := db.Where("email = ?", "boss@desk.example.com").First(&u).Error; err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Fatalf("role = %q", u.Role)
	}
}

func TestRun_RejectsUnknownRoleAndCommand(t *testing.T) {
	setupEnv(t)
	ctx := context.Background()
	var out bytes.Buffer

	if err := run(ctx, []string{"create-user", "--email", "a@b.io", "--name", "A", "--password", "hunter22", "--role", "root"}, &out, &out); err == nil {
		t.Fatalf("unknown role accepted")
	}
	if err := run(ctx, []string{"frobnicate"}, &out, &out); err == nil {
		t.Fatalf("unknown command accepted")
	}
}

func TestRun_RecordsAuditAndReportsAuditFailure(t *testing.T) {
	path := setupEnv(t)
	ctx := context.Background()
	var out, errOut bytes.Buffer

	if err := run(ctx, []string{"add-executor", "--name", "Tech1"}, &out, &errOut); err != nil {
		t.Fatalf("add-executor: %v", err)
	}

	db, err := dbpkg.Open(dbpkg.DriverSQLite, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	var count int64
	if err := db.Model(&models.AuditLog{}).Where("action = ?", "executor_created").Count(&count).Error; err != nil {
		t.Fatalf("count audit: %v", err)
	}
	if count != 1 {
		t.Fatalf("audit rows = %d, want 1", count)
	}
	if errOut.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", errOut.String())
	}

	// NewDB migrates before the command runs, so a trigger is used to make
	// the audit insert fail after the executor is committed.
	if err := db.Exec(`CREATE TRIGGER reject_audit BEFORE INSERT ON audit_logs
		BEGIN SELECT RAISE(ABORT, 'audit store offline'); END`).Error; err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	if err := run(ctx, []string{"add-executor", "--name", "Tech2"}, &out, &errOut); err != nil {
		t.Fatalf("audit failure must not fail the command: %v", err)
	}
	if !strings.Contains(errOut.String(), "write audit event") || !strings.Contains(errOut.String(), "audit store offline") {
		t.Fatalf("audit failure not reported: %q", errOut.String())
	}

	var e models.Executor
	if err := db.Where("name = ?", "Tech2").First(&e).Error; err != nil {
		t.Fatalf("executor not stored: %v", err)
	}
}
