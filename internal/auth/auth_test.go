package auth

import (
	"context"
	"testing"
	"time"

	"github.com/BruksfildServices01/repair-desk/internal/authz"
	"github.com/BruksfildServices01/repair-desk/internal/clock"
	"github.com/BruksfildServices01/repair-desk/internal/httperr"
	"github.com/BruksfildServices01/repair-desk/internal/infra/repository"
	"github.com/BruksfildServices01/repair-desk/internal/models"
	"github.com/BruksfildServices01/repair-desk/internal/testutil"
)

func newService(t *testing.T) (*Service, *clock.Fixed) {
	t.Helper()
	clk := clock.NewFixed(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	repo := repository.NewUserGormRepository(testutil.NewDB(t))
	return NewService(repo, NewTokens("test-secret", time.Hour, clk), NewMemoryRevoker(clk), false), clk
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if ok, err := CheckPassword(hash, "s3cret!"); err != nil || !ok {
		t.Fatalf("correct password rejected: %v", err)
	}
	if ok, err := CheckPassword(hash, "wrong"); err != nil || ok {
		t.Fatalf("wrong password accepted: %v", err)
	}
}

func TestRegisterLoginAuthenticate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: " Client@Desk.Example.com", Name: "Client A", Password: "hunter22", Role: "admin"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "client@desk.example.com" || u.Role != models.RoleAdmin {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := svc.Register(ctx, RegisterInput{Email: "client@desk.example.com", Name: "Other", Password: "hunter22"}); !httperr.IsBusiness(err, "email_taken") {
		t.Fatalf("duplicate email: %v", err)
	}

	if _, err := svc.Login(ctx, "client@desk.example.com", "nope"); !httperr.IsBusiness(err, "invalid_credentials") {
		t.Fatalf("bad password: %v", err)
	}
	if _, err := svc.Login(ctx, "ghost@desk.example.com", "hunter22"); !httperr.IsBusiness(err, "invalid_credentials") {
		t.Fatalf("unknown email: %v", err)
	}

	sess, err := svc.Login(ctx, "CLIENT@desk.example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	id, _, err := svc.Authenticate(ctx, sess.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if id.UserID != u.ID || id.Name != "Client A" || id.Role != authz.RoleAdmin {
		t.Fatalf("identity = %+v", id)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	bad := []RegisterInput{
		{Email: "nope", Name: "A", Password: "hunter22"},
		{Email: "a@b.io", Name: " ", Password: "hunter22"},
		{Email: "a@b.io", Name: "A", Password: "123"},
	}
	for _, in := range bad {
		if _, err := svc.Register(ctx, in); httperr.KindOf(err) != httperr.KindValidation {
			t.Fatalf("Register(%+v) = %v, want validation error", in, err)
		}
	}
}

func TestAuthenticate_ExpiredAndRevoked(t *testing.T) {
	svc, clk := newService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.io", Name: "A", Password: "hunter22"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	sess, err := svc.Login(ctx, "a@b.io", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, claims, err := svc.Authenticate(ctx, sess.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, sess.Token); !httperr.IsBusiness(err, "invalid_token") {
		t.Fatalf("revoked token accepted: %v", err)
	}

	other, err := svc.Login(ctx, "a@b.io", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	clk.Advance(2 * time.Hour)
	if _, _, err := svc.Authenticate(ctx, other.Token); !httperr.IsBusiness(err, "invalid_token") {
		t.Fatalf("expired token accepted: %v", err)
	}
}

func TestTokens_RejectsForeignSignature(t *testing.T) {
	clk := clock.NewFixed(time.Now())
	u := &models.User{ID: 7, Name: "A", Role: models.RoleUser}

	token, _, err := NewTokens("one", time.Hour, clk).Issue(u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewTokens("two", time.Hour, clk).Parse(token); err == nil {
		t.Fatalf("token signed with another secret accepted")
	}
}

func TestMemoryRevoker_ForgetsExpiredEntries(t *testing.T) {
	clk := clock.NewFixed(time.Now())
	r := NewMemoryRevoker(clk)
	ctx := context.Background()

	_ = r.Revoke(ctx, "a", clk.Now().Add(time.Minute))
	if ok, _ := r.IsRevoked(ctx, "a"); !ok {
		t.Fatalf("a should be revoked")
	}

	clk.Advance(2 * time.Minute)
	if ok, _ := r.IsRevoked(ctx, "a"); ok {
		t.Fatalf("a should have expired")
	}
	_ = r.Revoke(ctx, "b", clk.Now().Add(time.Minute))
	if len(r.revoked) != 1 {
		t.Fatalf("expired entries kept: %v", r.revoked)
	}
}
