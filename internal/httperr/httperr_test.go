package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestRespond_MapsKinds(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
		code string
	}{
		{ErrValidation("request_number_taken", "taken"), http.StatusBadRequest, "request_number_taken"},
		{ErrNotFound("request_not_found", "missing"), http.StatusNotFound, "request_not_found"},
		{ErrForbidden("permission_denied", "nope"), http.StatusForbidden, "permission_denied"},
		{ErrUnauthorized("authentication_required", ""), http.StatusUnauthorized, "authentication_required"},
		{ErrUnavailable("storage_unavailable", ""), http.StatusServiceUnavailable, "storage_unavailable"},
		{fmt.Errorf("wrapped: %w", ErrNotFound("request_not_found", "")), http.StatusNotFound, "request_not_found"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Respond(c, tc.err)

		if w.Code != tc.want {
			t.Fatalf("%v: status = %d, want %d", tc.err, w.Code, tc.want)
		}
		var body HTTPError
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Code != tc.code {
			t.Fatalf("%v: code = %q, want %q", tc.err, body.Code, tc.code)
		}
		if tc.code == "internal_error" && body.Message == "boom" {
			t.Fatalf("internal error text leaked to client")
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(gorm.ErrDuplicatedKey) {
		t.Fatalf("gorm.ErrDuplicatedKey not recognised")
	}
	if !IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})) {
		t.Fatalf("postgres 23505 not recognised")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("foreign key violation reported as unique")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: executors.name")) {
		t.Fatalf("sqlite message not recognised")
	}
	if IsUniqueViolation(nil) || IsUniqueViolation(errors.New("other")) {
		t.Fatalf("false positive")
	}
}

func TestIsBusinessAndKindOf(t *testing.T) {
	err := fmt.Errorf("ctx: %w", ErrValidation("executor_exists", ""))
	if !IsBusiness(err, "executor_exists") {
		t.Fatalf("IsBusiness should unwrap")
	}
	if KindOf(err) != KindValidation {
		t.Fatalf("KindOf = %q", KindOf(err))
	}
	if KindOf(errors.New("x")) != "" {
		t.Fatalf("KindOf of plain error should be empty")
	}
}
