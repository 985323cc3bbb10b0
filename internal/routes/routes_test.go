package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/repair-desk/internal/audit"
	"github.com/BruksfildServices01/repair-desk/internal/auth"
	"github.com/BruksfildServices01/repair-desk/internal/clock"
	"github.com/BruksfildServices01/repair-desk/internal/config"
	"github.com/BruksfildServices01/repair-desk/internal/models"
	"github.com/BruksfildServices01/repair-desk/internal/storage"
	"github.com/BruksfildServices01/repair-desk/internal/testutil"
)

type server struct {
	t      *testing.T
	engine *gin.Engine
	audit  *testutil.Recorder
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	clk := clock.NewFixed(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	rec := &testutil.Recorder{}

	cfg := &config.Config{
		Env:            "dev",
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		MaxUploadBytes: 1 << 20,
	}

	hash, err := auth.HashPassword("admin-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := db.Create(&models.User{Email: "boss@desk.example.com", Name: "Boss", PasswordHash: hash, Role: models.RoleAdmin}).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	r := gin.New()
	RegisterRoutes(r, db, cfg, Deps{
		Log:       zerolog.Nop(),
		Clock:     clk,
		Store:     storage.Disabled{},
		Revoker:   auth.NewMemoryRevoker(clk),
		Audit:     rec,
		AuditLogs: audit.New(db),
	})

	return &server{t: t, engine: r, audit: rec}
}

func (s *server) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *server) login(email, password string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/login", "", map[string]string{"email": email, "password": password})
	if w.Code != http.StatusOK {
		s.t.Fatalf("login %s: %d %s", email, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(s.t, w, &resp)
	return resp.Token
}

func (s *server) registerMember(name string) string {
	s.t.Helper()
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@desk.example.com"
	w := s.do(http.MethodPost, "/register", "", map[string]string{"email": email, "name": name, "password": "member-pass"})
	if w.Code != http.StatusCreated {
		s.t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	return s.login(email, "member-pass")
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"error_code"`
	}
	decode(t, w, &body)
	return body.Code
}

type ticketJSON struct {
	ID            uint    `json:"id"`
	RequestNumber string  `json:"request_number"`
	Description   string  `json:"description"`
	Status        string  `json:"status"`
	AssignedTo    *string `json:"assigned_to"`
	DateAdded     string  `json:"date_added"`
	Comments      []struct {
		Text string `json:"text"`
	} `json:"comments"`
}

var sampleTicket = map[string]string{
	"request_number": "REQ001",
	"equipment":      "Laptop",
	"issue_type":     "Screen Issue",
	"description":    "Screen is flickering",
	"client":         "Client A",
	"status":         "pending",
}

func TestTicketLifecycle(t *testing.T) {
	s := newServer(t)
	admin := s.login("boss@desk.example.com", "admin-pass")
	member := s.registerMember("Client A")

	// create
	w := s.do(http.MethodPost, "/requests", admin, sampleTicket)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var created ticketJSON
	decode(t, w, &created)
	if created.Comments == nil || len(created.Comments) != 0 {
		t.Fatalf("comments should be an empty array: %s", w.Body.String())
	}

	// duplicate
	w = s.do(http.MethodPost, "/requests", admin, sampleTicket)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "request_number_taken" {
		t.Fatalf("duplicate: %d %s", w.Code, w.Body.String())
	}

	path := "/requests/" + itoa(created.ID)

	// comment as member
	w = s.do(http.MethodPost, path+"/comments", member, map[string]string{"text": "checked cable"})
	if w.Code != http.StatusCreated {
		t.Fatalf("comment: %d %s", w.Code, w.Body.String())
	}

	// partial update
	w = s.do(http.MethodPut, path, admin, map[string]string{"status": "in-progress", "assigned_to": "Tech1"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodGet, path, member, nil)
	var got ticketJSON
	decode(t, w, &got)
	if got.Status != "in-progress" || got.AssignedTo == nil || *got.AssignedTo != "Tech1" || got.Description != "Screen is flickering" {
		t.Fatalf("after update: %+v", got)
	}
	if len(got.Comments) != 1 || got.Comments[0].Text != "checked cable" {
		t.Fatalf("comments: %+v", got.Comments)
	}

	// search
	w = s.do(http.MethodGet, "/requests?search=flicker", member, nil)
	var list struct {
		Data  []ticketJSON `json:"data"`
		Total int          `json:"total"`
	}
	decode(t, w, &list)
	if list.Total != 1 {
		t.Fatalf("search total = %d", list.Total)
	}
	w = s.do(http.MethodGet, "/requests?search=FLICKER", member, nil)
	decode(t, w, &list)
	if list.Total != 0 {
		t.Fatalf("search should be case-sensitive, got %d", list.Total)
	}

	// statistics
	w = s.do(http.MethodGet, "/statistics", member, nil)
	var stats struct {
		Total     int64            `json:"total_requests"`
		Completed int64            `json:"completed_requests"`
		Average   *float64         `json:"average_completion_time"`
		Types     map[string]int64 `json:"issue_types"`
	}
	decode(t, w, &stats)
	if stats.Total != 1 || stats.Completed != 0 || stats.Average != nil || stats.Types["Screen Issue"] != 1 {
		t.Fatalf("stats: %+v", stats)
	}

	// delete
	w = s.do(http.MethodDelete, path, admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, path},
		{http.MethodDelete, path},
		{http.MethodPut, path},
		{http.MethodPost, path + "/comments"},
	} {
		w = s.do(tc.method, tc.path, admin, map[string]string{"text": "x", "status": "done"})
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s %s after delete: %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestUserRoleIsForbiddenFromAdminRoutes(t *testing.T) {
	s := newServer(t)
	admin := s.login("boss@desk.example.com", "admin-pass")
	member := s.registerMember("Client A")

	w := s.do(http.MethodPost, "/requests", admin, sampleTicket)
	var created ticketJSON
	decode(t, w, &created)
	path := "/requests/" + itoa(created.ID)
	events := len(s.audit.Actions())

	cases := []struct {
		method, path string
		body         any
	}{
		{http.MethodPost, "/requests", map[string]string{"request_number": "REQ9"}},
		{http.MethodPut, path, map[string]string{"status": "done"}},
		{http.MethodDelete, path, nil},
		{http.MethodPost, "/add-executor", map[string]string{"name": "Tech1"}},
		{http.MethodGet, "/audit-logs", nil},
	}
	for _, tc := range cases {
		w := s.do(tc.method, tc.path, member, tc.body)
		if w.Code != http.StatusForbidden || errorCode(t, w) != "permission_denied" {
			t.Fatalf("%s %s: %d %s", tc.method, tc.path, w.Code, w.Body.String())
		}
	}

	w = s.do(http.MethodGet, path, member, nil)
	var got ticketJSON
	decode(t, w, &got)
	if got.Status != "pending" {
		t.Fatalf("ticket mutated: %+v", got)
	}
	if len(s.audit.Actions()) != events {
		t.Fatalf("forbidden calls were audited as mutations")
	}
}

func TestUnauthenticated(t *testing.T) {
	s := newServer(t)

	for _, p := range []string{"/", "/requests", "/statistics", "/executors", "/me"} {
		w := s.do(http.MethodGet, p, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s: %d", p, w.Code)
		}
	}

	w := s.do(http.MethodGet, "/requests", "garbage", nil)
	if w.Code != http.StatusUnauthorized || errorCode(t, w) != "invalid_token" {
		t.Fatalf("bad token: %d %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodPost, "/login", "", map[string]string{"email": "boss@desk.example.com", "password": "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: %d", w.Code)
	}
}

func TestDashboardAndClientView(t *testing.T) {
	s := newServer(t)
	admin := s.login("boss@desk.example.com", "admin-pass")
	member := s.registerMember("Client A")

	s.do(http.MethodPost, "/requests", admin, sampleTicket)
	other := map[string]string{}
	for k, v := range sampleTicket {
		other[k] = v
	}
	other["request_number"] = "REQ002"
	other["client"] = "Client B"
	s.do(http.MethodPost, "/requests", admin, other)

	w := s.do(http.MethodGet, "/", member, nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/client" {
		t.Fatalf("user dashboard: %d %v", w.Code, w.Header())
	}

	w = s.do(http.MethodGet, "/", admin, nil)
	var dash struct {
		Executors  []any          `json:"executors"`
		Statistics map[string]any `json:"statistics"`
	}
	decode(t, w, &dash)
	if dash.Executors == nil || dash.Statistics["total_requests"].(float64) != 2 {
		t.Fatalf("admin dashboard: %s", w.Body.String())
	}

	w = s.do(http.MethodGet, "/client", member, nil)
	var list struct {
		Data []ticketJSON `json:"data"`
	}
	decode(t, w, &list)
	if len(list.Data) != 1 || list.Data[0].RequestNumber != "REQ001" {
		t.Fatalf("client view: %s", w.Body.String())
	}
}

func TestAddExecutorForm(t *testing.T) {
	s := newServer(t)
	admin := s.login("boss@desk.example.com", "admin-pass")

	post := func() *httptest.ResponseRecorder {
		form := url.Values{"name": {"Tech1"}}
		req := httptest.NewRequest(http.MethodPost, "/add-executor", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Authorization", "Bearer "+admin)
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)
		return w
	}

	if w := post(); w.Code != http.StatusCreated {
		t.Fatalf("add executor: %d %s", w.Code, w.Body.String())
	}
	if w := post(); w.Code != http.StatusBadRequest || errorCode(t, w) != "executor_exists" {
		t.Fatalf("duplicate executor: %d %s", w.Code, w.Body.String())
	}

	w := s.do(http.MethodGet, "/add-executor", admin, nil)
	var list struct {
		Total int `json:"total"`
	}
	decode(t, w, &list)
	if list.Total != 1 {
		t.Fatalf("executors = %s", w.Body.String())
	}
}

func TestLogoutRevokesSessionCookie(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/login", "", map[string]string{"email": "boss@desk.example.com", "password": "admin-pass"})
	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" {
			session = c
		}
	}
	if session == nil || !session.HttpOnly {
		t.Fatalf("session cookie missing or not HttpOnly: %v", w.Result().Cookies())
	}

	withCookie := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		req.AddCookie(session)
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)
		return w.Code
	}

	if code := withCookie(http.MethodGet, "/me"); code != http.StatusOK {
		t.Fatalf("cookie auth: %d", code)
	}
	if code := withCookie(http.MethodPost, "/logout"); code != http.StatusOK {
		t.Fatalf("logout: %d", code)
	}
	if code := withCookie(http.MethodGet, "/me"); code != http.StatusUnauthorized {
		t.Fatalf("revoked cookie still accepted: %d", code)
	}
}

func TestAttachmentUploadWithoutStorage(t *testing.T) {
	s := newServer(t)
	admin := s.login("boss@desk.example.com", "admin-pass")

	w := s.do(http.MethodPost, "/requests", admin, sampleTicket)
	var created ticketJSON
	decode(t, w, &created)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", "notes.txt")
	_, _ = part.Write([]byte("hello"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/requests/"+itoa(created.ID)+"/attachments", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable || errorCode(t, rec) != "storage_unavailable" {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("health: %d %v", w.Code, w.Header())
	}
}

func itoa(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
