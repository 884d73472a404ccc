package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/goleak"

	"github.com/oksasatya/internship-portal/config"
	"github.com/oksasatya/internship-portal/internal/domain/entity"
	"github.com/oksasatya/internship-portal/internal/domain/repository/mock"
	"github.com/oksasatya/internship-portal/internal/router"
	"github.com/oksasatya/internship-portal/pkg/helpers"
	"github.com/oksasatya/internship-portal/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	// The storage client's stats worker is process-wide and never stops.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type client struct {
	t      *testing.T
	engine http.Handler
}

func (c client) do(method, path, token string, body io.Reader, contentType string) (int, envelope, *httptest.ResponseRecorder) {
	c.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			c.t.Fatalf("%s %s: body is not an envelope: %s", method, path, w.Body)
		}
	}
	return w.Code, env, w
}

func (c client) json(method, path, token string, payload any) (int, envelope) {
	c.t.Helper()
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	code, env, _ := c.do(method, path, token, body, "application/json")
	return code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

type testServer struct {
	client
	mocks *mock.Mocks
}

func newServer(t *testing.T) testServer {
	t.Helper()
	m := mock.NewMocks()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		AppName:              "portal",
		MaxUploadMB:          2,
		PasswordMinLength:    8,
		RememberTTL:          30 * 24 * time.Hour,
		ApplicationMaxFields: 10,
		SupportedLanguages:   "en,id",
		DefaultLanguage:      "en",
		MailSendEnabled:      true,
	}
	deps := router.Dependencies{
		Config:       cfg,
		Logger:       logger,
		JWT:          helpers.NewJWTManager("access", "refresh", 15*time.Minute, 24*time.Hour),
		Users:        m.Users,
		Profiles:     m.Profiles,
		Categories:   m.Categories,
		Companies:    m.Companies,
		Internships:  m.Internships,
		Applications: m.Applications,
		Contacts:     m.Contacts,
		Sessions:     m.Sessions,
		Files:        m.Files,
		Publisher:    m.Publisher,
	}
	return testServer{client: client{t: t, engine: router.NewEngine(deps, "")}, mocks: m}
}

type tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s testServer) login(email, password string) tokens {
	s.t.Helper()
	code, env := s.json(http.MethodPost, "/api/users/login", "", map[string]any{"email": email, "password": password})
	if code != http.StatusOK {
		s.t.Fatalf("login %s: %d %s", email, code, env.Error)
	}
	return decode[tokens](s.t, env.Data)
}

func (s testServer) seedAdmin() tokens {
	s.t.Helper()
	hash, err := helpers.HashPassword("root-pass-1")
	if err != nil {
		s.t.Fatal(err)
	}
	admin := &entity.User{Username: "root", Email: "root@example.com", Password: hash, IsAdmin: true}
	if err := s.mocks.Users.Create(context.Background(), admin); err != nil {
		s.t.Fatal(err)
	}
	return s.login("root@example.com", "root-pass-1")
}

func (s testServer) register(username, email, password string) {
	s.t.Helper()
	code, env := s.json(http.MethodPost, "/api/users/register", "", map[string]any{
		"username": username, "first_name": "Alice", "last_name": "Liddell",
		"email": email, "password": password, "confirm_password": password,
	})
	if code != http.StatusCreated {
		s.t.Fatalf("register: %d %s", code, env.Error)
	}
}

func (s testServer) createNamed(token, path, name string) int64 {
	s.t.Helper()
	code, env := s.json(http.MethodPost, path, token, map[string]any{"name": name})
	if code != http.StatusCreated {
		s.t.Fatalf("POST %s: %d %s", path, code, env.Error)
	}
	return decode[struct {
		ID int64 `json:"id"`
	}](s.t, env.Data).ID
}

func applyForm(t *testing.T, internship int64, titles string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("internship", strconv.FormatInt(internship, 10))
	_ = w.WriteField("additional_titles", titles)
	_ = w.WriteField("description", "I like Go")
	_ = w.WriteField("status", "approved")
	fw, err := w.CreateFormFile("file", "cv.pdf")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte("%PDF-1.4 resume"))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

type appView struct {
	ID               int64             `json:"id"`
	Status           string            `json:"status"`
	AdditionalTitles map[string]string `json:"additional_titles"`
	File             string            `json:"file"`
}

func TestApplicationLifecycle(t *testing.T) {
	s := newServer(t)

	s.register("alice", "alice@example.com", "wonderland-42")
	alice := s.login("ALICE@example.com", "wonderland-42")
	admin := s.seedAdmin()

	if code, _ := s.json(http.MethodPost, "/api/categories", alice.AccessToken, map[string]any{"name": "Backend"}); code != http.StatusForbidden {
		t.Fatalf("non-admin created a category: %d", code)
	}
	catID := s.createNamed(admin.AccessToken, "/api/categories", "Backend")
	coID := s.createNamed(admin.AccessToken, "/api/companies", "Acme")

	code, env := s.json(http.MethodPost, "/api/internships", admin.AccessToken, map[string]any{
		"company_id": coID, "category_id": catID, "title": "Go Intern", "published": "2024-05-01",
		"description": "Build services",
	})
	if code != http.StatusCreated {
		t.Fatalf("create internship: %d %s", code, env.Error)
	}
	internship := decode[struct {
		ID        int64   `json:"id"`
		Published *string `json:"published"`
	}](t, env.Data)
	if internship.Published == nil || *internship.Published != "2024-05-01" {
		t.Fatalf("published = %v", internship.Published)
	}

	code, env = s.json(http.MethodGet, "/api/internships?query=go&category=back", "", nil)
	if code != http.StatusOK || len(decode[[]json.RawMessage](t, env.Data)) != 1 {
		t.Fatalf("search: %d %s", code, env.Data)
	}

	body, ct := applyForm(t, internship.ID, `{"GitHub":"https://github.com/alice"}`)
	code, env, _ = s.do(http.MethodPost, "/api/apply", alice.AccessToken, body, ct)
	if code != http.StatusCreated {
		t.Fatalf("apply: %d %s", code, env.Error)
	}
	app := decode[appView](t, env.Data)
	if app.Status != "pending" || app.AdditionalTitles["GitHub"] == "" || app.File == "" {
		t.Fatalf("application = %+v", app)
	}

	code, env = s.json(http.MethodGet, "/api/applications/admin", admin.AccessToken, nil)
	if code != http.StatusOK || len(decode[[]appView](t, env.Data)) != 1 {
		t.Fatalf("pending: %d %s", code, env.Data)
	}

	reviewPath := "/api/applications/admin/" + strconv.FormatInt(app.ID, 10) + "/approve"
	code, env = s.json(http.MethodPost, reviewPath, admin.AccessToken, nil)
	if code != http.StatusOK || decode[map[string]string](t, env.Data)["status"] != "approved" {
		t.Fatalf("approve: %d %s", code, env.Data)
	}
	if code, _ = s.json(http.MethodPost, reviewPath, admin.AccessToken, nil); code != http.StatusConflict {
		t.Fatalf("second approve: %d", code)
	}
	rejectPath := "/api/applications/admin/" + strconv.FormatInt(app.ID, 10) + "/reject"
	if code, _ = s.json(http.MethodPost, rejectPath, admin.AccessToken, nil); code != http.StatusConflict {
		t.Fatalf("reject after approve: %d", code)
	}

	code, env = s.json(http.MethodGet, "/api/my-applications", alice.AccessToken, nil)
	mine := decode[[]appView](t, env.Data)
	if code != http.StatusOK || len(mine) != 1 || mine[0].Status != "approved" {
		t.Fatalf("my applications: %d %s", code, env.Data)
	}

	code, env = s.json(http.MethodGet, "/api/about", "", nil)
	stats := decode[map[string]int64](t, env.Data)
	if code != http.StatusOK || stats["internship_count"] != 1 || stats["application_count"] != 1 || stats["user_count"] != 2 {
		t.Fatalf("about: %d %v", code, stats)
	}

	if n := len(s.mocks.Publisher.Published()); n != 2 {
		t.Fatalf("queued %d emails, want welcome and review", n)
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	s := newServer(t)
	s.register("bob", "bob@example.com", "builder-123")
	pair := s.login("bob@example.com", "builder-123")

	code, env := s.json(http.MethodPost, "/api/users/token/refresh", "", map[string]any{"refresh_token": pair.RefreshToken})
	if code != http.StatusOK {
		t.Fatalf("refresh: %d %s", code, env.Error)
	}
	rotated := decode[tokens](t, env.Data)
	if code, _ = s.json(http.MethodPost, "/api/users/token/refresh", "", map[string]any{"refresh_token": pair.RefreshToken}); code != http.StatusUnauthorized {
		t.Fatalf("reused refresh token: %d", code)
	}

	if code, _ = s.json(http.MethodPost, "/api/users/logout", rotated.AccessToken, map[string]any{"refresh_token": "junk"}); code != http.StatusBadRequest {
		t.Fatalf("logout with junk token: %d", code)
	}
	if code, env = s.json(http.MethodPost, "/api/users/logout", rotated.AccessToken, map[string]any{"refresh_token": rotated.RefreshToken}); code != http.StatusOK {
		t.Fatalf("logout: %d %s", code, env.Error)
	}
	if code, _ = s.json(http.MethodPost, "/api/users/token/refresh", "", map[string]any{"refresh_token": rotated.RefreshToken}); code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout: %d", code)
	}
	if code, _ = s.json(http.MethodGet, "/api/users/profile", rotated.AccessToken, nil); code != http.StatusUnauthorized {
		t.Fatalf("access token outlived its session: %d", code)
	}
}

func TestRegisterValidation(t *testing.T) {
	s := newServer(t)
	code, env := s.json(http.MethodPost, "/api/users/register", "", map[string]any{
		"username": "carol", "email": "not-an-email", "password": "a", "confirm_password": "a",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d", code)
	}
	fields := decode[map[string]string](t, env.Error)
	if fields["email"] == "" || fields["first_name"] != "is required" {
		t.Fatalf("fields = %v", fields)
	}
}

func TestApplyRequiresMultipart(t *testing.T) {
	s := newServer(t)
	s.register("dave", "dave@example.com", "dave-pass-77")
	tok := s.login("dave@example.com", "dave-pass-77")

	if code, _ := s.json(http.MethodPost, "/api/apply", tok.AccessToken, map[string]any{"internship": 1}); code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d", code)
	}
	if code, _ := s.json(http.MethodGet, "/api/my-applications", "", nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous list: %d", code)
	}

	for _, titles := range []string{`["a"]`, `{"a":1}`, `{"a":`} {
		body, ct := applyForm(t, 1, titles)
		code, env, _ := s.do(http.MethodPost, "/api/apply", tok.AccessToken, body, ct)
		if code != http.StatusBadRequest || decode[map[string]string](t, env.Error)["additional_titles"] == "" {
			t.Fatalf("titles %s: %d %s", titles, code, env.Error)
		}
	}
	if s.mocks.Files.Len() != 0 {
		t.Fatal("rejected applications left files behind")
	}
}

func TestChangeLanguage(t *testing.T) {
	s := newServer(t)

	code, _, w := s.do(http.MethodPost, "/api/change-language", "", bytes.NewReader([]byte(`{"language":"en-US"}`)), "application/json")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var lang *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "lang" {
			lang = c
		}
	}
	if lang == nil || lang.Value != "en" {
		t.Fatalf("language cookie = %v", lang)
	}

	if code, _ := s.json(http.MethodPost, "/api/change-language", "", map[string]any{"language": "fr"}); code != http.StatusBadRequest {
		t.Fatalf("unsupported language: %d", code)
	}
}

func TestContactInbox(t *testing.T) {
	s := newServer(t)
	admin := s.seedAdmin()

	code, env := s.json(http.MethodPost, "/api/contact", "", map[string]any{
		"first_name": "Eve", "last_name": "Moneypenny", "email": "Eve M <eve@example.com>", "message": "Hello there",
	})
	if code != http.StatusBadRequest || decode[map[string]string](t, env.Error)["email"] == "" {
		t.Fatalf("display-name email: %d %s", code, env.Error)
	}

	code, env = s.json(http.MethodPost, "/api/contact", "", map[string]any{
		"first_name": "Eve", "last_name": "Moneypenny", "email": "eve@example.com", "message": "Hello there",
	})
	if code != http.StatusCreated {
		t.Fatalf("submit: %d %s", code, env.Error)
	}
	id := decode[struct {
		ID int64 `json:"id"`
	}](t, env.Data).ID

	if code, _ = s.json(http.MethodGet, "/api/contact", "", nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous inbox: %d", code)
	}
	code, env = s.json(http.MethodGet, "/api/contact?pk="+strconv.FormatInt(id, 10), admin.AccessToken, nil)
	if code != http.StatusOK {
		t.Fatalf("get by pk: %d %s", code, env.Error)
	}
	code, env = s.json(http.MethodPatch, "/api/contact/"+strconv.FormatInt(id, 10), admin.AccessToken, map[string]any{"message": "Edited"})
	if code != http.StatusOK || decode[map[string]any](t, env.Data)["message"] != "Edited" {
		t.Fatalf("patch: %d %s", code, env.Data)
	}
	if code, _, _ = s.do(http.MethodDelete, "/api/contact/"+strconv.FormatInt(id, 10), admin.AccessToken, nil, ""); code != http.StatusNoContent {
		t.Fatalf("delete: %d", code)
	}
	if code, _ = s.json(http.MethodGet, "/api/contact/"+strconv.FormatInt(id, 10), admin.AccessToken, nil); code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", code)
	}
}

func TestHealthz(t *testing.T) {
	s := newServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("healthz: %d %v", w.Code, w.Header())
	}
}
