package application_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/internship-portal/config"
	"github.com/oksasatya/internship-portal/internal/application"
	"github.com/oksasatya/internship-portal/internal/domain/entity"
	"github.com/oksasatya/internship-portal/internal/domain/repository/mock"
	"github.com/oksasatya/internship-portal/pkg/helpers"
)

type env struct {
	m        *mock.Mocks
	cfg      *config.Config
	users    *application.UserService
	catalog  *application.CatalogService
	workflow *application.WorkflowService
	contacts *application.ContactService
	stats    *application.StatsService
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newEnv(t *testing.T) *env {
	t.Helper()
	m := mock.NewMocks()
	cfg := &config.Config{
		AppName:            "internship-portal",
		MailSendEnabled:    true,
		ContactNotifyEmail: "inbox@example.com",
		MyApplicationsURL:  "http://localhost:3000/my-applications",
	}
	logger := quietLogger()
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", 5*time.Minute, 24*time.Hour)
	notify := application.NewNotifier(m.Publisher, cfg, logger)

	return &env{
		m:   m,
		cfg: cfg,
		users: application.NewUserService(m.Users, m.Profiles, m.Sessions, jwt, m.Files, notify, logger,
			helpers.PasswordPolicy{MinLength: 8}, 30*24*time.Hour),
		catalog:  application.NewCatalogService(m.Categories, m.Companies, m.Internships, nil, m.Files, logger),
		workflow: application.NewWorkflowService(m.Applications, m.Internships, m.Users, m.Files, notify, logger, 3),
		contacts: application.NewContactService(m.Contacts, notify, logger),
		stats:    application.NewStatsService(m.Internships, m.Applications, m.Users),
	}
}

func (e *env) register(t *testing.T, username, email, password string) *entity.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), application.RegisterInput{
		Username: username, FirstName: "A", LastName: "L", Email: email,
		Password: password, ConfirmPassword: password,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u
}

func (e *env) internship(t *testing.T, title, category, company string) *entity.Internship {
	t.Helper()
	ctx := context.Background()
	cat, err := e.catalog.CreateCategory(ctx, category)
	if err != nil {
		t.Fatalf("category: %v", err)
	}
	co, err := e.catalog.CreateCompany(ctx, company)
	if err != nil {
		t.Fatalf("company: %v", err)
	}
	in, err := e.catalog.CreateInternship(ctx, application.InternshipInput{
		CompanyID: &co.ID, CategoryID: &cat.ID, Title: &title,
	})
	if err != nil {
		t.Fatalf("internship: %v", err)
	}
	return in
}

func upload(name, body string) *application.Upload {
	return &application.Upload{Reader: strings.NewReader(body), Filename: name, ContentType: "application/octet-stream"}
}

func ptr[T any](v T) *T { return &v }

func wantField(t *testing.T, err error, field string) {
	t.Helper()
	ve, ok := application.IsValidation(err)
	if !ok {
		t.Fatalf("err = %v, want ValidationError on %q", err, field)
	}
	if _, ok := ve.Fields[field]; !ok {
		t.Fatalf("ValidationError fields = %v, want %q", ve.Fields, field)
	}
}

func wantErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("err = %v, want %v", err, target)
	}
}
