package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/internship-portal/config"
	"github.com/oksasatya/internship-portal/internal/application"
	"github.com/oksasatya/internship-portal/internal/domain/entity"
	"github.com/oksasatya/internship-portal/internal/domain/repository"
	pginfra "github.com/oksasatya/internship-portal/internal/infrastructure/postgres"
	"github.com/oksasatya/internship-portal/pkg/helpers"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	users := pginfra.NewUserRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)

	email := getenv("SEED_ADMIN_EMAIL", "admin@example.com")
	password := getenv("SEED_ADMIN_PASSWORD", "admin12345")
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	admin, err := users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		admin = &entity.User{Username: "admin", Email: email, Password: hash, FirstName: "Site", LastName: "Admin", IsAdmin: true}
		if err := users.Create(ctx, admin); err != nil {
			log.Fatalf("failed to seed admin: %v", err)
		}
		p := &entity.Profile{}
		p.SyncFrom(admin)
		if err := profiles.Create(ctx, p); err != nil {
			log.Fatalf("failed to seed admin profile: %v", err)
		}
	case err != nil:
		log.Fatalf("failed to look up admin: %v", err)
	default:
		admin.IsAdmin = true
		if err := users.Update(ctx, admin); err != nil {
			log.Fatalf("failed to promote admin: %v", err)
		}
		if err := users.UpdatePassword(ctx, admin.ID, hash); err != nil {
			log.Fatalf("failed to reset admin password: %v", err)
		}
	}
	helpers.LogInfo(logger, "admin ready", logrus.Fields{"email": email})

	catalog := application.NewCatalogService(
		pginfra.NewCategoryRepository(pool),
		pginfra.NewCompanyRepository(pool),
		pginfra.NewInternshipRepository(pool),
		nil, nil, logger,
	)
	n, err := catalog.CountInternships(ctx)
	if err != nil {
		helpers.LogError(logger, "count internships failed", err, nil)
		return
	}
	if n > 0 {
		helpers.LogInfo(logger, "catalog already seeded", logrus.Fields{"internships": n})
		return
	}

	demo := []struct{ category, company, title, description string }{
		{"IT", "Acme", "Backend Developer Intern", "Go services and PostgreSQL"},
		{"IT", "Globex", "Frontend Intern", "React and TypeScript"},
		{"Marketing", "Initech", "Marketing Intern", "Campaigns and analytics"},
	}
	cats := map[string]int64{}
	cos := map[string]int64{}
	published := time.Now().UTC().Truncate(24 * time.Hour)
	for _, d := range demo {
		if _, ok := cats[d.category]; !ok {
			c, err := catalog.CreateCategory(ctx, d.category)
			if err != nil {
				log.Fatalf("failed to seed category: %v", err)
			}
			cats[d.category] = c.ID
		}
		if _, ok := cos[d.company]; !ok {
			c, err := catalog.CreateCompany(ctx, d.company)
			if err != nil {
				log.Fatalf("failed to seed company: %v", err)
			}
			cos[d.company] = c.ID
		}
		catID, coID, title, desc := cats[d.category], cos[d.company], d.title, d.description
		if _, err := catalog.CreateInternship(ctx, application.InternshipInput{
			CategoryID: &catID, CompanyID: &coID, Title: &title, Description: &desc, Published: &published,
		}); err != nil {
			log.Fatalf("failed to seed internship: %v", err)
		}
	}
	helpers.LogInfo(logger, "demo catalog seeded", logrus.Fields{"internships": len(demo)})
}
