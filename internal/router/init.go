package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/internship-portal/config"
	"github.com/oksasatya/internship-portal/internal/application"
	"github.com/oksasatya/internship-portal/internal/container"
	repo "github.com/oksasatya/internship-portal/internal/domain/repository"
	pginfra "github.com/oksasatya/internship-portal/internal/infrastructure/postgres"
	"github.com/oksasatya/internship-portal/internal/infrastructure/redisstore"
	handlers "github.com/oksasatya/internship-portal/internal/interface/http"
	"github.com/oksasatya/internship-portal/internal/interface/middleware"
	"github.com/oksasatya/internship-portal/internal/router/modules"
	"github.com/oksasatya/internship-portal/pkg/helpers"
)

// Dependencies is everything the HTTP modules need. Redis, Index and
// Publisher are optional.
type Dependencies struct {
	Config *config.Config
	Logger *logrus.Logger
	JWT    *helpers.JWTManager
	Redis  *redis.Client

	Users        repo.UserRepository
	Profiles     repo.ProfileRepository
	Categories   repo.CategoryRepository
	Companies    repo.CompanyRepository
	Internships  repo.InternshipRepository
	Applications repo.ApplicationRepository
	Contacts     repo.ContactRepository
	Sessions     repo.SessionStore

	Files     application.FileStore
	Index     application.InternshipIndex
	Publisher application.Publisher
}

// DependenciesFromContainer builds the Postgres and Redis backed set from the
// process-wide singletons.
func DependenciesFromContainer() Dependencies {
	pool := container.GetPGPool()
	cfg := container.GetConfig()

	deps := Dependencies{
		Config: cfg,
		Logger: container.GetLogger(),
		JWT:    container.GetJWT(),
		Redis:  container.GetRedis(),

		Users:        pginfra.NewUserRepository(pool),
		Profiles:     pginfra.NewProfileRepository(pool),
		Categories:   pginfra.NewCategoryRepository(pool),
		Companies:    pginfra.NewCompanyRepository(pool),
		Internships:  pginfra.NewInternshipRepository(pool),
		Applications: pginfra.NewApplicationRepository(pool),
		Contacts:     pginfra.NewContactRepository(pool),
		Sessions:     redisstore.NewSessionStore(container.GetRedis()),

		Files: container.GetFileStore(),
	}
	if idx := container.GetInternshipIndex(); idx != nil && cfg.SearchBackend == "elasticsearch" {
		deps.Index = idx
	}
	if pub := container.GetRabbitPub(); pub != nil {
		deps.Publisher = pub
	}
	return deps
}

// InitModules builds services and handlers from deps and registers every
// module with the registry.
func InitModules(r *Registry, deps Dependencies) {
	cfg, logger := deps.Config, deps.Logger
	notify := application.NewNotifier(deps.Publisher, cfg, logger)
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	users := application.NewUserService(deps.Users, deps.Profiles, deps.Sessions, deps.JWT, deps.Files, notify, logger,
		helpers.PasswordPolicy{MinLength: cfg.PasswordMinLength}, cfg.RememberTTL)
	catalog := application.NewCatalogService(deps.Categories, deps.Companies, deps.Internships, deps.Index, deps.Files, logger)
	workflow := application.NewWorkflowService(deps.Applications, deps.Internships, deps.Users, deps.Files, notify, logger, cfg.ApplicationMaxFields)
	contacts := application.NewContactService(deps.Contacts, notify, logger)
	stats := application.NewStatsService(deps.Internships, deps.Applications, deps.Users)

	g := modules.Guards{
		Auth:  middleware.Auth(deps.Sessions, deps.JWT),
		Admin: middleware.AdminOnly(),
		RDB:   deps.Redis,
	}

	r.Add(modules.NewUserModule(handlers.NewUserHandler(users, logger, cfg.CookieDomain, cfg.CookieSecure), g))
	r.Add(modules.NewCatalogModule(handlers.NewCatalogHandler(catalog, logger), g))
	r.Add(modules.NewApplicationModule(handlers.NewApplicationHandler(workflow, logger), g))
	r.Add(modules.NewContactModule(handlers.NewContactHandler(contacts, logger), g))
	r.Add(modules.NewAboutModule(handlers.NewAboutHandler(stats, cfg.Languages(), cookies, logger), g))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(g))
	}
}

// NewEngine returns the gin engine with global middleware and every module
// mounted under /api. When mediaDir is set, local uploads are served at /media.
func NewEngine(deps Dependencies, mediaDir string) *gin.Engine {
	cfg := deps.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(middleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		AllowAllOrigins:  len(cfg.CORSOrigins()) == 0,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(deps.Logger))
	}
	r.MaxMultipartMemory = cfg.MaxUploadBytes()
	r.Use(middleware.BodyLimit(cfg.MaxUploadBytes()))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	if mediaDir != "" {
		r.Static("/media", mediaDir)
	}

	reg := NewRegistry(r)
	InitModules(reg, deps)
	reg.RegisterAll()
	return r
}
