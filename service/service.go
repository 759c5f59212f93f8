package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/corpweb/sitedesk/internal/activity"
	"github.com/corpweb/sitedesk/internal/carousel"
	"github.com/corpweb/sitedesk/internal/contentapi"
	"github.com/corpweb/sitedesk/internal/handlers"
	"github.com/corpweb/sitedesk/internal/jobs"
	"github.com/corpweb/sitedesk/internal/media"
	"github.com/corpweb/sitedesk/internal/middleware"
	"github.com/corpweb/sitedesk/internal/nav"
	"github.com/corpweb/sitedesk/internal/session"
	"github.com/corpweb/sitedesk/storage"
	"github.com/corpweb/sitedesk/views"
	"github.com/labstack/echo/v4"
)

type Service struct {
	storage  *storage.Storage
	config   *Config
	api      *contentapi.Client
	sessions *session.Manager
	activity *activity.Log
	pruner   *jobs.ActivityPruner

	dashboard  *handlers.DashboardHandler
	carousel   *handlers.CarouselHandler
	products   *handlers.ProductsHandler
	categories *handlers.CategoriesHandler
	teams      *handlers.Screen[contentapi.TeamMember]
	awards     *handlers.Screen[contentapi.Award]
	notices    *handlers.Screen[contentapi.Notice]
	careers    *handlers.Screen[contentapi.Career]
	branches   *handlers.Screen[contentapi.Branch]
	stories    *handlers.StoriesHandler
	gallery    *handlers.GalleryHandler
}

func New(storage *storage.Storage, config *Config, uploader media.Uploader) *Service {
	api := contentapi.NewClient(config.ContentAPI.URL, config.ContentAPI.Key, config.ContentAPI.Timeout)
	sessions := session.NewManager(config.Session.Secret, config.Environment == "production")
	log := activity.NewLog(storage.Queries)

	base := handlers.NewBase(sessions, log, nav.MustLoad(), uploader, config.Media.MaxSize)
	taxonomy := handlers.Taxonomy{Categories: api.Categories(), Subcategories: api.Subcategories()}
	boards := carousel.NewRegistry(api.Carousel(), config.Carousel.PageSize, config.Carousel.IdleTTL)

	s := &Service{
		storage:  storage,
		config:   config,
		api:      api,
		sessions: sessions,
		activity: log,
		pruner:   jobs.NewActivityPruner(log, config.Activity.Retention),

		carousel:   handlers.NewCarouselHandler(base, api.Carousel(), api.Products(), boards),
		products:   handlers.NewProductsHandler(base, api.Products(), taxonomy),
		categories: handlers.NewCategoriesHandler(base, taxonomy),
		teams:      handlers.NewTeamsScreen(base, api.Teams()),
		awards:     handlers.NewAwardsScreen(base, api.Awards()),
		notices:    handlers.NewNoticesScreen(base, api.Notices()),
		careers:    handlers.NewCareersScreen(base, api.Careers()),
		branches:   handlers.NewBranchesScreen(base, api.Branches(), api.Regions()),
		stories:    handlers.NewStoriesHandler(base, api.Articles(), api.Blogs(), api.Gallery()),
		gallery:    handlers.NewGalleryHandler(base, api.Gallery()),
	}
	s.dashboard = handlers.NewDashboardHandler(base, log,
		handlers.Tally{Label: "Carousel items", URL: "/admin/home", Count: handlers.CountOf(api.Carousel().List)},
		handlers.Tally{Label: "Products", URL: "/admin/products", Count: handlers.CountOf(api.Products().List)},
		handlers.Tally{Label: "Team members", URL: "/admin/about/teams", Count: handlers.CountOf(api.Teams().List)},
		handlers.Tally{Label: "Open roles", URL: "/admin/careers", Count: handlers.CountOf(api.Careers().List)},
		handlers.Tally{Label: "Notices", URL: "/admin/notices", Count: handlers.CountOf(api.Notices().List)},
		handlers.Tally{Label: "Branches", URL: "/admin/settings/branches", Count: handlers.CountOf(api.Branches().List)},
		handlers.Tally{Label: "Articles", URL: "/admin/stories?tab=Articles", Count: handlers.CountOf(api.Articles().List)},
		handlers.Tally{Label: "Awards", URL: "/admin/about/awards", Count: handlers.CountOf(api.Awards().List)},
	)
	return s
}

// NewUploader builds the media host client MEDIA_PROVIDER selects.
func NewUploader(ctx context.Context, config *Config) (media.Uploader, error) {
	switch config.Media.Provider {
	case "s3":
		return media.NewS3Uploader(ctx, media.S3Options{
			Bucket:          config.S3.Bucket,
			Region:          config.S3.Region,
			Prefix:          config.S3.Prefix,
			AccessKeyID:     config.S3.AccessKeyID,
			SecretAccessKey: config.S3.SecretAccessKey,
			PublicBaseURL:   config.S3.PublicBaseURL,
			MaxSize:         config.Media.MaxSize,
		})
	case "cloudinary":
		return media.NewCloudinaryUploader(config.Cloudinary.Cloud, config.Cloudinary.UploadPreset, config.Media.MaxSize), nil
	}
	return nil, fmt.Errorf("unknown media provider %q", config.Media.Provider)
}

// Start runs the background jobs until ctx ends or Stop is called.
func (s *Service) Start(ctx context.Context) {
	s.pruner.Start(ctx)
}

func (s *Service) Stop() {
	s.pruner.Stop()
}

func (s *Service) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.handleHealth)
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/admin")
	})

	// Paths the old console used
	legacy := map[string]string{
		"/home":              "/admin/home",
		"/products":          "/admin/products",
		"/categories":        "/admin/categories",
		"/about/awards":      "/admin/about/awards",
		"/awards":            "/admin/about/awards",
		"/about/teams":       "/admin/about/teams",
		"/careers":           "/admin/careers",
		"/stories":           "/admin/stories",
		"/stories/gallery":   "/admin/stories/gallery",
		"/notices":           "/admin/notices",
		"/settings/branches": "/admin/settings/branches",
	}
	for from, to := range legacy {
		e.GET(from, func(c echo.Context) error {
			return c.Redirect(http.StatusMovedPermanently, to)
		})
	}

	admin := e.Group("/admin")
	admin.Use(middleware.BasicAuth(s.config.Admin.Username, s.config.Admin.Password))
	admin.Use(middleware.LoadOperator(s.sessions))
	admin.Use(s.carousel.Unmount)

	admin.StaticFS("/static", views.Static())

	admin.GET("", s.dashboard.HandleDashboard)

	admin.GET("/home", s.carousel.HandleList)
	s.carousel.Register(admin)

	admin.GET("/products", s.products.HandleList)
	s.products.Register(admin)

	admin.GET("/categories", s.categories.HandleList)
	s.categories.Register(admin)

	admin.GET("/about/teams", s.teams.HandleList)
	s.teams.Register(admin)

	admin.GET("/about/awards", s.awards.HandleList)
	s.awards.Register(admin)

	admin.GET("/notices", s.notices.HandleList)
	s.notices.Register(admin)

	admin.GET("/careers", s.careers.HandleList)
	s.careers.Register(admin)

	admin.GET("/settings/branches", s.branches.HandleList)
	s.branches.Register(admin)

	admin.GET("/stories", s.stories.HandleList)
	s.stories.Register(admin)

	admin.GET("/stories/gallery", s.gallery.HandleList)
	s.gallery.Register(admin)

	admin.POST("/logout", s.handleLogout)
}

func (s *Service) handleHealth(c echo.Context) error {
	health, database, code := "healthy", "connected", http.StatusOK
	if err := s.storage.DB().PingContext(c.Request().Context()); err != nil {
		slog.Error("health check database ping failed", "error", err)
		health, database, code = "degraded", "unavailable", http.StatusServiceUnavailable
	}
	version, _ := s.storage.Version()
	return c.JSON(code, map[string]any{
		"status":      health,
		"environment": s.config.Environment,
		"database":    database,
		"schema":      version,
		"content_api": s.api.BaseURL(),
	})
}

// handleLogout drops the operator session. Basic auth credentials stay
// cached by the browser until it is closed.
func (s *Service) handleLogout(c echo.Context) error {
	if err := s.sessions.Destroy(c); err != nil {
		slog.Warn("failed to destroy session", "error", err)
	}
	return c.Redirect(http.StatusSeeOther, "/admin")
}
