package internal

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/karloscodes/cartridge"
	cartridgemiddleware "github.com/karloscodes/cartridge/middleware"

	v1 "portfolio/api/v1"
	"portfolio/internal/config"
	"portfolio/internal/http"
	"portfolio/internal/http/middleware"
)

// publicCORSConfig is shared by every public endpoint; the tracker runs on
// arbitrary origins so this has to stay permissive.
var publicCORSConfig = &cors.Config{
	AllowOrigins: "*",
	AllowMethods: "POST,GET,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept, Authorization, Referrer, User-Agent",
}

// SetupSession configures session management on the server.
func SetupSession(srv *cartridge.Server) {
	cfg := config.GetConfig()
	sessionMgr := cartridge.NewSessionManager(cartridge.SessionConfig{
		CookieName: cfg.AppName + "_session",
		Secret:     cfg.GetSessionSecret(),
		TTL:        time.Duration(cfg.GetLoginSessionTimeout()) * time.Second,
		Secure:     cfg.IsProduction(),
		LoginPath:  "/login",
	})
	srv.SetSession(sessionMgr)
}

// MountAppRoutes mounts all application routes using cartridge's route API.
func MountAppRoutes(srv *cartridge.Server) {
	SetupSession(srv)

	cfg := config.GetConfig()
	sessionMgr := srv.Session()
	logger := srv.GetLogger()

	// Rate limiting only bites in production; in development and test it
	// would interfere with rapid-fire local requests.
	conditionalRateLimiter := func(limiter fiber.Handler) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if cfg.IsProduction() {
				return limiter(c)
			}
			return c.Next()
		}
	}

	// 70 req/min per IP covers legitimate tracker traffic while capping abuse.
	publicRateLimiter := conditionalRateLimiter(cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(70),
		cartridgemiddleware.WithDuration(time.Minute),
	))

	// Stricter limit on login to slow brute forcing.
	authRateLimiter := conditionalRateLimiter(cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(10),
		cartridgemiddleware.WithDuration(time.Minute),
	))

	// Public ingestion config: CORS first so rejected requests still carry
	// CORS headers the browser will accept.
	publicAPIConfig := &cartridge.RouteConfig{
		EnableCORS:       true,
		WriteConcurrency: false,
		CustomMiddleware: []fiber.Handler{publicRateLimiter},
		CORSConfig:       publicCORSConfig,
	}

	trackerConfig := &cartridge.RouteConfig{
		EnableCORS:       true,
		CustomMiddleware: []fiber.Handler{publicRateLimiter},
		CORSConfig:       publicCORSConfig,
	}

	// Admin pages go through the session with a login redirect.
	adminConfig := &cartridge.RouteConfig{
		CustomMiddleware: []fiber.Handler{
			sessionMgr.Middleware(),
		},
	}

	// The admin JSON API answers 401/403 as JSON and also accepts bearer
	// tokens so operator tooling can skip the browser. No Sec-Fetch-Site:
	// bearer clients are not browsers and send no fetch metadata.
	adminAPIConfig := &cartridge.RouteConfig{
		EnableSecFetchSite: cartridge.Bool(false),
		CustomMiddleware: []fiber.Handler{
			middleware.AdminAuth(sessionMgr, cfg.GetSessionSecret(), cfg.IsDevelopment(), logger),
		},
	}

	// === ROOT ROUTES ===
	srv.Get("/_health", http.HealthIndexAction)
	srv.Head("/_health", http.HealthIndexAction)

	// === PUBLIC API ROUTES ===
	srv.Post("/x/api/v1/events", v1.CreateEventPublicAPIHandler, publicAPIConfig)
	srv.Options("/x/api/v1/events", func(ctx *cartridge.Context) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	}, publicAPIConfig)
	srv.Get("/x/api/v1/projects", v1.ListProjectsPublicAPIHandler, publicAPIConfig)
	srv.Post("/x/api/v1/messages", v1.CreateMessagePublicAPIHandler, publicAPIConfig)
	srv.Options("/x/api/v1/messages", func(ctx *cartridge.Context) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	}, publicAPIConfig)
	srv.Post("/x/api/v1/uploads/:key", v1.PutUploadPublicAPIHandler, publicAPIConfig)

	// === TRACKER DELIVERY ===
	srv.Get("/x/api/v1/tracker.js", v1.GetTrackerAction, trackerConfig)

	// === AUTHENTICATION ROUTES ===
	loginConfig := &cartridge.RouteConfig{
		CustomMiddleware: []fiber.Handler{authRateLimiter},
	}
	srv.Get("/login", http.RenderLoginAction)
	srv.Post("/login", http.ProcessLoginAction, loginConfig)
	srv.Post("/logout", http.LogoutAction)

	// === PROTECTED ADMIN PAGES ===
	srv.Get("/admin", http.DashboardPageAction, adminConfig)

	// === ADMIN STATS API ===
	srv.Get("/admin/api/stats/summary", http.StatsSummaryAction, adminAPIConfig)
	srv.Get("/admin/api/stats/site-views", http.SiteViewsAction, adminAPIConfig)
	srv.Get("/admin/api/stats/projects", http.ProjectViewsAction, adminAPIConfig)
	srv.Get("/admin/api/stats/live-clicks", http.LiveClicksAction, adminAPIConfig)
	srv.Get("/admin/api/stats/traffic-sources", http.TrafficSourcesAction, adminAPIConfig)
	srv.Get("/admin/api/stats/devices", http.DevicesAction, adminAPIConfig)
	srv.Get("/admin/api/stats/countries", http.CountriesAction, adminAPIConfig)

	// === ADMIN EVENT LOG ===
	srv.Get("/admin/api/events", http.EventsIndexAction, adminAPIConfig)
	srv.Delete("/admin/api/events", http.ClearEventsAction, adminAPIConfig)

	// === ADMIN PROJECT CATALOG ===
	srv.Get("/admin/api/projects", http.ProjectsIndexAction, adminAPIConfig)
	srv.Post("/admin/api/projects", http.ProjectsCreateAction, adminAPIConfig)
	srv.Post("/admin/api/projects/:id", http.ProjectsUpdateAction, adminAPIConfig)
	srv.Delete("/admin/api/projects/:id", http.ProjectsDeleteAction, adminAPIConfig)

	// === ADMIN MESSAGES ===
	srv.Get("/admin/api/messages", http.MessagesIndexAction, adminAPIConfig)
	srv.Post("/admin/api/messages/:id/read", http.MessageReadAction, adminAPIConfig)
	srv.Delete("/admin/api/messages/:id", http.MessageDeleteAction, adminAPIConfig)

	// === ADMIN UPLOADS ===
	srv.Post("/admin/api/uploads", http.UploadGrantAction, adminAPIConfig)
}
