// api/routes/router.go
package routes

import (
	"context"
	"net/http"
	"time"

	"gamespace/docs"
	"gamespace/internal/auth"
	"gamespace/internal/bookings"
	"gamespace/internal/games"
	"gamespace/internal/live"
	"gamespace/internal/pages"
	"gamespace/internal/rooms"
	"gamespace/internal/scene"
	"gamespace/internal/session"
	"gamespace/internal/shared/config"
	"gamespace/internal/shared/database"
	"gamespace/internal/shared/middleware"
	"gamespace/internal/tables"
	"gamespace/internal/viewer"
	"gamespace/pkg/apiclient"
	"gamespace/pkg/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies. The services are exported so main
// can hand them to the background workers.
type Router struct {
	config   *config.Config
	db       *database.DB
	cache    cache.Service
	sessions *session.Manager
	client   *apiclient.Client
	receipts *bookings.Receipts

	Rooms    rooms.Service
	Tables   tables.Service
	Scene    scene.Service
	Bookings bookings.Service
	Auth     auth.Service
	Viewer   viewer.Service
	Games    games.Service
	Hub      *live.Hub
	LiveJob  *live.RefreshJob
}

// NewRouter wires the services. Redis backs the cache and the sessions when
// it is connected; otherwise both live in process memory.
func NewRouter(cfg *config.Config, db *database.DB, notifier bookings.Notifier) *Router {
	r := &Router{config: cfg, db: db}

	if db.Redis != nil {
		r.cache = cache.NewService(db.Redis)
		r.sessions = session.NewManager(session.NewRedisStore(db.Redis), sessionConfig(cfg))
	} else {
		r.cache = cache.NewMemoryService()
		r.sessions = session.NewManager(session.NewMemoryStore(), sessionConfig(cfg))
	}

	r.client = apiclient.New(apiclient.Config{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
	})
	r.receipts = bookings.NewReceipts(cfg.Booking.ReceiptSecret)

	r.Tables = tables.NewService(r.client, r.cache, cfg.Layout.Source)
	r.Rooms = rooms.NewService(r.client, r.cache)
	r.Scene = scene.NewService(r.Tables)
	r.Bookings = bookings.NewService(r.client, r.cache, notifier, cfg.Booking.SlotsEnvelope)
	r.Auth = auth.NewService(r.client)
	r.Viewer = viewer.NewService(r.Rooms, r.Scene, r.Bookings, r.sessions, viewer.Config{
		MaxDaysAhead: cfg.Booking.MaxDaysAhead,
		Pricing: bookings.Pricing{
			Mode:           cfg.Booking.FullTablePricing,
			SeatPrice:      cfg.Booking.SeatPrice,
			FullTableFlat:  cfg.Booking.FullTableFlat,
			PerPlayerPrice: cfg.Booking.PerPlayerPrice,
		},
	})

	// games.Service reports ErrInventoryUnavailable for a nil repository
	var gameRepo games.Repository
	if db.PostgreSQL != nil {
		gameRepo = games.NewRepository(db.PostgreSQL)
	}
	r.Games = games.NewService(gameRepo, r.cache)

	r.Hub = live.NewHub(cfg.AllowedOrigins)
	r.LiveJob = live.NewRefreshJob(r.Rooms, r.Hub)
	return r
}

func sessionConfig(cfg *config.Config) session.Config {
	return session.Config{TTL: cfg.Session.TTL, SubmitLockTTL: cfg.Session.SubmitLockTTL}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) error {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)
	r.setupDocsRoutes(engine)
	live.SetupLiveRoutes(engine, r.Hub)

	withSession := middleware.Session(r.sessions, middleware.CookieConfig{
		Name:   r.config.Session.CookieName,
		Secure: r.config.Session.CookieSecure,
		MaxAge: r.config.Session.TTL,
	})

	// API routes
	api := engine.Group(r.config.GetAPIBasePath(), withSession)
	{
		auth.SetupAuthRoutes(api, auth.NewController(r.Auth, r.sessions))
		rooms.SetupRoomRoutes(api, rooms.NewController(r.Rooms))
		scene.SetupSceneRoutes(api, scene.NewController(r.Scene))
		tables.SetupTableRoutes(api, tables.NewController(r.Tables))
		bookings.SetupBookingRoutes(api, bookings.NewController(r.Bookings, r.receipts))
		viewer.SetupViewerRoutes(api, viewer.NewController(r.Viewer))
		games.SetupGameRoutes(api, games.NewController(r.Games))
	}

	// Server rendered pages and the 404 fallback
	return pages.SetupPageRoutes(engine, pages.NewController(r.Rooms, r.Games), withSession)
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "gamespace-web",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "gamespace-web",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		c.JSON(http.StatusOK, gin.H{
			"status":           "operational",
			"api_version":      r.config.APIVersion,
			"timestamp":        time.Now(),
			"stores":           r.db.Stores(),
			"cache":            r.cache.Ping(ctx) == nil,
			"layout_source":    r.Tables.Source(),
			"live_subscribers": r.Hub.Subscribers(),
		})
	})
}

// setupDocsRoutes serves the swagger UI and spec
func (r *Router) setupDocsRoutes(engine *gin.Engine) {
	docs.SwaggerInfo.BasePath = r.config.GetAPIBasePath()
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
