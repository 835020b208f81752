package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"room-booking/internal/domain/access"
	"room-booking/internal/handler/api"
	"room-booking/internal/handler/middleware"
	"room-booking/internal/pkg/config"
	"room-booking/internal/pkg/metrics"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type UserRoutes struct {
	Auth        *api.AuthHandler
	Pages       *api.PageHandler
	Health      *api.HealthHandler
	AuthMw      *middleware.AuthMiddleware
	RateLimiter *middleware.RateLimiter
}

type ReservationRoutes struct {
	Reservations *api.ReservationHandler
	Health       *api.HealthHandler
	AuthMw       *middleware.AuthMiddleware
}

func NewUserRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, m *metrics.Metrics, r UserRoutes) {
	setupMiddleware(engine, cfg, logger)
	setupCommonRoutes(engine, r.Health, m)

	engine.GET("/rooms", r.AuthMw.RequireAuth(), r.AuthMw.RequireView(access.ViewRooms), r.Pages.Rooms)
	engine.GET("/reservations", r.AuthMw.RequireAuth(), r.AuthMw.RequireView(access.ViewReservations), r.Pages.Reservations)

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		addRoutes(auth, []route{
			{Method: http.MethodPost, Path: "/register", Handler: r.Auth.Register, Mw: []gin.HandlerFunc{r.AuthMw.OptionalAuth()}},
			{Method: http.MethodPost, Path: "/login", Handler: r.Auth.Login, Mw: []gin.HandlerFunc{r.RateLimiter.Middleware()}},
		})

		users := apiGroup.Group("/users")
		users.Use(r.AuthMw.RequireAuth())
		addRoutes(users, []route{
			{Method: http.MethodGet, Path: "/me", Handler: r.Auth.Me},
			{Method: http.MethodGet, Path: "/:id/role", Handler: r.Auth.Role},
		})
	}
}

func NewReservationRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, m *metrics.Metrics, r ReservationRoutes) {
	setupMiddleware(engine, cfg, logger)
	setupCommonRoutes(engine, r.Health, m)

	apiGroup := engine.Group("/api")
	apiGroup.Use(r.AuthMw.RequireAuth())
	{
		rooms := apiGroup.Group("/rooms/:room_id")
		addRoutes(rooms, []route{
			{Method: http.MethodGet, Path: "/availability", Handler: r.Reservations.Availability,
				Mw: []gin.HandlerFunc{r.AuthMw.RequireView(access.ViewReservations)}},
			{Method: http.MethodGet, Path: "/reservations", Handler: r.Reservations.ListForRoom,
				Mw: []gin.HandlerFunc{r.AuthMw.RequireView(access.ViewRooms)}},
		})

		reservations := apiGroup.Group("/reservations")
		reservations.Use(r.AuthMw.RequireView(access.ViewReservations))
		addRoutes(reservations, []route{
			{Method: http.MethodPost, Path: "", Handler: r.Reservations.Create},
			{Method: http.MethodGet, Path: "", Handler: r.Reservations.ListMine},
			{Method: http.MethodGet, Path: "/:id", Handler: r.Reservations.Get},
			{Method: http.MethodPatch, Path: "/:id", Handler: r.Reservations.Reschedule},
			{Method: http.MethodDelete, Path: "/:id", Handler: r.Reservations.Cancel},
		})
	}
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())

	engine.HandleMethodNotAllowed = true
	engine.NoRoute(middleware.NotFound())
	engine.NoMethod(middleware.MethodNotAllowed())
}

func setupCommonRoutes(engine *gin.Engine, health *api.HealthHandler, m *metrics.Metrics) {
	engine.GET("/health", health.Check)
	engine.GET("/metrics", gin.WrapH(m.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
