package components

import (
	"log/slog"

	"room-booking/internal/handler"
	"room-booking/internal/handler/api"
	"room-booking/internal/handler/middleware"
	"room-booking/internal/pkg/config"
	"room-booking/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var UserHandlerModule = fx.Module("handler/user",
	fx.Provide(
		api.NewAuthHandler,
		api.NewPageHandler,
		func() *api.HealthHandler {
			return api.NewHealthHandler(nil)
		},
		middleware.NewAuthMiddleware,
		func(cfg config.Config, logger *slog.Logger) *middleware.RateLimiter {
			return middleware.NewRateLimiter(cfg.RateLimit, logger)
		},
	),
	fx.Invoke(registerUserRoutes),
)

var ReservationHandlerModule = fx.Module("handler/reservation",
	fx.Provide(
		api.NewReservationHandler,
		api.NewHealthHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(registerReservationRoutes),
)

type userRouteParams struct {
	fx.In

	Engine      *gin.Engine
	Config      config.Config
	Logger      *middleware.Logger
	Metrics     *metrics.Metrics
	Auth        *api.AuthHandler
	Pages       *api.PageHandler
	Health      *api.HealthHandler
	AuthMw      *middleware.AuthMiddleware
	RateLimiter *middleware.RateLimiter
}

func registerUserRoutes(p userRouteParams) {
	handler.NewUserRouter(p.Engine, p.Config, p.Logger, p.Metrics, handler.UserRoutes{
		Auth:        p.Auth,
		Pages:       p.Pages,
		Health:      p.Health,
		AuthMw:      p.AuthMw,
		RateLimiter: p.RateLimiter,
	})
}

type reservationRouteParams struct {
	fx.In

	Engine       *gin.Engine
	Config       config.Config
	Logger       *middleware.Logger
	Metrics      *metrics.Metrics
	Reservations *api.ReservationHandler
	Health       *api.HealthHandler
	AuthMw       *middleware.AuthMiddleware
}

func registerReservationRoutes(p reservationRouteParams) {
	handler.NewReservationRouter(p.Engine, p.Config, p.Logger, p.Metrics, handler.ReservationRoutes{
		Reservations: p.Reservations,
		Health:       p.Health,
		AuthMw:       p.AuthMw,
	})
}
