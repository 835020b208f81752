//go:build unit

package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"room-booking/internal/domain/user"
	"room-booking/internal/handler"
	"room-booking/internal/handler/api"
	reqdto "room-booking/internal/handler/dto/request"
	resdto "room-booking/internal/handler/dto/response"
	"room-booking/internal/handler/middleware"
	"room-booking/internal/infra/memstore"
	"room-booking/internal/pkg/clock"
	"room-booking/internal/pkg/config"
	"room-booking/internal/pkg/jwt"
	"room-booking/internal/pkg/metrics"
	"room-booking/internal/pkg/password"
	"room-booking/internal/testutil/httptest"
	"room-booking/internal/usecase"
	"room-booking/internal/usecase/commands"
	"room-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserServiceRouter(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	clk := clock.NewMockClock(day)
	m := metrics.New()
	store := memstore.New()
	jwtSvc := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenDuration, cfg.JWT.Issuer, clk)

	authCmds := commands.NewAuthCommands(store, store.Users(), jwtSvc, password.NewHasher(bcrypt.MinCost), clk, m, discard)
	if cfg.Admin.Username != "" {
		_, err := authCmds.Register(context.Background(), commands.RegisterInput{
			Username: cfg.Admin.Username, Password: cfg.Admin.Password, Role: "admin", GrantedBy: user.RoleAdmin,
		})
		require.NoError(t, err)
	}

	router := gin.New()
	handler.NewUserRouter(router, cfg, middleware.NewLogger(cfg.Log), m, handler.UserRoutes{
		Auth:        api.NewAuthHandler(authCmds, queries.NewUserQueries(store.Users())),
		Pages:       api.NewPageHandler(),
		Health:      api.NewHealthHandler(nil),
		AuthMw:      middleware.NewAuthMiddleware(usecase.NewTokenValidator(jwtSvc)),
		RateLimiter: middleware.NewRateLimiter(cfg.RateLimit, discard),
	})
	return router
}

func login(t *testing.T, router *gin.Engine, username, pass string) string {
	t.Helper()
	rec := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login", reqdto.LoginRequest{Username: username, Password: pass}, "")
	var body resdto.LoginResponse
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func TestUserService_RegisterLoginAndViews(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Admin = config.AdminConfig{Username: "root", Password: "admin-password"}
	router := newUserServiceRouter(t, cfg)

	rec := httptest.PerformRequest(t, router, http.MethodGet, "/api/users/me", nil, login(t, router, "root", "admin-password"))
	var admin resdto.UserResponse
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, &admin)
	require.Equal(t, "admin", admin.Role)

	rec = httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/register",
		reqdto.RegisterRequest{Username: "alice", Password: "alice-password"}, "")
	httptest.AssertSuccessResponse(t, rec, http.StatusCreated, nil)

	rec = httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/register",
		reqdto.RegisterRequest{Username: "alice", Password: "another-password"}, "")
	httptest.AssertErrorResponse(t, rec, http.StatusConflict, "")

	rec = httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		reqdto.LoginRequest{Username: "alice", Password: "wrong-password"}, "")
	httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "")

	adminToken := login(t, router, "root", "admin-password")
	aliceToken := login(t, router, "alice", "alice-password")

	rec = httptest.PerformRequest(t, router, http.MethodGet, "/rooms", nil, adminToken)
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, nil)

	rec = httptest.PerformRequest(t, router, http.MethodGet, "/rooms", nil, aliceToken)
	httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "")

	rec = httptest.PerformRequest(t, router, http.MethodGet, "/reservations", nil, aliceToken)
	var view resdto.ViewResponse
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, &view)
	require.Equal(t, "reservations", view.View)
	require.Equal(t, "user", view.Role)

	rec = httptest.PerformRequest(t, router, http.MethodGet, "/api/users/"+admin.ID.String()+"/role", nil, aliceToken)
	var role resdto.RoleResponse
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, &role)
	require.Equal(t, "admin", role.Role)

	rec = httptest.PerformRequest(t, router, http.MethodGet, "/api/users/me", nil, "")
	httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "")
}

func TestUserService_LoginIsRateLimited(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.RateLimit = config.RateLimitConfig{LoginPerSecond: 0.001, LoginBurst: 3}
	router := newUserServiceRouter(t, cfg)

	var last int
	for range 4 {
		rec := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
			reqdto.LoginRequest{Username: "nobody", Password: "whatever-pass"}, "")
		last = rec.Code
	}
	require.Equal(t, http.StatusTooManyRequests, last)
}

func TestUserService_ExpiredTokenIsUnauthorized(t *testing.T) {
	cfg := config.NewTestConfig()
	router := newUserServiceRouter(t, cfg)

	past := clock.NewMockClock(day.Add(-48 * time.Hour))
	stale, err := jwt.NewService(cfg.JWT.Secret, time.Hour, cfg.JWT.Issuer, past).GenerateToken(uuid.New(), user.RoleUser)
	require.NoError(t, err)

	rec := httptest.PerformRequest(t, router, http.MethodGet, "/reservations", nil, stale)
	httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "expired")
}

func TestUserService_AdminAccountsNeedAnAdmin(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Admin = config.AdminConfig{Username: "root", Password: "admin-password"}
	router := newUserServiceRouter(t, cfg)

	rec := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/register",
		reqdto.RegisterRequest{Username: "mallory", Password: "mallory-password", Role: "admin"}, "")
	httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "only an admin may create admin accounts")

	rec = httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/register",
		reqdto.RegisterRequest{Username: "alice", Password: "alice-password"}, "")
	httptest.AssertSuccessResponse(t, rec, http.StatusCreated, nil)

	rec = httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/register",
		reqdto.RegisterRequest{Username: "mallory", Password: "mallory-password", Role: "admin"},
		login(t, router, "alice", "alice-password"))
	httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "")

	rec = httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/register",
		reqdto.RegisterRequest{Username: "ops", Password: "ops-password", Role: "admin"},
		login(t, router, "root", "admin-password"))
	var ops resdto.UserResponse
	httptest.AssertSuccessResponse(t, rec, http.StatusCreated, &ops)
	require.Equal(t, "admin", ops.Role)

	rec = httptest.PerformRequest(t, router, http.MethodGet, "/rooms", nil, login(t, router, "ops", "ops-password"))
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, nil)

	rec = httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		reqdto.LoginRequest{Username: "mallory", Password: "mallory-password"}, "")
	httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "")
}
