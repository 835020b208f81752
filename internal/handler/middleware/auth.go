package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"room-booking/internal/domain/access"
	"room-booking/internal/domain/user"
	"room-booking/internal/handler/httperr"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase"
	"room-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var ErrMissingToken = errs.NewKind("missing authorization header", errs.ErrAuth)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxUserIDKey   = "user_id"
	ctxUserRoleKey = "user_role"
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

// RequireAuth answers 401 for a missing, malformed, invalid or expired bearer token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.Abort(c, ErrMissingToken)
			return
		}
		if m.authenticate(c, token) {
			c.Next()
		}
	}
}

// OptionalAuth lets anonymous requests through but still rejects a bad token with 401.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		token := bearerToken(c)
		if token == "" {
			httperr.Abort(c, ErrMissingToken)
			return
		}
		if m.authenticate(c, token) {
			c.Next()
		}
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context, token string) bool {
	userID, role, err := m.tokenValidator.ValidateToken(token)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "token rejected", "request_id", GetRequestID(c), "error", err.Error())
		httperr.Abort(c, err)
		return false
	}

	c.Set(ctxUserIDKey, userID)
	c.Set(ctxUserRoleKey, role)
	return true
}

// RequireView must run after RequireAuth. Roles the token carries but the view does not admit get 403.
func (m *AuthMiddleware) RequireView(view access.View) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := GetUserRole(c)
		if err := access.Authorize(role, view); err != nil {
			httperr.AbortWithError(c, http.StatusForbidden, errs.Mark(err, shared.ErrForbidden),
				fmt.Sprintf("role %q may not access the %s view", role, view))
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}

func GetUserRole(c *gin.Context) (user.Role, bool) {
	userRole, exists := c.Get(ctxUserRoleKey)
	if !exists {
		return "", false
	}

	role, ok := userRole.(user.Role)
	return role, ok
}
