package usecase

import (
	"room-booking/internal/domain/user"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/pkg/jwt"

	"github.com/google/uuid"
)

var (
	ErrTokenInvalid = errs.NewKind("invalid token", errs.ErrAuth)
	ErrTokenExpired = errs.NewKind("token has expired", errs.ErrAuth)
)

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(tokenString string) (uuid.UUID, user.Role, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

// ValidateToken checks the signature and expiry only. The role claim is returned as issued;
// unknown roles are rejected later by the view gate with 403 rather than 401.
func (t *tokenValidatorImpl) ValidateToken(tokenString string) (uuid.UUID, user.Role, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		if errs.Is(err, jwt.ErrExpiredToken) {
			return uuid.Nil, "", errs.Mark(err, ErrTokenExpired)
		}
		return uuid.Nil, "", errs.Mark(err, ErrTokenInvalid)
	}

	return claims.UserID, user.Role(claims.Role), nil
}
