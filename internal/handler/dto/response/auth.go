package response

import (
	"time"

	"room-booking/internal/domain/access"
	"room-booking/internal/domain/user"
	"room-booking/internal/usecase/commands"
	"room-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
	User        *UserResponse `json:"user"`
}

type RoleResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

// ViewResponse describes the page a role was admitted to.
type ViewResponse struct {
	View   string    `json:"view"`
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

func FromUserView(v *queries.UserView) *UserResponse {
	return copyInto[UserResponse](v)
}

func FromUser(u *user.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID(),
		Username:  u.Username().Value(),
		Role:      u.Role().String(),
		CreatedAt: u.CreatedAt(),
	}
}

func FromLoginResult(r *commands.LoginResult) *LoginResponse {
	return &LoginResponse{
		AccessToken: r.AccessToken,
		TokenType:   r.TokenType,
		ExpiresIn:   r.ExpiresIn,
		User:        FromUserView(r.User),
	}
}

func NewViewResponse(view access.View, userID uuid.UUID, role user.Role) *ViewResponse {
	return &ViewResponse{
		View:   view.String(),
		UserID: userID,
		Role:   role.String(),
	}
}
