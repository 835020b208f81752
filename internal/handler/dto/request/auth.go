package request

import (
	"room-booking/internal/domain/user"
	"room-booking/internal/usecase/commands"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

// Role "admin" is honoured only when grantedBy is admin.
func (r RegisterRequest) ToInput(grantedBy user.Role) commands.RegisterInput {
	return commands.RegisterInput{
		Username:  r.Username,
		Password:  r.Password,
		Role:      r.Role,
		GrantedBy: grantedBy,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
