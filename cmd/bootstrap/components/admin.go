package components

import (
	"context"
	"log/slog"

	"room-booking/internal/domain/user"
	"room-booking/internal/pkg/config"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var AdminSeedModule = fx.Module("admin/seed",
	fx.Invoke(RegisterAdminSeed),
)

// RegisterAdminSeed creates the configured admin once the app starts. An existing account with that
// username is left untouched.
func RegisterAdminSeed(lc fx.Lifecycle, cfg config.Config, cmds commands.AuthCommands, logger *slog.Logger) {
	if cfg.Admin.Username == "" {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return SeedAdmin(ctx, cfg.Admin, cmds, logger)
		},
	})
}

func SeedAdmin(ctx context.Context, cfg config.AdminConfig, cmds commands.AuthCommands, logger *slog.Logger) error {
	u, err := cmds.Register(ctx, commands.RegisterInput{
		Username:  cfg.Username,
		Password:  cfg.Password,
		Role:      user.RoleAdmin.String(),
		GrantedBy: user.RoleAdmin,
	})
	if errs.Is(err, commands.ErrUsernameTaken) {
		logger.Info("admin account already present", slog.String("username", cfg.Username))
		return nil
	}
	if err != nil {
		return errs.Wrap(err, "failed to seed admin account")
	}
	logger.Info("admin account created", slog.String("user_id", u.ID().String()))
	return nil
}
