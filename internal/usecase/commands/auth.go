package commands

import (
	"context"
	"log/slog"

	"room-booking/internal/domain/user"
	"room-booking/internal/infra"
	"room-booking/internal/pkg/clock"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/pkg/jwt"
	"room-booking/internal/pkg/metrics"
	"room-booking/internal/pkg/password"
	"room-booking/internal/usecase/queries"
	"room-booking/internal/usecase/shared"
)

var (
	ErrInvalidCredentials = errs.NewKind("invalid username or password", errs.ErrAuth)
	ErrUsernameTaken      = errs.NewKind("username already taken", errs.ErrConflict)
	ErrTokenGeneration    = errs.NewKind("token generation failed", errs.ErrInternal)
	ErrAdminGrantDenied   = errs.NewKind("only an admin may create admin accounts", errs.ErrAuthz)
)

const TokenTypeBearer = "Bearer"

// GrantedBy is the role of the authenticated caller, empty for anonymous sign-up.
type RegisterInput struct {
	Username  string
	Password  string
	Role      string
	GrantedBy user.Role
}

type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	User        *queries.UserView
}

type AuthCommands interface {
	Register(ctx context.Context, input RegisterInput) (*user.User, error)
	Login(ctx context.Context, username, plainPassword string) (*LoginResult, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	readStore  queries.UserReadStore
	jwtService *jwt.Service
	hasher     *password.Hasher
	clock      clock.Clock
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewAuthCommands(
	uow shared.UnitOfWork,
	readStore queries.UserReadStore,
	jwtService *jwt.Service,
	hasher *password.Hasher,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		readStore:  readStore,
		jwtService: jwtService,
		hasher:     hasher,
		clock:      clk,
		metrics:    m,
		logger:     logger,
	}
}

func (a *authCommandsImpl) Register(ctx context.Context, input RegisterInput) (*user.User, error) {
	credentials, err := user.NewCredentials(input.Username, input.Password)
	if err != nil {
		return nil, shared.MapDomainErr(err)
	}
	role, err := user.NewRole(input.Role)
	if err != nil {
		return nil, shared.MapDomainErr(err)
	}
	if role.IsAdmin() && !input.GrantedBy.IsAdmin() {
		return nil, ErrAdminGrantDenied
	}

	hash, err := a.hasher.Hash(credentials.Password().Value())
	if err != nil {
		return nil, errs.Mark(err, shared.ErrInvalidInput)
	}

	u := user.NewUser(credentials.Username(), hash, role, a.clock.Now())
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().Create(ctx, u)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Mark(err, ErrUsernameTaken)
		}
		return nil, err
	}

	a.logger.Info("user registered",
		slog.String("user_id", u.ID().String()),
		slog.String("role", role.String()))
	return u, nil
}

func (a *authCommandsImpl) Login(ctx context.Context, username, plainPassword string) (*LoginResult, error) {
	view, hash, err := a.readStore.FindByUsername(ctx, username)
	if err != nil {
		a.metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		if infra.IsKind(err, infra.KindNotFound) {
			// Same error as a password mismatch to prevent user enumeration
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := a.hasher.Compare(hash, plainPassword); err != nil {
		a.metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}

	role, err := user.ParseRole(view.Role)
	if err != nil {
		return nil, errs.Wrap(err, "stored role is invalid")
	}

	token, err := a.jwtService.GenerateToken(view.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	a.metrics.LoginAttempts.WithLabelValues("accepted").Inc()
	return &LoginResult{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int64(a.jwtService.TokenDuration().Seconds()),
		User:        view,
	}, nil
}
