package queries

import (
	"context"

	"room-booking/internal/infra"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type UserQueries interface {
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserView, error)
	GetRole(ctx context.Context, userID uuid.UUID) (string, error)
}

type UserReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UserView, error)
	// FindByUsername also returns the password hash for credential checks.
	FindByUsername(ctx context.Context, username string) (*UserView, string, error)
}

type userQueriesImpl struct {
	readStore UserReadStore
}

func NewUserQueries(readStore UserReadStore) UserQueries {
	return &userQueriesImpl{
		readStore: readStore,
	}
}

func (q *userQueriesImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserView, error) {
	u, err := q.readStore.FindByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, shared.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (q *userQueriesImpl) GetRole(ctx context.Context, userID uuid.UUID) (string, error) {
	u, err := q.GetCurrentUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}
