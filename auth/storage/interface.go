package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/goserg/chesstable/auth/users"
)

type AuthStorage interface {
	GetUser(ctx context.Context, id uuid.UUID) (users.User, error)
	GetUserSecret(ctx context.Context, user users.User) (users.Secret, error)
	CreateUser(ctx context.Context, user users.User, secret users.Secret) error
	SignIn(ctx context.Context, name string, passwordHash []byte) (users.User, error)
}
