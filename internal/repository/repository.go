package repository

import (
	"context"

	"github.com/sakif/pinboard/internal/model"
)

type PinRepository interface {
	Create(ctx context.Context, pin *model.Pin) error
	List(ctx context.Context) ([]model.Pin, error)
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	Delete(ctx context.Context, username string) error
}
