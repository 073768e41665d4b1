package repository

import (
	"context"

	"carbazaar/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByPhone(ctx context.Context, phone string) (*entity.User, error)
	// Update merges profile fields; reference lists are left untouched.
	Update(ctx context.Context, user *entity.User) error
	AddLikedCar(ctx context.Context, userID, carID string) error
	RemoveLikedCar(ctx context.Context, userID, carID string) error
}
