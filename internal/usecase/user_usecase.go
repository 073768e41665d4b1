package usecase

import (
	"context"
	"strings"
	"time"

	"carbazaar/internal/domain/entity"
	"carbazaar/internal/domain/repository"
	"carbazaar/pkg/errors"
	"carbazaar/pkg/logger"
)

type UserUseCase struct {
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
}

func NewUserUseCase(userRepo repository.UserRepository, listingRepo repository.ListingRepository) *UserUseCase {
	return &UserUseCase{
		userRepo:    userRepo,
		listingRepo: listingRepo,
	}
}

type ProfileInput struct {
	ID      string
	Name    string
	Phone   string
	Address string
	City    string
	State   string
}

// IsExists looks a user up by phone number.
func (uc *UserUseCase) IsExists(ctx context.Context, phone string) (bool, *entity.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return false, nil, errors.BadRequest("phone is required", nil)
	}

	user, err := uc.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return false, nil, nil
		}
		return false, nil, err
	}
	return true, user, nil
}

// Signup registers a new user. ID is the auth provider's uid when the
// client has one; otherwise the store assigns it.
func (uc *UserUseCase) Signup(ctx context.Context, input ProfileInput) (*entity.User, error) {
	exists, _, err := uc.IsExists(ctx, input.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("Phone number already registered")
	}

	now := time.Now()
	user := &entity.User{
		ID:        input.ID,
		Name:      input.Name,
		Phone:     strings.TrimSpace(input.Phone),
		Address:   input.Address,
		City:      input.City,
		State:     input.State,
		Role:      entity.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user.EnsureLists()

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User %s signed up", user.ID)
	return user, nil
}

// Update merges non-empty profile fields into the user, creating the
// document when it does not exist yet. Reference lists are never touched.
func (uc *UserUseCase) Update(ctx context.Context, input ProfileInput) (*entity.User, error) {
	if input.ID == "" {
		return nil, errors.BadRequest("id is required", nil)
	}

	if err := uc.userRepo.Update(ctx, &entity.User{
		ID:      input.ID,
		Name:    input.Name,
		Phone:   strings.TrimSpace(input.Phone),
		Address: input.Address,
		City:    input.City,
		State:   input.State,
	}); err != nil {
		return nil, err
	}

	return uc.userRepo.GetByID(ctx, input.ID)
}

func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

func (uc *UserUseCase) LikeCar(ctx context.Context, userID, carID string) (*entity.User, error) {
	if _, err := uc.listingRepo.GetByID(ctx, carID); err != nil {
		return nil, err
	}
	if err := uc.userRepo.AddLikedCar(ctx, userID, carID); err != nil {
		return nil, err
	}
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *UserUseCase) UnlikeCar(ctx context.Context, userID, carID string) (*entity.User, error) {
	if err := uc.userRepo.RemoveLikedCar(ctx, userID, carID); err != nil {
		return nil, err
	}
	return uc.userRepo.GetByID(ctx, userID)
}
