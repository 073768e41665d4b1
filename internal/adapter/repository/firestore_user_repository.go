package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"carbazaar/internal/domain/entity"
	"carbazaar/internal/domain/repository"
	"carbazaar/pkg/errors"
	"carbazaar/pkg/logger"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) col() *firestore.CollectionRef {
	return r.client.Collection(usersCollection)
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = r.col().NewDoc().ID
	}
	user.EnsureLists()

	if _, err := r.col().Doc(user.ID).Create(ctx, user); err != nil {
		if isAlreadyExists(err) {
			return errors.Conflict("User already exists")
		}
		return errors.Internal("Failed to create user", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	if user.ID == "" {
		user.ID = doc.Ref.ID
	}
	user.EnsureLists()

	return &user, nil
}

func (r *firestoreUserRepository) GetByPhone(ctx context.Context, phone string) (*entity.User, error) {
	iter := r.col().Where("phone", "==", phone).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("User", nil)
		}
		return nil, errors.Internal("Failed to query user by phone", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	if user.ID == "" {
		user.ID = doc.Ref.ID
	}
	user.EnsureLists()

	return &user, nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	updateData := map[string]interface{}{
		"name":      user.Name,
		"phone":     user.Phone,
		"address":   user.Address,
		"city":      user.City,
		"state":     user.State,
		"updatedAt": time.Now(),
	}

	// Empty values never overwrite stored ones.
	clean := make(map[string]interface{}, len(updateData))
	for key, value := range updateData {
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		clean[key] = value
	}

	logger.Debug("Updating user %s fields %d", user.ID, len(clean))

	if _, err := r.col().Doc(user.ID).Set(ctx, clean, firestore.MergeAll); err != nil {
		return errors.Internal("Failed to update user", err)
	}
	return nil
}

func (r *firestoreUserRepository) AddLikedCar(ctx context.Context, userID, carID string) error {
	return r.updateLikes(ctx, userID, firestore.ArrayUnion(carID))
}

func (r *firestoreUserRepository) RemoveLikedCar(ctx context.Context, userID, carID string) error {
	return r.updateLikes(ctx, userID, firestore.ArrayRemove(carID))
}

func (r *firestoreUserRepository) updateLikes(ctx context.Context, userID string, value interface{}) error {
	_, err := r.col().Doc(userID).Update(ctx, []firestore.Update{
		{Path: "likedCars", Value: value},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("User", err)
		}
		return errors.Internal("Failed to update liked cars", err)
	}
	return nil
}
