package repository

import (
	"context"

	"carbazaar/internal/domain/entity"
)

// TransitionFunc mutates a listing and its owner inside one store
// transaction. Returning an error aborts the transaction without writes.
type TransitionFunc func(listing *entity.Listing, owner *entity.User) error

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	// GetByIDs returns the listings that exist, in request order.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Listing, error)
	// ListAll scans the whole collection.
	ListAll(ctx context.Context) ([]*entity.Listing, error)
	// Query applies normalized predicates natively, ordered by postedDate descending.
	Query(ctx context.Context, predicates []entity.Predicate, limit, offset int) ([]*entity.Listing, error)
	Count(ctx context.Context, predicates []entity.Predicate) (int64, error)
	// Transition loads the listing and its owner, applies fn and writes both atomically.
	Transition(ctx context.Context, id string, fn TransitionFunc) (*entity.Listing, error)
}
