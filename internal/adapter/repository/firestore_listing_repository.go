package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"carbazaar/internal/domain/entity"
	"carbazaar/internal/domain/filter"
	"carbazaar/internal/domain/repository"
	"carbazaar/pkg/errors"
	"carbazaar/pkg/logger"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

// listingDocument mirrors a CARS document. The numeric fields are decoded
// loosely because older clients stored some of them as strings.
type listingDocument struct {
	ID            string      `firestore:"id"`
	Brand         string      `firestore:"brand"`
	Model         string      `firestore:"model"`
	ModelYear     interface{} `firestore:"modelYear"`
	Status        string      `firestore:"status"`
	ExceptedPrice interface{} `firestore:"exceptedPrice"`
	FuelType      string      `firestore:"fuelType"`
	Transmission  string      `firestore:"transmission"`
	Km            interface{} `firestore:"km"`
	Location      string      `firestore:"location"`
	Images        []string    `firestore:"images"`
	Description   string      `firestore:"description"`
	PostedBy      string      `firestore:"postedBy"`
	PostedDate    string      `firestore:"postedDate"`
}

func decodeListing(doc *firestore.DocumentSnapshot) (*entity.Listing, error) {
	var d listingDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, errors.Internal("Failed to parse car data", err)
	}

	id := d.ID
	if id == "" {
		id = doc.Ref.ID
	}
	images := d.Images
	if images == nil {
		images = []string{}
	}

	return &entity.Listing{
		ID:            id,
		Brand:         d.Brand,
		Model:         d.Model,
		ModelYear:     filter.ToInt64(d.ModelYear),
		Status:        entity.ListingStatus(d.Status),
		ExceptedPrice: filter.ToInt64(d.ExceptedPrice),
		FuelType:      entity.FuelType(d.FuelType),
		Transmission:  entity.Transmission(d.Transmission),
		Km:            filter.ToInt64(d.Km),
		Location:      d.Location,
		Images:        images,
		Description:   d.Description,
		PostedBy:      d.PostedBy,
		PostedDate:    d.PostedDate,
	}, nil
}

func (r *firestoreListingRepository) col() *firestore.CollectionRef {
	return r.client.Collection(carsCollection)
}

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		listing.ID = r.col().NewDoc().ID
	}

	if _, err := r.col().Doc(listing.ID).Create(ctx, listing); err != nil {
		if isAlreadyExists(err) {
			return errors.Conflict("Car already exists")
		}
		return errors.Internal("Failed to create car", err)
	}
	return nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	doc, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound("Car", err)
		}
		return nil, errors.Internal("Failed to get car", err)
	}
	return decodeListing(doc)
}

func (r *firestoreListingRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Listing, error) {
	listings := []*entity.Listing{}

	for i := 0; i < len(ids); i += getAllBatchSize {
		end := min(i+getAllBatchSize, len(ids))

		refs := make([]*firestore.DocumentRef, 0, end-i)
		for _, id := range ids[i:end] {
			refs = append(refs, r.col().Doc(id))
		}

		docs, err := r.client.GetAll(ctx, refs)
		if err != nil {
			return nil, errors.Internal("Failed to get cars", err)
		}

		for _, doc := range docs {
			if doc == nil || !doc.Exists() {
				continue
			}
			listing, err := decodeListing(doc)
			if err != nil {
				logger.Warn("Skipping unreadable car %s: %v", doc.Ref.ID, err)
				continue
			}
			listings = append(listings, listing)
		}
	}

	return listings, nil
}

func (r *firestoreListingRepository) ListAll(ctx context.Context) ([]*entity.Listing, error) {
	docs, err := r.col().Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to fetch cars", err)
	}

	listings := make([]*entity.Listing, 0, len(docs))
	for _, doc := range docs {
		listing, err := decodeListing(doc)
		if err != nil {
			logger.Warn("Skipping unreadable car %s: %v", doc.Ref.ID, err)
			continue
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

func (r *firestoreListingRepository) filtered(predicates []entity.Predicate) firestore.Query {
	query := r.col().Query
	for _, p := range predicates {
		query = query.Where(p.Field, string(p.Condition), p.Value)
	}
	return query
}

func (r *firestoreListingRepository) Query(ctx context.Context, predicates []entity.Predicate, limit, offset int) ([]*entity.Listing, error) {
	query := r.filtered(predicates).OrderBy(entity.FieldPostedDate, firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	listings := []*entity.Listing{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to query cars", err)
		}
		listing, err := decodeListing(doc)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

func (r *firestoreListingRepository) Count(ctx context.Context, predicates []entity.Predicate) (int64, error) {
	total, err := countQuery(ctx, r.filtered(predicates))
	if err != nil {
		return 0, errors.Internal("Failed to count cars", err)
	}
	return total, nil
}

// transitionUpdates is the write set of a status change. Only status is
// touched so fields the entity does not model, or could not parse, survive.
func transitionUpdates(listing *entity.Listing) []firestore.Update {
	return []firestore.Update{{Path: "status", Value: string(listing.Status)}}
}

func (r *firestoreListingRepository) Transition(ctx context.Context, id string, fn repository.TransitionFunc) (*entity.Listing, error) {
	var result *entity.Listing

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		carRef := r.col().Doc(id)
		carSnap, err := tx.Get(carRef)
		if err != nil {
			if isNotFound(err) {
				return errors.NotFound("Car", err)
			}
			return err
		}

		listing, err := decodeListing(carSnap)
		if err != nil {
			return err
		}

		userRef := r.client.Collection(usersCollection).Doc(listing.PostedBy)
		userSnap, err := tx.Get(userRef)
		if err != nil {
			if isNotFound(err) {
				return errors.Internal("Car owner no longer exists", err)
			}
			return err
		}

		var owner entity.User
		if err := userSnap.DataTo(&owner); err != nil {
			return errors.Internal("Failed to parse user data", err)
		}

		if err := fn(listing, &owner); err != nil {
			return err
		}
		owner.EnsureLists()

		if err := tx.Update(carRef, transitionUpdates(listing)); err != nil {
			return err
		}
		if err := tx.Update(userRef, []firestore.Update{
			{Path: "onSaleCars", Value: owner.OnSaleCars},
			{Path: "soldCars", Value: owner.SoldCars},
			{Path: "updatedAt", Value: time.Now()},
		}); err != nil {
			return err
		}

		result = listing
		return nil
	})
	if err != nil {
		if appErr, ok := errors.As(err); ok {
			return nil, appErr
		}
		return nil, errors.Internal("Failed to update car status", err)
	}

	return result, nil
}
