package usecase

import (
	"context"
	"io"
	"strings"
	"time"

	"carbazaar/internal/domain/entity"
	"carbazaar/internal/domain/filter"
	"carbazaar/internal/domain/repository"
	"carbazaar/internal/domain/service"
	"carbazaar/pkg/errors"
	"carbazaar/pkg/logger"
	"carbazaar/pkg/utils"
)

const (
	MaxListingImages = 7
	MaxImageSize     = 5 << 20
)

type ListingUseCase struct {
	listingRepo     repository.ListingRepository
	userRepo        repository.UserRepository
	imageStorage    service.ImageStorage
	defaultPageSize int
	maxPageSize     int
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	imageStorage service.ImageStorage,
	defaultPageSize, maxPageSize int,
) *ListingUseCase {
	return &ListingUseCase{
		listingRepo:     listingRepo,
		userRepo:        userRepo,
		imageStorage:    imageStorage,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// ListingQuery is one page request against the CARS collection. Toggles are
// compiled into predicates and appended to Filters.
type ListingQuery struct {
	Filters    []entity.Predicate
	Toggles    map[string]bool
	SearchTerm string
	Page       int
	Limit      int
}

type ListingPage struct {
	Data       []*entity.Listing `json:"data"`
	Pagination utils.Pagination  `json:"pagination"`
}

// SearchCars runs a filtered, paginated query. With a search term the whole
// collection is scanned and filtered in memory, because the store cannot do
// substring matching; otherwise predicates go to the store natively. Both
// paths return the same page for the same input.
func (uc *ListingUseCase) SearchCars(ctx context.Context, q ListingQuery) (*ListingPage, error) {
	predicates := append([]entity.Predicate{}, q.Filters...)
	if len(q.Toggles) > 0 {
		selection, err := filter.SelectionFromToggles(q.Toggles)
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, filter.Compile(selection)...)
	}

	normalized, err := filter.Normalize(predicates)
	if err != nil {
		return nil, err
	}

	params := utils.NormalizePagination(q.Page, q.Limit, uc.defaultPageSize, uc.maxPageSize)

	term := strings.TrimSpace(q.SearchTerm)
	if term != "" {
		return uc.searchInMemory(ctx, term, normalized, params)
	}
	return uc.searchNative(ctx, normalized, params)
}

func (uc *ListingUseCase) searchInMemory(ctx context.Context, term string, predicates []entity.Predicate, params utils.PaginationParams) (*ListingPage, error) {
	all, err := uc.listingRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*entity.Listing, 0, len(all))
	for _, l := range all {
		if l.MatchesSearch(term) && filter.Match(l, predicates) {
			matched = append(matched, l)
		}
	}
	entity.SortByPostedDate(matched)

	data := []*entity.Listing{}
	if params.Offset >= 0 && params.Offset < len(matched) {
		end := params.Offset + min(params.PageSize, len(matched)-params.Offset)
		data = matched[params.Offset:end]
	}

	logger.Debug("Search %q matched %d of %d cars", term, len(matched), len(all))

	return &ListingPage{
		Data:       data,
		Pagination: utils.NewPagination(int64(len(matched)), params.Page, params.PageSize),
	}, nil
}

func (uc *ListingUseCase) searchNative(ctx context.Context, predicates []entity.Predicate, params utils.PaginationParams) (*ListingPage, error) {
	total, err := uc.listingRepo.Count(ctx, predicates)
	if err != nil {
		return nil, err
	}

	data := []*entity.Listing{}
	if total > 0 && params.Offset >= 0 && int64(params.Offset) < total {
		data, err = uc.listingRepo.Query(ctx, predicates, params.PageSize, params.Offset)
		if err != nil {
			return nil, err
		}
	}

	return &ListingPage{
		Data:       data,
		Pagination: utils.NewPagination(total, params.Page, params.PageSize),
	}, nil
}

func (uc *ListingUseCase) GetAllCars(ctx context.Context, page, limit int) (*ListingPage, error) {
	return uc.SearchCars(ctx, ListingQuery{Page: page, Limit: limit})
}

// ModerationQueue lists cars in one status for the admin panel.
func (uc *ListingUseCase) ModerationQueue(ctx context.Context, status entity.ListingStatus, page, limit int) (*ListingPage, error) {
	if !status.Valid() {
		return nil, errors.BadRequest("Invalid status", nil)
	}
	return uc.SearchCars(ctx, ListingQuery{
		Filters: []entity.Predicate{{Field: entity.FieldStatus, Condition: entity.ConditionEqual, Value: string(status)}},
		Page:    page,
		Limit:   limit,
	})
}

func (uc *ListingUseCase) GetCar(ctx context.Context, id string) (*entity.Listing, error) {
	return uc.listingRepo.GetByID(ctx, id)
}

// GetCarsByIDs resolves ids to the listings that exist. An empty request
// never reaches the store; a request where nothing exists is not found.
func (uc *ListingUseCase) GetCarsByIDs(ctx context.Context, ids []string) ([]*entity.Listing, error) {
	if len(ids) == 0 {
		return []*entity.Listing{}, nil
	}

	listings, err := uc.listingRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, errors.NotFound("Cars", nil)
	}
	return listings, nil
}

// GetUserCars resolves one of a user's reference lists to listings. Ids
// whose listing no longer exists are skipped.
func (uc *ListingUseCase) GetUserCars(ctx context.Context, userID, list string) ([]*entity.Listing, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids, ok := user.ReferenceList(list)
	if !ok {
		return nil, errors.BadRequest("Unknown list "+list, nil)
	}
	if len(ids) == 0 {
		return []*entity.Listing{}, nil
	}
	return uc.listingRepo.GetByIDs(ctx, ids)
}

type CreateListingInput struct {
	Brand         string
	Model         string
	ModelYear     int64
	ExceptedPrice int64
	FuelType      entity.FuelType
	Transmission  entity.Transmission
	Km            int64
	Location      string
	Images        []string
	Description   string
	PostedBy      string
}

// PostCar creates a pending listing and returns its id. The listing only
// joins the owner's onSaleCars once an admin approves it.
func (uc *ListingUseCase) PostCar(ctx context.Context, input CreateListingInput) (string, error) {
	if err := validateListingInput(input); err != nil {
		return "", err
	}

	if _, err := uc.userRepo.GetByID(ctx, input.PostedBy); err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return "", errors.BadRequest("Invalid poster", err)
		}
		return "", err
	}

	listing := &entity.Listing{
		Brand:         strings.TrimSpace(input.Brand),
		Model:         strings.TrimSpace(input.Model),
		ModelYear:     input.ModelYear,
		Status:        entity.StatusPending,
		ExceptedPrice: input.ExceptedPrice,
		FuelType:      input.FuelType,
		Transmission:  input.Transmission,
		Km:            input.Km,
		Location:      input.Location,
		Images:        input.Images,
		Description:   input.Description,
		PostedBy:      input.PostedBy,
		PostedDate:    time.Now().UTC().Format(time.RFC3339),
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return "", err
	}

	logger.Info("Car %s posted by %s", listing.ID, listing.PostedBy)
	return listing.ID, nil
}

func validateListingInput(input CreateListingInput) error {
	if strings.TrimSpace(input.Brand) == "" || strings.TrimSpace(input.Model) == "" {
		return errors.BadRequest("Brand and model are required", nil)
	}
	if input.PostedBy == "" {
		return errors.BadRequest("postedBy is required", nil)
	}
	if n := len(input.Images); n < 1 || n > MaxListingImages {
		return errors.BadRequest("A car needs between 1 and 7 images", nil)
	}
	if !entity.ValidFuelType(input.FuelType) {
		return errors.BadRequest("Invalid fuel type", nil)
	}
	if !entity.ValidTransmission(input.Transmission) {
		return errors.BadRequest("Invalid transmission", nil)
	}
	if input.Km < 0 {
		return errors.BadRequest("km cannot be negative", nil)
	}
	if input.ExceptedPrice <= 0 {
		return errors.BadRequest("Price must be positive", nil)
	}
	if maxYear := int64(time.Now().Year() + 1); input.ModelYear < 1900 || input.ModelYear > maxYear {
		return errors.BadRequest("Invalid model year", nil)
	}
	return nil
}

// UpdateStatus moves a listing through its lifecycle and keeps the owner's
// reference lists in step, both in one store transaction.
func (uc *ListingUseCase) UpdateStatus(ctx context.Context, id string, status entity.ListingStatus) (*entity.Listing, error) {
	if !status.Valid() {
		return nil, errors.BadRequest("Invalid status", nil)
	}

	updated, err := uc.listingRepo.Transition(ctx, id, func(listing *entity.Listing, owner *entity.User) error {
		refs, ok := entity.NextReferences(listing.ID, listing.Status, status, entity.ReferenceLists{
			OnSaleCars: owner.OnSaleCars,
			SoldCars:   owner.SoldCars,
		})
		if !ok {
			return errors.InvalidStatus(string(listing.Status), string(status))
		}

		listing.Status = status
		owner.OnSaleCars = refs.OnSaleCars
		owner.SoldCars = refs.SoldCars
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Car %s moved to %s", id, status)
	return updated, nil
}

// ImageUpload is one file from a multipart request.
type ImageUpload struct {
	Reader      io.Reader
	ContentType string
	Size        int64
}

// UploadImages stores listing photos and returns their URLs in request order.
func (uc *ListingUseCase) UploadImages(ctx context.Context, files []ImageUpload) ([]string, error) {
	if len(files) == 0 || len(files) > MaxListingImages {
		return nil, errors.BadRequest("Upload between 1 and 7 images", nil)
	}
	for _, f := range files {
		if f.ContentType != "image/jpeg" && f.ContentType != "image/png" {
			return nil, errors.BadRequest("Only JPEG and PNG images are allowed", nil)
		}
		if f.Size > MaxImageSize {
			return nil, errors.BadRequest("Images must be 5MB or smaller", nil)
		}
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := uc.imageStorage.UploadImage(ctx, f.Reader, f.ContentType)
		if err != nil {
			return nil, errors.Internal("Failed to upload image", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}
