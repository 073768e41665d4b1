package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"carbazaar/internal/domain/entity"
	"carbazaar/internal/domain/filter"
	"carbazaar/internal/domain/repository"
	"carbazaar/pkg/errors"
)

// MemoryStore keeps every collection in process memory behind one lock.
// It backs the memory store driver and the usecase tests. Values are copied
// on the way in and out so callers never share state with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	cars  map[string]entity.Listing
	users map[string]entity.User
	chats map[string]entity.Chat
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cars:  make(map[string]entity.Listing),
		users: make(map[string]entity.User),
		chats: make(map[string]entity.Chat),
	}
}

func cloneListing(l entity.Listing) *entity.Listing {
	l.Images = append([]string{}, l.Images...)
	return &l
}

func cloneUser(u entity.User) *entity.User {
	u.OnSaleCars = append([]string{}, u.OnSaleCars...)
	u.BoughtCars = append([]string{}, u.BoughtCars...)
	u.SoldCars = append([]string{}, u.SoldCars...)
	u.LikedCars = append([]string{}, u.LikedCars...)
	return &u
}

func cloneChat(c entity.Chat) *entity.Chat {
	c.Messages = append([]entity.Message{}, c.Messages...)
	if c.LastMessageAt != nil {
		at := *c.LastMessageAt
		c.LastMessageAt = &at
	}
	return &c
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 || offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Listings

type memoryListingRepository struct {
	store *MemoryStore
}

func NewMemoryListingRepository(store *MemoryStore) repository.ListingRepository {
	return &memoryListingRepository{store: store}
}

func (r *memoryListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	if _, ok := r.store.cars[listing.ID]; ok {
		return errors.Conflict("Car already exists")
	}
	r.store.cars[listing.ID] = *cloneListing(*listing)
	return nil
}

func (r *memoryListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	l, ok := r.store.cars[id]
	if !ok {
		return nil, errors.NotFound("Car", nil)
	}
	return cloneListing(l), nil
}

func (r *memoryListingRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Listing, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	listings := []*entity.Listing{}
	for _, id := range ids {
		if l, ok := r.store.cars[id]; ok {
			listings = append(listings, cloneListing(l))
		}
	}
	return listings, nil
}

func (r *memoryListingRepository) ListAll(ctx context.Context) ([]*entity.Listing, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	listings := make([]*entity.Listing, 0, len(r.store.cars))
	for _, l := range r.store.cars {
		listings = append(listings, cloneListing(l))
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID < listings[j].ID })
	return listings, nil
}

func (r *memoryListingRepository) matching(predicates []entity.Predicate) []*entity.Listing {
	listings := []*entity.Listing{}
	for _, l := range r.store.cars {
		if filter.Match(&l, predicates) {
			listings = append(listings, cloneListing(l))
		}
	}
	return listings
}

func (r *memoryListingRepository) Query(ctx context.Context, predicates []entity.Predicate, limit, offset int) ([]*entity.Listing, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	listings := r.matching(predicates)
	entity.SortByPostedDate(listings)
	return page(listings, limit, offset), nil
}

func (r *memoryListingRepository) Count(ctx context.Context, predicates []entity.Predicate) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return int64(len(r.matching(predicates))), nil
}

func (r *memoryListingRepository) Transition(ctx context.Context, id string, fn repository.TransitionFunc) (*entity.Listing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.cars[id]
	if !ok {
		return nil, errors.NotFound("Car", nil)
	}
	storedOwner, ok := r.store.users[stored.PostedBy]
	if !ok {
		return nil, errors.Internal("Car owner no longer exists", nil)
	}

	listing := cloneListing(stored)
	owner := cloneUser(storedOwner)
	if err := fn(listing, owner); err != nil {
		return nil, err
	}
	owner.EnsureLists()
	owner.UpdatedAt = time.Now()

	r.store.cars[id] = *cloneListing(*listing)
	r.store.users[owner.ID] = *cloneUser(*owner)
	return listing, nil
}

// Users

type memoryUserRepository struct {
	store *MemoryStore
}

func NewMemoryUserRepository(store *MemoryStore) repository.UserRepository {
	return &memoryUserRepository{store: store}
}

func (r *memoryUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if _, ok := r.store.users[user.ID]; ok {
		return errors.Conflict("User already exists")
	}
	user.EnsureLists()
	r.store.users[user.ID] = *cloneUser(*user)
	return nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return cloneUser(u), nil
}

func (r *memoryUserRepository) GetByPhone(ctx context.Context, phone string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.Phone == phone {
			return cloneUser(u), nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memoryUserRepository) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.users[user.ID]
	if !ok {
		stored = entity.User{ID: user.ID, CreatedAt: time.Now()}
		stored.EnsureLists()
	}

	merge := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	merge(&stored.Name, user.Name)
	merge(&stored.Phone, user.Phone)
	merge(&stored.Address, user.Address)
	merge(&stored.City, user.City)
	merge(&stored.State, user.State)
	stored.UpdatedAt = time.Now()

	r.store.users[user.ID] = stored
	return nil
}

func (r *memoryUserRepository) AddLikedCar(ctx context.Context, userID, carID string) error {
	return r.updateLikes(userID, func(ids []string) []string { return entity.AddUnique(ids, carID) })
}

func (r *memoryUserRepository) RemoveLikedCar(ctx context.Context, userID, carID string) error {
	return r.updateLikes(userID, func(ids []string) []string { return entity.Remove(ids, carID) })
}

func (r *memoryUserRepository) updateLikes(userID string, fn func([]string) []string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	u.LikedCars = fn(append([]string{}, u.LikedCars...))
	u.UpdatedAt = time.Now()
	r.store.users[userID] = u
	return nil
}

// Chats

type memoryChatRepository struct {
	store *MemoryStore
}

func NewMemoryChatRepository(store *MemoryStore) repository.ChatRepository {
	return &memoryChatRepository{store: store}
}

func (r *memoryChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.chats[chat.ID]; ok {
		return errors.Conflict("Chat already exists")
	}
	r.store.chats[chat.ID] = *cloneChat(*chat)
	return nil
}

func (r *memoryChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	return cloneChat(c), nil
}

func (r *memoryChatRepository) FindByCarAndUser(ctx context.Context, carID, userID string) (*entity.Chat, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, c := range r.store.chats {
		if c.CarID == carID && c.UserID == userID {
			return cloneChat(c), nil
		}
	}
	return nil, errors.NotFound("Chat", nil)
}

func (r *memoryChatRepository) AppendMessage(ctx context.Context, chatID string, msg entity.Message, at time.Time) (*entity.Chat, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.chats[chatID]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	chat := cloneChat(stored)
	chat.AddMessage(msg, at)
	r.store.chats[chatID] = *cloneChat(*chat)
	return chat, nil
}

func (r *memoryChatRepository) MarkRead(ctx context.Context, chatID, role string) (*entity.Chat, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.chats[chatID]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	stored.MarkRead(role)
	r.store.chats[chatID] = stored
	return cloneChat(stored), nil
}

func (r *memoryChatRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	return r.list(func(c *entity.Chat) bool { return c.UserID == userID }, limit, offset)
}

func (r *memoryChatRepository) ListAll(ctx context.Context, unreadByAdmin bool, limit, offset int) ([]*entity.Chat, int64, error) {
	return r.list(func(c *entity.Chat) bool { return !unreadByAdmin || !c.ReadByAdmin }, limit, offset)
}

func (r *memoryChatRepository) list(keep func(*entity.Chat) bool, limit, offset int) ([]*entity.Chat, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	chats := []*entity.Chat{}
	for _, c := range r.store.chats {
		if keep(&c) {
			chats = append(chats, cloneChat(c))
		}
	}

	// Chats without messages sort last, like nulls in a descending index.
	sort.SliceStable(chats, func(i, j int) bool {
		ai, aj := chats[i].LastMessageAt, chats[j].LastMessageAt
		switch {
		case ai == nil && aj == nil:
			return chats[i].ID < chats[j].ID
		case ai == nil:
			return false
		case aj == nil:
			return true
		case !ai.Equal(*aj):
			return ai.After(*aj)
		}
		return chats[i].ID < chats[j].ID
	})

	return page(chats, limit, offset), int64(len(chats)), nil
}
