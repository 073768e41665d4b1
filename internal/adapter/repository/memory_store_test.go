package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbazaar/internal/domain/entity"
	"carbazaar/pkg/errors"
)

func seedCar(t *testing.T, repo interface {
	Create(context.Context, *entity.Listing) error
}, id, brand string, price int64, posted string) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &entity.Listing{
		ID:            id,
		Brand:         brand,
		Model:         "Base",
		Status:        entity.StatusApproved,
		ExceptedPrice: price,
		FuelType:      entity.FuelPetrol,
		Transmission:  entity.TransmissionManual,
		PostedBy:      "u1",
		PostedDate:    posted,
	}))
}

func TestMemoryListingQuery(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryListingRepository(NewMemoryStore())

	seedCar(t, repo, "a", "Honda", 150000, "2024-01-01T00:00:00Z")
	seedCar(t, repo, "b", "Tata", 450000, "2024-03-01T00:00:00Z")
	seedCar(t, repo, "c", "Kia", 250000, "2024-02-01T00:00:00Z")

	preds := []entity.Predicate{{Field: entity.FieldExceptedPrice, Condition: entity.ConditionGTE, Value: int64(200000)}}

	total, err := repo.Count(ctx, preds)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	got, err := repo.Query(ctx, preds, 1, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	got, err = repo.Query(ctx, preds, 1, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)

	got, err = repo.Query(ctx, preds, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestMemoryListingGetByIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryListingRepository(NewMemoryStore())
	seedCar(t, repo, "a", "Honda", 150000, "2024-01-01")
	seedCar(t, repo, "b", "Tata", 450000, "2024-01-02")

	got, err := repo.GetByIDs(ctx, []string{"b", "missing", "a"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}

func TestMemoryListingReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryListingRepository(NewMemoryStore())
	seedCar(t, repo, "a", "Honda", 150000, "2024-01-01")

	l, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	l.Brand = "Changed"

	again, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Honda", again.Brand)
}

func TestMemoryTransition(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	cars := NewMemoryListingRepository(store)
	users := NewMemoryUserRepository(store)

	require.NoError(t, users.Create(ctx, &entity.User{ID: "u1", Phone: "1"}))
	seedCar(t, cars, "a", "Honda", 150000, "2024-01-01")

	t.Run("error aborts without writes", func(t *testing.T) {
		_, err := cars.Transition(ctx, "a", func(l *entity.Listing, u *entity.User) error {
			l.Status = entity.StatusSold
			u.SoldCars = append(u.SoldCars, l.ID)
			return errors.InvalidStatus("approved", "sold")
		})
		require.Error(t, err)

		l, _ := cars.GetByID(ctx, "a")
		u, _ := users.GetByID(ctx, "u1")
		assert.Equal(t, entity.StatusApproved, l.Status)
		assert.Empty(t, u.SoldCars)
	})

	t.Run("writes listing and owner", func(t *testing.T) {
		updated, err := cars.Transition(ctx, "a", func(l *entity.Listing, u *entity.User) error {
			l.Status = entity.StatusSold
			u.SoldCars = append(u.SoldCars, l.ID)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, entity.StatusSold, updated.Status)

		u, _ := users.GetByID(ctx, "u1")
		assert.Equal(t, []string{"a"}, u.SoldCars)
	})

	t.Run("missing owner is an internal error", func(t *testing.T) {
		require.NoError(t, cars.Create(ctx, &entity.Listing{ID: "orphan", PostedBy: "ghost", Status: entity.StatusPending}))
		_, err := cars.Transition(ctx, "orphan", func(*entity.Listing, *entity.User) error { return nil })
		assert.True(t, errors.Is(err, errors.CodeInternal))
	})

	t.Run("missing car", func(t *testing.T) {
		_, err := cars.Transition(ctx, "nope", func(*entity.Listing, *entity.User) error { return nil })
		assert.True(t, errors.Is(err, errors.CodeNotFound))
	})
}

func TestMemoryUserUpdateMergesProfile(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUserRepository(NewMemoryStore())
	require.NoError(t, users.Create(ctx, &entity.User{ID: "u1", Name: "Asha", Phone: "99", City: "Pune"}))
	require.NoError(t, users.AddLikedCar(ctx, "u1", "car1"))
	require.NoError(t, users.AddLikedCar(ctx, "u1", "car1"))

	require.NoError(t, users.Update(ctx, &entity.User{ID: "u1", City: "Mumbai"}))

	u, err := users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", u.Name)
	assert.Equal(t, "Mumbai", u.City)
	assert.Equal(t, []string{"car1"}, u.LikedCars)

	require.NoError(t, users.RemoveLikedCar(ctx, "u1", "car1"))
	u, _ = users.GetByID(ctx, "u1")
	assert.Empty(t, u.LikedCars)

	byPhone, err := users.GetByPhone(ctx, "99")
	require.NoError(t, err)
	assert.Equal(t, "u1", byPhone.ID)
}

func TestMemoryChatAppendAndList(t *testing.T) {
	ctx := context.Background()
	chats := NewMemoryChatRepository(NewMemoryStore())
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, chats.Create(ctx, entity.NewChat("c1_u1", "c1", "u1", now)))
	require.NoError(t, chats.Create(ctx, entity.NewChat("c2_u1", "c2", "u1", now)))
	assert.True(t, errors.Is(chats.Create(ctx, entity.NewChat("c1_u1", "c1", "u1", now)), errors.CodeConflict))

	chat, err := chats.AppendMessage(ctx, "c2_u1", entity.Message{ID: "m1", SentBy: entity.SenderUser, Message: "hi"}, now)
	require.NoError(t, err)
	assert.False(t, chat.ReadByAdmin)
	assert.True(t, chat.ReadByUser)

	list, total, err := chats.ListByUserID(ctx, "u1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "c2_u1", list[0].ID)

	unread, total, err := chats.ListAll(ctx, true, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "c2_u1", unread[0].ID)

	read, err := chats.MarkRead(ctx, "c2_u1", entity.SenderAdmin)
	require.NoError(t, err)
	assert.True(t, read.ReadByAdmin)
}

func TestMemoryChatConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	chats := NewMemoryChatRepository(NewMemoryStore())
	now := time.Now()
	require.NoError(t, chats.Create(ctx, entity.NewChat("c1_u1", "c1", "u1", now)))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := chats.AppendMessage(ctx, "c1_u1", entity.Message{
				ID:      string(rune('a' + i)),
				SentBy:  entity.SenderUser,
				Message: "x",
			}, now.Add(time.Duration(i)*time.Millisecond))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	chat, err := chats.GetByID(ctx, "c1_u1")
	require.NoError(t, err)
	assert.Len(t, chat.Messages, 20)
}

func TestPageOutOfRange(t *testing.T) {
	items := []int{1, 2, 3}

	assert.Equal(t, []int{2, 3}, page(items, 5, 1))
	assert.Empty(t, page(items, 2, 3))
	assert.Empty(t, page(items, 2, -8446744073709551616))
}
