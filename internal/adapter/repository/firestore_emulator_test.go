package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbazaar/internal/domain/entity"
	"carbazaar/pkg/errors"
)

// emulatorClient connects to a local Firestore emulator. The tests are
// skipped when FIRESTORE_EMULATOR_HOST is not set.
func emulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := firestore.NewClient(context.Background(), "carbazaar-test")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestFirestoreListingRoundTrip(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	cars := NewFirestoreListingRepository(client)
	users := NewFirestoreUserRepository(client)

	owner := &entity.User{ID: uuid.NewString(), Phone: uuid.NewString()}
	require.NoError(t, users.Create(ctx, owner))

	brand := "Brand-" + uuid.NewString()
	for i := 0; i < 3; i++ {
		require.NoError(t, cars.Create(ctx, &entity.Listing{
			Brand:         brand,
			Model:         fmt.Sprintf("M%d", i),
			Status:        entity.StatusPending,
			ExceptedPrice: int64(100000 * (i + 1)),
			PostedBy:      owner.ID,
			PostedDate:    time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
		}))
	}

	preds := []entity.Predicate{{Field: entity.FieldBrand, Condition: entity.ConditionEqual, Value: brand}}
	total, err := cars.Count(ctx, preds)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	got, err := cars.Query(ctx, preds, 2, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "M2", got[0].Model)

	updated, err := cars.Transition(ctx, got[0].ID, func(l *entity.Listing, u *entity.User) error {
		l.Status = entity.StatusApproved
		u.OnSaleCars = entity.AddUnique(u.OnSaleCars, l.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, updated.Status)

	stored, err := users.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{got[0].ID}, stored.OnSaleCars)
}

func TestFirestoreLegacyNumericFields(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()

	id := uuid.NewString()
	_, err := client.Collection(carsCollection).Doc(id).Set(ctx, map[string]interface{}{
		"brand":         "Maruti",
		"modelYear":     "2019",
		"exceptedPrice": "350000",
		"km":            42000.0,
	})
	require.NoError(t, err)

	l, err := NewFirestoreListingRepository(client).GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, l.ID)
	assert.Equal(t, int64(2019), l.ModelYear)
	assert.Equal(t, int64(350000), l.ExceptedPrice)
	assert.Equal(t, int64(42000), l.Km)
}

func TestFirestoreChatCreateConflict(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	chats := NewFirestoreChatRepository(client)

	id := uuid.NewString()
	require.NoError(t, chats.Create(ctx, entity.NewChat(id, "car", "user", time.Now())))
	assert.True(t, errors.Is(chats.Create(ctx, entity.NewChat(id, "car", "user", time.Now())), errors.CodeConflict))

	chat, err := chats.AppendMessage(ctx, id, entity.Message{ID: "m1", SentBy: entity.SenderAdmin, Message: "hello"}, time.Now())
	require.NoError(t, err)
	assert.Len(t, chat.Messages, 1)
	assert.False(t, chat.ReadByUser)
}

func TestFirestoreTransitionKeepsUnmodelledFields(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()

	owner := &entity.User{ID: uuid.NewString(), Phone: uuid.NewString()}
	require.NoError(t, NewFirestoreUserRepository(client).Create(ctx, owner))

	id := uuid.NewString()
	ref := client.Collection(carsCollection).Doc(id)
	_, err := ref.Set(ctx, map[string]interface{}{
		"brand":         "Tata",
		"status":        "pending",
		"exceptedPrice": "12,00,000",
		"ownerName":     "Ravi",
		"postedBy":      owner.ID,
	})
	require.NoError(t, err)

	_, err = NewFirestoreListingRepository(client).Transition(ctx, id, func(l *entity.Listing, u *entity.User) error {
		l.Status = entity.StatusApproved
		u.OnSaleCars = entity.AddUnique(u.OnSaleCars, l.ID)
		return nil
	})
	require.NoError(t, err)

	snap, err := ref.Get(ctx)
	require.NoError(t, err)
	data := snap.Data()
	assert.Equal(t, "approved", data["status"])
	assert.Equal(t, "12,00,000", data["exceptedPrice"])
	assert.Equal(t, "Ravi", data["ownerName"])
}

func TestFirestoreAppendKeepsUnmodelledFields(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	chats := NewFirestoreChatRepository(client)

	id := uuid.NewString()
	require.NoError(t, chats.Create(ctx, entity.NewChat(id, "car", "user", time.Now())))
	_, err := client.Collection(chatsCollection).Doc(id).Update(ctx, []firestore.Update{{Path: "topic", Value: "price"}})
	require.NoError(t, err)

	_, err = chats.AppendMessage(ctx, id, entity.Message{ID: "m1", SentBy: entity.SenderUser, Message: "hi"}, time.Now())
	require.NoError(t, err)

	snap, err := client.Collection(chatsCollection).Doc(id).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "price", snap.Data()["topic"])
	assert.Equal(t, false, snap.Data()["readByAdmin"])
}
