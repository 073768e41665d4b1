package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"carbazaar/internal/domain/entity"
	"carbazaar/internal/domain/repository"
)

// MockListingRepository is a mock type for repository.ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Listing, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) ListAll(ctx context.Context) ([]*entity.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) Query(ctx context.Context, predicates []entity.Predicate, limit, offset int) ([]*entity.Listing, error) {
	args := m.Called(ctx, predicates, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) Count(ctx context.Context, predicates []entity.Predicate) (int64, error) {
	args := m.Called(ctx, predicates)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockListingRepository) Transition(ctx context.Context, id string, fn repository.TransitionFunc) (*entity.Listing, error) {
	args := m.Called(ctx, id, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

// MockChatRepository is a mock type for repository.ChatRepository
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

func (m *MockChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Chat), args.Error(1)
}

func (m *MockChatRepository) FindByCarAndUser(ctx context.Context, carID, userID string) (*entity.Chat, error) {
	args := m.Called(ctx, carID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Chat), args.Error(1)
}

func (m *MockChatRepository) AppendMessage(ctx context.Context, chatID string, msg entity.Message, at time.Time) (*entity.Chat, error) {
	args := m.Called(ctx, chatID, msg, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Chat), args.Error(1)
}

func (m *MockChatRepository) MarkRead(ctx context.Context, chatID, role string) (*entity.Chat, error) {
	args := m.Called(ctx, chatID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Chat), args.Error(1)
}

func (m *MockChatRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Chat), args.Get(1).(int64), args.Error(2)
}

func (m *MockChatRepository) ListAll(ctx context.Context, unreadByAdmin bool, limit, offset int) ([]*entity.Chat, int64, error) {
	args := m.Called(ctx, unreadByAdmin, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Chat), args.Get(1).(int64), args.Error(2)
}

// recordingNotifier collects notified chat ids.
type recordingNotifier struct {
	chats []string
}

func (n *recordingNotifier) NotifyChatUpdated(chat *entity.Chat) {
	n.chats = append(n.chats, chat.ID)
}
