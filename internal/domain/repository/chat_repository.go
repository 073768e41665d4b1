package repository

import (
	"context"
	"time"

	"carbazaar/internal/domain/entity"
)

type ChatRepository interface {
	// Create fails with a CONFLICT error when the chat id is taken.
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	FindByCarAndUser(ctx context.Context, carID, userID string) (*entity.Chat, error)
	// AppendMessage prepends msg and updates the read flags in one transaction.
	AppendMessage(ctx context.Context, chatID string, msg entity.Message, at time.Time) (*entity.Chat, error)
	MarkRead(ctx context.Context, chatID, role string) (*entity.Chat, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error)
	// ListAll lists every chat by lastMessageAt descending, optionally only
	// those the admins have not read.
	ListAll(ctx context.Context, unreadByAdmin bool, limit, offset int) ([]*entity.Chat, int64, error)
}
