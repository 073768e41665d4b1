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

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) col() *firestore.CollectionRef {
	return r.client.Collection(chatsCollection)
}

func decodeChat(doc *firestore.DocumentSnapshot) (*entity.Chat, error) {
	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}
	if chat.ID == "" {
		chat.ID = doc.Ref.ID
	}
	if chat.Messages == nil {
		chat.Messages = []entity.Message{}
	}
	return &chat, nil
}

func (r *firestoreChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	if _, err := r.col().Doc(chat.ID).Create(ctx, chat); err != nil {
		if isAlreadyExists(err) {
			return errors.Conflict("Chat already exists")
		}
		return errors.Internal("Failed to create chat", err)
	}
	return nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}
	return decodeChat(doc)
}

func (r *firestoreChatRepository) FindByCarAndUser(ctx context.Context, carID, userID string) (*entity.Chat, error) {
	iter := r.col().
		Where("carId", "==", carID).
		Where("userId", "==", userID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Chat", nil)
		}
		return nil, errors.Internal("Failed to query chat", err)
	}
	return decodeChat(doc)
}

// appendUpdates is the write set of one appended message.
func appendUpdates(chat *entity.Chat) []firestore.Update {
	return []firestore.Update{
		{Path: "messages", Value: chat.Messages},
		{Path: "lastMessageAt", Value: chat.LastMessageAt},
		{Path: "readByAdmin", Value: chat.ReadByAdmin},
		{Path: "readByUser", Value: chat.ReadByUser},
	}
}

func (r *firestoreChatRepository) AppendMessage(ctx context.Context, chatID string, msg entity.Message, at time.Time) (*entity.Chat, error) {
	var result *entity.Chat

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := r.col().Doc(chatID)
		doc, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return errors.NotFound("Chat", err)
			}
			return err
		}

		chat, err := decodeChat(doc)
		if err != nil {
			return err
		}
		chat.AddMessage(msg, at)

		if err := tx.Update(ref, appendUpdates(chat)); err != nil {
			return err
		}
		result = chat
		return nil
	})
	if err != nil {
		if appErr, ok := errors.As(err); ok {
			return nil, appErr
		}
		return nil, errors.Internal("Failed to send message", err)
	}

	return result, nil
}

func (r *firestoreChatRepository) MarkRead(ctx context.Context, chatID, role string) (*entity.Chat, error) {
	field := "readByUser"
	if role == entity.SenderAdmin {
		field = "readByAdmin"
	}

	_, err := r.col().Doc(chatID).Update(ctx, []firestore.Update{{Path: field, Value: true}})
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to mark chat as read", err)
	}
	return r.GetByID(ctx, chatID)
}

func (r *firestoreChatRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	return r.list(ctx, r.col().Where("userId", "==", userID), limit, offset)
}

func (r *firestoreChatRepository) ListAll(ctx context.Context, unreadByAdmin bool, limit, offset int) ([]*entity.Chat, int64, error) {
	query := r.col().Query
	if unreadByAdmin {
		query = query.Where("readByAdmin", "==", false)
	}
	return r.list(ctx, query, limit, offset)
}

func (r *firestoreChatRepository) list(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.Chat, int64, error) {
	total, err := countQuery(ctx, query)
	if err != nil {
		logger.Error("Firestore error while counting chats: %v", err)
		return nil, 0, errors.Internal("Failed to count chats", err)
	}
	if offset < 0 || int64(offset) >= total {
		return []*entity.Chat{}, total, nil
	}

	query = query.OrderBy("lastMessageAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	chats := []*entity.Chat{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while iterating chats: %v", err)
			return nil, 0, errors.Internal("Failed to iterate chats", err)
		}

		chat, err := decodeChat(doc)
		if err != nil {
			return nil, 0, err
		}
		chats = append(chats, chat)
	}

	return chats, total, nil
}
