package service

import "carbazaar/internal/domain/entity"

// ChatNotifier is told about every chat change so connected clients can refresh.
type ChatNotifier interface {
	NotifyChatUpdated(chat *entity.Chat)
}
