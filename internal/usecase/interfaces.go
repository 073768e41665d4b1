package usecase

import "carbazaar/internal/domain/entity"

type nopNotifier struct{}

func (nopNotifier) NotifyChatUpdated(*entity.Chat) {}
