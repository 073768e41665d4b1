package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"carbazaar/internal/domain/entity"
	"carbazaar/internal/domain/repository"
	"carbazaar/internal/domain/service"
	"carbazaar/internal/infrastructure/ratelimit"
	"carbazaar/pkg/errors"
	"carbazaar/pkg/logger"
	"carbazaar/pkg/retry"
	"carbazaar/pkg/utils"
)

type ChatConfig struct {
	Timeout           time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
	MaxMessageLength  int
	MessagesPerMinute int
	DefaultPageSize   int
	MaxPageSize       int
}

func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		Timeout:           15 * time.Second,
		RetryAttempts:     3,
		RetryDelay:        500 * time.Millisecond,
		MaxMessageLength:  1000,
		MessagesPerMinute: 30,
		DefaultPageSize:   utils.DefaultPageSize,
		MaxPageSize:       utils.MaxPageSize,
	}
}

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	listingRepo repository.ListingRepository
	notifier    service.ChatNotifier
	rateLimiter *ratelimit.RateLimiter
	cfg         ChatConfig
	retryCfg    retry.Config
	now         func() time.Time
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	listingRepo repository.ListingRepository,
	notifier service.ChatNotifier,
	cfg ChatConfig,
) *ChatUseCase {
	if notifier == nil {
		notifier = nopNotifier{}
	}

	def := DefaultChatConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = def.RetryAttempts
	}
	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = def.MaxMessageLength
	}
	if cfg.MessagesPerMinute <= 0 {
		cfg.MessagesPerMinute = def.MessagesPerMinute
	}

	return &ChatUseCase{
		chatRepo:    chatRepo,
		listingRepo: listingRepo,
		notifier:    notifier,
		rateLimiter: ratelimit.NewRateLimiter(cfg.MessagesPerMinute, time.Minute),
		cfg:         cfg,
		retryCfg: retry.Config{
			MaxAttempts: cfg.RetryAttempts,
			Delay:       cfg.RetryDelay,
			Retryable:   func(err error) bool { return !errors.IsClientError(err) },
		},
		now: time.Now,
	}
}

// RateLimiter exposes the per-user limiter so the caller can run its cleanup routine.
func (uc *ChatUseCase) RateLimiter() *ratelimit.RateLimiter {
	return uc.rateLimiter
}

// ChatID is the deterministic document id for a (car, user) conversation.
func ChatID(carID, userID string) string {
	return carID + "_" + userID
}

// run executes fn with the chat timeout and retry policy. Client errors are
// returned on the first attempt.
func (uc *ChatUseCase) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.Timeout)
	defer cancel()

	err := retry.DoWithLog(ctx, uc.retryCfg, fn, func(attempt int, err error, next time.Duration) {
		logger.Warn("%s attempt %d failed, retrying in %v: %v", op, attempt, next, err)
	})
	if err == nil {
		return nil
	}

	if appErr, ok := errors.As(err); ok {
		return appErr
	}
	return errors.Internal("Chat operation failed", err)
}

func (uc *ChatUseCase) allow(userID, action string) error {
	if ok, wait := uc.rateLimiter.Allow(userID + ":" + action); !ok {
		logger.Warn("Chat %s rate limited for %s, retry in %v", action, userID, wait)
		return errors.TooManyRequests("Too many messages, slow down")
	}
	return nil
}

// StartChat returns the conversation for (carID, userID), creating it on first
// use. Concurrent calls for the same pair return the same chat.
func (uc *ChatUseCase) StartChat(ctx context.Context, carID, userID string) (*entity.Chat, error) {
	if carID == "" || userID == "" {
		return nil, errors.BadRequest("carId and userId are required", nil)
	}

	var (
		chat    *entity.Chat
		charged bool
	)
	err := uc.run(ctx, "startChat", func(ctx context.Context) error {
		existing, err := uc.chatRepo.FindByCarAndUser(ctx, carID, userID)
		if err == nil {
			chat = existing
			return nil
		}
		if !errors.Is(err, errors.CodeNotFound) {
			return err
		}

		if _, err := uc.listingRepo.GetByID(ctx, carID); err != nil {
			return err
		}
		// Only the first attempt that reaches creation is charged.
		if !charged {
			charged = true
			if err := uc.allow(userID, "start"); err != nil {
				return err
			}
		}

		created := entity.NewChat(ChatID(carID, userID), carID, userID, uc.now())
		err = uc.chatRepo.Create(ctx, created)
		switch {
		case err == nil:
			chat = created
			logger.Info("Chat %s started", created.ID)
			return nil
		case errors.Is(err, errors.CodeConflict):
			chat, err = uc.chatRepo.GetByID(ctx, created.ID)
			return err
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return chat, nil
}

type SendMessageInput struct {
	ChatID  string
	UserID  string
	SentBy  string
	Message string
}

// SendMessage appends a message from the chat's own user. Admin replies go
// through SendAdminMessage.
func (uc *ChatUseCase) SendMessage(ctx context.Context, input SendMessageInput) (*entity.Chat, error) {
	if input.SentBy != entity.SenderUser {
		return nil, errors.Forbidden("Users can only send messages as user", nil)
	}
	if input.UserID == "" {
		return nil, errors.BadRequest("userId is required", nil)
	}
	if err := uc.validateText(input.Message); err != nil {
		return nil, err
	}

	var chat *entity.Chat
	if err := uc.run(ctx, "getChat", func(ctx context.Context) (err error) {
		chat, err = uc.chatRepo.GetByID(ctx, input.ChatID)
		return err
	}); err != nil {
		return nil, err
	}
	if chat.UserID != input.UserID {
		return nil, errors.Forbidden("Not a participant of this chat", nil)
	}

	if err := uc.allow(input.UserID, "send"); err != nil {
		return nil, err
	}
	return uc.append(ctx, input.ChatID, entity.SenderUser, input.Message)
}

// SendAdminMessage appends a reply from the support team.
func (uc *ChatUseCase) SendAdminMessage(ctx context.Context, chatID, message string) (*entity.Chat, error) {
	if err := uc.validateText(message); err != nil {
		return nil, err
	}
	return uc.append(ctx, chatID, entity.SenderAdmin, message)
}

func (uc *ChatUseCase) validateText(message string) error {
	if strings.TrimSpace(message) == "" {
		return errors.BadRequest("Message cannot be empty", nil)
	}
	if utf8.RuneCountInString(message) > uc.cfg.MaxMessageLength {
		return errors.BadRequest("Message is too long", nil)
	}
	return nil
}

// append writes one message. The id is fixed before the first attempt so a
// retry after an ambiguous failure cannot store the message twice.
func (uc *ChatUseCase) append(ctx context.Context, chatID, sentBy, text string) (*entity.Chat, error) {
	if chatID == "" {
		return nil, errors.BadRequest("chatId is required", nil)
	}

	at := uc.now()
	msg := entity.Message{
		ID:        uuid.New().String(),
		SentBy:    sentBy,
		Message:   text,
		TimeStamp: at.UTC().Format(time.RFC3339Nano),
	}

	var chat *entity.Chat
	if err := uc.run(ctx, "sendMessage", func(ctx context.Context) (err error) {
		chat, err = uc.chatRepo.AppendMessage(ctx, chatID, msg, at)
		return err
	}); err != nil {
		return nil, err
	}

	uc.notifier.NotifyChatUpdated(chat)
	return chat, nil
}

func (uc *ChatUseCase) GetChat(ctx context.Context, id string) (*entity.Chat, error) {
	var chat *entity.Chat
	err := uc.run(ctx, "getChat", func(ctx context.Context) (err error) {
		chat, err = uc.chatRepo.GetByID(ctx, id)
		return err
	})
	return chat, err
}

func (uc *ChatUseCase) MarkRead(ctx context.Context, id, role string) (*entity.Chat, error) {
	if !entity.ValidSender(role) {
		return nil, errors.BadRequest("role must be user or admin", nil)
	}

	var chat *entity.Chat
	if err := uc.run(ctx, "markRead", func(ctx context.Context) (err error) {
		chat, err = uc.chatRepo.MarkRead(ctx, id, role)
		return err
	}); err != nil {
		return nil, err
	}

	uc.notifier.NotifyChatUpdated(chat)
	return chat, nil
}

type ChatPage struct {
	Data       []*entity.Chat   `json:"data"`
	Pagination utils.Pagination `json:"pagination"`
}

// ListUserChats lists a user's chats, most recent activity first.
func (uc *ChatUseCase) ListUserChats(ctx context.Context, userID string, page, pageSize int) (*ChatPage, error) {
	if userID == "" {
		return nil, errors.BadRequest("userId is required", nil)
	}

	params := utils.NormalizePagination(page, pageSize, uc.cfg.DefaultPageSize, uc.cfg.MaxPageSize)
	return uc.list(ctx, params, func(ctx context.Context) ([]*entity.Chat, int64, error) {
		return uc.chatRepo.ListByUserID(ctx, userID, params.PageSize, params.Offset)
	})
}

// ListAdminChats lists every chat for the support inbox.
func (uc *ChatUseCase) ListAdminChats(ctx context.Context, unreadOnly bool, page, pageSize int) (*ChatPage, error) {
	params := utils.NormalizePagination(page, pageSize, uc.cfg.DefaultPageSize, uc.cfg.MaxPageSize)
	return uc.list(ctx, params, func(ctx context.Context) ([]*entity.Chat, int64, error) {
		return uc.chatRepo.ListAll(ctx, unreadOnly, params.PageSize, params.Offset)
	})
}

func (uc *ChatUseCase) list(ctx context.Context, params utils.PaginationParams, fetch func(ctx context.Context) ([]*entity.Chat, int64, error)) (*ChatPage, error) {
	var (
		chats []*entity.Chat
		total int64
	)
	if err := uc.run(ctx, "listChats", func(ctx context.Context) (err error) {
		chats, total, err = fetch(ctx)
		return err
	}); err != nil {
		return nil, err
	}
	if chats == nil {
		chats = []*entity.Chat{}
	}

	return &ChatPage{
		Data:       chats,
		Pagination: utils.NewPagination(total, params.Page, params.PageSize),
	}, nil
}
