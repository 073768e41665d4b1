package handler

import (
	"github.com/labstack/echo/v4"

	"carbazaar/internal/usecase"
	"carbazaar/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type startChatRequest struct {
	CarID  string `json:"carId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

type messageData struct {
	Message string `json:"message" validate:"required"`
	SentBy  string `json:"sentBy" validate:"required,oneof=user admin"`
}

type sendMessageRequest struct {
	ChatID      string      `json:"chatId" validate:"required"`
	UserID      string      `json:"userId" validate:"required"`
	MessageData messageData `json:"messageData"`
}

type userChatsRequest struct {
	CurrentPage int `json:"currentPage" validate:"gte=0"`
	PageSize    int `json:"pageSize" validate:"gte=0"`
}

type markReadRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type adminMessageRequest struct {
	ChatID  string `json:"chatId" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func (h *ChatHandler) StartChat(c echo.Context) error {
	var req startChatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	chat, err := h.chatUseCase.StartChat(c.Request().Context(), req.CarID, req.UserID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, chat)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	chat, err := h.chatUseCase.SendMessage(c.Request().Context(), usecase.SendMessageInput{
		ChatID:  req.ChatID,
		UserID:  req.UserID,
		SentBy:  req.MessageData.SentBy,
		Message: req.MessageData.Message,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, chat)
}

// GetUserChats handles POST /chats/user/:userId.
func (h *ChatHandler) GetUserChats(c echo.Context) error {
	var req userChatsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	page, err := h.chatUseCase.ListUserChats(c.Request().Context(), c.Param("userId"), req.CurrentPage, req.PageSize)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, page.Data, page.Pagination)
}

func (h *ChatHandler) GetChat(c echo.Context) error {
	chat, err := h.chatUseCase.GetChat(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, chat)
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	var req markReadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	chat, err := h.chatUseCase.MarkRead(c.Request().Context(), c.Param("id"), req.Role)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, chat)
}

// AdminChats handles GET /admin/chats?page&limit&unread=true.
func (h *ChatHandler) AdminChats(c echo.Context) error {
	unread := c.QueryParam("unread") == "true"

	page, err := h.chatUseCase.ListAdminChats(c.Request().Context(), unread, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, page.Data, page.Pagination)
}

// AdminSend handles POST /admin/chats/send. The sender is always admin.
func (h *ChatHandler) AdminSend(c echo.Context) error {
	var req adminMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	chat, err := h.chatUseCase.SendAdminMessage(c.Request().Context(), req.ChatID, req.Message)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, chat)
}
