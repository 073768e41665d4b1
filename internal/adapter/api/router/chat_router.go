package router

import (
	"github.com/labstack/echo/v4"

	"carbazaar/internal/adapter/api/handler"
)

func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, guards Guards) {
	chats := e.Group("/chats")

	chats.POST("/start", chatHandler.StartChat)
	chats.POST("/send", chatHandler.SendMessage)
	chats.POST("/user/:userId", chatHandler.GetUserChats)
	chats.GET("/:id", chatHandler.GetChat)
	chats.PUT("/:id/read", chatHandler.MarkRead)

	admin := e.Group("/admin/chats", guards.admin()...)
	admin.GET("", chatHandler.AdminChats)
	admin.POST("/send", chatHandler.AdminSend)
}
