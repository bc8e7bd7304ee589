package handler

import (
	"net/http"

	"foodportal/internal/middleware"
	"foodportal/internal/model"
	"foodportal/internal/service"
	"foodportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	chat := router.Group("/api/admin/chat", middleware.RequireRole(model.RoleAdmin))
	{
		chat.GET("/conversations", h.ListConversations)
		chat.GET("/with/:userID", h.GetMessages)
		chat.POST("/messages", h.SendMessage)
		chat.DELETE("/messages/:id", h.DeleteMessage)
	}
}

// ListConversations handles GET /api/admin/chat/conversations
// @Summary      List chat conversations
// @Description  Returns every conversation the admin has, with unread counts and the latest message
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.ConversationResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/admin/chat/conversations [get]
func (h *ChatHandler) ListConversations(c *gin.Context) {
	conversations, err := h.chatService.ListConversations(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, conversations))
}

// GetMessages handles GET /api/admin/chat/with/:userID
// @Summary      Open a conversation
// @Description  Returns the message history with the given user, creating the room on first contact. Fetching marks the user's messages read.
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        userID  path      string  true  "User ID"
// @Success      200     {object}  response.Response{data=service.RoomMessagesResponse}
// @Failure      400     {object}  response.Response
// @Router       /api/admin/chat/with/{userID} [get]
func (h *ChatHandler) GetMessages(c *gin.Context) {
	messages, err := h.chatService.GetMessages(c.Request.Context(), currentUserID(c), c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, messages))
}

// SendMessage handles POST /api/admin/chat/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req service.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	msg, err := h.chatService.SendMessage(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, msg))
}

// DeleteMessage handles DELETE /api/admin/chat/messages/:id
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	if err := h.chatService.DeleteMessage(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Message deleted"))
}
