package service

import (
	"context"
	"errors"

	"foodportal/internal/model"
	"foodportal/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type SendMessageRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type ChatMessageResponse struct {
	ID         string `json:"id"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Message    string `json:"message"`
	IsAdmin    bool   `json:"is_admin"`
	IsRead     bool   `json:"is_read"`
	CreatedAt  string `json:"created_at"`
}

type ConversationResponse struct {
	RoomID      string               `json:"room_id,omitempty"`
	UserID      string               `json:"user_id"`
	Username    string               `json:"username"`
	Role        string               `json:"role"`
	UnreadCount int64                `json:"unread_count"`
	LastMessage *ChatMessageResponse `json:"last_message"`
}

type RoomMessagesResponse struct {
	RoomID    string                `json:"room_id"`
	OtherUser OrderParty            `json:"other_user"`
	Messages  []ChatMessageResponse `json:"messages"`
}

// Chats display clock-style timestamps on the conversation pane.
const chatTimeLayout = "3:04 PM"

// ChatService is the admin side of the support chat. One room exists per
// (admin, user) pair; fetching a conversation marks the other party's
// messages read.
type ChatService interface {
	ListConversations(ctx context.Context, adminID string) ([]ConversationResponse, error)
	GetMessages(ctx context.Context, adminID, userID string) (*RoomMessagesResponse, error)
	SendMessage(ctx context.Context, adminID string, req SendMessageRequest) (*ChatMessageResponse, error)
	DeleteMessage(ctx context.Context, adminID, messageID string) error
}

type chatService struct {
	chats repository.ChatRepository
	users repository.UserRepository
}

func NewChatService(chats repository.ChatRepository, users repository.UserRepository) ChatService {
	return &chatService{chats: chats, users: users}
}

func toChatMessageResponse(m *model.ChatMessage) *ChatMessageResponse {
	return &ChatMessageResponse{
		ID:         m.ID.String(),
		SenderID:   m.SenderID.String(),
		SenderName: m.Sender.Username,
		Message:    m.Message,
		IsAdmin:    m.Sender.Role == model.RoleAdmin,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt.Format(chatTimeLayout),
	}
}

func (s *chatService) ListConversations(ctx context.Context, adminID string) ([]ConversationResponse, error) {
	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return nil, errors.New("invalid admin id")
	}

	rooms, err := s.chats.ListRoomsForAdmin(ctx, adminUUID)
	if err != nil {
		return nil, err
	}

	conversations := make([]ConversationResponse, 0, len(rooms))
	for i := range rooms {
		room := &rooms[i]
		conv := ConversationResponse{
			RoomID:   room.ID.String(),
			UserID:   room.UserID.String(),
			Username: room.User.Username,
			Role:     room.User.Role,
		}

		unread, err := s.chats.CountUnread(ctx, room.ID, adminUUID)
		if err != nil {
			return nil, err
		}
		conv.UnreadCount = unread

		last, err := s.chats.LastMessage(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		if last != nil {
			// LastMessage skips preloading the sender; resolve it here.
			sender, err := s.users.GetByID(ctx, last.SenderID.String())
			if err == nil {
				last.Sender = *sender
			}
			conv.LastMessage = toChatMessageResponse(last)
		}

		conversations = append(conversations, conv)
	}

	return conversations, nil
}

func (s *chatService) GetMessages(ctx context.Context, adminID, userID string) (*RoomMessagesResponse, error) {
	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return nil, errors.New("invalid admin id")
	}
	other, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	if other.Role == model.RoleAdmin {
		return nil, errors.New("cannot open a chat with another admin")
	}

	room, err := s.chats.GetOrCreateRoom(ctx, adminUUID, other.ID)
	if err != nil {
		return nil, err
	}

	msgs, err := s.chats.ListMessages(ctx, room.ID)
	if err != nil {
		return nil, err
	}

	// Reading the conversation marks the other party's messages read.
	if err := s.chats.MarkRead(ctx, room.ID, adminUUID); err != nil {
		return nil, err
	}

	resp := &RoomMessagesResponse{
		RoomID:    room.ID.String(),
		OtherUser: OrderParty{ID: other.ID.String(), Username: other.Username},
		Messages:  make([]ChatMessageResponse, 0, len(msgs)),
	}
	for i := range msgs {
		resp.Messages = append(resp.Messages, *toChatMessageResponse(&msgs[i]))
	}
	return resp, nil
}

func (s *chatService) SendMessage(ctx context.Context, adminID string, req SendMessageRequest) (*ChatMessageResponse, error) {
	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return nil, errors.New("invalid admin id")
	}
	admin, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		return nil, errors.New("admin not found")
	}
	other, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	if other.Role == model.RoleAdmin {
		return nil, errors.New("cannot open a chat with another admin")
	}

	room, err := s.chats.GetOrCreateRoom(ctx, adminUUID, other.ID)
	if err != nil {
		return nil, err
	}

	msg := &model.ChatMessage{
		RoomID:   room.ID,
		SenderID: adminUUID,
		Message:  req.Message,
	}
	if err := s.chats.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.chats.TouchRoom(ctx, room.ID); err != nil {
		return nil, err
	}

	msg.Sender = *admin
	return toChatMessageResponse(msg), nil
}

// DeleteMessage removes a message, but only when the acting admin owns the
// room the message lives in.
func (s *chatService) DeleteMessage(ctx context.Context, adminID, messageID string) error {
	msgUUID, err := uuid.Parse(messageID)
	if err != nil {
		return errors.New("message not found")
	}
	msg, err := s.chats.GetMessage(ctx, msgUUID)
	if err != nil {
		return errors.New("message not found")
	}

	room, err := s.chats.GetRoom(ctx, msg.RoomID)
	if err != nil {
		return errors.New("message not found")
	}
	if room.AdminID.String() != adminID {
		return errors.New("you do not manage this conversation")
	}

	return s.chats.DeleteMessage(ctx, msg.ID)
}
