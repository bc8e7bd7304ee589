package repository

import (
	"context"
	"errors"

	"foodportal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepository interface {
	GetOrCreateRoom(ctx context.Context, adminID, userID uuid.UUID) (*model.ChatRoom, error)
	ListRoomsForAdmin(ctx context.Context, adminID uuid.UUID) ([]model.ChatRoom, error)
	ListMessages(ctx context.Context, roomID uuid.UUID) ([]model.ChatMessage, error)
	LastMessage(ctx context.Context, roomID uuid.UUID) (*model.ChatMessage, error)
	CountUnread(ctx context.Context, roomID uuid.UUID, readerID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, roomID uuid.UUID, readerID uuid.UUID) error
	CreateMessage(ctx context.Context, msg *model.ChatMessage) error
	GetMessage(ctx context.Context, id uuid.UUID) (*model.ChatMessage, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error
	GetRoom(ctx context.Context, id uuid.UUID) (*model.ChatRoom, error)
	TouchRoom(ctx context.Context, id uuid.UUID) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// GetOrCreateRoom returns the unique room for the (admin, user) pair,
// creating it on first contact.
func (r *chatRepository) GetOrCreateRoom(ctx context.Context, adminID, userID uuid.UUID) (*model.ChatRoom, error) {
	var room model.ChatRoom
	err := GetDB(ctx, r.db).First(&room, "admin_id = ? AND user_id = ?", adminID, userID).Error
	if err == nil {
		return &room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	room = model.ChatRoom{AdminID: adminID, UserID: userID}
	if err := GetDB(ctx, r.db).Create(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *chatRepository) ListRoomsForAdmin(ctx context.Context, adminID uuid.UUID) ([]model.ChatRoom, error) {
	var rooms []model.ChatRoom
	err := GetDB(ctx, r.db).
		Preload("User").
		Where("admin_id = ?", adminID).
		Order("updated_at DESC").
		Find(&rooms).Error
	return rooms, err
}

func (r *chatRepository) ListMessages(ctx context.Context, roomID uuid.UUID) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := GetDB(ctx, r.db).
		Preload("Sender").
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}

func (r *chatRepository) LastMessage(ctx context.Context, roomID uuid.UUID) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	err := GetDB(ctx, r.db).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// CountUnread counts messages in the room not yet read by readerID, i.e.
// unread messages sent by the other party.
func (r *chatRepository) CountUnread(ctx context.Context, roomID uuid.UUID, readerID uuid.UUID) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.ChatMessage{}).
		Where("room_id = ? AND is_read = ? AND sender_id <> ?", roomID, false, readerID).
		Count(&n).Error
	return n, err
}

func (r *chatRepository) MarkRead(ctx context.Context, roomID uuid.UUID, readerID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.ChatMessage{}).
		Where("room_id = ? AND is_read = ? AND sender_id <> ?", roomID, false, readerID).
		Update("is_read", true).Error
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *model.ChatMessage) error {
	return GetDB(ctx, r.db).Create(msg).Error
}

func (r *chatRepository) GetMessage(ctx context.Context, id uuid.UUID) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	if err := GetDB(ctx, r.db).First(&msg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *chatRepository) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ChatMessage{}).Error
}

func (r *chatRepository) GetRoom(ctx context.Context, id uuid.UUID) (*model.ChatRoom, error) {
	var room model.ChatRoom
	if err := GetDB(ctx, r.db).First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// TouchRoom bumps updated_at so the conversation list sorts by last activity.
func (r *chatRepository) TouchRoom(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.ChatRoom{}).Where("id = ?", id).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
