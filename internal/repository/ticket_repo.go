package repository

import (
	"context"

	"foodportal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TicketStats summarizes tickets per status for the admin support screen.
type TicketStats struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
}

type TicketRepository interface {
	Create(ctx context.Context, t *model.SupportTicket) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.SupportTicket, error)
	GetWithReplies(ctx context.Context, id uuid.UUID) (*model.SupportTicket, error)
	List(ctx context.Context, page, limit int) ([]model.SupportTicket, int64, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.SupportTicket, error)
	Stats(ctx context.Context) (TicketStats, error)
	Save(ctx context.Context, t *model.SupportTicket) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteReplies(ctx context.Context, ticketID uuid.UUID) error
	CreateReply(ctx context.Context, reply *model.TicketReply) error
}

type ticketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, t *model.SupportTicket) error {
	return GetDB(ctx, r.db).Create(t).Error
}

func (r *ticketRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SupportTicket, error) {
	var t model.SupportTicket
	if err := GetDB(ctx, r.db).Preload("User").Preload("AssignedTo").First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepository) GetWithReplies(ctx context.Context, id uuid.UUID) (*model.SupportTicket, error) {
	var t model.SupportTicket
	if err := GetDB(ctx, r.db).
		Preload("User").
		Preload("AssignedTo").
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Replies.User").
		First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepository) List(ctx context.Context, page, limit int) ([]model.SupportTicket, int64, error) {
	var tickets []model.SupportTicket
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.SupportTicket{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("User").
		Preload("AssignedTo").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&tickets).Error; err != nil {
		return nil, 0, err
	}

	return tickets, total, nil
}

func (r *ticketRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.SupportTicket, error) {
	var tickets []model.SupportTicket
	err := GetDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

func (r *ticketRepository) Stats(ctx context.Context) (TicketStats, error) {
	var stats TicketStats
	db := GetDB(ctx, r.db).Model(&model.SupportTicket{})

	if err := db.Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	if err := GetDB(ctx, r.db).Model(&model.SupportTicket{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return stats, err
	}
	for _, rw := range rows {
		switch rw.Status {
		case model.TicketStatusOpen:
			stats.Open = rw.N
		case model.TicketStatusInProgress:
			stats.InProgress = rw.N
		case model.TicketStatusResolved:
			stats.Resolved = rw.N
		}
	}
	return stats, nil
}

func (r *ticketRepository) Save(ctx context.Context, t *model.SupportTicket) error {
	return GetDB(ctx, r.db).Save(t).Error
}

func (r *ticketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.SupportTicket{}, "id = ?", id).Error
}

func (r *ticketRepository) DeleteReplies(ctx context.Context, ticketID uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.TicketReply{}, "ticket_id = ?", ticketID).Error
}

func (r *ticketRepository) CreateReply(ctx context.Context, reply *model.TicketReply) error {
	return GetDB(ctx, r.db).Create(reply).Error
}
