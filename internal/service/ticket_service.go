package service

import (
	"context"
	"errors"
	"time"

	"foodportal/internal/model"
	"foodportal/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateTicketRequest struct {
	Subject     string `json:"subject" binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
}

type UpdateTicketStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AssignTicketRequest struct {
	AdminID string `json:"admin_id" binding:"required"`
}

type TicketReplyRequest struct {
	Message string `json:"message" binding:"required"`
}

type TicketReplyResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	UserRole  string `json:"user_role"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

type TicketResponse struct {
	ID          string                `json:"id"`
	User        OrderParty            `json:"user"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Status      string                `json:"status"`
	Priority    string                `json:"priority"`
	AssignedTo  string                `json:"assigned_to"`
	ResolvedAt  string                `json:"resolved_at,omitempty"`
	CreatedAt   string                `json:"created_at"`
	UpdatedAt   string                `json:"updated_at"`
	Replies     []TicketReplyResponse `json:"replies,omitempty"`
}

const ticketTimeLayout = "02 Jan 2006 15:04"

// TicketService handles the support ticket surface: users raise tickets,
// admins walk them through the status set and reply.
type TicketService interface {
	Create(ctx context.Context, userID string, req CreateTicketRequest) (*TicketResponse, error)
	List(ctx context.Context, page, limit int) ([]TicketResponse, int64, repository.TicketStats, error)
	ListForUser(ctx context.Context, userID string) ([]TicketResponse, error)
	GetDetail(ctx context.Context, id string) (*TicketResponse, error)
	UpdateStatus(ctx context.Context, id string, req UpdateTicketStatusRequest) (*TicketResponse, error)
	Assign(ctx context.Context, id string, req AssignTicketRequest) (*TicketResponse, error)
	Reply(ctx context.Context, id, userID string, req TicketReplyRequest) (*TicketReplyResponse, error)
	Delete(ctx context.Context, id string) error
}

type ticketService struct {
	tickets repository.TicketRepository
	users   repository.UserRepository
	tx      repository.TransactionManager
}

func NewTicketService(tickets repository.TicketRepository, users repository.UserRepository, tx repository.TransactionManager) TicketService {
	return &ticketService{tickets: tickets, users: users, tx: tx}
}

func toTicketResponse(t *model.SupportTicket, withReplies bool) *TicketResponse {
	resp := &TicketResponse{
		ID:          t.ID.String(),
		User:        OrderParty{ID: t.UserID.String(), Username: t.User.Username},
		Subject:     t.Subject,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		AssignedTo:  "Unassigned",
		CreatedAt:   t.CreatedAt.Format(ticketTimeLayout),
		UpdatedAt:   t.UpdatedAt.Format(ticketTimeLayout),
	}
	if t.AssignedTo != nil {
		resp.AssignedTo = t.AssignedTo.Username
	}
	if t.ResolvedAt != nil {
		resp.ResolvedAt = t.ResolvedAt.Format(ticketTimeLayout)
	}
	if withReplies {
		resp.Replies = make([]TicketReplyResponse, 0, len(t.Replies))
		for _, r := range t.Replies {
			resp.Replies = append(resp.Replies, TicketReplyResponse{
				ID:        r.ID.String(),
				Username:  r.User.Username,
				UserRole:  r.User.Role,
				Message:   r.Message,
				CreatedAt: r.CreatedAt.Format(ticketTimeLayout),
			})
		}
	}
	return resp
}

func (s *ticketService) Create(ctx context.Context, userID string, req CreateTicketRequest) (*TicketResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	priority := req.Priority
	if priority == "" {
		priority = model.TicketPriorityMedium
	}

	ticket := &model.SupportTicket{
		UserID:      user.ID,
		Subject:     req.Subject,
		Description: req.Description,
		Status:      model.TicketStatusOpen,
		Priority:    priority,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	ticket.User = *user
	return toTicketResponse(ticket, false), nil
}

func (s *ticketService) List(ctx context.Context, page, limit int) ([]TicketResponse, int64, repository.TicketStats, error) {
	stats, err := s.tickets.Stats(ctx)
	if err != nil {
		return nil, 0, stats, err
	}

	tickets, total, err := s.tickets.List(ctx, page, limit)
	if err != nil {
		return nil, 0, stats, err
	}

	responses := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		responses = append(responses, *toTicketResponse(&tickets[i], false))
	}
	return responses, total, stats, nil
}

func (s *ticketService) ListForUser(ctx context.Context, userID string) ([]TicketResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	tickets, err := s.tickets.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		tickets[i].User = *user
		responses = append(responses, *toTicketResponse(&tickets[i], false))
	}
	return responses, nil
}

func (s *ticketService) GetDetail(ctx context.Context, id string) (*TicketResponse, error) {
	ticketID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("ticket not found")
	}
	ticket, err := s.tickets.GetWithReplies(ctx, ticketID)
	if err != nil {
		return nil, errors.New("ticket not found")
	}
	return toTicketResponse(ticket, true), nil
}

// UpdateStatus moves the ticket to any known status. Reaching resolved
// stamps ResolvedAt.
func (s *ticketService) UpdateStatus(ctx context.Context, id string, req UpdateTicketStatusRequest) (*TicketResponse, error) {
	if !model.ValidTicketStatus(req.Status) {
		return nil, errors.New("invalid ticket status")
	}

	ticketID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("ticket not found")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, errors.New("ticket not found")
	}

	ticket.Status = req.Status
	if req.Status == model.TicketStatusResolved && ticket.ResolvedAt == nil {
		now := time.Now()
		ticket.ResolvedAt = &now
	}
	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, err
	}

	return toTicketResponse(ticket, false), nil
}

func (s *ticketService) Assign(ctx context.Context, id string, req AssignTicketRequest) (*TicketResponse, error) {
	ticketID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("ticket not found")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, errors.New("ticket not found")
	}

	admin, err := s.users.GetByID(ctx, req.AdminID)
	if err != nil {
		return nil, errors.New("admin not found")
	}
	if admin.Role != model.RoleAdmin {
		return nil, errors.New("tickets can only be assigned to admins")
	}

	ticket.AssignedToID = &admin.ID
	ticket.AssignedTo = admin
	if ticket.Status == model.TicketStatusOpen {
		ticket.Status = model.TicketStatusInProgress
	}
	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, err
	}

	return toTicketResponse(ticket, false), nil
}

// Reply appends a reply. Only an admin or the ticket's owner may reply.
func (s *ticketService) Reply(ctx context.Context, id, userID string, req TicketReplyRequest) (*TicketReplyResponse, error) {
	ticketID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("ticket not found")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, errors.New("ticket not found")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	if user.Role != model.RoleAdmin && user.ID != ticket.UserID {
		return nil, errors.New("you cannot reply to this ticket")
	}

	reply := &model.TicketReply{
		TicketID: ticket.ID,
		UserID:   user.ID,
		Message:  req.Message,
	}
	if err := s.tickets.CreateReply(ctx, reply); err != nil {
		return nil, err
	}

	return &TicketReplyResponse{
		ID:        reply.ID.String(),
		Username:  user.Username,
		UserRole:  user.Role,
		Message:   reply.Message,
		CreatedAt: reply.CreatedAt.Format(ticketTimeLayout),
	}, nil
}

// Delete removes a ticket and all of its replies.
func (s *ticketService) Delete(ctx context.Context, id string) error {
	ticketID, err := uuid.Parse(id)
	if err != nil {
		return errors.New("ticket not found")
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return errors.New("ticket not found")
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.tickets.DeleteReplies(txCtx, ticketID); err != nil {
			return err
		}
		return s.tickets.Delete(txCtx, ticketID)
	})
}
