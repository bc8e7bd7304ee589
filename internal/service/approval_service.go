package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"foodportal/internal/model"
	"foodportal/internal/repository"

	"github.com/google/uuid"
)

// PendingAccountsResponse lists accounts waiting for approval plus the
// counters the admin approvals screen shows.
type PendingAccountsResponse struct {
	Pending            []UserResponse `json:"pending"`
	PendingCount       int            `json:"pending_count"`
	PendingDrivers     int            `json:"pending_drivers"`
	PendingRestaurants int            `json:"pending_restaurants"`
}

// ApprovalService implements the admin approval workflow over driver and
// restaurant accounts.
type ApprovalService interface {
	ListPending(ctx context.Context) (*PendingAccountsResponse, error)
	Approve(ctx context.Context, userID string, adminID string) (*UserResponse, error)
	Reject(ctx context.Context, userID string, adminID string) error
}

type approvalService struct {
	users  repository.UserRepository
	orders repository.OrderRepository
	audit  repository.AuditRepository
	tx     repository.TransactionManager
}

func NewApprovalService(users repository.UserRepository, orders repository.OrderRepository, audit repository.AuditRepository, tx repository.TransactionManager) ApprovalService {
	return &approvalService{users: users, orders: orders, audit: audit, tx: tx}
}

func (s *approvalService) ListPending(ctx context.Context) (*PendingAccountsResponse, error) {
	pending, err := s.users.ListPendingApproval(ctx)
	if err != nil {
		return nil, err
	}

	resp := &PendingAccountsResponse{Pending: make([]UserResponse, 0, len(pending))}
	for i := range pending {
		resp.Pending = append(resp.Pending, *mapToUserResponse(&pending[i]))
		switch pending[i].Role {
		case model.RoleDriver:
			resp.PendingDrivers++
		case model.RoleRestaurant:
			resp.PendingRestaurants++
		}
	}
	resp.PendingCount = len(resp.Pending)
	return resp, nil
}

// Approve flips the approval flag. Re-approving an already-approved account
// is a no-op success.
func (s *approvalService) Approve(ctx context.Context, userID string, adminID string) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if user.IsApproved {
		return mapToUserResponse(user), nil
	}

	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return nil, fmt.Errorf("invalid admin id: %w", err)
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		user.IsApproved = true
		if err := s.users.Update(txCtx, user); err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]interface{}{
			"role": user.Role,
		})
		return s.audit.Log(txCtx, &model.AuditLog{
			UserID:     &adminUUID,
			Action:     model.ActionApproveAccount,
			EntityID:   user.ID.String(),
			EntityName: user.Username,
			Details:    string(details),
		})
	})
	if err != nil {
		return nil, err
	}

	return mapToUserResponse(user), nil
}

// Reject permanently deletes the account. The cascade follows the foreign
// key policy: orders referencing the user as customer or restaurant are
// deleted, orders referencing it as driver keep the order and lose the
// driver. Profiles and refresh tokens go with the account.
func (s *approvalService) Reject(ctx context.Context, userID string, adminID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return errors.New("user not found")
	}

	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return fmt.Errorf("invalid admin id: %w", err)
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		switch user.Role {
		case model.RoleDriver:
			if err := s.orders.ReleaseDriver(txCtx, user.ID); err != nil {
				return err
			}
		case model.RoleCustomer, model.RoleRestaurant:
			if err := s.orders.DeleteByParticipant(txCtx, user.ID); err != nil {
				return err
			}
		}

		if err := s.users.DeleteProfiles(txCtx, user.ID); err != nil {
			return err
		}
		if err := s.users.DeleteRefreshTokensForUser(txCtx, user.ID); err != nil {
			return err
		}
		if err := s.users.Delete(txCtx, user.ID); err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]interface{}{
			"role":     user.Role,
			"username": user.Username,
		})
		return s.audit.Log(txCtx, &model.AuditLog{
			UserID:     &adminUUID,
			Action:     model.ActionRejectAccount,
			EntityID:   user.ID.String(),
			EntityName: user.Username,
			Details:    string(details),
		})
	})
}
