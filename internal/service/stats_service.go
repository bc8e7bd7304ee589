package service

import (
	"context"

	"foodportal/internal/model"
	"foodportal/internal/repository"
)

// DashboardStats is the admin landing-page summary.
type DashboardStats struct {
	PendingApprovals int64                   `json:"pending_approvals"`
	Drivers          int64                   `json:"drivers"`
	Restaurants      int64                   `json:"restaurants"`
	Customers        int64                   `json:"customers"`
	Orders           repository.StatusCounts `json:"orders"`
	OpenTickets      int64                   `json:"open_tickets"`
}

type StatsService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

type statsService struct {
	users   repository.UserRepository
	orders  repository.OrderRepository
	tickets repository.TicketRepository
}

func NewStatsService(users repository.UserRepository, orders repository.OrderRepository, tickets repository.TicketRepository) StatsService {
	return &statsService{users: users, orders: orders, tickets: tickets}
}

// Dashboard aggregates the counters the admin dashboard shows. Open tickets
// counts both open and in-progress, matching the support queue the admin
// still has to work through.
func (s *statsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	pending, err := s.users.ListPendingApproval(ctx)
	if err != nil {
		return nil, err
	}
	stats.PendingApprovals = int64(len(pending))

	_, drivers, err := s.users.ListByRole(ctx, model.RoleDriver, 1, 1)
	if err != nil {
		return nil, err
	}
	stats.Drivers = drivers

	_, restaurants, err := s.users.ListByRole(ctx, model.RoleRestaurant, 1, 1)
	if err != nil {
		return nil, err
	}
	stats.Restaurants = restaurants

	_, customers, err := s.users.ListByRole(ctx, model.RoleCustomer, 1, 1)
	if err != nil {
		return nil, err
	}
	stats.Customers = customers

	orderCounts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats.Orders = orderCounts

	ticketStats, err := s.tickets.Stats(ctx)
	if err != nil {
		return nil, err
	}
	stats.OpenTickets = ticketStats.Open + ticketStats.InProgress

	return stats, nil
}
