package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"foodportal/internal/model"
	"foodportal/internal/repository"
	"foodportal/internal/statemachine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type OrderItemRequest struct {
	ItemName string `json:"item_name" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Price    string `json:"price" binding:"required"`
}

type PlaceOrderRequest struct {
	RestaurantID    string             `json:"restaurant_id" binding:"required"`
	DeliveryAddress string             `json:"delivery_address" binding:"required"`
	Notes           string             `json:"notes"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// AdminCreateOrderRequest mirrors the manual add-order form on the admin
// screen: the admin picks every participant, optionally a driver.
type AdminCreateOrderRequest struct {
	CustomerID      string             `json:"customer_id" binding:"required"`
	RestaurantID    string             `json:"restaurant_id" binding:"required"`
	DriverID        string             `json:"driver_id"`
	DeliveryAddress string             `json:"delivery_address"`
	Notes           string             `json:"notes"`
	Items           []OrderItemRequest `json:"items" binding:"omitempty,dive"`
}

type AssignDriverRequest struct {
	DriverID string `json:"driver_id" binding:"required"`
}

type AdvanceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OverrideStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderItemResponse struct {
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Subtotal string `json:"subtotal"`
}

type OrderParty struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	Customer        OrderParty          `json:"customer"`
	Restaurant      OrderParty          `json:"restaurant"`
	Driver          *OrderParty         `json:"driver"`
	Status          string              `json:"status"`
	TotalPrice      string              `json:"total_price"`
	DeliveryAddress string              `json:"delivery_address"`
	Notes           string              `json:"notes"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       string              `json:"created_at"`
	UpdatedAt       string              `json:"updated_at"`
}

// Dates are rendered as short human-readable strings, matching the portal's
// existing screens.
const orderTimeLayout = "02 Jan 2006 15:04"

// OrderService owns the order lifecycle: creation, driver assignment, the
// driver step function, and the audited admin override.
type OrderService interface {
	PlaceOrder(ctx context.Context, customerID string, req PlaceOrderRequest) (*OrderResponse, error)
	AdminCreateOrder(ctx context.Context, adminID string, req AdminCreateOrderRequest) (*OrderResponse, error)
	GetOrder(ctx context.Context, id string) (*OrderResponse, error)
	ListOrders(ctx context.Context, filter repository.OrderFilter, page, limit int) ([]OrderResponse, int64, error)
	OrderStats(ctx context.Context) (repository.StatusCounts, error)
	AssignDriver(ctx context.Context, adminID, orderID string, req AssignDriverRequest) (*OrderResponse, error)
	ClaimOrder(ctx context.Context, driverID, orderID string) (*OrderResponse, error)
	AdvanceStatus(ctx context.Context, driverID, orderID string, req AdvanceStatusRequest) (*OrderResponse, error)
	OverrideStatus(ctx context.Context, adminID, orderID string, req OverrideStatusRequest) (*OrderResponse, error)
	DeleteOrder(ctx context.Context, adminID, orderID string) error

	ListForCustomer(ctx context.Context, customerID string, page, limit int) ([]OrderResponse, int64, error)
	ListForRestaurant(ctx context.Context, restaurantID string, page, limit int) ([]OrderResponse, int64, error)
	DriverBoard(ctx context.Context, driverID string) (*DriverBoardResponse, error)
}

// DriverBoardResponse mirrors the driver dashboard: the order being worked,
// the unassigned pool, and past deliveries.
type DriverBoardResponse struct {
	ActiveOrder     *OrderResponse  `json:"active_order"`
	AvailableOrders []OrderResponse `json:"available_orders"`
	History         []OrderResponse `json:"history"`
}

type orderService struct {
	orders repository.OrderRepository
	users  repository.UserRepository
	audit  repository.AuditRepository
	tx     repository.TransactionManager
}

func NewOrderService(orders repository.OrderRepository, users repository.UserRepository, audit repository.AuditRepository, tx repository.TransactionManager) OrderService {
	return &orderService{orders: orders, users: users, audit: audit, tx: tx}
}

// --- Helpers ---

func toOrderResponse(o *model.Order) *OrderResponse {
	resp := &OrderResponse{
		ID:              o.ID.String(),
		Customer:        OrderParty{ID: o.CustomerID.String(), Username: o.Customer.Username},
		Restaurant:      OrderParty{ID: o.RestaurantID.String(), Username: o.Restaurant.Username},
		Status:          o.Status,
		TotalPrice:      o.TotalPrice.StringFixed(2),
		DeliveryAddress: o.DeliveryAddress,
		Notes:           o.Notes,
		Items:           make([]OrderItemResponse, 0, len(o.Items)),
		CreatedAt:       o.CreatedAt.Format(orderTimeLayout),
		UpdatedAt:       o.UpdatedAt.Format(orderTimeLayout),
	}
	if o.DriverID != nil {
		driver := &OrderParty{ID: o.DriverID.String()}
		if o.Driver != nil {
			driver.Username = o.Driver.Username
		}
		resp.Driver = driver
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ItemName: item.ItemName,
			Quantity: item.Quantity,
			Price:    item.Price.StringFixed(2),
			Subtotal: item.Subtotal().StringFixed(2),
		})
	}
	return resp
}

func buildItems(reqs []OrderItemRequest) ([]model.OrderItem, decimal.Decimal, error) {
	items := make([]model.OrderItem, 0, len(reqs))
	total := decimal.Zero
	for _, it := range reqs {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("invalid price %q: %w", it.Price, err)
		}
		if price.IsNegative() {
			return nil, decimal.Zero, errors.New("item price cannot be negative")
		}
		item := model.OrderItem{
			ItemName: it.ItemName,
			Quantity: it.Quantity,
			Price:    price,
		}
		items = append(items, item)
		total = total.Add(item.Subtotal())
	}
	return items, total, nil
}

func (s *orderService) requireRole(ctx context.Context, id, role string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s not found", role)
	}
	if user.Role != role {
		return nil, fmt.Errorf("user %s is not a %s", user.Username, role)
	}
	return user, nil
}

// --- Creation ---

func (s *orderService) PlaceOrder(ctx context.Context, customerID string, req PlaceOrderRequest) (*OrderResponse, error) {
	customer, err := s.requireRole(ctx, customerID, model.RoleCustomer)
	if err != nil {
		return nil, err
	}
	restaurant, err := s.requireRole(ctx, req.RestaurantID, model.RoleRestaurant)
	if err != nil {
		return nil, err
	}
	if !restaurant.IsApproved {
		return nil, errors.New("restaurant is not accepting orders")
	}

	items, total, err := buildItems(req.Items)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		CustomerID:      customer.ID,
		RestaurantID:    restaurant.ID,
		Status:          model.OrderStatusPending,
		TotalPrice:      total,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		Items:           items,
	}

	if err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.orders.Create(txCtx, order)
	}); err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, order.ID.String())
}

func (s *orderService) AdminCreateOrder(ctx context.Context, adminID string, req AdminCreateOrderRequest) (*OrderResponse, error) {
	customer, err := s.requireRole(ctx, req.CustomerID, model.RoleCustomer)
	if err != nil {
		return nil, err
	}
	restaurant, err := s.requireRole(ctx, req.RestaurantID, model.RoleRestaurant)
	if err != nil {
		return nil, err
	}

	var driverID *uuid.UUID
	status := model.OrderStatusPending
	if req.DriverID != "" {
		driver, err := s.requireRole(ctx, req.DriverID, model.RoleDriver)
		if err != nil {
			return nil, err
		}
		driverID = &driver.ID
		// Assigning a driver at creation confirms the order immediately.
		status = model.OrderStatusConfirmed
	}

	items, total, err := buildItems(req.Items)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		CustomerID:      customer.ID,
		RestaurantID:    restaurant.ID,
		DriverID:        driverID,
		Status:          status,
		TotalPrice:      total,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		Items:           items,
	}

	if err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.orders.Create(txCtx, order)
	}); err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, order.ID.String())
}

// --- Reads ---

func (s *orderService) GetOrder(ctx context.Context, id string) (*OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("order not found")
	}
	order, err := s.orders.FindByIDWithItems(ctx, orderID)
	if err != nil {
		return nil, errors.New("order not found")
	}
	return toOrderResponse(order), nil
}

func (s *orderService) ListOrders(ctx context.Context, filter repository.OrderFilter, page, limit int) ([]OrderResponse, int64, error) {
	orders, total, err := s.orders.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, *toOrderResponse(&orders[i]))
	}
	return responses, total, nil
}

func (s *orderService) OrderStats(ctx context.Context) (repository.StatusCounts, error) {
	return s.orders.CountByStatus(ctx)
}

func (s *orderService) ListForCustomer(ctx context.Context, customerID string, page, limit int) ([]OrderResponse, int64, error) {
	id, err := uuid.Parse(customerID)
	if err != nil {
		return nil, 0, errors.New("invalid customer id")
	}
	return s.ListOrders(ctx, repository.OrderFilter{CustomerID: &id}, page, limit)
}

func (s *orderService) ListForRestaurant(ctx context.Context, restaurantID string, page, limit int) ([]OrderResponse, int64, error) {
	id, err := uuid.Parse(restaurantID)
	if err != nil {
		return nil, 0, errors.New("invalid restaurant id")
	}
	return s.ListOrders(ctx, repository.OrderFilter{RestaurantID: &id}, page, limit)
}

// driverBoardLimit caps the available and history lists on the driver board.
const driverBoardLimit = 50

func (s *orderService) DriverBoard(ctx context.Context, driverID string) (*DriverBoardResponse, error) {
	id, err := uuid.Parse(driverID)
	if err != nil {
		return nil, errors.New("invalid driver id")
	}

	board := &DriverBoardResponse{}

	active, _, err := s.orders.List(ctx, repository.OrderFilter{
		DriverID: &id,
		Statuses: []string{model.OrderStatusConfirmed, model.OrderStatusPreparing, model.OrderStatusDelivering},
	}, 1, 1)
	if err != nil {
		return nil, err
	}
	if len(active) > 0 {
		board.ActiveOrder = toOrderResponse(&active[0])
	}

	available, _, err := s.orders.List(ctx, repository.OrderFilter{
		Unassigned: true,
		Statuses:   []string{model.OrderStatusPending},
	}, 1, driverBoardLimit)
	if err != nil {
		return nil, err
	}
	board.AvailableOrders = make([]OrderResponse, 0, len(available))
	for i := range available {
		board.AvailableOrders = append(board.AvailableOrders, *toOrderResponse(&available[i]))
	}

	history, _, err := s.orders.List(ctx, repository.OrderFilter{
		DriverID: &id,
		Statuses: []string{model.OrderStatusCompleted},
	}, 1, driverBoardLimit)
	if err != nil {
		return nil, err
	}
	board.History = make([]OrderResponse, 0, len(history))
	for i := range history {
		board.History = append(board.History, *toOrderResponse(&history[i]))
	}

	return board, nil
}

// --- Mutations ---

// AssignDriver is the admin path out of pending: the order gets a driver and
// moves to confirmed in one write.
func (s *orderService) AssignDriver(ctx context.Context, adminID, orderID string, req AssignDriverRequest) (*OrderResponse, error) {
	oid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, errors.New("order not found")
	}
	order, err := s.orders.FindByIDWithItems(ctx, oid)
	if err != nil {
		return nil, errors.New("order not found")
	}
	driver, err := s.requireRole(ctx, req.DriverID, model.RoleDriver)
	if err != nil {
		return nil, err
	}
	if !driver.IsApproved {
		return nil, errors.New("driver is not approved yet")
	}
	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return nil, fmt.Errorf("invalid admin id: %w", err)
	}

	if err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orders.AssignDriver(txCtx, order.ID, driver.ID); err != nil {
			return err
		}
		details, _ := json.Marshal(map[string]interface{}{
			"driver":      driver.Username,
			"from_status": order.Status,
		})
		return s.audit.Log(txCtx, &model.AuditLog{
			UserID:     &adminUUID,
			Action:     model.ActionAssignDriver,
			EntityID:   order.ID.String(),
			EntityName: driver.Username,
			Details:    string(details),
		})
	}); err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, orderID)
}

// ClaimOrder is the driver self-accept. The claim is a single conditional
// update in the repository, so of two concurrent claims exactly one wins;
// the loser gets an error and no state changes.
func (s *orderService) ClaimOrder(ctx context.Context, driverID, orderID string) (*OrderResponse, error) {
	driver, err := s.requireRole(ctx, driverID, model.RoleDriver)
	if err != nil {
		return nil, err
	}

	oid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, errors.New("order not found")
	}
	order, err := s.orders.FindByIDWithItems(ctx, oid)
	if err != nil {
		return nil, errors.New("order not found")
	}
	if order.DriverID != nil {
		return nil, errors.New("order already taken by another driver")
	}
	if order.Status != model.OrderStatusPending {
		return nil, errors.New("order is no longer available")
	}

	if err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		claimed, err := s.orders.ClaimForDriver(txCtx, order.ID, driver.ID)
		if err != nil {
			return err
		}
		if !claimed {
			return errors.New("order already taken by another driver")
		}

		details, _ := json.Marshal(map[string]interface{}{"driver": driver.Username})
		return s.audit.Log(txCtx, &model.AuditLog{
			UserID:     &driver.ID,
			Action:     model.ActionDriverClaimOrder,
			EntityID:   order.ID.String(),
			EntityName: driver.Username,
			Details:    string(details),
		})
	}); err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, orderID)
}

// AdvanceStatus is the driver step function. The requested target must equal
// the single allowed successor of the current status; anything else is
// rejected without mutation.
func (s *orderService) AdvanceStatus(ctx context.Context, driverID, orderID string, req AdvanceStatusRequest) (*OrderResponse, error) {
	driver, err := s.requireRole(ctx, driverID, model.RoleDriver)
	if err != nil {
		return nil, err
	}

	oid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, errors.New("order not found")
	}
	order, err := s.orders.FindByIDWithItems(ctx, oid)
	if err != nil {
		return nil, errors.New("order not found")
	}
	if order.DriverID == nil || *order.DriverID != driver.ID {
		return nil, errors.New("you are not assigned to this order")
	}

	if err := statemachine.Advance(order.Status, req.Status); err != nil {
		return nil, err
	}

	// Conditional write: if the order moved under us the step is lost, not
	// applied out of order.
	moved, err := s.orders.AdvanceStatus(ctx, order.ID, driver.ID, order.Status, req.Status)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, errors.New("order status changed, refresh and retry")
	}

	return s.GetOrder(ctx, orderID)
}

// OverrideStatus is the admin bypass around the driver step function. It
// accepts any known status, including cancelled, and records the bypass in
// the audit log.
func (s *orderService) OverrideStatus(ctx context.Context, adminID, orderID string, req OverrideStatusRequest) (*OrderResponse, error) {
	if !statemachine.KnownStatus(req.Status) {
		return nil, fmt.Errorf("unknown order status %q", req.Status)
	}

	oid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, errors.New("order not found")
	}
	order, err := s.orders.FindByIDWithItems(ctx, oid)
	if err != nil {
		return nil, errors.New("order not found")
	}
	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return nil, fmt.Errorf("invalid admin id: %w", err)
	}

	if err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orders.UpdateStatus(txCtx, order.ID, req.Status); err != nil {
			return err
		}
		details, _ := json.Marshal(map[string]interface{}{
			"from": order.Status,
			"to":   req.Status,
		})
		return s.audit.Log(txCtx, &model.AuditLog{
			UserID:   &adminUUID,
			Action:   model.ActionOverrideOrderStatus,
			EntityID: order.ID.String(),
			Details:  string(details),
		})
	}); err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, orderID)
}

func (s *orderService) DeleteOrder(ctx context.Context, adminID, orderID string) error {
	oid, err := uuid.Parse(orderID)
	if err != nil {
		return errors.New("order not found")
	}
	if _, err := s.orders.FindByIDWithItems(ctx, oid); err != nil {
		return errors.New("order not found")
	}
	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return fmt.Errorf("invalid admin id: %w", err)
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orders.Delete(txCtx, oid); err != nil {
			return err
		}
		return s.audit.Log(txCtx, &model.AuditLog{
			UserID:   &adminUUID,
			Action:   model.ActionDeleteOrder,
			EntityID: oid.String(),
		})
	})
}
