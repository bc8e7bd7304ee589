package repository

import (
	"context"

	"foodportal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderFilter narrows order listings.
type OrderFilter struct {
	CustomerID   *uuid.UUID
	RestaurantID *uuid.UUID
	DriverID     *uuid.UUID
	Statuses     []string
	Unassigned   bool // only orders with driver_id IS NULL
}

// StatusCounts summarizes orders per lifecycle stage for the admin screens.
type StatusCounts struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	Delivering int64 `json:"delivering"`
	Completed  int64 `json:"completed"`
	Active     int64 `json:"active"`
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter, page, limit int) ([]model.Order, int64, error)
	CountByStatus(ctx context.Context) (StatusCounts, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	AssignDriver(ctx context.Context, id uuid.UUID, driverID uuid.UUID) error
	ClaimForDriver(ctx context.Context, id uuid.UUID, driverID uuid.UUID) (bool, error)
	AdvanceStatus(ctx context.Context, id uuid.UUID, driverID uuid.UUID, from, to string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByParticipant(ctx context.Context, userID uuid.UUID) error
	ReleaseDriver(ctx context.Context, driverID uuid.UUID) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("Customer").
		Preload("Restaurant").
		Preload("Driver").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) applyFilter(db *gorm.DB, filter OrderFilter) *gorm.DB {
	if filter.CustomerID != nil {
		db = db.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.RestaurantID != nil {
		db = db.Where("restaurant_id = ?", *filter.RestaurantID)
	}
	if filter.DriverID != nil {
		db = db.Where("driver_id = ?", *filter.DriverID)
	}
	if filter.Unassigned {
		db = db.Where("driver_id IS NULL")
	}
	if len(filter.Statuses) > 0 {
		db = db.Where("status IN ?", filter.Statuses)
	}
	return db
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter, page, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	countQ := r.applyFilter(GetDB(ctx, r.db).Model(&model.Order{}), filter)
	if err := countQ.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetchQ := r.applyFilter(GetDB(ctx, r.db), filter)
	if err := fetchQ.
		Preload("Items").
		Preload("Customer").
		Preload("Restaurant").
		Preload("Driver").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) CountByStatus(ctx context.Context) (StatusCounts, error) {
	var counts StatusCounts
	db := GetDB(ctx, r.db).Model(&model.Order{})

	if err := db.Count(&counts.Total).Error; err != nil {
		return counts, err
	}
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	if err := GetDB(ctx, r.db).Model(&model.Order{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return counts, err
	}
	for _, rw := range rows {
		switch rw.Status {
		case model.OrderStatusPending:
			counts.Pending = rw.N
		case model.OrderStatusDelivering:
			counts.Delivering = rw.N
		case model.OrderStatusCompleted:
			counts.Completed = rw.N
		}
		if rw.Status != model.OrderStatusCompleted && rw.Status != model.OrderStatusCancelled {
			counts.Active += rw.N
		}
	}
	return counts, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.Order{}).Where("id = ?", id).Update("status", status).Error
}

func (r *orderRepository) AssignDriver(ctx context.Context, id uuid.UUID, driverID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"driver_id": driverID,
			"status":    model.OrderStatusConfirmed,
		}).Error
}

// ClaimForDriver performs the driver self-accept as one atomic conditional
// update: the claim succeeds only if driver_id was still null and the order
// still pending at the moment of the write. Two concurrent claims therefore
// resolve to exactly one winner; the loser sees zero rows affected.
func (r *orderRepository) ClaimForDriver(ctx context.Context, id uuid.UUID, driverID uuid.UUID) (bool, error) {
	res := GetDB(ctx, r.db).Model(&model.Order{}).
		Where("id = ? AND driver_id IS NULL AND status = ?", id, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"driver_id": driverID,
			"status":    model.OrderStatusConfirmed,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AdvanceStatus moves an order one lifecycle step with the same conditional
// write shape as ClaimForDriver: the row must still belong to the driver and
// still be in the expected source status.
func (r *orderRepository) AdvanceStatus(ctx context.Context, id uuid.UUID, driverID uuid.UUID, from, to string) (bool, error) {
	res := GetDB(ctx, r.db).Model(&model.Order{}).
		Where("id = ? AND driver_id = ? AND status = ?", id, driverID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Order{}).Error
}

// DeleteByParticipant removes every order referencing the user as customer or
// restaurant. Used by the account-reject cascade.
func (r *orderRepository) DeleteByParticipant(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("customer_id = ? OR restaurant_id = ?", userID, userID).
		Delete(&model.Order{}).Error
}

// ReleaseDriver nulls driver_id on every order the driver holds. Used when a
// driver account is removed; the orders themselves survive.
func (r *orderRepository) ReleaseDriver(ctx context.Context, driverID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Order{}).
		Where("driver_id = ?", driverID).
		Update("driver_id", nil).Error
}
