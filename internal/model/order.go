package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus constants. The lifecycle runs
// pending -> confirmed -> preparing -> delivering -> completed,
// with cancelled as an admin-only side exit. completed and cancelled are
// terminal. The transition table lives in internal/statemachine.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusPreparing  = "preparing"
	OrderStatusDelivering = "delivering"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order represents a customer's order at a restaurant. DriverID stays null
// until an admin assigns a driver or a driver claims the order itself.
// Deleting the customer or the restaurant cascades to the order; deleting the
// driver only nulls DriverID.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer        User            `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE;" json:"-"`
	RestaurantID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Restaurant      User            `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE;" json:"-"`
	DriverID        *uuid.UUID      `gorm:"type:uuid;index" json:"driver_id"`
	Driver          *User           `gorm:"foreignKey:DriverID;constraint:OnDelete:SET NULL;" json:"-"`
	Status          string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_price"`
	DeliveryAddress string          `gorm:"type:text" json:"delivery_address"`
	Notes           string          `gorm:"type:text" json:"notes"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;" json:"items"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	return nil
}

// IsActive reports whether the order has not reached a terminal status.
func (o *Order) IsActive() bool {
	return o.Status != OrderStatusCompleted && o.Status != OrderStatusCancelled
}

// OrderItem is a line item within an order. Items carry a name and price
// snapshot taken at order time and have no edit path after creation.
type OrderItem struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ItemName string          `gorm:"type:varchar(200);not null" json:"item_name"`
	Quantity int             `gorm:"not null;default:1" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Subtotal returns quantity x unit price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
