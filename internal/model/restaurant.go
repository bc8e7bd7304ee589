package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Restaurant is the catalog entity a restaurant account owns. Menu mutations
// require the acting account to equal OwnerID.
type Restaurant struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"owner_id"`
	Owner       User       `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE;" json:"-"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Address     string     `gorm:"type:text" json:"address"`
	Description string     `gorm:"type:text" json:"description"`
	MenuItems   []MenuItem `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// MenuCategory groups menu items within one restaurant.
type MenuCategory struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID uuid.UUID `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *MenuCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// MenuItem is one dish a restaurant offers. CategoryID is optional; deleting
// the category keeps the item.
type MenuItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID uuid.UUID       `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	CategoryID   *uuid.UUID      `gorm:"type:uuid;index" json:"category_id"`
	Category     *MenuCategory   `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;" json:"-"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Description  string          `gorm:"type:text" json:"description"`
	IsAvailable  bool            `gorm:"not null;default:true" json:"is_available"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
