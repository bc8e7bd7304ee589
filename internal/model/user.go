package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role enum constants
const (
	RoleCustomer   = "customer"
	RoleDriver     = "driver"
	RoleRestaurant = "restaurant"
	RoleAdmin      = "admin"
)

// User represents any account in the portal. The Role field decides which
// endpoints the account may call; IsApproved gates login for drivers and
// restaurants until an admin signs off. Rejecting an account deletes the row
// outright, so there is no soft-delete column.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username   string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"type:varchar(255);not null" json:"email"`
	Password   string    `gorm:"type:varchar(255);not null" json:"-"` // Omit password hash from JSON responses
	Role       string    `gorm:"type:varchar(20);not null;index" json:"role"`
	IsApproved bool      `gorm:"not null;default:false" json:"is_approved"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ValidRole reports whether role is one of the four portal roles.
func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleDriver, RoleRestaurant, RoleAdmin:
		return true
	}
	return false
}

// ApprovedAtCreation reports whether an account with the given role starts
// approved. Drivers and restaurants wait for an admin.
func ApprovedAtCreation(role string) bool {
	return role == RoleCustomer || role == RoleAdmin
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// CustomerProfile holds the extra fields a customer account carries.
type CustomerProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	Phone     string    `gorm:"type:varchar(50)" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *CustomerProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DriverProfile holds vehicle details for a driver account.
type DriverProfile struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User           User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	Phone          string     `gorm:"type:varchar(50)" json:"phone"`
	VehicleInfo    string     `gorm:"type:varchar(255)" json:"vehicle_info"`
	SuspendedUntil *time.Time `json:"suspended_until"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (p *DriverProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// RestaurantProfile holds contact details for a restaurant account.
// The menu itself hangs off the Restaurant entity in restaurant.go.
type RestaurantProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	Phone     string    `gorm:"type:varchar(50)" json:"phone"`
	IsOpen    bool      `gorm:"not null;default:true" json:"is_open"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *RestaurantProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
