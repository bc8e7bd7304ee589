package database

import (
	"log"

	"foodportal/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate runs AutoMigrate for every portal model. Split out so tests can
// reuse it against their own database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.CustomerProfile{},
		&model.DriverProfile{},
		&model.RestaurantProfile{},
		&model.Restaurant{},
		&model.MenuCategory{},
		&model.MenuItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.ChatRoom{},
		&model.ChatMessage{},
		&model.SupportTicket{},
		&model.TicketReply{},
		&model.AuditLog{},
	)
}
