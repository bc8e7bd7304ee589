package service

import (
	"context"
	"testing"

	"foodportal/internal/database"
	"foodportal/internal/model"
	"foodportal/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// newTestDB opens an in-memory sqlite database with the full schema. One
// connection only, so the in-memory database is shared by every query the
// test runs.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// testRepos bundles the repositories the service tests wire together.
type testRepos struct {
	users       repository.UserRepository
	orders      repository.OrderRepository
	restaurants repository.RestaurantRepository
	chats       repository.ChatRepository
	tickets     repository.TicketRepository
	audit       repository.AuditRepository
	tx          repository.TransactionManager
}

func newTestRepos(db *gorm.DB) testRepos {
	return testRepos{
		users:       repository.NewUserRepository(db),
		orders:      repository.NewOrderRepository(db),
		restaurants: repository.NewRestaurantRepository(db),
		chats:       repository.NewChatRepository(db),
		tickets:     repository.NewTicketRepository(db),
		audit:       repository.NewAuditRepository(db),
		tx:          repository.NewTransactionManager(db),
	}
}

// createUser inserts an account directly. The password hash is real so login
// tests can authenticate with "password123".
func createUser(t *testing.T, db *gorm.DB, username, role string, approved bool) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &model.User{
		Username:   username,
		Email:      username + "@example.com",
		Password:   string(hash),
		Role:       role,
		IsApproved: approved,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// createOrder inserts an order in the given status.
func createOrder(t *testing.T, db *gorm.DB, customer, restaurant *model.User, status string) *model.Order {
	t.Helper()

	order := &model.Order{
		CustomerID:   customer.ID,
		RestaurantID: restaurant.ID,
		Status:       status,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func countRows(t *testing.T, db *gorm.DB, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	q := db.Model(m)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

var testCtx = context.Background()
