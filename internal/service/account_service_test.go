package service

import (
	"testing"

	"foodportal/internal/model"

	"golang.org/x/crypto/bcrypt"
)

func TestAdminCreatedAccountsSkipApproval(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewAccountService(repos.users, repos.orders, repos.audit, repos.tx)

	account, err := svc.CreateAccount(testCtx, model.RoleDriver, CreateAccountRequest{
		Username:    "driver1",
		Email:       "driver1@example.com",
		Password:    "password123",
		VehicleInfo: "Honda scooter",
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if !account.IsApproved {
		t.Error("admin-created driver should skip the approval queue")
	}
	if account.VehicleInfo != "Honda scooter" {
		t.Errorf("vehicle info = %q, want Honda scooter", account.VehicleInfo)
	}

	// Only driver and restaurant accounts go through this surface.
	if _, err := svc.CreateAccount(testCtx, model.RoleCustomer, CreateAccountRequest{
		Username: "c1", Email: "c1@example.com", Password: "password123",
	}); err == nil {
		t.Fatal("expected customer creation through admin surface to fail")
	}
}

func TestUpdateAccountPasswordRehash(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewAccountService(repos.users, repos.orders, repos.audit, repos.tx)

	driver := createUser(t, db, "driver1", model.RoleDriver, true)
	oldHash := driver.Password

	// Blank password keeps the stored hash.
	if _, err := svc.UpdateAccount(testCtx, driver.ID.String(), UpdateAccountRequest{Email: "new@example.com"}); err != nil {
		t.Fatalf("UpdateAccount: %v", err)
	}
	var reloaded model.User
	if err := db.First(&reloaded, "id = ?", driver.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Password != oldHash {
		t.Error("password hash changed on an update without a password")
	}
	if reloaded.Email != "new@example.com" {
		t.Errorf("email = %q, want new@example.com", reloaded.Email)
	}

	// A new password is rehashed.
	if _, err := svc.UpdateAccount(testCtx, driver.ID.String(), UpdateAccountRequest{Password: "newsecret"}); err != nil {
		t.Fatalf("UpdateAccount with password: %v", err)
	}
	if err := db.First(&reloaded, "id = ?", driver.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Password == oldHash {
		t.Error("password hash unchanged after setting a new password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(reloaded.Password), []byte("newsecret")); err != nil {
		t.Error("new password does not verify against the stored hash")
	}
}

func TestUpdateAccountUsernameUniqueness(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewAccountService(repos.users, repos.orders, repos.audit, repos.tx)

	createUser(t, db, "taken", model.RoleDriver, true)
	driver := createUser(t, db, "driver1", model.RoleDriver, true)

	if _, err := svc.UpdateAccount(testCtx, driver.ID.String(), UpdateAccountRequest{Username: "taken"}); err == nil {
		t.Fatal("expected rename to a taken username to fail")
	}
}

func TestDeleteDriverAccountReleasesOrders(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewAccountService(repos.users, repos.orders, repos.audit, repos.tx)

	customer := createUser(t, db, "customer1", model.RoleCustomer, true)
	resto := createUser(t, db, "resto1", model.RoleRestaurant, true)
	driver := createUser(t, db, "driver1", model.RoleDriver, true)
	admin := createUser(t, db, "admin", model.RoleAdmin, true)

	order := createOrder(t, db, customer, resto, model.OrderStatusDelivering)
	if err := db.Model(order).Update("driver_id", driver.ID).Error; err != nil {
		t.Fatalf("assign driver: %v", err)
	}

	if err := svc.DeleteAccount(testCtx, driver.ID.String()); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	var got model.Order
	if err := db.First(&got, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("order disappeared: %v", err)
	}
	if got.DriverID != nil {
		t.Error("order still references the deleted driver")
	}

	// Admin accounts cannot be removed through this surface.
	if err := svc.DeleteAccount(testCtx, admin.ID.String()); err == nil {
		t.Fatal("expected admin delete to fail")
	}
}

func TestUsersForOrderFormFiltersUnapproved(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewAccountService(repos.users, repos.orders, repos.audit, repos.tx)

	createUser(t, db, "customer1", model.RoleCustomer, true)
	createUser(t, db, "driver1", model.RoleDriver, true)
	createUser(t, db, "driver2", model.RoleDriver, false)
	createUser(t, db, "resto1", model.RoleRestaurant, true)
	createUser(t, db, "resto2", model.RoleRestaurant, false)

	users, err := svc.UsersForOrderForm(testCtx)
	if err != nil {
		t.Fatalf("UsersForOrderForm: %v", err)
	}
	if len(users.Customers) != 1 {
		t.Errorf("customers = %d, want 1", len(users.Customers))
	}
	if len(users.Drivers) != 1 {
		t.Errorf("approved drivers = %d, want 1", len(users.Drivers))
	}
	if len(users.Restaurants) != 1 {
		t.Errorf("approved restaurants = %d, want 1", len(users.Restaurants))
	}
}
