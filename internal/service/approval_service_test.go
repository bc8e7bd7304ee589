package service

import (
	"testing"

	"foodportal/internal/model"
)

func TestListPendingCounts(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewApprovalService(repos.users, repos.orders, repos.audit, repos.tx)

	createUser(t, db, "driver1", model.RoleDriver, false)
	createUser(t, db, "driver2", model.RoleDriver, false)
	createUser(t, db, "resto1", model.RoleRestaurant, false)
	createUser(t, db, "driver3", model.RoleDriver, true)         // already approved
	createUser(t, db, "customer1", model.RoleCustomer, true)     // customers never queue

	pending, err := svc.ListPending(testCtx)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if pending.PendingCount != 3 {
		t.Errorf("PendingCount = %d, want 3", pending.PendingCount)
	}
	if pending.PendingDrivers != 2 {
		t.Errorf("PendingDrivers = %d, want 2", pending.PendingDrivers)
	}
	if pending.PendingRestaurants != 1 {
		t.Errorf("PendingRestaurants = %d, want 1", pending.PendingRestaurants)
	}
}

func TestApproveIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewApprovalService(repos.users, repos.orders, repos.audit, repos.tx)

	admin := createUser(t, db, "admin", model.RoleAdmin, true)
	driver := createUser(t, db, "driver1", model.RoleDriver, false)

	user, err := svc.Approve(testCtx, driver.ID.String(), admin.ID.String())
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if !user.IsApproved {
		t.Error("account not approved after Approve")
	}

	// Second approve is a no-op success and writes no second audit entry.
	if _, err := svc.Approve(testCtx, driver.ID.String(), admin.ID.String()); err != nil {
		t.Fatalf("second Approve: %v", err)
	}
	if n := countRows(t, db, &model.AuditLog{}, "action = ?", model.ActionApproveAccount); n != 1 {
		t.Errorf("approve audit entries = %d, want 1", n)
	}
}

func TestRejectDriverReleasesOrders(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewApprovalService(repos.users, repos.orders, repos.audit, repos.tx)

	admin := createUser(t, db, "admin", model.RoleAdmin, true)
	customer := createUser(t, db, "customer1", model.RoleCustomer, true)
	resto := createUser(t, db, "resto1", model.RoleRestaurant, true)
	driver := createUser(t, db, "driver1", model.RoleDriver, false)

	order := createOrder(t, db, customer, resto, model.OrderStatusConfirmed)
	if err := db.Model(order).Update("driver_id", driver.ID).Error; err != nil {
		t.Fatalf("assign driver: %v", err)
	}

	if err := svc.Reject(testCtx, driver.ID.String(), admin.ID.String()); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	// The driver account is gone but the order survives, unassigned.
	if n := countRows(t, db, &model.User{}, "id = ?", driver.ID); n != 0 {
		t.Error("rejected driver still exists")
	}
	var got model.Order
	if err := db.First(&got, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("order disappeared: %v", err)
	}
	if got.DriverID != nil {
		t.Error("order still references the rejected driver")
	}
	if n := countRows(t, db, &model.AuditLog{}, "action = ?", model.ActionRejectAccount); n != 1 {
		t.Errorf("reject audit entries = %d, want 1", n)
	}
}

func TestRejectRestaurantDeletesItsOrders(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewApprovalService(repos.users, repos.orders, repos.audit, repos.tx)

	admin := createUser(t, db, "admin", model.RoleAdmin, true)
	customer := createUser(t, db, "customer1", model.RoleCustomer, true)
	resto := createUser(t, db, "resto1", model.RoleRestaurant, false)
	other := createUser(t, db, "resto2", model.RoleRestaurant, true)

	createOrder(t, db, customer, resto, model.OrderStatusPending)
	keep := createOrder(t, db, customer, other, model.OrderStatusPending)

	if err := svc.Reject(testCtx, resto.ID.String(), admin.ID.String()); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	if n := countRows(t, db, &model.Order{}, ""); n != 1 {
		t.Fatalf("orders left = %d, want 1", n)
	}
	if n := countRows(t, db, &model.Order{}, "id = ?", keep.ID); n != 1 {
		t.Error("order of the other restaurant was deleted")
	}
}

func TestRejectUnknownUser(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewApprovalService(repos.users, repos.orders, repos.audit, repos.tx)

	admin := createUser(t, db, "admin", model.RoleAdmin, true)

	if err := svc.Reject(testCtx, "7f000000-0000-0000-0000-000000000000", admin.ID.String()); err == nil {
		t.Fatal("expected reject of unknown user to fail")
	}
}
