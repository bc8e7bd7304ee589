package service

import (
	"strings"
	"sync"
	"testing"

	"foodportal/internal/model"
)

func TestPlaceOrderComputesTotal(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewOrderService(repos.orders, repos.users, repos.audit, repos.tx)

	customer := createUser(t, db, "customer1", model.RoleCustomer, true)
	resto := createUser(t, db, "resto1", model.RoleRestaurant, true)

	order, err := svc.PlaceOrder(testCtx, customer.ID.String(), PlaceOrderRequest{
		RestaurantID:    resto.ID.String(),
		DeliveryAddress: "12 Main St",
		Items: []OrderItemRequest{
			{ItemName: "Plov", Quantity: 2, Price: "3.50"},
			{ItemName: "Lagman", Quantity: 1, Price: "5.00"},
		},
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if order.Status != model.OrderStatusPending {
		t.Errorf("status = %q, want pending", order.Status)
	}
	if order.TotalPrice != "12.00" {
		t.Errorf("total = %q, want 12.00", order.TotalPrice)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(order.Items))
	}
	if order.Items[0].Subtotal != "7.00" {
		t.Errorf("first item subtotal = %q, want 7.00", order.Items[0].Subtotal)
	}
	if order.Driver != nil {
		t.Error("new order should have no driver")
	}
}

func TestPlaceOrderRejectsUnapprovedRestaurant(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewOrderService(repos.orders, repos.users, repos.audit, repos.tx)

	customer := createUser(t, db, "customer1", model.RoleCustomer, true)
	resto := createUser(t, db, "resto1", model.RoleRestaurant, false)

	_, err := svc.PlaceOrder(testCtx, customer.ID.String(), PlaceOrderRequest{
		RestaurantID:    resto.ID.String(),
		DeliveryAddress: "12 Main St",
		Items:           []OrderItemRequest{{ItemName: "Plov", Quantity: 1, Price: "3.50"}},
	})
	if err == nil {
		t.Fatal("expected order against unapproved restaurant to fail")
	}
}

func TestPlaceOrderRejectsNegativePrice(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewOrderService(repos.orders, repos.users, repos.audit, repos.tx)

	customer := createUser(t, db, "customer1", model.RoleCustomer, true)
	resto := createUser(t, db, "resto1", model.RoleRestaurant, true)

	_, err := svc.PlaceOrder(testCtx, customer.ID.String(), PlaceOrderRequest{
		RestaurantID:    resto.ID.String(),
		DeliveryAddress: "12 Main St",
		Items:           []OrderItemRequest{{ItemName: "Plov", Quantity: 1, Price: "-3.50"}},
	})
	if err == nil {
		t.Fatal("expected negative price to fail")
	}
}

func TestAdminCreateOrderWithDriverConfirms(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewOrderService(repos.orders, repos.users, repos.audit, repos.tx)

	admin := createUser(t, db, "admin", model.RoleAdmin, true)
	customer := createUser(t, db, "customer1", model.RoleCustomer, true)
	resto := createUser(t, db, "resto1", model.RoleRestaurant, true)
	driver := createUser(t, db, "driver1", model.RoleDriver, true)

	order, err := svc.AdminCreateOrder(testCtx, admin.ID.String(), AdminCreateOrderRequest{
		CustomerID:   customer.ID.String(),
		RestaurantID: resto.ID.String(),
		DriverID:     driver.ID.String(),
	})
	if err != nil {
		t.Fatalf("AdminCreateOrder: %v", err)
	}
	if order.Status != model.OrderStatusConfirmed {
		t.Errorf("status = %q, want confirmed when a driver is set at creation", order.Status)
	}
	if order.Driver == nil || order.Driver.ID != driver.ID.String() {
		t.Error("driver not set on created order")
	}
}

func TestClaimOrderSingleWinner(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewOrderService(repos.orders, repos.users, repos.audit, repos.tx)

	customer := createUser(t, db, "customer1", model.RoleCustomer, true)
	resto := createUser(t, db, "resto1", model.RoleRestaurant, true)
	driverA := createUser(t, db, "driverA", model.RoleDriver, true)
	driverB := createUser(t, db, "driverB", model.RoleDriver, true)

	order := createOrder(t, db, customer, resto, model.OrderStatusPending)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, d := range []*model.User{driverA, driverB} {
		wg.Add(1)
		go func(i int, driverID string) {
			defer wg.Done()
			_, errs[i] = svc.ClaimOrder(testCtx, driverID, order.ID.String())
		}(i, d.ID.String())
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else if !strings.Contains(err.Error(), "already taken") && !strings.Contains(err.Error(), "no longer available") {
			t.Errorf("loser got unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("winners = %d, want exactly 1", wins)
	}

	var got model.Order
	if err := db.First(&got, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if got.Status != model.OrderStatusConfirmed {
		t.Errorf("status = %q, want confirmed", got.Status)
	}
	if got.DriverID == nil {
		t.Fatal("order has no driver after claim")
	}
	if n := countRows(t, db, &model.AuditLog{}, "action = ?", model.ActionDriverClaimOrder); n != 1 {
		t.Errorf("claim audit entries = %d, want 1", n)
	}
}

func TestClaimOrderAlreadyAssigned(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewOrderService(repos.orders, repos.users, repos.audit, repos.tx)

	customer := createUser(t, db, "customer1", model.RoleCustomer, true)
	resto := createUser(t, db, "resto1", model.RoleRestaurant, true)
	driverA := createUser(t, db, "driverA", model.RoleDriver, true)
	driverB := createUser(t, db, "driverB", model.RoleDriver, true)

	order := createOrder(t, db, customer, resto, model.OrderStatusPending)
	if _, err := svc.ClaimOrder(testCtx, driverA.ID.String(), order.ID.String()); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if _, err := svc.ClaimOrder(testCtx, driverB.ID.String(), order.ID.String()); err == nil {
		t.Fatal("expected second claim to fail")
	}
}

func TestAdvanceStatusFollowsLifecycle(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewOrderService(repos.orders, repos.users, repos.audit, repos.tx)

	customer := createUser(t, db, "customer1", model.RoleCustomer, true)
	resto := createUser(t, db, "resto1", model.RoleRestaurant, true)
	driver := createUser(t, db, "driver1", model.RoleDriver, true)
	stranger := createUser(t, db, "driver2", model.RoleDriver, true)

	order := createOrder(t, db, customer, resto, model.OrderStatusPending)
	if _, err := svc.ClaimOrder(testCtx, driver.ID.String(), order.ID.String()); err != nil {
		t.Fatalf("claim: %v", err)
	}

	// Skipping a step is rejected.
	if _, err := svc.AdvanceStatus(testCtx, driver.ID.String(), order.ID.String(), AdvanceStatusRequest{Status: model.OrderStatusCompleted}); err == nil {
		t.Fatal("expected confirmed -> completed to fail")
	}

	// An unassigned driver cannot advance at all.
	if _, err := svc.AdvanceStatus(testCtx, stranger.ID.String(), order.ID.String(), AdvanceStatusRequest{Status: model.OrderStatusPreparing}); err == nil {
		t.Fatal("expected unassigned driver to be refused")
	}

	// The assigned driver walks the full lifecycle one step at a time.
	for _, next := range []string{model.OrderStatusPreparing, model.OrderStatusDelivering, model.OrderStatusCompleted} {
		got, err := svc.AdvanceStatus(testCtx, driver.ID.String(), order.ID.String(), AdvanceStatusRequest{Status: next})
		if err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
		if got.Status != next {
			t.Errorf("status = %q, want %q", got.Status, next)
		}
	}

	// Terminal orders do not advance.
	if _, err := svc.AdvanceStatus(testCtx, driver.ID.String(), order.ID.String(), AdvanceStatusRequest{Status: model.OrderStatusPending}); err == nil {
		t.Fatal("expected completed order to refuse further steps")
	}
}

func TestOverrideStatusIsAudited(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewOrderService(repos.orders, repos.users, repos.audit, repos.tx)

	admin := createUser(t, db, "admin", model.RoleAdmin, true)
	customer := createUser(t, db, "customer1", model.RoleCustomer, true)
	resto := createUser(t, db, "resto1", model.RoleRestaurant, true)

	order := createOrder(t, db, customer, resto, model.OrderStatusDelivering)

	got, err := svc.OverrideStatus(testCtx, admin.ID.String(), order.ID.String(), OverrideStatusRequest{Status: model.OrderStatusCancelled})
	if err != nil {
		t.Fatalf("OverrideStatus: %v", err)
	}
	if got.Status != model.OrderStatusCancelled {
		t.Errorf("status = %q, want cancelled", got.Status)
	}
	if n := countRows(t, db, &model.AuditLog{}, "action = ?", model.ActionOverrideOrderStatus); n != 1 {
		t.Errorf("override audit entries = %d, want 1", n)
	}

	// Unknown target statuses are rejected even for admins.
	if _, err := svc.OverrideStatus(testCtx, admin.ID.String(), order.ID.String(), OverrideStatusRequest{Status: "shipped"}); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}

func TestDriverBoard(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewOrderService(repos.orders, repos.users, repos.audit, repos.tx)

	customer := createUser(t, db, "customer1", model.RoleCustomer, true)
	resto := createUser(t, db, "resto1", model.RoleRestaurant, true)
	driver := createUser(t, db, "driver1", model.RoleDriver, true)

	// One unassigned pending order, one the driver works, one completed.
	createOrder(t, db, customer, resto, model.OrderStatusPending)

	active := createOrder(t, db, customer, resto, model.OrderStatusPending)
	if _, err := svc.ClaimOrder(testCtx, driver.ID.String(), active.ID.String()); err != nil {
		t.Fatalf("claim: %v", err)
	}

	done := createOrder(t, db, customer, resto, model.OrderStatusCompleted)
	if err := db.Model(done).Update("driver_id", driver.ID).Error; err != nil {
		t.Fatalf("backfill history: %v", err)
	}

	board, err := svc.DriverBoard(testCtx, driver.ID.String())
	if err != nil {
		t.Fatalf("DriverBoard: %v", err)
	}
	if board.ActiveOrder == nil || board.ActiveOrder.ID != active.ID.String() {
		t.Error("active order missing from board")
	}
	if len(board.AvailableOrders) != 1 {
		t.Errorf("available orders = %d, want 1", len(board.AvailableOrders))
	}
	if len(board.History) != 1 {
		t.Errorf("history orders = %d, want 1", len(board.History))
	}
}

func TestDeleteOrderIsAudited(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewOrderService(repos.orders, repos.users, repos.audit, repos.tx)

	admin := createUser(t, db, "admin", model.RoleAdmin, true)
	customer := createUser(t, db, "customer1", model.RoleCustomer, true)
	resto := createUser(t, db, "resto1", model.RoleRestaurant, true)

	order := createOrder(t, db, customer, resto, model.OrderStatusPending)

	if err := svc.DeleteOrder(testCtx, admin.ID.String(), order.ID.String()); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}
	if n := countRows(t, db, &model.Order{}, ""); n != 0 {
		t.Error("order still present after delete")
	}
	if n := countRows(t, db, &model.AuditLog{}, "action = ?", model.ActionDeleteOrder); n != 1 {
		t.Errorf("delete audit entries = %d, want 1", n)
	}
}
