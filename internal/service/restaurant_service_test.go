package service

import (
	"testing"

	"foodportal/internal/model"
)

func TestMenuOwnership(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewRestaurantService(repos.restaurants, repos.users)

	ownerA := createUser(t, db, "restoA", model.RoleRestaurant, true)
	ownerB := createUser(t, db, "restoB", model.RoleRestaurant, true)
	if _, err := svc.Create(testCtx, CreateRestaurantRequest{OwnerID: ownerA.ID.String(), Name: "Plov House"}); err != nil {
		t.Fatalf("create restaurant A: %v", err)
	}
	if _, err := svc.Create(testCtx, CreateRestaurantRequest{OwnerID: ownerB.ID.String(), Name: "Lagman Corner"}); err != nil {
		t.Fatalf("create restaurant B: %v", err)
	}

	item, err := svc.CreateMenuItem(testCtx, ownerA.ID.String(), MenuItemRequest{Name: "Plov", Price: "4.50"})
	if err != nil {
		t.Fatalf("create menu item: %v", err)
	}

	// Another owner can neither update nor delete the item.
	if _, err := svc.UpdateMenuItem(testCtx, ownerB.ID.String(), item.ID, MenuItemRequest{Name: "Hijacked", Price: "0.01"}); err == nil {
		t.Fatal("expected cross-owner update to fail")
	}
	if err := svc.DeleteMenuItem(testCtx, ownerB.ID.String(), item.ID); err == nil {
		t.Fatal("expected cross-owner delete to fail")
	}

	if err := svc.DeleteMenuItem(testCtx, ownerA.ID.String(), item.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func TestOneRestaurantPerOwner(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewRestaurantService(repos.restaurants, repos.users)

	owner := createUser(t, db, "restoA", model.RoleRestaurant, true)
	if _, err := svc.Create(testCtx, CreateRestaurantRequest{OwnerID: owner.ID.String(), Name: "Plov House"}); err != nil {
		t.Fatalf("create restaurant: %v", err)
	}
	if _, err := svc.Create(testCtx, CreateRestaurantRequest{OwnerID: owner.ID.String(), Name: "Second Venue"}); err == nil {
		t.Fatal("expected second restaurant for the same owner to fail")
	}

	customer := createUser(t, db, "customer1", model.RoleCustomer, true)
	if _, err := svc.Create(testCtx, CreateRestaurantRequest{OwnerID: customer.ID.String(), Name: "Not Allowed"}); err == nil {
		t.Fatal("expected non-restaurant owner to be refused")
	}
}

func TestPublicMenuHidesUnavailableItems(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewRestaurantService(repos.restaurants, repos.users)

	owner := createUser(t, db, "restoA", model.RoleRestaurant, true)
	resto, err := svc.Create(testCtx, CreateRestaurantRequest{OwnerID: owner.ID.String(), Name: "Plov House"})
	if err != nil {
		t.Fatalf("create restaurant: %v", err)
	}

	if _, err := svc.CreateMenuItem(testCtx, owner.ID.String(), MenuItemRequest{Name: "Plov", Price: "4.50"}); err != nil {
		t.Fatalf("create item: %v", err)
	}
	off := false
	if _, err := svc.CreateMenuItem(testCtx, owner.ID.String(), MenuItemRequest{Name: "Seasonal Soup", Price: "3.00", IsAvailable: &off}); err != nil {
		t.Fatalf("create unavailable item: %v", err)
	}

	public, err := svc.ListPublicMenu(testCtx, resto.ID)
	if err != nil {
		t.Fatalf("ListPublicMenu: %v", err)
	}
	if len(public) != 1 || public[0].Name != "Plov" {
		t.Errorf("public menu = %+v, want only Plov", public)
	}

	own, err := svc.ListOwnMenu(testCtx, owner.ID.String())
	if err != nil {
		t.Fatalf("ListOwnMenu: %v", err)
	}
	if len(own) != 2 {
		t.Errorf("own menu items = %d, want 2", len(own))
	}
}

func TestMenuItemCategoryMustBelongToRestaurant(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewRestaurantService(repos.restaurants, repos.users)

	ownerA := createUser(t, db, "restoA", model.RoleRestaurant, true)
	ownerB := createUser(t, db, "restoB", model.RoleRestaurant, true)
	if _, err := svc.Create(testCtx, CreateRestaurantRequest{OwnerID: ownerA.ID.String(), Name: "Plov House"}); err != nil {
		t.Fatalf("create restaurant A: %v", err)
	}
	if _, err := svc.Create(testCtx, CreateRestaurantRequest{OwnerID: ownerB.ID.String(), Name: "Lagman Corner"}); err != nil {
		t.Fatalf("create restaurant B: %v", err)
	}

	foreign, err := svc.CreateCategory(testCtx, ownerB.ID.String(), MenuCategoryRequest{Name: "Soups"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	_, err = svc.CreateMenuItem(testCtx, ownerA.ID.String(), MenuItemRequest{
		Name:       "Shurpa",
		Price:      "3.50",
		CategoryID: foreign.ID.String(),
	})
	if err == nil {
		t.Fatal("expected item referencing another restaurant's category to fail")
	}
}
