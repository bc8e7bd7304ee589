package service

import (
	"strings"
	"testing"

	"foodportal/internal/model"
)

func TestRegisterApprovalDefaults(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewAuthService(repos.users, repos.tx)

	tests := []struct {
		role         string
		wantApproved bool
	}{
		{model.RoleCustomer, true},
		{model.RoleDriver, false},
		{model.RoleRestaurant, false},
	}
	for _, tt := range tests {
		user, err := svc.Register(testCtx, tt.role, RegisterRequest{
			Username: "user_" + tt.role,
			Email:    tt.role + "@example.com",
			Password: "password123",
		})
		if err != nil {
			t.Fatalf("Register(%s): %v", tt.role, err)
		}
		if user.IsApproved != tt.wantApproved {
			t.Errorf("Register(%s) IsApproved = %v, want %v", tt.role, user.IsApproved, tt.wantApproved)
		}
	}

	// Each registration also creates its role profile.
	if n := countRows(t, db, &model.CustomerProfile{}, ""); n != 1 {
		t.Errorf("customer profiles = %d, want 1", n)
	}
	if n := countRows(t, db, &model.DriverProfile{}, ""); n != 1 {
		t.Errorf("driver profiles = %d, want 1", n)
	}
	if n := countRows(t, db, &model.RestaurantProfile{}, ""); n != 1 {
		t.Errorf("restaurant profiles = %d, want 1", n)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewAuthService(repos.users, repos.tx)

	req := RegisterRequest{Username: "alex", Email: "alex@example.com", Password: "password123"}
	if _, err := svc.Register(testCtx, model.RoleCustomer, req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(testCtx, model.RoleCustomer, req); err == nil {
		t.Fatal("expected duplicate username to fail")
	}
}

func TestLoginApprovalGate(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewAuthService(repos.users, repos.tx)

	driver := createUser(t, db, "driver1", model.RoleDriver, false)

	_, err := svc.Login(testCtx, LoginRequest{Username: "driver1", Password: "password123"})
	if err == nil {
		t.Fatal("expected unapproved driver login to fail")
	}
	if !strings.Contains(err.Error(), "pending admin approval") {
		t.Errorf("error = %q, want pending-approval message", err)
	}

	driver.IsApproved = true
	if err := db.Save(driver).Error; err != nil {
		t.Fatalf("approve driver: %v", err)
	}

	tokens, err := svc.Login(testCtx, LoginRequest{Username: "driver1", Password: "password123"})
	if err != nil {
		t.Fatalf("approved driver login: %v", err)
	}
	if tokens.Token == "" || tokens.RefreshToken == "" {
		t.Error("expected both tokens to be issued")
	}
	if tokens.Dashboard != "/driver/dashboard" {
		t.Errorf("dashboard = %q, want /driver/dashboard", tokens.Dashboard)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewAuthService(repos.users, repos.tx)

	createUser(t, db, "maria", model.RoleCustomer, true)

	// Wrong password and unknown user return the same message, so a caller
	// cannot probe which usernames exist.
	_, err1 := svc.Login(testCtx, LoginRequest{Username: "maria", Password: "wrong"})
	_, err2 := svc.Login(testCtx, LoginRequest{Username: "nobody", Password: "password123"})
	if err1 == nil || err2 == nil {
		t.Fatal("expected both logins to fail")
	}
	if err1.Error() != err2.Error() {
		t.Errorf("error messages differ: %q vs %q", err1, err2)
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewAuthService(repos.users, repos.tx)

	createUser(t, db, "maria", model.RoleCustomer, true)
	tokens, err := svc.Login(testCtx, LoginRequest{Username: "maria", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.RefreshToken(testCtx, RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == tokens.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// The consumed token is gone.
	if _, err := svc.RefreshToken(testCtx, RefreshTokenRequest{RefreshToken: tokens.RefreshToken}); err == nil {
		t.Error("expected reuse of the old refresh token to fail")
	}
}

func TestRefreshTokenApprovalGate(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewAuthService(repos.users, repos.tx)

	driver := createUser(t, db, "driver1", model.RoleDriver, true)
	tokens, err := svc.Login(testCtx, LoginRequest{Username: "driver1", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Revoking approval cuts off the refresh path too.
	driver.IsApproved = false
	if err := db.Save(driver).Error; err != nil {
		t.Fatalf("revoke approval: %v", err)
	}
	if _, err := svc.RefreshToken(testCtx, RefreshTokenRequest{RefreshToken: tokens.RefreshToken}); err == nil {
		t.Error("expected refresh for revoked driver to fail")
	}
}
