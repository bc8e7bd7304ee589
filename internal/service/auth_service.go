package service

import (
	"context"
	"errors"
	"os"
	"time"

	"foodportal/internal/model"
	"foodportal/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DTOs for request validation

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	// Driver fields
	VehicleInfo string `json:"vehicle_info"`
	// Restaurant fields
	RestaurantName string `json:"restaurant_name"`
	Address        string `json:"address"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	Role         string `json:"role"`
	Dashboard    string `json:"dashboard"`
}

// UserResponse returns account data without exposing the password hash.
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  string    `json:"created_at"`
}

// AuthService covers registration, login gating, and token refresh.
type AuthService interface {
	Register(ctx context.Context, role string, req RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
}

type authService struct {
	repo repository.UserRepository
	tx   repository.TransactionManager
}

// NewAuthService returns a new instance of AuthService
func NewAuthService(repo repository.UserRepository, tx repository.TransactionManager) AuthService {
	return &authService{repo: repo, tx: tx}
}

// dashboardRoute maps a role to the frontend route the client should land on
// after login.
func dashboardRoute(role string) string {
	switch role {
	case model.RoleAdmin:
		return "/admin/dashboard"
	case model.RoleDriver:
		return "/driver/dashboard"
	case model.RoleRestaurant:
		return "/restaurant/dashboard"
	default:
		return "/"
	}
}

func mapToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Role:       user.Role,
		IsApproved: user.IsApproved,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
	}
}

// Register creates an account with the role-dependent approval default and
// its companion profile record in one transaction. Customers and admins are
// approved at creation; drivers and restaurants wait for an admin.
func (s *authService) Register(ctx context.Context, role string, req RegisterRequest) (*UserResponse, error) {
	if !model.ValidRole(role) {
		return nil, errors.New("invalid role")
	}

	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, errors.New("username already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		Username:   req.Username,
		Email:      req.Email,
		Password:   string(hashedPassword),
		Role:       role,
		IsApproved: model.ApprovedAtCreation(role),
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, user); err != nil {
			return err
		}
		switch role {
		case model.RoleDriver:
			return s.repo.CreateDriverProfile(txCtx, &model.DriverProfile{
				UserID:      user.ID,
				Phone:       req.Phone,
				VehicleInfo: req.VehicleInfo,
			})
		case model.RoleRestaurant:
			name := req.RestaurantName
			if name == "" {
				name = req.Username
			}
			return s.repo.CreateRestaurantProfile(txCtx, &model.RestaurantProfile{
				UserID:  user.ID,
				Name:    name,
				Address: req.Address,
				Phone:   req.Phone,
				IsOpen:  true,
			})
		default:
			return s.repo.CreateCustomerProfile(txCtx, &model.CustomerProfile{
				UserID: user.ID,
				Phone:  req.Phone,
			})
		}
	})
	if err != nil {
		return nil, err
	}

	return mapToUserResponse(user), nil
}

// Login validates credentials first, then applies the approval gate:
// an unapproved driver or restaurant gets a pending-approval message even
// with correct credentials. A deleted account fails as invalid credentials.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.New("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid username or password")
	}

	if (user.Role == model.RoleDriver || user.Role == model.RoleRestaurant) && !user.IsApproved {
		return nil, errors.New("your account is pending admin approval")
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*TokenResponse, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key"
	}

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	refresh := &model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	if err := s.repo.CreateRefreshToken(ctx, refresh); err != nil {
		return nil, err
	}

	return &TokenResponse{
		Token:        tokenString,
		RefreshToken: refresh.Token,
		Role:         user.Role,
		Dashboard:    dashboardRoute(user.Role),
	}, nil
}

// RefreshToken rotates the refresh token and issues a fresh access token.
// The approval gate applies here too, so revoking approval cuts off refresh.
func (s *authService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	stored, err := s.repo.GetRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.repo.DeleteRefreshToken(ctx, stored.Token)
		return nil, errors.New("refresh token expired")
	}

	user, err := s.repo.GetByID(ctx, stored.UserID.String())
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	if (user.Role == model.RoleDriver || user.Role == model.RoleRestaurant) && !user.IsApproved {
		return nil, errors.New("your account is pending admin approval")
	}

	if err := s.repo.DeleteRefreshToken(ctx, stored.Token); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repo.DeleteRefreshToken(ctx, refreshToken)
}

func (s *authService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return mapToUserResponse(user), nil
}
