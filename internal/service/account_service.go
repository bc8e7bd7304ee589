package service

import (
	"context"
	"errors"

	"foodportal/internal/model"
	"foodportal/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// --- DTOs ---

type CreateAccountRequest struct {
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

type UpdateAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"` // blank keeps the current password
	Phone    string `json:"phone"`
	// Driver fields
	VehicleInfo string `json:"vehicle_info"`
	// Restaurant fields
	RestaurantName string `json:"restaurant_name"`
	Address        string `json:"address"`
	IsOpen         *bool  `json:"is_open"`
}

// AccountResponse is the admin view of an account: user row plus whatever
// profile fields its role carries.
type AccountResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsApproved bool   `json:"is_approved"`
	Phone      string `json:"phone,omitempty"`
	// Driver fields
	VehicleInfo string `json:"vehicle_info,omitempty"`
	// Restaurant fields
	RestaurantName string `json:"restaurant_name,omitempty"`
	Address        string `json:"address,omitempty"`
	IsOpen         *bool  `json:"is_open,omitempty"`
}

// OrderFormUsers feeds the admin order-create form: who can place, fulfil,
// and deliver an order.
type OrderFormUsers struct {
	Customers   []AccountResponse `json:"customers"`
	Restaurants []AccountResponse `json:"restaurants"`
	Drivers     []AccountResponse `json:"drivers"`
}

// AccountService is the admin's direct management of driver and restaurant
// accounts: creating them pre-approved, editing their profiles, and removing
// them with the same cascade a rejection runs.
type AccountService interface {
	CreateAccount(ctx context.Context, role string, req CreateAccountRequest) (*AccountResponse, error)
	GetAccount(ctx context.Context, id string) (*AccountResponse, error)
	ListAccounts(ctx context.Context, role string, page, limit int) ([]AccountResponse, int64, error)
	UpdateAccount(ctx context.Context, id string, req UpdateAccountRequest) (*AccountResponse, error)
	DeleteAccount(ctx context.Context, id string) error
	UsersForOrderForm(ctx context.Context) (*OrderFormUsers, error)
}

type accountService struct {
	users  repository.UserRepository
	orders repository.OrderRepository
	audit  repository.AuditRepository
	tx     repository.TransactionManager
}

func NewAccountService(users repository.UserRepository, orders repository.OrderRepository, audit repository.AuditRepository, tx repository.TransactionManager) AccountService {
	return &accountService{users: users, orders: orders, audit: audit, tx: tx}
}

// CreateAccount builds a driver or restaurant account on the admin's behalf.
// Admin-created accounts skip the approval queue.
func (s *accountService) CreateAccount(ctx context.Context, role string, req CreateAccountRequest) (*AccountResponse, error) {
	if role != model.RoleDriver && role != model.RoleRestaurant {
		return nil, errors.New("role must be driver or restaurant")
	}

	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
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
		IsApproved: true,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.users.Create(txCtx, user); err != nil {
			return err
		}
		if role == model.RoleDriver {
			return s.users.CreateDriverProfile(txCtx, &model.DriverProfile{
				UserID:      user.ID,
				Phone:       req.Phone,
				VehicleInfo: req.VehicleInfo,
			})
		}
		name := req.RestaurantName
		if name == "" {
			name = req.Username
		}
		return s.users.CreateRestaurantProfile(txCtx, &model.RestaurantProfile{
			UserID:  user.ID,
			Name:    name,
			Address: req.Address,
			Phone:   req.Phone,
			IsOpen:  true,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.buildAccountResponse(ctx, user), nil
}

// buildAccountResponse merges the user row with its role profile; a missing
// profile row degrades to the bare user fields.
func (s *accountService) buildAccountResponse(ctx context.Context, user *model.User) *AccountResponse {
	resp := &AccountResponse{
		ID:         user.ID.String(),
		Username:   user.Username,
		Email:      user.Email,
		Role:       user.Role,
		IsApproved: user.IsApproved,
	}

	switch user.Role {
	case model.RoleDriver:
		if p, err := s.users.GetDriverProfile(ctx, user.ID); err == nil {
			resp.Phone = p.Phone
			resp.VehicleInfo = p.VehicleInfo
		}
	case model.RoleRestaurant:
		if p, err := s.users.GetRestaurantProfile(ctx, user.ID); err == nil {
			resp.Phone = p.Phone
			resp.RestaurantName = p.Name
			resp.Address = p.Address
			open := p.IsOpen
			resp.IsOpen = &open
		}
	case model.RoleCustomer:
		if p, err := s.users.GetCustomerProfile(ctx, user.ID); err == nil {
			resp.Phone = p.Phone
		}
	}

	return resp
}

func (s *accountService) GetAccount(ctx context.Context, id string) (*AccountResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("account not found")
	}
	return s.buildAccountResponse(ctx, user), nil
}

func (s *accountService) ListAccounts(ctx context.Context, role string, page, limit int) ([]AccountResponse, int64, error) {
	if !model.ValidRole(role) {
		return nil, 0, errors.New("invalid role")
	}

	users, total, err := s.users.ListByRole(ctx, role, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AccountResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *s.buildAccountResponse(ctx, &users[i]))
	}
	return responses, total, nil
}

// UpdateAccount edits the user row and its profile. A non-blank password is
// rehashed; blank leaves the current hash untouched.
func (s *accountService) UpdateAccount(ctx context.Context, id string, req UpdateAccountRequest) (*AccountResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("account not found")
	}

	if req.Username != "" && req.Username != user.Username {
		if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
			return nil, errors.New("username already exists")
		}
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.New("failed to hash password")
		}
		user.Password = string(hashed)
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.users.Update(txCtx, user); err != nil {
			return err
		}
		switch user.Role {
		case model.RoleDriver:
			p, err := s.users.GetDriverProfile(txCtx, user.ID)
			if err != nil {
				return nil
			}
			if req.Phone != "" {
				p.Phone = req.Phone
			}
			if req.VehicleInfo != "" {
				p.VehicleInfo = req.VehicleInfo
			}
			return s.users.SaveDriverProfile(txCtx, p)
		case model.RoleRestaurant:
			p, err := s.users.GetRestaurantProfile(txCtx, user.ID)
			if err != nil {
				return nil
			}
			if req.Phone != "" {
				p.Phone = req.Phone
			}
			if req.RestaurantName != "" {
				p.Name = req.RestaurantName
			}
			if req.Address != "" {
				p.Address = req.Address
			}
			if req.IsOpen != nil {
				p.IsOpen = *req.IsOpen
			}
			return s.users.SaveRestaurantProfile(txCtx, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.buildAccountResponse(ctx, user), nil
}

// DeleteAccount removes the account with the same cascade the approval
// rejection runs: orders held as driver are released, orders owned as
// customer or restaurant are deleted, then profiles, tokens, and the user row.
func (s *accountService) DeleteAccount(ctx context.Context, id string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return errors.New("account not found")
	}
	if user.Role == model.RoleAdmin {
		return errors.New("admin accounts cannot be deleted")
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if user.Role == model.RoleDriver {
			if err := s.orders.ReleaseDriver(txCtx, user.ID); err != nil {
				return err
			}
		} else {
			if err := s.orders.DeleteByParticipant(txCtx, user.ID); err != nil {
				return err
			}
		}
		if err := s.users.DeleteProfiles(txCtx, user.ID); err != nil {
			return err
		}
		if err := s.users.DeleteRefreshTokensForUser(txCtx, user.ID); err != nil {
			return err
		}
		return s.users.Delete(txCtx, user.ID)
	})
}

// UsersForOrderForm lists the accounts the admin order-create form needs.
// Only approved drivers and restaurants appear.
func (s *accountService) UsersForOrderForm(ctx context.Context) (*OrderFormUsers, error) {
	const formLimit = 200

	out := &OrderFormUsers{}

	customers, _, err := s.users.ListByRole(ctx, model.RoleCustomer, 1, formLimit)
	if err != nil {
		return nil, err
	}
	restaurants, _, err := s.users.ListByRole(ctx, model.RoleRestaurant, 1, formLimit)
	if err != nil {
		return nil, err
	}
	drivers, _, err := s.users.ListByRole(ctx, model.RoleDriver, 1, formLimit)
	if err != nil {
		return nil, err
	}

	for i := range customers {
		out.Customers = append(out.Customers, *s.buildAccountResponse(ctx, &customers[i]))
	}
	for i := range restaurants {
		if restaurants[i].IsApproved {
			out.Restaurants = append(out.Restaurants, *s.buildAccountResponse(ctx, &restaurants[i]))
		}
	}
	for i := range drivers {
		if drivers[i].IsApproved {
			out.Drivers = append(out.Drivers, *s.buildAccountResponse(ctx, &drivers[i]))
		}
	}

	return out, nil
}
