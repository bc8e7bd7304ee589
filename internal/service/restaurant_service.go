package service

import (
	"context"
	"errors"
	"fmt"

	"foodportal/internal/model"
	"foodportal/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateRestaurantRequest struct {
	OwnerID     string `json:"owner_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

type UpdateRestaurantRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

type MenuItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Price       string `json:"price" binding:"required"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id"`
	IsAvailable *bool  `json:"is_available"`
}

type MenuCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type RestaurantResponse struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	OwnerName   string `json:"owner_name"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

type MenuItemResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       string  `json:"price"`
	Description string  `json:"description"`
	CategoryID  *string `json:"category_id"`
	IsAvailable bool    `json:"is_available"`
}

// RestaurantService covers the catalog: the restaurant entity an account
// owns plus its menu. Menu mutations require the acting account to be the
// owner; the admin manages the restaurant entities themselves.
type RestaurantService interface {
	Create(ctx context.Context, req CreateRestaurantRequest) (*RestaurantResponse, error)
	Get(ctx context.Context, id string) (*RestaurantResponse, error)
	List(ctx context.Context, page, limit int) ([]RestaurantResponse, int64, error)
	Update(ctx context.Context, id string, req UpdateRestaurantRequest) (*RestaurantResponse, error)
	Delete(ctx context.Context, id string) error

	CreateMenuItem(ctx context.Context, ownerID string, req MenuItemRequest) (*MenuItemResponse, error)
	UpdateMenuItem(ctx context.Context, ownerID, itemID string, req MenuItemRequest) (*MenuItemResponse, error)
	DeleteMenuItem(ctx context.Context, ownerID, itemID string) error
	ListOwnMenu(ctx context.Context, ownerID string) ([]MenuItemResponse, error)
	ListPublicMenu(ctx context.Context, restaurantID string) ([]MenuItemResponse, error)

	CreateCategory(ctx context.Context, ownerID string, req MenuCategoryRequest) (*model.MenuCategory, error)
	ListCategories(ctx context.Context, restaurantID string) ([]model.MenuCategory, error)
	DeleteCategory(ctx context.Context, ownerID, categoryID string) error
}

type restaurantService struct {
	restaurants repository.RestaurantRepository
	users       repository.UserRepository
}

func NewRestaurantService(restaurants repository.RestaurantRepository, users repository.UserRepository) RestaurantService {
	return &restaurantService{restaurants: restaurants, users: users}
}

func toRestaurantResponse(r *model.Restaurant) *RestaurantResponse {
	return &RestaurantResponse{
		ID:          r.ID.String(),
		OwnerID:     r.OwnerID.String(),
		OwnerName:   r.Owner.Username,
		Name:        r.Name,
		Address:     r.Address,
		Description: r.Description,
	}
}

func toMenuItemResponse(m *model.MenuItem) *MenuItemResponse {
	resp := &MenuItemResponse{
		ID:          m.ID.String(),
		Name:        m.Name,
		Price:       m.Price.StringFixed(2),
		Description: m.Description,
		IsAvailable: m.IsAvailable,
	}
	if m.CategoryID != nil {
		s := m.CategoryID.String()
		resp.CategoryID = &s
	}
	return resp
}

// --- Restaurant entity (admin) ---

func (s *restaurantService) Create(ctx context.Context, req CreateRestaurantRequest) (*RestaurantResponse, error) {
	owner, err := s.users.GetByID(ctx, req.OwnerID)
	if err != nil {
		return nil, errors.New("owner not found")
	}
	if owner.Role != model.RoleRestaurant {
		return nil, errors.New("owner must be a restaurant account")
	}
	if _, err := s.restaurants.GetByOwner(ctx, owner.ID); err == nil {
		return nil, errors.New("this account already owns a restaurant")
	}

	resto := &model.Restaurant{
		OwnerID:     owner.ID,
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
	}
	if err := s.restaurants.Create(ctx, resto); err != nil {
		return nil, err
	}

	resto.Owner = *owner
	return toRestaurantResponse(resto), nil
}

func (s *restaurantService) Get(ctx context.Context, id string) (*RestaurantResponse, error) {
	restoID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("restaurant not found")
	}
	resto, err := s.restaurants.GetByID(ctx, restoID)
	if err != nil {
		return nil, errors.New("restaurant not found")
	}
	return toRestaurantResponse(resto), nil
}

func (s *restaurantService) List(ctx context.Context, page, limit int) ([]RestaurantResponse, int64, error) {
	restos, total, err := s.restaurants.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]RestaurantResponse, 0, len(restos))
	for i := range restos {
		responses = append(responses, *toRestaurantResponse(&restos[i]))
	}
	return responses, total, nil
}

func (s *restaurantService) Update(ctx context.Context, id string, req UpdateRestaurantRequest) (*RestaurantResponse, error) {
	restoID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("restaurant not found")
	}
	resto, err := s.restaurants.GetByID(ctx, restoID)
	if err != nil {
		return nil, errors.New("restaurant not found")
	}

	if req.Name != "" {
		resto.Name = req.Name
	}
	if req.Address != "" {
		resto.Address = req.Address
	}
	if req.Description != "" {
		resto.Description = req.Description
	}
	if err := s.restaurants.Save(ctx, resto); err != nil {
		return nil, err
	}

	return toRestaurantResponse(resto), nil
}

func (s *restaurantService) Delete(ctx context.Context, id string) error {
	restoID, err := uuid.Parse(id)
	if err != nil {
		return errors.New("restaurant not found")
	}
	if _, err := s.restaurants.GetByID(ctx, restoID); err != nil {
		return errors.New("restaurant not found")
	}
	return s.restaurants.Delete(ctx, restoID)
}

// --- Menu (owner) ---

// ownRestaurant resolves the restaurant entity of the acting account; every
// menu mutation goes through this ownership check.
func (s *restaurantService) ownRestaurant(ctx context.Context, ownerID string) (*model.Restaurant, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, errors.New("invalid owner id")
	}
	resto, err := s.restaurants.GetByOwner(ctx, ownerUUID)
	if err != nil {
		return nil, errors.New("you do not own a restaurant")
	}
	return resto, nil
}

func (s *restaurantService) CreateMenuItem(ctx context.Context, ownerID string, req MenuItemRequest) (*MenuItemResponse, error) {
	resto, err := s.ownRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", req.Price, err)
	}

	item := &model.MenuItem{
		RestaurantID: resto.ID,
		Name:         req.Name,
		Price:        price,
		Description:  req.Description,
		IsAvailable:  true,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.CategoryID != "" {
		catID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, errors.New("category not found")
		}
		cat, err := s.restaurants.GetCategory(ctx, catID)
		if err != nil || cat.RestaurantID != resto.ID {
			return nil, errors.New("category not found")
		}
		item.CategoryID = &cat.ID
	}

	if err := s.restaurants.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return toMenuItemResponse(item), nil
}

func (s *restaurantService) UpdateMenuItem(ctx context.Context, ownerID, itemID string, req MenuItemRequest) (*MenuItemResponse, error) {
	resto, err := s.ownRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, errors.New("menu item not found")
	}
	item, err := s.restaurants.GetMenuItem(ctx, id)
	if err != nil || item.RestaurantID != resto.ID {
		return nil, errors.New("menu item not found")
	}

	item.Name = req.Name
	item.Description = req.Description
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", req.Price, err)
	}
	item.Price = price
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := s.restaurants.SaveMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return toMenuItemResponse(item), nil
}

func (s *restaurantService) DeleteMenuItem(ctx context.Context, ownerID, itemID string) error {
	resto, err := s.ownRestaurant(ctx, ownerID)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(itemID)
	if err != nil {
		return errors.New("menu item not found")
	}
	item, err := s.restaurants.GetMenuItem(ctx, id)
	if err != nil || item.RestaurantID != resto.ID {
		return errors.New("menu item not found")
	}

	return s.restaurants.DeleteMenuItem(ctx, item.ID)
}

func (s *restaurantService) ListOwnMenu(ctx context.Context, ownerID string) ([]MenuItemResponse, error) {
	resto, err := s.ownRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	items, err := s.restaurants.ListMenu(ctx, resto.ID)
	if err != nil {
		return nil, err
	}
	responses := make([]MenuItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *toMenuItemResponse(&items[i]))
	}
	return responses, nil
}

// ListPublicMenu exposes only available items of the given restaurant.
func (s *restaurantService) ListPublicMenu(ctx context.Context, restaurantID string) ([]MenuItemResponse, error) {
	restoID, err := uuid.Parse(restaurantID)
	if err != nil {
		return nil, errors.New("restaurant not found")
	}
	if _, err := s.restaurants.GetByID(ctx, restoID); err != nil {
		return nil, errors.New("restaurant not found")
	}

	items, err := s.restaurants.ListAvailableMenu(ctx, restoID)
	if err != nil {
		return nil, err
	}
	responses := make([]MenuItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *toMenuItemResponse(&items[i]))
	}
	return responses, nil
}

// --- Categories ---

func (s *restaurantService) CreateCategory(ctx context.Context, ownerID string, req MenuCategoryRequest) (*model.MenuCategory, error) {
	resto, err := s.ownRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	cat := &model.MenuCategory{
		RestaurantID: resto.ID,
		Name:         req.Name,
	}
	if err := s.restaurants.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *restaurantService) ListCategories(ctx context.Context, restaurantID string) ([]model.MenuCategory, error) {
	restoID, err := uuid.Parse(restaurantID)
	if err != nil {
		return nil, errors.New("restaurant not found")
	}
	return s.restaurants.ListCategories(ctx, restoID)
}

func (s *restaurantService) DeleteCategory(ctx context.Context, ownerID, categoryID string) error {
	resto, err := s.ownRestaurant(ctx, ownerID)
	if err != nil {
		return err
	}
	catID, err := uuid.Parse(categoryID)
	if err != nil {
		return errors.New("category not found")
	}
	cat, err := s.restaurants.GetCategory(ctx, catID)
	if err != nil || cat.RestaurantID != resto.ID {
		return errors.New("category not found")
	}
	return s.restaurants.DeleteCategory(ctx, cat.ID)
}
