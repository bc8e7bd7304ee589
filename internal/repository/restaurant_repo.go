package repository

import (
	"context"

	"foodportal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RestaurantRepository interface {
	Create(ctx context.Context, r *model.Restaurant) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Restaurant, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Restaurant, error)
	List(ctx context.Context, page, limit int) ([]model.Restaurant, int64, error)
	Save(ctx context.Context, r *model.Restaurant) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, c *model.MenuCategory) error
	ListCategories(ctx context.Context, restaurantID uuid.UUID) ([]model.MenuCategory, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*model.MenuCategory, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateMenuItem(ctx context.Context, item *model.MenuItem) error
	GetMenuItem(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)
	ListMenu(ctx context.Context, restaurantID uuid.UUID) ([]model.MenuItem, error)
	ListAvailableMenu(ctx context.Context, restaurantID uuid.UUID) ([]model.MenuItem, error)
	SaveMenuItem(ctx context.Context, item *model.MenuItem) error
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error
}

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) Create(ctx context.Context, resto *model.Restaurant) error {
	return GetDB(ctx, r.db).Create(resto).Error
}

func (r *restaurantRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Restaurant, error) {
	var resto model.Restaurant
	if err := GetDB(ctx, r.db).Preload("Owner").First(&resto, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &resto, nil
}

func (r *restaurantRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Restaurant, error) {
	var resto model.Restaurant
	if err := GetDB(ctx, r.db).First(&resto, "owner_id = ?", ownerID).Error; err != nil {
		return nil, err
	}
	return &resto, nil
}

func (r *restaurantRepository) List(ctx context.Context, page, limit int) ([]model.Restaurant, int64, error) {
	var restos []model.Restaurant
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Restaurant{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Owner").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&restos).Error; err != nil {
		return nil, 0, err
	}

	return restos, total, nil
}

func (r *restaurantRepository) Save(ctx context.Context, resto *model.Restaurant) error {
	return GetDB(ctx, r.db).Save(resto).Error
}

func (r *restaurantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Restaurant{}).Error
}

// --- Categories ---

func (r *restaurantRepository) CreateCategory(ctx context.Context, c *model.MenuCategory) error {
	return GetDB(ctx, r.db).Create(c).Error
}

func (r *restaurantRepository) ListCategories(ctx context.Context, restaurantID uuid.UUID) ([]model.MenuCategory, error) {
	var cats []model.MenuCategory
	err := GetDB(ctx, r.db).Where("restaurant_id = ?", restaurantID).Order("name ASC").Find(&cats).Error
	return cats, err
}

func (r *restaurantRepository) GetCategory(ctx context.Context, id uuid.UUID) (*model.MenuCategory, error) {
	var c model.MenuCategory
	if err := GetDB(ctx, r.db).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *restaurantRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.MenuCategory{}).Error
}

// --- Menu items ---

func (r *restaurantRepository) CreateMenuItem(ctx context.Context, item *model.MenuItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *restaurantRepository) GetMenuItem(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *restaurantRepository) ListMenu(ctx context.Context, restaurantID uuid.UUID) ([]model.MenuItem, error) {
	var items []model.MenuItem
	err := GetDB(ctx, r.db).Where("restaurant_id = ?", restaurantID).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *restaurantRepository) ListAvailableMenu(ctx context.Context, restaurantID uuid.UUID) ([]model.MenuItem, error) {
	var items []model.MenuItem
	err := GetDB(ctx, r.db).
		Where("restaurant_id = ? AND is_available = ?", restaurantID, true).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *restaurantRepository) SaveMenuItem(ctx context.Context, item *model.MenuItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *restaurantRepository) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.MenuItem{}).Error
}
