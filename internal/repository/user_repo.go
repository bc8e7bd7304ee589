package repository

import (
	"context"

	"foodportal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines the interface for data access of User entities and
// their role profiles.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ListByRole(ctx context.Context, role string, page, limit int) ([]model.User, int64, error)
	ListPendingApproval(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateCustomerProfile(ctx context.Context, p *model.CustomerProfile) error
	CreateDriverProfile(ctx context.Context, p *model.DriverProfile) error
	CreateRestaurantProfile(ctx context.Context, p *model.RestaurantProfile) error
	GetDriverProfile(ctx context.Context, userID uuid.UUID) (*model.DriverProfile, error)
	GetRestaurantProfile(ctx context.Context, userID uuid.UUID) (*model.RestaurantProfile, error)
	GetCustomerProfile(ctx context.Context, userID uuid.UUID) (*model.CustomerProfile, error)
	SaveDriverProfile(ctx context.Context, p *model.DriverProfile) error
	SaveRestaurantProfile(ctx context.Context, p *model.RestaurantProfile) error
	DeleteProfiles(ctx context.Context, userID uuid.UUID) error

	CreateRefreshToken(ctx context.Context, t *model.RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteRefreshTokensForUser(ctx context.Context, userID uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role string, page, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := GetDB(ctx, r.db).Model(&model.User{}).Where("role = ?", role)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := GetDB(ctx, r.db).
		Where("role = ?", role).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) ListPendingApproval(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := GetDB(ctx, r.db).
		Where("is_approved = ? AND role IN ?", false, []string{model.RoleDriver, model.RoleRestaurant}).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.User{}).Error
}

// --- Profiles ---

func (r *userRepository) CreateCustomerProfile(ctx context.Context, p *model.CustomerProfile) error {
	return GetDB(ctx, r.db).Create(p).Error
}

func (r *userRepository) CreateDriverProfile(ctx context.Context, p *model.DriverProfile) error {
	return GetDB(ctx, r.db).Create(p).Error
}

func (r *userRepository) CreateRestaurantProfile(ctx context.Context, p *model.RestaurantProfile) error {
	return GetDB(ctx, r.db).Create(p).Error
}

func (r *userRepository) GetDriverProfile(ctx context.Context, userID uuid.UUID) (*model.DriverProfile, error) {
	var p model.DriverProfile
	if err := GetDB(ctx, r.db).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *userRepository) GetRestaurantProfile(ctx context.Context, userID uuid.UUID) (*model.RestaurantProfile, error) {
	var p model.RestaurantProfile
	if err := GetDB(ctx, r.db).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *userRepository) GetCustomerProfile(ctx context.Context, userID uuid.UUID) (*model.CustomerProfile, error) {
	var p model.CustomerProfile
	if err := GetDB(ctx, r.db).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *userRepository) SaveDriverProfile(ctx context.Context, p *model.DriverProfile) error {
	return GetDB(ctx, r.db).Save(p).Error
}

func (r *userRepository) SaveRestaurantProfile(ctx context.Context, p *model.RestaurantProfile) error {
	return GetDB(ctx, r.db).Save(p).Error
}

// DeleteProfiles removes whichever profile rows exist for the user. Called
// from the account-reject cascade alongside the user row itself.
func (r *userRepository) DeleteProfiles(ctx context.Context, userID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("user_id = ?", userID).Delete(&model.CustomerProfile{}).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", userID).Delete(&model.DriverProfile{}).Error; err != nil {
		return err
	}
	return db.Where("user_id = ?", userID).Delete(&model.RestaurantProfile{}).Error
}

// --- Refresh tokens ---

func (r *userRepository) CreateRefreshToken(ctx context.Context, t *model.RefreshToken) error {
	return GetDB(ctx, r.db).Create(t).Error
}

func (r *userRepository) GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	var t model.RefreshToken
	if err := GetDB(ctx, r.db).First(&t, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *userRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	return GetDB(ctx, r.db).Where("token = ?", token).Delete(&model.RefreshToken{}).Error
}

func (r *userRepository) DeleteRefreshTokensForUser(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("user_id = ?", userID).Delete(&model.RefreshToken{}).Error
}
