package repository

import (
	"github.com/ikkim/storerating-backend/internal/app/model"
	"github.com/ikkim/storerating-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	UpdatePasswordHash(id, passwordHash string) error
	Count() (int64, error)
	List(opts ListOptions) ([]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

func (r *userRepository) FindByID(id string) (*model.User, error) {
	logger.Debug("Finding user by ID in database", map[string]interface{}{
		"user_id": id,
	})

	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find user by ID in database", err, map[string]interface{}{
				"user_id": id,
			})
		}
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	logger.Debug("Finding user by email in database", map[string]interface{}{
		"email": email,
	})

	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find user by email in database", err, map[string]interface{}{
				"email": email,
			})
		}
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) UpdatePasswordHash(id, passwordHash string) error {
	logger.Debug("Updating user password in database", map[string]interface{}{
		"user_id": id,
	})

	result := r.db.Model(&model.User{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if result.Error != nil {
		logger.Error("Failed to update user password in database", result.Error, map[string]interface{}{
			"user_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("User password updated in database", map[string]interface{}{
		"user_id": id,
	})
	return nil
}

func (r *userRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.User{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count users", err)
		return 0, err
	}
	return count, nil
}

func (r *userRepository) List(opts ListOptions) ([]model.User, error) {
	logger.Debug("Listing users from database", map[string]interface{}{
		"search":  opts.Search,
		"role":    opts.Role,
		"sort_by": opts.SortBy,
		"order":   opts.Order,
	})

	query := r.db.Model(&model.User{})
	query = applySearch(query, opts.Search, "users.name", "users.email", "users.address")
	if opts.Role != "" {
		query = query.Where("users.role = ?", opts.Role)
	}
	query = applySort(query, UserSortColumns, opts.SortBy, opts.Order, "users.id")

	var users []model.User
	if err := query.Find(&users).Error; err != nil {
		logger.Error("Failed to list users from database", err)
		return nil, err
	}

	logger.Debug("Users listed from database", map[string]interface{}{
		"count": len(users),
	})
	return users, nil
}
