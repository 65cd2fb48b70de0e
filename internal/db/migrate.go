package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/storerating-backend/config"
	"github.com/ikkim/storerating-backend/internal/app/model"
	"github.com/ikkim/storerating-backend/pkg/logger"
	"github.com/ikkim/storerating-backend/pkg/util"
	"gorm.io/gorm"
)

// Models returns every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Store{},
		&model.Rating{},
	}
}

// Migrate runs database migrations
func Migrate(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedDefaultAdmin creates the bootstrap admin account unless a user with
// the configured email already exists. Safe to run on every start.
func SeedDefaultAdmin(conn *gorm.DB, cfg config.AdminConfig, hasher *util.PasswordHasher) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(cfg.Email))

	var existing model.User
	err := conn.Where("email = ?", email).First(&existing).Error
	if err == nil {
		logger.Info("Default admin already present, skipping...", map[string]interface{}{
			"user_id": existing.ID,
		})
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to look up default admin", err)
		return false, fmt.Errorf("failed to look up default admin: %w", err)
	}

	hash, err := hasher.Hash(cfg.Password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &model.User{
		Name:         cfg.Name,
		Email:        email,
		PasswordHash: hash,
		Address:      cfg.Address,
		Role:         model.RoleAdmin,
	}
	if err := conn.Create(admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// another instance won the race
			return false, nil
		}
		logger.Error("Failed to create default admin", err)
		return false, fmt.Errorf("failed to create default admin: %w", err)
	}

	logger.Info("Default admin created", map[string]interface{}{
		"user_id": admin.ID,
		"email":   admin.Email,
	})
	return true, nil
}
