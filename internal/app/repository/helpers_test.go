package repository

import (
	"testing"
	"time"

	"github.com/ikkim/storerating-backend/internal/app/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestUser(t *testing.T, conn *gorm.DB, name, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hashedpassword",
		Address:      "1 Test Street",
		Role:         role,
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func createTestStore(t *testing.T, conn *gorm.DB, name, email string, owner *model.User) *model.Store {
	t.Helper()
	store := &model.Store{
		Name:    name,
		Email:   email,
		Address: "99 Market Road",
		OwnerID: owner.ID,
	}
	require.NoError(t, conn.Create(store).Error)
	return store
}

func createTestRating(t *testing.T, conn *gorm.DB, user *model.User, store *model.Store, value int, at time.Time) *model.Rating {
	t.Helper()
	rating := &model.Rating{
		UserID:    user.ID,
		StoreID:   store.ID,
		Rating:    value,
		CreatedAt: at,
		UpdatedAt: at,
	}
	require.NoError(t, conn.Create(rating).Error)
	return rating
}
