package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(60);not null;index" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Address   string    `gorm:"type:varchar(400);not null" json:"address"`
	OwnerID   string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"ownerId"` // 한 계정당 매장 하나
	Owner     *User     `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Store) TableName() string {
	return "stores"
}

func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// StoreWithStats is a store annotated with its derived rating aggregate.
// AverageRating is nil when the store has no ratings.
type StoreWithStats struct {
	Store
	AverageRating *float64 `json:"averageRating"`
	RatingCount   int64    `json:"ratingCount"`
}

// StoreWithUserRating adds the caller's own rating (nil if none).
type StoreWithUserRating struct {
	StoreWithStats
	UserRating *int `json:"userRating"`
}
