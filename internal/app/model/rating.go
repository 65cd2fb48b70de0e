package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Rating 매장 평점. (user_id, store_id) 쌍마다 최대 한 건.
type Rating struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Rating    int       `gorm:"not null;check:chk_ratings_range,rating >= 1 AND rating <= 5" json:"rating"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_ratings_user_store" json:"userId"`
	StoreID   string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_ratings_user_store;index" json:"storeId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Store     *Store    `gorm:"foreignKey:StoreID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Rating) TableName() string {
	return "ratings"
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
