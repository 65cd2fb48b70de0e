package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string // 사용자 권한 타입

const (
	RoleAdmin      UserRole = "admin"       // 관리자
	RoleUser       UserRole = "user"        // 일반 사용자
	RoleStoreOwner UserRole = "store_owner" // 매장 사장님
)

// Roles lists every role the system knows about.
var Roles = []UserRole{RoleAdmin, RoleUser, RoleStoreOwner}

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleStoreOwner:
		return true
	}
	return false
}

type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(60);not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Address      string    `gorm:"type:varchar(400);not null" json:"address"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'user';index" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
