package client

import "time"

// Role is an account role as reported by the server.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleStoreOwner Role = "store_owner"
	RoleUser       Role = "user"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StoreWithStats is a store listing entry. AverageRating is nil when the
// store has no ratings.
type StoreWithStats struct {
	Store
	AverageRating *float64 `json:"averageRating"`
	RatingCount   int64    `json:"ratingCount"`
}

// StoreWithUserRating adds the caller's own rating, nil if none.
type StoreWithUserRating struct {
	StoreWithStats
	UserRating *int `json:"userRating"`
}

type Rating struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	UserID    string    `json:"userId"`
	StoreID   string    `json:"storeId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type DashboardSummary struct {
	UserCount   int64 `json:"userCount"`
	StoreCount  int64 `json:"storeCount"`
	RatingCount int64 `json:"ratingCount"`
}

type RatingAuthor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OwnerRating struct {
	ID        string       `json:"id"`
	Rating    int          `json:"rating"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	User      RatingAuthor `json:"user"`
}

// OwnerDashboard is the store owner's view of their store.
type OwnerDashboard struct {
	Store         Store         `json:"store"`
	AverageRating float64       `json:"averageRating"`
	TotalRatings  int64         `json:"totalRatings"`
	Ratings       []OwnerRating `json:"ratings"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
	Role     Role   `json:"role"`
}

type CreateStoreRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	OwnerEmail string `json:"ownerEmail"`
}

type submitRatingRequest struct {
	StoreID string `json:"storeId"`
	Rating  int    `json:"rating"`
}
