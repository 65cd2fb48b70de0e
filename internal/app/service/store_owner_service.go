package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/storerating-backend/internal/app/model"
	"github.com/ikkim/storerating-backend/internal/app/repository"
	"gorm.io/gorm"
)

// RatingAuthor 평점 작성자 요약
type RatingAuthor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OwnerRatingView 사장님 대시보드에 노출되는 평점
type OwnerRatingView struct {
	ID        string       `json:"id"`
	Rating    int          `json:"rating"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	User      RatingAuthor `json:"user"`
}

// OwnerDashboard 사장님 대시보드. 평점이 없으면 평균 0.
type OwnerDashboard struct {
	Store         *model.Store      `json:"store"`
	AverageRating float64           `json:"averageRating"`
	TotalRatings  int64             `json:"totalRatings"`
	Ratings       []OwnerRatingView `json:"ratings"`
}

type StoreOwnerService interface {
	Dashboard(ownerID string) (*OwnerDashboard, error)
}

type storeOwnerService struct {
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
}

func NewStoreOwnerService(storeRepo repository.StoreRepository, ratingRepo repository.RatingRepository) StoreOwnerService {
	return &storeOwnerService{
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
	}
}

func (s *storeOwnerService) Dashboard(ownerID string) (*OwnerDashboard, error) {
	store, err := s.storeRepo.FindByOwnerID(ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOwnedStoreNotFound
		}
		return nil, fmt.Errorf("failed to find owner store: %w", err)
	}

	stats, err := s.ratingRepo.StatsForStore(store.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	ratings, err := s.ratingRepo.ListByStoreWithUser(store.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	views := make([]OwnerRatingView, 0, len(ratings))
	for _, r := range ratings {
		view := OwnerRatingView{
			ID:        r.ID,
			Rating:    r.Rating,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}
		if r.User != nil {
			view.User = RatingAuthor{ID: r.User.ID, Name: r.User.Name, Email: r.User.Email}
		}
		views = append(views, view)
	}

	return &OwnerDashboard{
		Store:         store,
		AverageRating: stats.AverageRating,
		TotalRatings:  stats.TotalRatings,
		Ratings:       views,
	}, nil
}
