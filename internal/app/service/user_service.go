package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/storerating-backend/internal/app/model"
	"github.com/ikkim/storerating-backend/internal/app/repository"
	apperrors "github.com/ikkim/storerating-backend/internal/errors"
	"github.com/ikkim/storerating-backend/pkg/logger"
	"gorm.io/gorm"
)

// RatingEvent is published after every successful rating submission.
type RatingEvent struct {
	RatingID    string    `json:"ratingId"`
	UserID      string    `json:"userId"`
	StoreID     string    `json:"storeId"`
	Rating      int       `json:"rating"`
	Created     bool      `json:"created"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type RatingEventPublisher interface {
	PublishRatingSubmitted(ctx context.Context, event RatingEvent) error
}

// SubmitRatingInput 평점 제출 입력
type SubmitRatingInput struct {
	StoreID string `json:"storeId"`
	Rating  int    `json:"rating"`
}

type UserService interface {
	BrowseStores(userID string, query ListQuery) ([]model.StoreWithUserRating, error)
	SubmitRating(ctx context.Context, userID string, input SubmitRatingInput) (*model.Rating, bool, error)
}

type userService struct {
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
	publisher  RatingEventPublisher
}

// NewUserService builds the user service. publisher may be nil.
func NewUserService(
	storeRepo repository.StoreRepository,
	ratingRepo repository.RatingRepository,
	publisher RatingEventPublisher,
) UserService {
	return &userService{
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
		publisher:  publisher,
	}
}

func (s *userService) BrowseStores(userID string, query ListQuery) ([]model.StoreWithUserRating, error) {
	opts, err := query.listOptions(repository.StoreSortColumns)
	if err != nil {
		return nil, err
	}

	stores, err := s.storeRepo.ListWithStats(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}

	storeIDs := make([]string, 0, len(stores))
	for _, st := range stores {
		storeIDs = append(storeIDs, st.ID)
	}

	mine, err := s.ratingRepo.FindByUserAndStores(userID, storeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load user ratings: %w", err)
	}

	result := make([]model.StoreWithUserRating, 0, len(stores))
	for _, st := range stores {
		item := model.StoreWithUserRating{StoreWithStats: st}
		if value, ok := mine[st.ID]; ok {
			v := value
			item.UserRating = &v
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *userService) SubmitRating(ctx context.Context, userID string, input SubmitRatingInput) (*model.Rating, bool, error) {
	storeID := strings.TrimSpace(input.StoreID)
	if storeID == "" {
		return nil, false, apperrors.ValidationFields("invalid input", map[string]string{"storeId": "is required"})
	}
	if input.Rating < model.MinRating || input.Rating > model.MaxRating {
		return nil, false, ErrInvalidRating
	}

	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrStoreNotFound
		}
		return nil, false, fmt.Errorf("failed to find store: %w", err)
	}

	rating, created, err := s.ratingRepo.Upsert(userID, storeID, input.Rating)
	if err != nil {
		return nil, false, fmt.Errorf("failed to save rating: %w", err)
	}

	logger.Info("Rating submitted", map[string]interface{}{
		"user_id":  userID,
		"store_id": storeID,
		"rating":   input.Rating,
		"created":  created,
	})

	s.publish(ctx, RatingEvent{
		RatingID:    rating.ID,
		UserID:      userID,
		StoreID:     storeID,
		Rating:      rating.Rating,
		Created:     created,
		SubmittedAt: rating.UpdatedAt,
	})
	return rating, created, nil
}

func (s *userService) publish(ctx context.Context, event RatingEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRatingSubmitted(ctx, event); err != nil {
		logger.Error("Failed to publish rating event", err, map[string]interface{}{
			"rating_id": event.RatingID,
		})
	}
}
