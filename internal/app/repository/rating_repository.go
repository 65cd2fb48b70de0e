package repository

import (
	"time"

	"github.com/ikkim/storerating-backend/internal/app/model"
	"github.com/ikkim/storerating-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoreRatingStats 매장 평점 집계
type StoreRatingStats struct {
	AverageRating float64
	TotalRatings  int64
}

type RatingRepository interface {
	Upsert(userID, storeID string, value int) (*model.Rating, bool, error)
	Count() (int64, error)
	FindByUserAndStores(userID string, storeIDs []string) (map[string]int, error)
	StatsForStore(storeID string) (StoreRatingStats, error)
	ListByStoreWithUser(storeID string) ([]model.Rating, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Upsert inserts the rating for (userID, storeID) or overwrites the
// existing one. The returned bool is true when a new row was created.
func (r *ratingRepository) Upsert(userID, storeID string, value int) (*model.Rating, bool, error) {
	logger.Debug("Upserting rating in database", map[string]interface{}{
		"user_id":  userID,
		"store_id": storeID,
		"rating":   value,
	})

	var saved model.Rating
	created := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		row := &model.Rating{UserID: userID, StoreID: storeID, Rating: value}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
			DoNothing: true,
		}).Create(row)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 1 {
			created = true
			saved = *row
			return nil
		}

		if err := tx.Model(&model.Rating{}).
			Where("user_id = ? AND store_id = ?", userID, storeID).
			Updates(map[string]interface{}{
				"rating":     value,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ? AND store_id = ?", userID, storeID).First(&saved).Error
	})
	if err != nil {
		logger.Error("Failed to upsert rating in database", err, map[string]interface{}{
			"user_id":  userID,
			"store_id": storeID,
		})
		return nil, false, err
	}

	logger.Debug("Rating upserted in database", map[string]interface{}{
		"rating_id": saved.ID,
		"created":   created,
	})
	return &saved, created, nil
}

func (r *ratingRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Rating{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count ratings", err)
		return 0, err
	}
	return count, nil
}

// FindByUserAndStores returns the user's rating keyed by store ID,
// restricted to the given stores.
func (r *ratingRepository) FindByUserAndStores(userID string, storeIDs []string) (map[string]int, error) {
	result := make(map[string]int, len(storeIDs))
	if len(storeIDs) == 0 {
		return result, nil
	}

	var ratings []model.Rating
	err := r.db.Select("store_id", "rating").
		Where("user_id = ? AND store_id IN ?", userID, storeIDs).
		Find(&ratings).Error
	if err != nil {
		logger.Error("Failed to find user ratings in database", err, map[string]interface{}{
			"user_id":     userID,
			"store_count": len(storeIDs),
		})
		return nil, err
	}

	for _, rating := range ratings {
		result[rating.StoreID] = rating.Rating
	}
	return result, nil
}

func (r *ratingRepository) StatsForStore(storeID string) (StoreRatingStats, error) {
	var stats StoreRatingStats
	err := r.db.Model(&model.Rating{}).
		Select("COALESCE(CAST(AVG(rating) AS FLOAT), 0) AS average_rating, COUNT(id) AS total_ratings").
		Where("store_id = ?", storeID).
		Scan(&stats).Error
	if err != nil {
		logger.Error("Failed to aggregate store ratings", err, map[string]interface{}{
			"store_id": storeID,
		})
		return StoreRatingStats{}, err
	}
	return stats, nil
}

// ListByStoreWithUser returns every rating of the store with its author,
// oldest first.
func (r *ratingRepository) ListByStoreWithUser(storeID string) ([]model.Rating, error) {
	var ratings []model.Rating
	err := r.db.Preload("User").
		Where("store_id = ?", storeID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&ratings).Error
	if err != nil {
		logger.Error("Failed to list store ratings", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return ratings, nil
}
