package repository

import (
	"time"

	"github.com/ikkim/storerating-backend/internal/app/model"
	"github.com/ikkim/storerating-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(store *model.Store) error
	FindByID(id string) (*model.Store, error)
	FindByOwnerID(ownerID string) (*model.Store, error)
	Count() (int64, error)
	ListWithStats(opts ListOptions) ([]model.StoreWithStats, error)
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

// storeStatsRow is the flat result row of the aggregate listing query.
type storeStatsRow struct {
	ID            string
	Name          string
	Email         string
	Address       string
	OwnerID       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	AverageRating *float64
	RatingCount   int64
}

func (row storeStatsRow) toModel() model.StoreWithStats {
	return model.StoreWithStats{
		Store: model.Store{
			ID:        row.ID,
			Name:      row.Name,
			Email:     row.Email,
			Address:   row.Address,
			OwnerID:   row.OwnerID,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		},
		AverageRating: row.AverageRating,
		RatingCount:   row.RatingCount,
	}
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"name":     store.Name,
		"owner_id": store.OwnerID,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"name":     store.Name,
			"owner_id": store.OwnerID,
		})
		return err
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
	})
	return nil
}

func (r *storeRepository) FindByID(id string) (*model.Store, error) {
	logger.Debug("Finding store by ID in database", map[string]interface{}{
		"store_id": id,
	})

	var store model.Store
	if err := r.db.Where("id = ?", id).First(&store).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find store by ID in database", err, map[string]interface{}{
				"store_id": id,
			})
		}
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) FindByOwnerID(ownerID string) (*model.Store, error) {
	logger.Debug("Finding store by owner in database", map[string]interface{}{
		"owner_id": ownerID,
	})

	var store model.Store
	if err := r.db.Where("owner_id = ?", ownerID).First(&store).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find store by owner in database", err, map[string]interface{}{
				"owner_id": ownerID,
			})
		}
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Store{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count stores", err)
		return 0, err
	}
	return count, nil
}

// ListWithStats lists stores with their average rating (nil when unrated)
// and rating count, computed by a LEFT JOIN aggregate.
func (r *storeRepository) ListWithStats(opts ListOptions) ([]model.StoreWithStats, error) {
	logger.Debug("Listing stores with stats from database", map[string]interface{}{
		"search":  opts.Search,
		"sort_by": opts.SortBy,
		"order":   opts.Order,
	})

	query := r.db.Table("stores").
		Select(`stores.id, stores.name, stores.email, stores.address, stores.owner_id,
			stores.created_at, stores.updated_at,
			CAST(AVG(ratings.rating) AS FLOAT) AS average_rating,
			COUNT(ratings.id) AS rating_count`).
		Joins("LEFT JOIN ratings ON ratings.store_id = stores.id")
	query = applySearch(query, opts.Search, "stores.name", "stores.email", "stores.address")
	query = query.Group("stores.id")
	query = applySort(query, StoreSortColumns, opts.SortBy, opts.Order, "stores.id")

	var rows []storeStatsRow
	if err := query.Scan(&rows).Error; err != nil {
		logger.Error("Failed to list stores with stats from database", err)
		return nil, err
	}

	stores := make([]model.StoreWithStats, 0, len(rows))
	for _, row := range rows {
		stores = append(stores, row.toModel())
	}

	logger.Debug("Stores listed from database", map[string]interface{}{
		"count": len(stores),
	})
	return stores, nil
}
