package repository

import (
	"strings"

	"github.com/ikkim/storerating-backend/internal/app/model"
	"gorm.io/gorm"
)

// SortOrder 정렬 방향
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListOptions 목록 조회 조건. SortBy는 UserSortColumns/StoreSortColumns의 키.
type ListOptions struct {
	Search string
	Role   model.UserRole // users only
	SortBy string
	Order  SortOrder
}

// UserSortColumns maps accepted sortBy keys to SQL expressions.
var UserSortColumns = map[string]string{
	"name":      "users.name",
	"email":     "users.email",
	"address":   "users.address",
	"role":      "users.role",
	"createdAt": "users.created_at",
}

// StoreSortColumns maps accepted sortBy keys to SQL expressions. The
// aggregate keys are only valid in the grouped store listing.
var StoreSortColumns = map[string]string{
	"name":          "stores.name",
	"email":         "stores.email",
	"address":       "stores.address",
	"createdAt":     "stores.created_at",
	"averageRating": "COALESCE(AVG(ratings.rating), 0)",
	"ratingCount":   "COUNT(ratings.id)",
}

const DefaultSortBy = "name"

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// applySearch adds a case-insensitive substring match OR'd across columns.
func applySearch(query *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return query
	}

	pattern := "%" + escapeLike(search) + "%"
	conditions := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		conditions = append(conditions, "LOWER("+col+`) LIKE LOWER(?) ESCAPE '\'`)
		args = append(args, pattern)
	}
	return query.Where("("+strings.Join(conditions, " OR ")+")", args...)
}

// applySort orders by a whitelisted column with an id tiebreak.
func applySort(query *gorm.DB, columns map[string]string, sortBy string, order SortOrder, idColumn string) *gorm.DB {
	col, ok := columns[sortBy]
	if !ok {
		col = columns[DefaultSortBy]
	}
	dir := "ASC"
	if order == SortDesc {
		dir = "DESC"
	}
	return query.Order(col + " " + dir).Order(idColumn + " " + dir)
}
