package repository

import (
	"testing"
	"time"

	"github.com/ikkim/storerating-backend/internal/app/model"
	"github.com/ikkim/storerating-backend/internal/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingRepository_Upsert(t *testing.T) {
	testDB := dbtest.SetupTestDB(t)
	repo := NewRatingRepository(testDB)

	owner := createTestUser(t, testDB, "Owner Account With Long Name", "owner@example.com", model.RoleStoreOwner)
	user := createTestUser(t, testDB, "Rater Account With Long Name", "rater@example.com", model.RoleUser)
	store := createTestStore(t, testDB, "ACME Store Name Over Twenty Chars", "acme@example.com", owner)

	first, created, err := repo.Upsert(user.ID, store.ID, 4)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 4, first.Rating)

	second, created, err := repo.Upsert(user.ID, store.ID, 2)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 2, second.Rating)
	assert.Equal(t, first.ID, second.ID)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stats, err := repo.StatsForStore(store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalRatings)
	assert.InDelta(t, 2.0, stats.AverageRating, 0.0001)
}

func TestRatingRepository_Upsert_UnknownStore(t *testing.T) {
	testDB := dbtest.SetupTestDB(t)
	repo := NewRatingRepository(testDB)
	user := createTestUser(t, testDB, "Rater Account With Long Name", "rater@example.com", model.RoleUser)

	_, _, err := repo.Upsert(user.ID, "no-such-store", 3)
	assert.Error(t, err)
}

func TestRatingRepository_StatsForStore_Empty(t *testing.T) {
	testDB := dbtest.SetupTestDB(t)
	repo := NewRatingRepository(testDB)

	stats, err := repo.StatsForStore("nothing-here")
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.AverageRating)
	assert.Equal(t, int64(0), stats.TotalRatings)
}

func TestRatingRepository_FindByUserAndStores(t *testing.T) {
	testDB := dbtest.SetupTestDB(t)
	repo := NewRatingRepository(testDB)

	ownerA := createTestUser(t, testDB, "Owner A Account Long Name", "a@owner.com", model.RoleStoreOwner)
	ownerB := createTestUser(t, testDB, "Owner B Account Long Name", "b@owner.com", model.RoleStoreOwner)
	me := createTestUser(t, testDB, "Me Myself Account Long Name", "me@user.com", model.RoleUser)
	other := createTestUser(t, testDB, "Other Person Account Name", "other@user.com", model.RoleUser)
	storeA := createTestStore(t, testDB, "Alpha Bakery And Coffee House", "alpha@store.com", ownerA)
	storeB := createTestStore(t, testDB, "Beta Hardware Supply Store", "beta@store.com", ownerB)

	now := time.Now()
	createTestRating(t, testDB, me, storeA, 3, now)
	createTestRating(t, testDB, other, storeB, 1, now)

	ratings, err := repo.FindByUserAndStores(me.ID, []string{storeA.ID, storeB.ID})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{storeA.ID: 3}, ratings)

	ratings, err = repo.FindByUserAndStores(me.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, ratings)
}

func TestRatingRepository_ListByStoreWithUser(t *testing.T) {
	testDB := dbtest.SetupTestDB(t)
	repo := NewRatingRepository(testDB)

	owner := createTestUser(t, testDB, "Owner Account With Long Name", "owner@example.com", model.RoleStoreOwner)
	early := createTestUser(t, testDB, "Early Bird Account Long Name", "early@user.com", model.RoleUser)
	late := createTestUser(t, testDB, "Late Comer Account Long Name", "late@user.com", model.RoleUser)
	store := createTestStore(t, testDB, "ACME Store Name Over Twenty Chars", "acme@example.com", owner)

	base := time.Now().Add(-time.Hour)
	createTestRating(t, testDB, late, store, 2, base.Add(30*time.Minute))
	createTestRating(t, testDB, early, store, 5, base)

	ratings, err := repo.ListByStoreWithUser(store.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	require.NotNil(t, ratings[0].User)
	assert.Equal(t, "early@user.com", ratings[0].User.Email)
	assert.Equal(t, "late@user.com", ratings[1].User.Email)
}
