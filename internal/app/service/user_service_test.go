package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ikkim/storerating-backend/internal/app/model"
	apperrors "github.com/ikkim/storerating-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ratingFixture struct {
	env    *testEnv
	rater  *model.User
	storeA *model.Store
	storeB *model.Store
}

func setupRatingFixture(t *testing.T) ratingFixture {
	t.Helper()
	env := setupServiceTest(t)

	for _, email := range []string{"a@owner.com", "b@owner.com"} {
		_, err := env.admin.CreateUser(createUserInput(email, model.RoleStoreOwner))
		require.NoError(t, err)
	}
	storeA, err := env.admin.CreateStore(CreateStoreInput{
		Name: "Alpha Bakery And Coffee House", Email: "alpha@store.com", Address: "1 Way", OwnerEmail: "a@owner.com",
	})
	require.NoError(t, err)
	storeB, err := env.admin.CreateStore(CreateStoreInput{
		Name: "Beta Hardware Supply Store", Email: "beta@store.com", Address: "2 Way", OwnerEmail: "b@owner.com",
	})
	require.NoError(t, err)

	rater, err := env.admin.CreateUser(createUserInput("rater@x.com", model.RoleUser))
	require.NoError(t, err)

	return ratingFixture{env: env, rater: rater, storeA: storeA, storeB: storeB}
}

func TestUserService_SubmitRating(t *testing.T) {
	f := setupRatingFixture(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		input       SubmitRatingInput
		wantCreated bool
		wantErr     error
	}{
		{name: "first rating creates", input: SubmitRatingInput{StoreID: f.storeA.ID, Rating: 4}, wantCreated: true},
		{name: "second rating updates", input: SubmitRatingInput{StoreID: f.storeA.ID, Rating: 2}, wantCreated: false},
		{name: "rating too low", input: SubmitRatingInput{StoreID: f.storeA.ID, Rating: 0}, wantErr: ErrInvalidRating},
		{name: "rating too high", input: SubmitRatingInput{StoreID: f.storeA.ID, Rating: 6}, wantErr: ErrInvalidRating},
		{name: "unknown store", input: SubmitRatingInput{StoreID: "no-such-store", Rating: 3}, wantErr: ErrStoreNotFound},
		{name: "missing store", input: SubmitRatingInput{Rating: 3}, wantErr: apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rating, created, err := f.env.user.SubmitRating(ctx, f.rater.ID, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, rating)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCreated, created)
			assert.Equal(t, tt.input.Rating, rating.Rating)
		})
	}

	count, err := f.env.ratings.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.Len(t, f.env.publisher.events, 2)
	assert.True(t, f.env.publisher.events[0].Created)
	assert.False(t, f.env.publisher.events[1].Created)
	assert.Equal(t, 2, f.env.publisher.events[1].Rating)
}

func TestUserService_SubmitRating_PublishFailureIgnored(t *testing.T) {
	f := setupRatingFixture(t)
	f.env.publisher.err = errors.New("broker unavailable")

	_, created, err := f.env.user.SubmitRating(context.Background(), f.rater.ID, SubmitRatingInput{StoreID: f.storeB.ID, Rating: 5})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestUserService_SubmitRating_ConcurrentSinglePair(t *testing.T) {
	f := setupRatingFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 5; i++ {
		wg.Add(1)
		go func(value int) {
			defer wg.Done()
			_, _, err := f.env.user.SubmitRating(ctx, f.rater.ID, SubmitRatingInput{StoreID: f.storeA.ID, Rating: value})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	count, err := f.env.ratings.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	created := 0
	for _, e := range f.env.publisher.events {
		if e.Created {
			created++
		}
	}
	assert.Equal(t, 1, created)
}

func TestUserService_BrowseStores(t *testing.T) {
	f := setupRatingFixture(t)
	ctx := context.Background()

	other, err := f.env.admin.CreateUser(createUserInput("other@x.com", model.RoleUser))
	require.NoError(t, err)

	_, _, err = f.env.user.SubmitRating(ctx, f.rater.ID, SubmitRatingInput{StoreID: f.storeB.ID, Rating: 3})
	require.NoError(t, err)
	_, _, err = f.env.user.SubmitRating(ctx, other.ID, SubmitRatingInput{StoreID: f.storeA.ID, Rating: 5})
	require.NoError(t, err)

	stores, err := f.env.user.BrowseStores(f.rater.ID, ListQuery{SortBy: "name", SortOrder: "desc"})
	require.NoError(t, err)
	require.Len(t, stores, 2)

	// desc by name: Beta then Alpha
	assert.Equal(t, f.storeB.ID, stores[0].ID)
	require.NotNil(t, stores[0].UserRating)
	assert.Equal(t, 3, *stores[0].UserRating)

	assert.Equal(t, f.storeA.ID, stores[1].ID)
	assert.Nil(t, stores[1].UserRating)
	require.NotNil(t, stores[1].AverageRating)
	assert.InDelta(t, 5.0, *stores[1].AverageRating, 0.0001)

	stores, err = f.env.user.BrowseStores(f.rater.ID, ListQuery{Search: "bakery"})
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, f.storeA.ID, stores[0].ID)

	_, err = f.env.user.BrowseStores(f.rater.ID, ListQuery{SortOrder: "random"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
