package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/storerating-backend/internal/app/repository"
	"github.com/ikkim/storerating-backend/internal/db/dbtest"
	"github.com/ikkim/storerating-backend/pkg/util"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test-jwt-secret"

type testEnv struct {
	db        *gorm.DB
	users     repository.UserRepository
	stores    repository.StoreRepository
	ratings   repository.RatingRepository
	hasher    *util.PasswordHasher
	auth      AuthService
	admin     AdminService
	owner     StoreOwnerService
	user      UserService
	revoker   *fakeRevoker
	publisher *fakePublisher
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()
	conn := dbtest.SetupTestDB(t)

	env := &testEnv{
		db:        conn,
		users:     repository.NewUserRepository(conn),
		stores:    repository.NewStoreRepository(conn),
		ratings:   repository.NewRatingRepository(conn),
		hasher:    util.NewPasswordHasher(bcrypt.MinCost),
		revoker:   newFakeRevoker(),
		publisher: &fakePublisher{},
	}
	env.auth = NewAuthService(env.users, env.hasher, TokenConfig{Secret: testJWTSecret, Expiry: time.Hour}, env.revoker)
	env.admin = NewAdminService(env.users, env.stores, env.ratings, env.hasher)
	env.owner = NewStoreOwnerService(env.stores, env.ratings)
	env.user = NewUserService(env.stores, env.ratings, env.publisher)
	return env
}

type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: make(map[string]time.Duration)}
}

func (f *fakeRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.revoked[jti] = ttl
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[jti]
	return ok, f.err
}

type fakePublisher struct {
	mu     sync.Mutex
	events []RatingEvent
	err    error
}

func (f *fakePublisher) PublishRatingSubmitted(_ context.Context, event RatingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}
