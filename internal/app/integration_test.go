package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storerating-backend/config"
	"github.com/ikkim/storerating-backend/internal/db"
	"github.com/ikkim/storerating-backend/internal/db/dbtest"
	apperrors "github.com/ikkim/storerating-backend/internal/errors"
	"github.com/ikkim/storerating-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memoryRevoker) Revoke(_ context.Context, jti string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = true
	return nil
}

func (m *memoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[jti], nil
}

type TestServer struct {
	Router     *gin.Engine
	AdminToken string
}

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{GinMode: gin.TestMode, Environment: "test"},
		JWT:       config.JWTConfig{Secret: "test-secret", Expiry: time.Hour},
		Admin:     config.AdminConfig{Name: "System Administrator Account", Email: "admin@system.com", Password: "Admin@123", Address: "123 Admin Street"},
		RateLimit: config.RateLimitConfig{RPS: 0},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	testDB := dbtest.SetupTestDB(t)
	hasher := util.NewPasswordHasher(bcrypt.MinCost)

	_, err := db.SeedDefaultAdmin(testDB, cfg.Admin, hasher)
	require.NoError(t, err)

	ts := &TestServer{
		Router: NewEngine(Dependencies{
			Config:  cfg,
			DB:      testDB,
			Hasher:  hasher,
			Revoker: &memoryRevoker{revoked: map[string]bool{}},
		}),
	}

	w := ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "admin@system.com",
		"password": "Admin@123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ts.AdminToken = decode[authResponse](t, w).Token
	return ts
}

func (ts *TestServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type userJSON struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authResponse struct {
	Message string   `json:"message"`
	User    userJSON `json:"user"`
	Token   string   `json:"token"`
}

type storeJSON struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	OwnerID       string   `json:"ownerId"`
	AverageRating *float64 `json:"averageRating"`
	RatingCount   int64    `json:"ratingCount"`
	UserRating    *int     `json:"userRating"`
}

func TestHealthAndNoRoute(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Server is running!", decode[map[string]string](t, w)["message"])

	w = ts.do(t, http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode[apperrors.ErrorResponse](t, w)
	assert.Equal(t, apperrors.ResourceNotFound, body.Error)
	assert.Equal(t, "Route not found", body.Message)

	w = ts.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegistration(t *testing.T) {
	ts := setupIntegrationTest(t)

	payload := map[string]string{
		"name":     "Regular Person With Long Name",
		"email":    "person@example.com",
		"password": "Valid#123",
		"address":  "7 Side Street",
		"role":     "admin",
	}

	w := ts.do(t, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[authResponse](t, w)
	assert.Equal(t, "user", resp.User.Role)
	assert.NotEmpty(t, resp.Token)
	assert.NotContains(t, w.Body.String(), "passwordHash")
	assert.NotContains(t, w.Body.String(), "Valid#123")

	w = ts.do(t, http.MethodPost, "/api/auth/register", "", payload)
	assert.Equal(t, http.StatusConflict, w.Code)

	payload["email"] = "weak@example.com"
	payload["password"] = "short1"
	w = ts.do(t, http.MethodPost, "/api/auth/register", "", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[apperrors.ErrorResponse](t, w).Fields, "password")

	w = ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "person@example.com", "password": "Wrong#123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid email or password", decode[apperrors.ErrorResponse](t, w).Message)

	w = ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@example.com", "password": "Wrong#123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid email or password", decode[apperrors.ErrorResponse](t, w).Message)
}

func TestAuthorizationBoundaries(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Regular Person With Long Name", "email": "u@example.com", "password": "Valid#123", "address": "1 Way",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	userToken := decode[authResponse](t, w).Token

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{name: "user on admin dashboard", method: http.MethodGet, path: "/api/admin/dashboard", token: userToken, want: http.StatusForbidden},
		{name: "user on owner dashboard", method: http.MethodGet, path: "/api/store-owner/dashboard", token: userToken, want: http.StatusForbidden},
		{name: "admin on user stores", method: http.MethodGet, path: "/api/user/stores", token: ts.AdminToken, want: http.StatusForbidden},
		{name: "no token", method: http.MethodGet, path: "/api/admin/dashboard", want: http.StatusUnauthorized},
		{name: "garbage token", method: http.MethodGet, path: "/api/user/stores", token: "garbage", want: http.StatusUnauthorized},
		{name: "user browsing", method: http.MethodGet, path: "/api/user/stores", token: userToken, want: http.StatusOK},
		{name: "admin dashboard", method: http.MethodGet, path: "/api/admin/dashboard", token: ts.AdminToken, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestStoreRatingJourney(t *testing.T) {
	ts := setupIntegrationTest(t)

	// 1. Admin provisions an owner and a store
	w := ts.do(t, http.MethodPost, "/api/admin/users", ts.AdminToken, map[string]string{
		"name": "Store Owner With A Long Name", "email": "owner@x.com", "password": "Owner#123", "address": "1 Owner Way", "role": "store_owner",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	owner := decode[struct {
		User userJSON `json:"user"`
	}](t, w).User

	w = ts.do(t, http.MethodPost, "/api/admin/stores", ts.AdminToken, map[string]string{
		"name": "ACME Store Name Over Twenty Chars", "email": "acme@x.com", "address": "1 Commerce Way", "ownerEmail": "owner@x.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	store := decode[struct {
		Store storeJSON `json:"store"`
	}](t, w).Store
	assert.Equal(t, owner.ID, store.OwnerID)

	// a plain user cannot own a store
	w = ts.do(t, http.MethodPost, "/api/admin/users", ts.AdminToken, map[string]string{
		"name": "Plain User With A Long Name", "email": "plain@x.com", "password": "Plain#123", "address": "2 Way", "role": "user",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = ts.do(t, http.MethodPost, "/api/admin/stores", ts.AdminToken, map[string]string{
		"name": "Second Store Name Over Twenty", "email": "s@x.com", "address": "3 Way", "ownerEmail": "plain@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "store owner not found", decode[apperrors.ErrorResponse](t, w).Message)

	// 2. A user rates the store twice
	w = ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "plain@x.com", "password": "Plain#123"})
	require.Equal(t, http.StatusOK, w.Code)
	userToken := decode[authResponse](t, w).Token

	w = ts.do(t, http.MethodPost, "/api/user/ratings", userToken, map[string]interface{}{"storeId": store.ID, "rating": 4})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, decode[map[string]interface{}](t, w)["created"].(bool))

	w = ts.do(t, http.MethodPost, "/api/user/ratings", userToken, map[string]interface{}{"storeId": store.ID, "rating": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, decode[map[string]interface{}](t, w)["created"].(bool))

	w = ts.do(t, http.MethodPost, "/api/user/ratings", userToken, map[string]interface{}{"storeId": store.ID, "rating": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/user/ratings", userToken, map[string]interface{}{"storeId": "missing", "rating": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 3. The user sees their own rating when browsing
	w = ts.do(t, http.MethodGet, "/api/user/stores?search=acme", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stores := decode[[]storeJSON](t, w)
	require.Len(t, stores, 1)
	require.NotNil(t, stores[0].UserRating)
	assert.Equal(t, 2, *stores[0].UserRating)
	assert.Equal(t, int64(1), stores[0].RatingCount)

	w = ts.do(t, http.MethodGet, "/api/user/stores?sortBy=password", userToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 4. The owner sees a single rating with the latest value
	w = ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "owner@x.com", "password": "Owner#123"})
	require.Equal(t, http.StatusOK, w.Code)
	ownerToken := decode[authResponse](t, w).Token

	w = ts.do(t, http.MethodGet, "/api/store-owner/dashboard", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dash := decode[struct {
		Store         storeJSON `json:"store"`
		AverageRating float64   `json:"averageRating"`
		TotalRatings  int64     `json:"totalRatings"`
		Ratings       []struct {
			Rating int `json:"rating"`
			User   struct {
				Email string `json:"email"`
			} `json:"user"`
		} `json:"ratings"`
	}](t, w)
	assert.Equal(t, store.ID, dash.Store.ID)
	assert.Equal(t, int64(1), dash.TotalRatings)
	assert.InDelta(t, 2.0, dash.AverageRating, 0.0001)
	require.Len(t, dash.Ratings, 1)
	assert.Equal(t, "plain@x.com", dash.Ratings[0].User.Email)

	// 5. Admin dashboard counts everything
	w = ts.do(t, http.MethodGet, "/api/admin/dashboard", ts.AdminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]int64{"userCount": 3, "storeCount": 1, "ratingCount": 1}, decode[map[string]int64](t, w))

	w = ts.do(t, http.MethodGet, "/api/admin/users?role=store_owner", ts.AdminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[[]userJSON](t, w)
	require.Len(t, users, 1)
	assert.Equal(t, "owner@x.com", users[0].Email)
}

func TestPasswordUpdateAndLogout(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Regular Person With Long Name", "email": "pw@example.com", "password": "Valid#123", "address": "1 Way",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	token := decode[authResponse](t, w).Token

	w = ts.do(t, http.MethodPut, "/api/auth/update-password", token, map[string]string{"currentPassword": "Wrong#123", "newPassword": "Newpass#1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPut, "/api/auth/update-password", token, map[string]string{"currentPassword": "Valid#123", "newPassword": "Newpass#1"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pw@example.com", decode[struct {
		User userJSON `json:"user"`
	}](t, w).User.Email)

	w = ts.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.AuthTokenRevoked, decode[apperrors.ErrorResponse](t, w).Error)
}
