package app

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/storerating-backend/config"
	"github.com/ikkim/storerating-backend/internal/app/controller"
	"github.com/ikkim/storerating-backend/internal/app/repository"
	"github.com/ikkim/storerating-backend/internal/app/service"
	"github.com/ikkim/storerating-backend/internal/middleware"
	"github.com/ikkim/storerating-backend/internal/router"
	"github.com/ikkim/storerating-backend/pkg/util"
	"gorm.io/gorm"
)

// Dependencies are the external resources the HTTP application needs.
// Revoker and Events are optional.
type Dependencies struct {
	Config  *config.Config
	DB      *gorm.DB
	Hasher  *util.PasswordHasher
	Revoker service.TokenRevoker
	Events  service.RatingEventPublisher
}

// Services groups the domain services so callers outside HTTP (the seed
// importer, tests) can share the same wiring.
type Services struct {
	Auth       service.AuthService
	Admin      service.AdminService
	StoreOwner service.StoreOwnerService
	User       service.UserService
}

// NewServices wires repositories into the domain services.
func NewServices(deps Dependencies) *Services {
	userRepo := repository.NewUserRepository(deps.DB)
	storeRepo := repository.NewStoreRepository(deps.DB)
	ratingRepo := repository.NewRatingRepository(deps.DB)

	tokens := service.TokenConfig{
		Secret: deps.Config.JWT.Secret,
		Expiry: deps.Config.JWT.Expiry,
	}

	return &Services{
		Auth:       service.NewAuthService(userRepo, deps.Hasher, tokens, deps.Revoker),
		Admin:      service.NewAdminService(userRepo, storeRepo, ratingRepo, deps.Hasher),
		StoreOwner: service.NewStoreOwnerService(storeRepo, ratingRepo),
		User:       service.NewUserService(storeRepo, ratingRepo, deps.Events),
	}
}

// NewEngine builds the fully routed gin engine.
func NewEngine(deps Dependencies) *gin.Engine {
	services := NewServices(deps)

	r := router.NewRouter(
		controller.NewAuthController(services.Auth),
		controller.NewAdminController(services.Admin),
		controller.NewStoreOwnerController(services.StoreOwner),
		controller.NewUserController(services.User),
		middleware.NewAuthMiddleware(deps.Config.JWT.Secret, deps.Revoker),
		middleware.NewRateLimiter(deps.Config.RateLimit.RPS, deps.Config.RateLimit.Burst),
		deps.Config,
	)
	return r.Setup()
}
