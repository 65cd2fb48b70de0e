package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/storerating-backend/internal/app/model"
	"github.com/ikkim/storerating-backend/internal/app/repository"
	"github.com/ikkim/storerating-backend/pkg/logger"
	"github.com/ikkim/storerating-backend/pkg/util"
	"gorm.io/gorm"
)

// DashboardSummary 관리자 대시보드 집계
type DashboardSummary struct {
	UserCount   int64 `json:"userCount"`
	StoreCount  int64 `json:"storeCount"`
	RatingCount int64 `json:"ratingCount"`
}

// CreateUserInput 관리자 사용자 생성 입력
type CreateUserInput struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Address  string `json:"address" validate:"required,min=1,max=400"`
	Role     string `json:"role" validate:"required,role"`
}

func (in *CreateUserInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	in.Role = strings.TrimSpace(in.Role)
}

// CreateStoreInput 관리자 매장 생성 입력
type CreateStoreInput struct {
	Name       string `json:"name" validate:"required,min=20,max=60"`
	Email      string `json:"email" validate:"required,email"`
	Address    string `json:"address" validate:"required,min=1,max=400"`
	OwnerEmail string `json:"ownerEmail" validate:"required,email"`
}

func (in *CreateStoreInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	in.OwnerEmail = normalizeEmail(in.OwnerEmail)
}

type AdminService interface {
	DashboardSummary() (*DashboardSummary, error)
	CreateUser(input CreateUserInput) (*model.User, error)
	CreateStore(input CreateStoreInput) (*model.Store, error)
	ListUsers(query ListQuery) ([]model.User, error)
	ListStores(query ListQuery) ([]model.StoreWithStats, error)
}

type adminService struct {
	userRepo   repository.UserRepository
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
	hasher     *util.PasswordHasher
}

func NewAdminService(
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	ratingRepo repository.RatingRepository,
	hasher *util.PasswordHasher,
) AdminService {
	return &adminService{
		userRepo:   userRepo,
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
		hasher:     hasher,
	}
}

func (s *adminService) DashboardSummary() (*DashboardSummary, error) {
	users, err := s.userRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	stores, err := s.storeRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count stores: %w", err)
	}
	ratings, err := s.ratingRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}

	return &DashboardSummary{
		UserCount:   users,
		StoreCount:  stores,
		RatingCount: ratings,
	}, nil
}

func (s *adminService) CreateUser(input CreateUserInput) (*model.User, error) {
	input.normalize()

	logger.Info("Admin creating user", map[string]interface{}{
		"email": input.Email,
		"role":  input.Role,
	})

	if err := validateInput(&input); err != nil {
		return nil, err
	}

	user, err := createUser(s.userRepo, s.hasher, input.Name, input.Email, input.Password, input.Address, model.UserRole(input.Role))
	if err != nil {
		return nil, err
	}

	logger.Info("User created by admin", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, nil
}

func (s *adminService) CreateStore(input CreateStoreInput) (*model.Store, error) {
	input.normalize()

	logger.Info("Admin creating store", map[string]interface{}{
		"name":        input.Name,
		"owner_email": input.OwnerEmail,
	})

	if err := validateInput(&input); err != nil {
		return nil, err
	}

	owner, err := s.userRepo.FindByEmail(input.OwnerEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreOwnerNotFound
		}
		return nil, fmt.Errorf("failed to find store owner: %w", err)
	}
	if owner.Role != model.RoleStoreOwner {
		logger.Warn("Store creation failed: user is not a store owner", map[string]interface{}{
			"owner_id": owner.ID,
			"role":     owner.Role,
		})
		return nil, ErrStoreOwnerNotFound
	}

	_, err = s.storeRepo.FindByOwnerID(owner.ID)
	if err == nil {
		return nil, ErrOwnerAlreadyHasStore
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check owner store: %w", err)
	}

	store := &model.Store{
		Name:    input.Name,
		Email:   input.Email,
		Address: input.Address,
		OwnerID: owner.ID,
	}
	if err := s.storeRepo.Create(store); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrOwnerAlreadyHasStore
		}
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	logger.Info("Store created by admin", map[string]interface{}{
		"store_id": store.ID,
		"owner_id": owner.ID,
	})
	return store, nil
}

func (s *adminService) ListUsers(query ListQuery) ([]model.User, error) {
	opts, err := query.listOptions(repository.UserSortColumns)
	if err != nil {
		return nil, err
	}

	if role := strings.TrimSpace(query.Role); role != "" {
		opts.Role = model.UserRole(role)
		if !opts.Role.Valid() {
			return nil, ErrInvalidRole
		}
	}

	users, err := s.userRepo.List(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *adminService) ListStores(query ListQuery) ([]model.StoreWithStats, error) {
	opts, err := query.listOptions(repository.StoreSortColumns)
	if err != nil {
		return nil, err
	}

	stores, err := s.storeRepo.ListWithStats(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}
