package service

import (
	apperrors "github.com/ikkim/storerating-backend/internal/errors"
)

// Named domain errors. Each is an *AppError, so callers can match either
// the value itself or its kind with errors.Is.
var (
	ErrEmailAlreadyExists      = apperrors.Conflict(apperrors.AuthEmailAlreadyExists, "email already exists")
	ErrInvalidCredentials      = apperrors.Auth(apperrors.AuthInvalidCredentials, "invalid email or password")
	ErrCurrentPasswordMismatch = apperrors.Auth(apperrors.AuthPasswordMismatch, "current password is incorrect")
	ErrUserNotFound            = apperrors.NotFoundError(apperrors.ResourceNotFound, "user not found")
	ErrStoreNotFound           = apperrors.NotFoundError(apperrors.StoreNotFound, "store not found")
	ErrOwnedStoreNotFound      = apperrors.NotFoundError(apperrors.StoreNotFound, "no store found for this owner")
	ErrStoreOwnerNotFound      = apperrors.Validation(apperrors.StoreOwnerNotFound, "store owner not found")
	ErrOwnerAlreadyHasStore    = apperrors.Conflict(apperrors.StoreAlreadyOwned, "store owner already has a store")
	ErrInvalidRating           = apperrors.Validation(apperrors.RatingInvalidValue, "rating must be between 1 and 5")
	ErrInvalidRole             = apperrors.Validation(apperrors.ValidationInvalidRole, "role must be one of admin, user, store_owner")
)
