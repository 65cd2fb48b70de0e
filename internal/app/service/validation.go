package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/ikkim/storerating-backend/internal/app/model"
	"github.com/ikkim/storerating-backend/internal/app/repository"
	apperrors "github.com/ikkim/storerating-backend/internal/errors"
)

const (
	passwordMinLength = 8
	passwordMaxLength = 16
	passwordSpecials  = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return ValidatePassword(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return model.UserRole(fl.Field().String()).Valid()
	})
	return v
}

// ValidatePassword checks the password policy: 8-16 characters with at
// least one ASCII uppercase letter and one special character.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < passwordMinLength || n > passwordMaxLength {
		return fmt.Errorf("password must be between %d and %d characters", passwordMinLength, passwordMaxLength)
	}

	var hasUpper, hasSpecial bool
	for _, r := range password {
		switch {
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}
	if !hasUpper {
		return errors.New("password must contain at least one uppercase letter")
	}
	if !hasSpecial {
		return errors.New("password must contain at least one special character")
	}
	return nil
}

// validateInput runs struct validation and converts failures into a
// ValidationError carrying one message per field.
func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = fieldMessage(fe)
		}
	}
	return apperrors.ValidationFields("invalid input", fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "password":
		if err := ValidatePassword(fe.Value().(string)); err != nil {
			return err.Error()
		}
		return "is invalid"
	case "role":
		return "must be one of admin, user, store_owner"
	default:
		return "is invalid"
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ListQuery 목록 조회 파라미터 (query string 그대로)
type ListQuery struct {
	Search    string
	Role      string
	SortBy    string
	SortOrder string
}

// listOptions validates sortBy/sortOrder against the allowed columns.
// Empty values default to name ascending.
func (q ListQuery) listOptions(allowed map[string]string) (repository.ListOptions, error) {
	opts := repository.ListOptions{
		Search: strings.TrimSpace(q.Search),
		SortBy: q.SortBy,
		Order:  repository.SortOrder(strings.ToLower(q.SortOrder)),
	}

	if opts.SortBy == "" {
		opts.SortBy = repository.DefaultSortBy
	}
	if _, ok := allowed[opts.SortBy]; !ok {
		return opts, apperrors.Validation(apperrors.ValidationInvalidSort, "invalid sortBy: %s", q.SortBy)
	}

	switch opts.Order {
	case "":
		opts.Order = repository.SortAsc
	case repository.SortAsc, repository.SortDesc:
	default:
		return opts, apperrors.Validation(apperrors.ValidationInvalidSort, "invalid sortOrder: %s", q.SortOrder)
	}
	return opts, nil
}
