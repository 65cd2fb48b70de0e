package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storerating-backend/pkg/logger"
)

// ErrorResponse 표준 에러 응답 구조
type ErrorResponse struct {
	Error   string            `json:"error"`            // 에러 코드
	Message string            `json:"message"`          // 사용자에게 보여질 메시지
	Fields  map[string]string `json:"fields,omitempty"` // 필드별 검증 메시지
}

const genericInternalMessage = "Something went wrong! Please try again later"

// RespondWithError 에러 응답 헬퍼
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Respond translates a service error into its fixed status code.
// Internal errors are logged and never exposed to the caller.
func Respond(c *gin.Context, err error, log *logger.Logger) {
	var appErr *AppError
	if stderrors.As(err, &appErr) && !IsInternal(appErr) {
		c.JSON(StatusOf(appErr), ErrorResponse{
			Error:   appErr.Code,
			Message: appErr.Message,
			Fields:  appErr.Fields,
		})
		return
	}

	if log == nil {
		log = logger.Get()
	}
	log.Error("Unhandled internal error", err, map[string]interface{}{
		"path": c.Request.URL.Path,
	})
	InternalError(c, "")
}

// 자주 사용하는 에러 응답 단축 함수들

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = genericInternalMessage
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}
