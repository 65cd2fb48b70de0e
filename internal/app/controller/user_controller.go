package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storerating-backend/internal/app/service"
	apperrors "github.com/ikkim/storerating-backend/internal/errors"
	"github.com/ikkim/storerating-backend/internal/metrics"
	"github.com/ikkim/storerating-backend/internal/middleware"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// BrowseStores GET /api/user/stores?search=&sortBy=&sortOrder=
func (ctrl *UserController) BrowseStores(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	stores, err := ctrl.userService.BrowseStores(userID, listQueryFrom(c))
	if err != nil {
		apperrors.Respond(c, err, middleware.GetLoggerFromContext(c))
		return
	}
	c.JSON(http.StatusOK, stores)
}

// SubmitRating creates or overwrites the caller's rating of a store
// POST /api/user/ratings
func (ctrl *UserController) SubmitRating(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req service.SubmitRatingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid rating request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "storeId and an integer rating are required")
		return
	}

	rating, created, err := ctrl.userService.SubmitRating(c.Request.Context(), userID, req)
	if err != nil {
		apperrors.Respond(c, err, log)
		return
	}
	metrics.RecordRatingSubmitted(created)

	status, message := http.StatusOK, "Rating updated successfully"
	if created {
		status, message = http.StatusCreated, "Rating submitted successfully"
	}
	c.JSON(status, gin.H{
		"message": message,
		"created": created,
		"rating":  rating,
	})
}
