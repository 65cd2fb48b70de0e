package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storerating-backend/internal/app/service"
	apperrors "github.com/ikkim/storerating-backend/internal/errors"
	"github.com/ikkim/storerating-backend/internal/middleware"
)

type StoreOwnerController struct {
	storeOwnerService service.StoreOwnerService
}

func NewStoreOwnerController(storeOwnerService service.StoreOwnerService) *StoreOwnerController {
	return &StoreOwnerController{
		storeOwnerService: storeOwnerService,
	}
}

// Dashboard returns the caller's store with its ratings
// GET /api/store-owner/dashboard
func (ctrl *StoreOwnerController) Dashboard(c *gin.Context) {
	ownerID, _ := middleware.GetUserID(c)

	dashboard, err := ctrl.storeOwnerService.Dashboard(ownerID)
	if err != nil {
		apperrors.Respond(c, err, middleware.GetLoggerFromContext(c))
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
