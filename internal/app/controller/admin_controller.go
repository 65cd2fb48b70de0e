package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storerating-backend/internal/app/service"
	apperrors "github.com/ikkim/storerating-backend/internal/errors"
	"github.com/ikkim/storerating-backend/internal/middleware"
)

type AdminController struct {
	adminService service.AdminService
}

func NewAdminController(adminService service.AdminService) *AdminController {
	return &AdminController{
		adminService: adminService,
	}
}

// Dashboard returns user, store and rating counts
// GET /api/admin/dashboard
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	summary, err := ctrl.adminService.DashboardSummary()
	if err != nil {
		apperrors.Respond(c, err, middleware.GetLoggerFromContext(c))
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CreateUser provisions an account with any role
// POST /api/admin/users
func (ctrl *AdminController) CreateUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	user, err := ctrl.adminService.CreateUser(req)
	if err != nil {
		apperrors.Respond(c, err, log)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    user,
	})
}

// CreateStore registers a store for an existing store owner
// POST /api/admin/stores
func (ctrl *AdminController) CreateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.CreateStoreInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	store, err := ctrl.adminService.CreateStore(req)
	if err != nil {
		apperrors.Respond(c, err, log)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Store created successfully",
		"store":   store,
	})
}

// ListUsers GET /api/admin/users?search=&role=&sortBy=&sortOrder=
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	users, err := ctrl.adminService.ListUsers(listQueryFrom(c))
	if err != nil {
		apperrors.Respond(c, err, middleware.GetLoggerFromContext(c))
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListStores GET /api/admin/stores?search=&sortBy=&sortOrder=
func (ctrl *AdminController) ListStores(c *gin.Context) {
	stores, err := ctrl.adminService.ListStores(listQueryFrom(c))
	if err != nil {
		apperrors.Respond(c, err, middleware.GetLoggerFromContext(c))
		return
	}
	c.JSON(http.StatusOK, stores)
}

func listQueryFrom(c *gin.Context) service.ListQuery {
	return service.ListQuery{
		Search:    c.Query("search"),
		Role:      c.Query("role"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
}
