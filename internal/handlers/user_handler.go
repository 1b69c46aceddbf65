package handlers

import (
	"net/http"

	"cleanops_backend/internal/auth"
	"cleanops_backend/internal/middleware"
	"cleanops_backend/internal/services"
	"cleanops_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.POST("/cleaners", middleware.RequireCapability(auth.CapabilityManageUsers), h.CreateCleaner)
		users.GET("/:userId", h.GetUser)
		users.POST("/:userId/activate", middleware.RequireCapability(auth.CapabilityManageUsers), h.Activate)
		users.POST("/:userId/deactivate", middleware.RequireCapability(auth.CapabilityManageUsers), h.Deactivate)
	}
}

func (h *UserHandler) CreateCleaner(c *gin.Context) {
	var req dto.CreateCleanerRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.userService.CreateCleaner(c.Request.Context(), middleware.CompanyID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
		"role":      user.Role,
		"is_active": user.IsActive,
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
		"role":      user.Role,
		"is_active": user.IsActive,
	})
}

func (h *UserHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *UserHandler) setActive(c *gin.Context, active bool) {
	if err := h.userService.SetActive(c.Request.Context(), c.Param("userId"), active); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_active": active})
}
