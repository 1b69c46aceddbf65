package handlers

import (
	"net/http"

	"cleanops_backend/internal/auth"
	"cleanops_backend/internal/middleware"
	"cleanops_backend/internal/services"
	"cleanops_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	*BaseHandler
	catalogService services.CatalogService
}

func NewCatalogHandler(base *BaseHandler, catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:    base,
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup) {
	locations := r.Group("/locations")
	locations.Use(middleware.AuthMiddleware())
	{
		locations.POST("", middleware.RequireCapability(auth.CapabilityManageCatalog), h.CreateLocation)
		locations.GET("", h.ListLocations)
	}

	templates := r.Group("/checklist-templates")
	templates.Use(middleware.AuthMiddleware())
	{
		templates.POST("", middleware.RequireCapability(auth.CapabilityManageCatalog), h.CreateTemplate)
		templates.GET("/:templateId", h.GetTemplate)
	}
}

func (h *CatalogHandler) CreateLocation(c *gin.Context) {
	var req dto.CreateLocationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	location, err := h.catalogService.CreateLocation(c.Request.Context(), middleware.CompanyID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, location)
}

func (h *CatalogHandler) ListLocations(c *gin.Context) {
	locations, err := h.catalogService.ListLocations(c.Request.Context(), middleware.CompanyID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

func (h *CatalogHandler) CreateTemplate(c *gin.Context) {
	var req dto.CreateTemplateRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	template, err := h.catalogService.CreateTemplate(c.Request.Context(), middleware.CompanyID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, template)
}

func (h *CatalogHandler) GetTemplate(c *gin.Context) {
	template, err := h.catalogService.GetTemplate(c.Request.Context(), c.Param("templateId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}
