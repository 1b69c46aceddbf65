package routes

import (
	"net/http"

	"cleanops_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts all HTTP routes under /api/v1.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.CatalogHandler.RegisterRoutes(api)
		appHandlers.JobHandler.RegisterRoutes(api)
		appHandlers.ProofHandler.RegisterRoutes(api)
		appHandlers.BillingHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
	}
}
