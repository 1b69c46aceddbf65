package handlers

import (
	"net/http"

	"cleanops_backend/internal/auth"
	"cleanops_backend/internal/middleware"
	"cleanops_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	*BaseHandler
	billingService services.BillingService
	trialDays      int
}

func NewBillingHandler(base *BaseHandler, billingService services.BillingService, trialDays int) *BillingHandler {
	return &BillingHandler{
		BaseHandler:    base,
		billingService: billingService,
		trialDays:      trialDays,
	}
}

func (h *BillingHandler) RegisterRoutes(r *gin.RouterGroup) {
	billing := r.Group("/billing")
	billing.Use(middleware.AuthMiddleware())
	{
		billing.POST("/trial", middleware.RequireCapability(auth.CapabilityManageBilling), h.StartTrial)
		billing.POST("/upgrade", middleware.RequireCapability(auth.CapabilityManageBilling), h.Upgrade)
		billing.GET("/limits", h.Limits)
	}
}

func (h *BillingHandler) StartTrial(c *gin.Context) {
	company, err := h.billingService.StartTrial(c.Request.Context(), middleware.CompanyID(c), h.trialDays)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plan":             company.Plan,
		"trial_started_at": company.TrialStartedAt,
		"trial_expires_at": company.TrialExpiresAt,
	})
}

func (h *BillingHandler) Upgrade(c *gin.Context) {
	company, err := h.billingService.UpgradeToActive(c.Request.Context(), middleware.CompanyID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": company.Plan})
}

// Limits reports whether the company can still add cleaners or create
// jobs under its current plan.
func (h *BillingHandler) Limits(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := middleware.CompanyID(c)

	canAddCleaner, err := h.billingService.CanAddCleaner(ctx, companyID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	canCreateJob, err := h.billingService.CanCreateJob(ctx, companyID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"can_add_cleaner": canAddCleaner,
		"can_create_job":  canCreateJob,
	})
}
