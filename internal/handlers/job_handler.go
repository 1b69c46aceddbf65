package handlers

import (
	"net/http"
	"time"

	"cleanops_backend/internal/apperrors"
	"cleanops_backend/internal/auth"
	"cleanops_backend/internal/middleware"
	"cleanops_backend/internal/services"
	"cleanops_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
	slaService services.SlaService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService, slaService services.SlaService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
		slaService:  slaService,
	}
}

func (h *JobHandler) RegisterRoutes(r *gin.RouterGroup) {
	jobs := r.Group("/jobs")
	jobs.Use(middleware.AuthMiddleware())
	{
		jobs.POST("", middleware.RequireCapability(auth.CapabilityCreateJob), h.CreateJob)
		jobs.GET("/:jobId", h.GetJob)
		jobs.GET("/:jobId/sla", h.GetJobSla)
		jobs.POST("/:jobId/check-in", middleware.RequireCapability(auth.CapabilityCheckIn), h.CheckIn)
		jobs.POST("/:jobId/check-out", middleware.RequireCapability(auth.CapabilityCheckOut), h.CheckOut)
		jobs.POST("/:jobId/force-complete", middleware.RequireCapability(auth.CapabilityForceComplete), h.ForceComplete)
		jobs.POST("/:jobId/cancel", middleware.RequireCapability(auth.CapabilityCancelJob), h.Cancel)
	}
}

type createJobRequest struct {
	LocationID          string `json:"location_id" binding:"required"`
	WorkerID            string `json:"worker_id" binding:"required"`
	ScheduledDate       string `json:"scheduled_date" binding:"required"` // "2006-01-02"
	ScheduledStartTime  string `json:"scheduled_start_time" binding:"required"`
	ScheduledEndTime    string `json:"scheduled_end_time" binding:"required"`
	ChecklistTemplateID string `json:"checklist_template_id"`
}

// Coordinates are pointers so that a true zero value (the equator or
// the prime meridian) survives the required check.
type positionRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,latitude"`
	Longitude *float64 `json:"longitude" binding:"required,longitude"`
}

type forceCompleteRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	var req createJobRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	scheduledDate, err := time.Parse("2006-01-02", req.ScheduledDate)
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("scheduled_date must be YYYY-MM-DD"))
		return
	}
	if _, err := time.Parse("15:04", req.ScheduledStartTime); err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("scheduled_start_time must be HH:MM"))
		return
	}
	if _, err := time.Parse("15:04", req.ScheduledEndTime); err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("scheduled_end_time must be HH:MM"))
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), &dto.CreateJobRequest{
		CompanyID:           middleware.CompanyID(c),
		LocationID:          req.LocationID,
		WorkerID:            req.WorkerID,
		ScheduledDate:       scheduledDate,
		ScheduledStartTime:  req.ScheduledStartTime,
		ScheduledEndTime:    req.ScheduledEndTime,
		ChecklistTemplateID: req.ChecklistTemplateID,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"job": job})
}

func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.jobService.GetJob(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *JobHandler) GetJobSla(c *gin.Context) {
	result, err := h.slaService.EvaluateJob(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *JobHandler) CheckIn(c *gin.Context) {
	var req positionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	result, err := h.jobService.CheckIn(c.Request.Context(), c.Param("jobId"), middleware.ActorID(c), *req.Latitude, *req.Longitude)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *JobHandler) CheckOut(c *gin.Context) {
	var req positionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	result, err := h.jobService.CheckOut(c.Request.Context(), c.Param("jobId"), middleware.ActorID(c), *req.Latitude, *req.Longitude)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *JobHandler) ForceComplete(c *gin.Context) {
	var req forceCompleteRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	result, err := h.jobService.ForceComplete(c.Request.Context(), c.Param("jobId"), middleware.ActorID(c), req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *JobHandler) Cancel(c *gin.Context) {
	result, err := h.jobService.Cancel(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
