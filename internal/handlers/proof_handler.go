package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"cleanops_backend/internal/apperrors"
	"cleanops_backend/internal/auth"
	"cleanops_backend/internal/middleware"
	"cleanops_backend/internal/models"
	"cleanops_backend/internal/services"
	"cleanops_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProofHandler struct {
	*BaseHandler
	proofService services.ProofService
	maxPhotoSize int64
	allowedTypes []string
}

func NewProofHandler(base *BaseHandler, proofService services.ProofService, maxPhotoSize int64, allowedTypes []string) *ProofHandler {
	return &ProofHandler{
		BaseHandler:  base,
		proofService: proofService,
		maxPhotoSize: maxPhotoSize,
		allowedTypes: allowedTypes,
	}
}

func (h *ProofHandler) RegisterRoutes(r *gin.RouterGroup) {
	jobs := r.Group("/jobs/:jobId")
	jobs.Use(middleware.AuthMiddleware())
	{
		jobs.POST("/photos", middleware.RequireCapability(auth.CapabilityManagePhotos), h.UploadPhoto)
		jobs.DELETE("/photos/:photoType", middleware.RequireCapability(auth.CapabilityManagePhotos), h.DeletePhoto)
		jobs.PATCH("/checklist/:itemId", middleware.RequireCapability(auth.CapabilityManageChecklist), h.ToggleChecklistItem)
		jobs.PUT("/checklist", middleware.RequireCapability(auth.CapabilityManageChecklist), h.BulkUpdateChecklist)
	}
}

type toggleItemRequest struct {
	Completed *bool `json:"is_completed" binding:"required"`
}

type bulkUpdateRequest struct {
	Items []dto.BulkUpdateItem `json:"items" binding:"required,min=1,dive"`
}

// UploadPhoto accepts a multipart form with the photo file plus
// metadata fields (type, optional EXIF coordinates and capture time).
func (h *ProofHandler) UploadPhoto(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxPhotoSize); err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("failed to parse form: "+err.Error()))
		return
	}

	photoType := models.PhotoType(c.PostForm("type"))
	if photoType != models.PhotoTypeBefore && photoType != models.PhotoTypeAfter {
		h.HandleServiceError(c, apperrors.NewBadRequestError("type must be before or after"))
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("no photo provided"))
		return
	}
	if fileHeader.Size > h.maxPhotoSize {
		h.HandleServiceError(c, apperrors.NewBadRequestError("photo exceeds the size limit"))
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !h.mimeAllowed(mimeType) {
		h.HandleServiceError(c, apperrors.NewBadRequestError("unsupported photo type: "+mimeType))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}

	req := &dto.UploadPhotoRequest{
		JobID:    c.Param("jobId"),
		ActorID:  middleware.ActorID(c),
		Type:     photoType,
		Data:     data,
		MimeType: mimeType,
	}

	if req.ExifLatitude, err = parseFormFloat(c, "exif_latitude"); err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("exif_latitude must be a number"))
		return
	}
	if req.ExifLongitude, err = parseFormFloat(c, "exif_longitude"); err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("exif_longitude must be a number"))
		return
	}
	if raw := c.PostForm("exif_captured_at"); raw != "" {
		capturedAt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.HandleServiceError(c, apperrors.NewBadRequestError("exif_captured_at must be RFC3339"))
			return
		}
		req.ExifCapturedAt = &capturedAt
	}

	result, err := h.proofService.UploadPhoto(c.Request.Context(), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *ProofHandler) DeletePhoto(c *gin.Context) {
	photoType := models.PhotoType(c.Param("photoType"))
	if photoType != models.PhotoTypeBefore && photoType != models.PhotoTypeAfter {
		h.HandleServiceError(c, apperrors.NewBadRequestError("photo type must be before or after"))
		return
	}

	if err := h.proofService.DeletePhoto(c.Request.Context(), c.Param("jobId"), photoType); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProofHandler) ToggleChecklistItem(c *gin.Context) {
	var req toggleItemRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	result, err := h.proofService.ToggleChecklistItem(c.Request.Context(), c.Param("jobId"), c.Param("itemId"), *req.Completed)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ProofHandler) BulkUpdateChecklist(c *gin.Context) {
	var req bulkUpdateRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	result, err := h.proofService.BulkUpdateChecklist(c.Request.Context(), c.Param("jobId"), req.Items)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ProofHandler) mimeAllowed(mimeType string) bool {
	for _, allowed := range h.allowedTypes {
		if mimeType == allowed {
			return true
		}
	}
	return false
}

func parseFormFloat(c *gin.Context, field string) (*float64, error) {
	raw := c.PostForm(field)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
