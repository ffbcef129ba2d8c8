package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/services"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/middleware"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
)

// UploadController handles multipart uploads and the object storage proxy
type UploadController struct {
	uploadService services.UploadService
}

// NewUploadController creates a new UploadController
func NewUploadController(uploadService services.UploadService) *UploadController {
	return &UploadController{uploadService: uploadService}
}

// Upload stores a file and returns its key
// @Summary Upload file
// @Description Stores the multipart field "file" under the given prefix and returns the key to reference it with
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File"
// @Param prefix formData string false "library, policies, templates, market, news, work-systems or general"
// @Success 201 {object} dto.APIResponse{data=dto.UploadResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing file or unknown prefix"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Router /uploads [post]
func (c *UploadController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrFileRequired)
		return
	}

	resp, err := c.uploadService.Upload(ctx.Request.Context(), fileHeader, ctx.PostForm("prefix"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, resp, "File uploaded")
}

// DeleteUpload removes a stored object
// @Summary Delete uploaded file
// @Tags uploads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{\"key\": \"library/abc.pdf\"}"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /uploads [delete]
func (c *UploadController) DeleteUpload(ctx *gin.Context) {
	var req struct {
		Key string `json:"key" binding:"required"`
	}
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.uploadService.Delete(ctx.Request.Context(), req.Key); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "File deleted")
}

// ServeFile redirects to a short-lived URL of a stored object
// @Summary Download file
// @Description Redirects to a presigned URL. Keys may be given with or without a leading "uploads/".
// @Tags files
// @Security BearerAuth
// @Param key path string true "Object key"
// @Success 302 "Redirect to the object"
// @Failure 400 {object} dto.ErrorResponse "Invalid key"
// @Failure 404 {object} dto.ErrorResponse
// @Router /files/{key} [get]
func (c *UploadController) ServeFile(ctx *gin.Context) {
	url, err := c.uploadService.PresignedURL(ctx.Request.Context(), ctx.Param("key"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Cache-Control", "private, no-store")
	ctx.Redirect(http.StatusFound, url)
}

