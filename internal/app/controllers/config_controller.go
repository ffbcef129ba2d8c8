package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/services"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/middleware"
	"github.com/rs/zerolog"
)

// ConfigController handles key/value system settings
type ConfigController struct {
	settingService services.SettingService
	logger         zerolog.Logger
}

// NewConfigController creates a new ConfigController
func NewConfigController(settingService services.SettingService, logger zerolog.Logger) *ConfigController {
	return &ConfigController{
		settingService: settingService,
		logger:         logger,
	}
}

// ListSettings lists all settings
// @Summary List settings
// @Tags config
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Setting}
// @Router /config [get]
func (c *ConfigController) ListSettings(ctx *gin.Context) {
	settings, err := c.settingService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, settings, "")
}

// GetSetting returns one setting
// @Summary Get setting
// @Tags config
// @Produce json
// @Security BearerAuth
// @Param key path string true "Setting key"
// @Success 200 {object} dto.APIResponse{data=models.Setting}
// @Failure 404 {object} dto.ErrorResponse
// @Router /config/{key} [get]
func (c *ConfigController) GetSetting(ctx *gin.Context) {
	setting, err := c.settingService.Get(ctx.Request.Context(), ctx.Param("key"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, setting, "")
}

// SetSetting creates or replaces a setting
// @Summary Set setting
// @Tags config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Setting key"
// @Param request body dto.SettingRequest true "Value"
// @Success 200 {object} dto.APIResponse{data=models.Setting}
// @Failure 400 {object} dto.ErrorResponse
// @Router /config/{key} [put]
func (c *ConfigController) SetSetting(ctx *gin.Context) {
	var req dto.SettingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	setting, err := c.settingService.Set(ctx.Request.Context(), ctx.Param("key"), req.Value)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("key", setting.Key).Msg("Setting updated")
	respondOK(ctx, setting, "Setting saved")
}

// DeleteSetting removes a setting
// @Summary Delete setting
// @Tags config
// @Produce json
// @Security BearerAuth
// @Param key path string true "Setting key"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /config/{key} [delete]
func (c *ConfigController) DeleteSetting(ctx *gin.Context) {
	if err := c.settingService.Delete(ctx.Request.Context(), ctx.Param("key")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Setting deleted")
}
