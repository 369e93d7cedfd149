package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/hotelpos-api/internal/application/service"
	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles settings-related HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
	uploadMaxSize   int64
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService, uploadMaxSize int64) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, uploadMaxSize: uploadMaxSize}
}

// GetSettings returns the business settings. PRA credentials are only
// shown to admins.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context(), IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateSettings replaces the settings document
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req entity.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}

// UploadLogo stores a receipt logo from form field "logo"
func (h *SettingsHandler) UploadLogo(c *gin.Context) {
	data, ok := readUpload(c, "logo", h.uploadMaxSize)
	if !ok {
		return
	}

	settings, err := h.settingsService.UploadLogo(c.Request.Context(), data)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Logo uploaded successfully", settings)
}
