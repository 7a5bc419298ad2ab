package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	request "assistec/internal/adapter/http/dto/request"
	"assistec/internal/domain/entities"
	"assistec/internal/usecase"
	"assistec/pkg"
)

type SettingsHandler struct {
	usecase usecase.ISettingsUseCase
}

func NewSettingsHandler(uc usecase.ISettingsUseCase) *SettingsHandler {
	return &SettingsHandler{usecase: uc}
}

// GetNotificationSettings godoc
// @Summary  Message templates and business data
// @Tags     settings
// @Produce  json
// @Success  200 {object} entities.NotificationSettings
// @Security Bearer
// @Router   /admin/settings/notifications [get]
func (h *SettingsHandler) GetNotificationSettings(c *gin.Context) {
	s, err := h.usecase.GetNotificationSettings(c.Request.Context())
	if err != nil {
		writeError(c, mapOrderError(err))
		return
	}
	c.JSON(http.StatusOK, s)
}

// UpdateNotificationSettings godoc
// @Summary  Replace message templates and business data
// @Tags     settings
// @Accept   json
// @Produce  json
// @Param    body body request.UpdateSettingsRequest true "Settings"
// @Success  200 {object} entities.NotificationSettings
// @Failure  400 {object} pkg.HTTPError
// @Security Bearer
// @Router   /admin/settings/notifications [put]
func (h *SettingsHandler) UpdateNotificationSettings(c *gin.Context) {
	var payload request.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	templates := make(map[entities.TemplateKey]string, len(payload.Templates))
	for k, v := range payload.Templates {
		templates[entities.TemplateKey(k)] = v
	}
	s, err := h.usecase.UpdateNotificationSettings(c.Request.Context(), usecase.UpdateSettingsInput{
		Templates:       templates,
		BusinessName:    payload.BusinessName,
		BusinessAddress: payload.BusinessAddress,
		BusinessHours:   payload.BusinessHours,
		StaffWhatsApp:   payload.StaffWhatsApp,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidSettings) {
			writeError(c, pkg.NewDomainError("INVALID_SETTINGS", "Invalid notification settings", err, http.StatusBadRequest))
			return
		}
		writeError(c, mapOrderError(err))
		return
	}
	c.JSON(http.StatusOK, s)
}
