package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
	"github.com/safinah-app/clearance_billing_app/internal/middleware"
)

// settingsHandler handles HTTP requests for company billing settings.
type settingsHandler struct {
	settingsService portssvc.SettingsSvcFacade
}

func newSettingsHandler(ss portssvc.SettingsSvcFacade) *settingsHandler {
	return &settingsHandler{settingsService: ss}
}

// registerSettingsRoutes registers settings routes under a company scope.
func registerSettingsRoutes(rg *gin.RouterGroup, settingsService portssvc.SettingsSvcFacade) {
	h := newSettingsHandler(settingsService)

	settings := rg.Group("/settings")
	{
		settings.GET("", h.getSettings)
		settings.PUT("", h.updateSettings)
	}
}

// getSettings godoc
// @Summary Get company billing settings
// @Description Returns the company's settings, falling back to defaults when none were saved.
// @Tags settings
// @Produce json
// @Param company_id path string true "Company ID"
// @Success 200 {object} dto.SettingsResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/settings [get]
func (h *settingsHandler) getSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	settings, err := h.settingsService.GetSettings(c.Request.Context(), c.Param("company_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get settings")
		return
	}

	c.JSON(http.StatusOK, dto.ToSettingsResponse(settings))
}

// updateSettings godoc
// @Summary Update company billing settings
// @Description Saves the company's settings. Requires admin permission. Sequence state is never writable through this endpoint.
// @Tags settings
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param settings body dto.UpdateSettingsRequest true "Fields to update"
// @Success 200 {object} dto.SettingsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/settings [put]
func (h *settingsHandler) updateSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), c.Param("company_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update settings")
		return
	}

	c.JSON(http.StatusOK, dto.ToSettingsResponse(settings))
}
