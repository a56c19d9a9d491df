package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
	"github.com/safinah-app/clearance_billing_app/internal/middleware"
)

// apiTokenHandler handles HTTP requests for API token operations.
type apiTokenHandler struct {
	tokenSvc portssvc.APITokenSvc
}

func newAPITokenHandler(tokenSvc portssvc.APITokenSvc) *apiTokenHandler {
	return &apiTokenHandler{tokenSvc: tokenSvc}
}

// registerAPITokenRoutes registers the API token routes.
func registerAPITokenRoutes(rg *gin.RouterGroup, tokenSvc portssvc.APITokenSvc) {
	h := newAPITokenHandler(tokenSvc)

	tokens := rg.Group("/tokens")
	{
		tokens.POST("", h.createToken)
		tokens.GET("", h.listTokens)
		tokens.DELETE("/:id", h.revokeToken)
	}
}

// createToken godoc
// @Summary Create a new API token
// @Description Creates an API token for the authenticated user. The token value is shown only once, at creation. Pass it in the x-api-key header to authenticate programmatic requests.
// @Tags tokens
// @Accept json
// @Produce json
// @Param request body dto.CreateAPITokenRequest true "Token creation details"
// @Success 201 {object} dto.CreateAPITokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /tokens [post]
func (h *apiTokenHandler) createToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateAPITokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	var expiresIn *time.Duration
	if req.ExpiresIn != nil {
		d := time.Duration(*req.ExpiresIn) * time.Second
		expiresIn = &d
	}

	tokenStr, token, err := h.tokenSvc.CreateToken(c.Request.Context(), userID, req.Name, expiresIn)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create token")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCreateAPITokenResponse(tokenStr, *token))
}

// listTokens godoc
// @Summary List the user's API tokens
// @Description Returns token metadata only, never the token values.
// @Tags tokens
// @Produce json
// @Success 200 {array} dto.APITokenResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /tokens [get]
func (h *apiTokenHandler) listTokens(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	tokens, err := h.tokenSvc.ListTokens(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list tokens")
		return
	}

	c.JSON(http.StatusOK, dto.ToAPITokenResponseList(tokens))
}

// revokeToken godoc
// @Summary Revoke an API token
// @Description Revokes a token by ID. Only the owner can revoke their tokens.
// @Tags tokens
// @Produce json
// @Param id path string true "Token ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tokens/{id} [delete]
func (h *apiTokenHandler) revokeToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	tokenID := c.Param("id")
	if _, err := uuid.Parse(tokenID); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid token ID"})
		return
	}

	if err := h.tokenSvc.RevokeToken(c.Request.Context(), userID, tokenID); err != nil {
		respondWithError(c, logger, err, "Failed to revoke token")
		return
	}

	c.Status(http.StatusNoContent)
}
