package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
	"github.com/safinah-app/clearance_billing_app/internal/middleware"
)

// googleOAuthHandler handles the Google OAuth code exchange flow. The
// frontend obtains the authorization code and posts it here.
type googleOAuthHandler struct {
	oauthService portssvc.GoogleOAuthHandlerSvcFacade
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
}

func newGoogleOAuthHandler(os portssvc.GoogleOAuthHandlerSvcFacade, us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade) *googleOAuthHandler {
	return &googleOAuthHandler{
		oauthService: os,
		userService:  us,
		tokenService: ts,
	}
}

// registerGoogleOAuthRoutes registers the Google OAuth routes.
func registerGoogleOAuthRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	h := newGoogleOAuthHandler(services.OAuth, services.User, services.Token)
	googleRoutes := r.Group("/api/v1/auth/google")
	{
		googleRoutes.POST("/exchange-code", h.ExchangeCode)
	}
}

// ExchangeCodeRequest is the JSON body for the exchange-code endpoint.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ExchangeCodeResponse is the successful response for the exchange-code endpoint.
type ExchangeCodeResponse struct {
	Token string `json:"token"`
}

// ExchangeCode godoc
// @Summary Exchange Google authorization code for an access token
// @Description Exchanges the OAuth authorization code for Google tokens, validates the ID token, creates or retrieves the user, and returns an application JWT.
// @Tags oauth
// @Accept json
// @Produce json
// @Param code body ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} ExchangeCodeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/exchange-code [post]
func (h *googleOAuthHandler) ExchangeCode(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	oauth2Token, err := h.oauthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		if strings.Contains(strings.ToLower(err.Error()), "invalid_grant") {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or expired authorization code"})
			return
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to communicate with Google"})
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.Error("ID token missing from Google token response")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve ID token from Google"})
		return
	}

	payload, err := h.oauthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		logger.Error("Google ID token validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Google ID token"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	emailVerified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || payload.Subject == "" {
		logger.Error("Essential claims missing from Google ID token payload")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Essential user information missing from Google token"})
		return
	}

	user, err := h.userService.GetOrCreateGoogleUser(ctx, &domain.GoogleUserInfo{
		ID:            payload.Subject,
		Email:         email,
		VerifiedEmail: emailVerified,
		Name:          name,
	})
	if err != nil {
		respondWithError(c, logger, err, "Failed to process Google login")
		return
	}

	accessToken, _, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, ExchangeCodeResponse{Token: accessToken})
}
