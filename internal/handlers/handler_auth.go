package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/safinah-app/clearance_billing_app/internal/apperrors"
	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
	"github.com/safinah-app/clearance_billing_app/internal/middleware"
	"github.com/safinah-app/clearance_billing_app/internal/platform/config"
	"github.com/safinah-app/clearance_billing_app/internal/utils"
)

// authHandler handles registration, login, token refresh, and logout.
type authHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	cfg          *config.Config
}

func newAuthHandler(us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade, cfg *config.Config) *authHandler {
	return &authHandler{
		userService:  us,
		tokenService: ts,
		cfg:          cfg,
	}
}

// registerAuthRoutes sets up the public authentication routes with a
// per-IP rate limit.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := newAuthHandler(services.User, services.Token, cfg)

	rate, err := limiter.NewRateFromFormatted(cfg.AuthRateLimit)
	if err != nil {
		rate, _ = limiter.NewRateFromFormatted("5-M")
	}
	ipLimiter := limiter.New(memory.NewStore(), rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", limitMiddleware, h.Login)
		auth.POST("/refresh", limitMiddleware, h.Refresh)
		auth.POST("/logout", h.Logout)
	}
}

// setRefreshTokenCookie stores the refresh token in an HTTP-only cookie
// scoped to the auth endpoints. The user ID is carried inside the cookie
// value so the refresh endpoint can look up the stored hash.
func (h *authHandler) setRefreshTokenCookie(c *gin.Context, userID, refreshToken string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		h.cfg.RefreshTokenCookieName,
		userID+":"+refreshToken,
		maxAge,
		h.cfg.RefreshTokenCookiePath,
		"",
		h.cfg.IsProduction,
		true,
	)
}

func (h *authHandler) readRefreshTokenCookie(c *gin.Context) (userID, refreshToken string, ok bool) {
	cookie, err := c.Cookie(h.cfg.RefreshTokenCookieName)
	if err != nil {
		return "", "", false
	}
	parts := strings.SplitN(cookie, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// issueTokens generates the access and refresh token pair for a user and
// persists the refresh token hash.
func (h *authHandler) issueTokens(c *gin.Context, userID string) (string, error) {
	ctx := c.Request.Context()

	domainUser, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}

	accessToken, _, err := h.tokenService.GenerateAccessToken(ctx, domainUser)
	if err != nil {
		return "", err
	}

	refreshToken, refreshExpiry, err := h.tokenService.GenerateRefreshToken(ctx, domainUser)
	if err != nil {
		return "", err
	}
	if err := h.userService.UpdateRefreshTokenDetails(ctx, userID, utils.HashRefreshToken(refreshToken), refreshExpiry); err != nil {
		return "", err
	}

	h.setRefreshTokenCookie(c, userID, refreshToken, int(h.cfg.RefreshTokenExpiryDuration.Seconds()))
	return accessToken, nil
}

// Register godoc
// @Summary Register new user
// @Description Creates a new local user account.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterUserRequest true "User registration info"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) Register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	newUser, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Email already registered"})
			return
		}
		respondWithError(c, logger, err, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(newUser))
}

// Login godoc
// @Summary User login
// @Description Authenticates a user, returns a JWT, and sets the refresh token cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
		return
	}

	accessToken, err := h.issueTokens(c, user.UserID)
	if err != nil {
		logger.Error("Failed to issue tokens on login", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: accessToken, User: dto.ToUserResponse(user)})
}

// Refresh godoc
// @Summary Refresh access token
// @Description Exchanges the refresh token cookie for a new JWT, rotating the refresh token.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *authHandler) Refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, refreshToken, ok := h.readRefreshTokenCookie(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Missing refresh token"})
		return
	}

	user, err := h.tokenService.ValidateAndParseRefreshToken(c.Request.Context(), userID, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrRefreshTokenExpired) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Refresh token expired"})
			return
		}
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid refresh token"})
		return
	}

	accessToken, err := h.issueTokens(c, user.UserID)
	if err != nil {
		logger.Error("Failed to issue tokens on refresh", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.RefreshTokenResponse{Token: accessToken})
}

// Logout godoc
// @Summary User logout
// @Description Clears the stored refresh token and expires the cookie.
// @Tags auth
// @Produce json
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *authHandler) Logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if userID, _, ok := h.readRefreshTokenCookie(c); ok {
		if err := h.userService.ClearRefreshToken(c.Request.Context(), userID); err != nil {
			// Cookie is cleared regardless; a stale hash denies refresh anyway.
			logger.Warn("Failed to clear stored refresh token", slog.String("error", err.Error()), slog.String("user_id", userID))
		}
	}

	h.setRefreshTokenCookie(c, "", "", -1)
	c.Status(http.StatusNoContent)
}
