package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safinah-app/clearance_billing_app/internal/apperrors"
)

// ErrorResponse is the generic error body for all handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondWithError maps service errors onto HTTP status codes and writes the
// response. Unrecognized errors are logged and reported as 500 with the
// fallback message so internals never leak to clients.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Resource not found"})
	case errors.Is(err, apperrors.ErrImmutableInvoice):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			logger.Error(fallbackMsg, slog.String("error", err.Error()))
			c.JSON(appErr.Code, ErrorResponse{Error: fallbackMsg})
			return
		}
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallbackMsg})
	}
}
