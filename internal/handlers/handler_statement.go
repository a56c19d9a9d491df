package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
	"github.com/safinah-app/clearance_billing_app/internal/middleware"
)

// statementHandler handles HTTP requests for statements of account.
type statementHandler struct {
	statementService portssvc.StatementSvcFacade
}

func newStatementHandler(ss portssvc.StatementSvcFacade) *statementHandler {
	return &statementHandler{statementService: ss}
}

// registerStatementRoutes registers statement routes under a company scope.
func registerStatementRoutes(rg *gin.RouterGroup, statementService portssvc.StatementSvcFacade) {
	h := newStatementHandler(statementService)

	statements := rg.Group("/statements")
	{
		statements.POST("", h.generateStatement)
		statements.GET("", h.listStatements)
		statements.GET("/:statement_id", h.getStatement)
	}
}

// generateStatement godoc
// @Summary Generate a statement of account
// @Description Builds and persists a statement from the client's non-cancelled invoices issued inside the period.
// @Tags statements
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param statement body dto.CreateStatementRequest true "Client and period"
// @Success 201 {object} dto.GetStatementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/statements [post]
func (h *statementHandler) generateStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	statement, entries, err := h.statementService.GenerateStatement(c.Request.Context(), c.Param("company_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate statement")
		return
	}

	c.JSON(http.StatusCreated, dto.ToGetStatementResponse(statement, entries))
}

// listStatements godoc
// @Summary List a client's statements
// @Tags statements
// @Produce json
// @Param company_id path string true "Company ID"
// @Param clientID query string true "Client ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListStatementsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/statements [get]
func (h *statementHandler) listStatements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListStatementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.statementService.ListStatements(c.Request.Context(), c.Param("company_id"), userID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list statements")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getStatement godoc
// @Summary Get a statement with its entries
// @Tags statements
// @Produce json
// @Param company_id path string true "Company ID"
// @Param statement_id path string true "Statement ID"
// @Success 200 {object} dto.GetStatementResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/statements/{statement_id} [get]
func (h *statementHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	statement, entries, err := h.statementService.GetStatementByID(c.Request.Context(), c.Param("company_id"), c.Param("statement_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get statement")
		return
	}

	c.JSON(http.StatusOK, dto.ToGetStatementResponse(statement, entries))
}
