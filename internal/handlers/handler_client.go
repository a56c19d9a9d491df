package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
	"github.com/safinah-app/clearance_billing_app/internal/middleware"
)

// clientHandler handles HTTP requests for a company's clients.
type clientHandler struct {
	clientService portssvc.ClientSvcFacade
}

func newClientHandler(cs portssvc.ClientSvcFacade) *clientHandler {
	return &clientHandler{clientService: cs}
}

// registerClientRoutes registers client routes under a company scope.
func registerClientRoutes(rg *gin.RouterGroup, clientService portssvc.ClientSvcFacade) {
	h := newClientHandler(clientService)

	clients := rg.Group("/clients")
	{
		clients.POST("", h.createClient)
		clients.GET("", h.listClients)
		clients.GET("/:client_id", h.getClient)
		clients.PUT("/:client_id", h.updateClient)
		clients.DELETE("/:client_id", h.deleteClient)
	}
}

// createClient godoc
// @Summary Create a new client
// @Tags clients
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param client body dto.CreateClientRequest true "Client details"
// @Success 201 {object} dto.ClientResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/clients [post]
func (h *clientHandler) createClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), companyID, req, creatorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create client")
		return
	}

	c.JSON(http.StatusCreated, dto.ToClientResponse(client))
}

// listClients godoc
// @Summary List the company's clients
// @Tags clients
// @Produce json
// @Param company_id path string true "Company ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListClientsResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/clients [get]
func (h *clientHandler) listClients(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.ListClientsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.clientService.ListClients(c.Request.Context(), companyID, userID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list clients")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getClient godoc
// @Summary Get a client by ID
// @Tags clients
// @Produce json
// @Param company_id path string true "Company ID"
// @Param client_id path string true "Client ID"
// @Success 200 {object} dto.ClientResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/clients/{client_id} [get]
func (h *clientHandler) getClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	client, err := h.clientService.GetClientByID(c.Request.Context(), c.Param("company_id"), c.Param("client_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get client")
		return
	}

	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// updateClient godoc
// @Summary Update a client
// @Tags clients
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param client_id path string true "Client ID"
// @Param client body dto.UpdateClientRequest true "Fields to update"
// @Success 200 {object} dto.ClientResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/clients/{client_id} [put]
func (h *clientHandler) updateClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), c.Param("company_id"), c.Param("client_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update client")
		return
	}

	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// deleteClient godoc
// @Summary Delete a client
// @Description Soft deletes a client. Requires admin permission.
// @Tags clients
// @Produce json
// @Param company_id path string true "Company ID"
// @Param client_id path string true "Client ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/clients/{client_id} [delete]
func (h *clientHandler) deleteClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), c.Param("company_id"), c.Param("client_id"), userID); err != nil {
		respondWithError(c, logger, err, "Failed to delete client")
		return
	}

	c.Status(http.StatusNoContent)
}
