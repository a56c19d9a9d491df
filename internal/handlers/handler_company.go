package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
	"github.com/safinah-app/clearance_billing_app/internal/middleware"
)

// companyHandler handles HTTP requests related to companies and membership.
type companyHandler struct {
	companyService portssvc.CompanySvcFacade
}

func newCompanyHandler(cs portssvc.CompanySvcFacade) *companyHandler {
	return &companyHandler{companyService: cs}
}

// registerCompanyRoutes registers company routes and nests the per-company
// resources (clients, invoices, statements, settings) under a company scope.
func registerCompanyRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newCompanyHandler(services.Company)

	companies := rg.Group("/companies")
	{
		companies.POST("", h.createCompany)
		companies.GET("", h.listUserCompanies)
	}

	companyScoped := rg.Group("/companies/:company_id")
	{
		companyScoped.GET("", h.getCompany)

		companyUsers := companyScoped.Group("/users")
		{
			companyUsers.POST("", h.addUserToCompany)
		}

		registerClientRoutes(companyScoped, services.Client)
		registerInvoiceRoutes(companyScoped, services.Invoice)
		registerStatementRoutes(companyScoped, services.Statement)
		registerSettingsRoutes(companyScoped, services.Settings)
	}
}

// createCompany godoc
// @Summary Create a new company
// @Description Creates a new company and assigns the creator as admin.
// @Tags companies
// @Accept json
// @Produce json
// @Param company body dto.CreateCompanyRequest true "Company details"
// @Success 201 {object} dto.CompanyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies [post]
func (h *companyHandler) createCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), req.Name, req.Description, req.DefaultCurrencyCode, creatorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create company")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCompanyResponse(company))
}

// listUserCompanies godoc
// @Summary List companies for the current user
// @Tags companies
// @Produce json
// @Success 200 {object} dto.ListCompaniesResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies [get]
func (h *companyHandler) listUserCompanies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	companies, err := h.companyService.ListUserCompanies(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list companies")
		return
	}

	c.JSON(http.StatusOK, dto.ToListCompaniesResponse(companies))
}

// getCompany godoc
// @Summary Get a company by ID
// @Tags companies
// @Produce json
// @Param company_id path string true "Company ID"
// @Success 200 {object} dto.CompanyResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id} [get]
func (h *companyHandler) getCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.companyService.AuthorizeUserAction(c.Request.Context(), userID, companyID, domain.RoleReadOnly); err != nil {
		respondWithError(c, logger, err, "Failed to get company")
		return
	}

	company, err := h.companyService.FindCompanyByID(c.Request.Context(), companyID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get company")
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// addUserToCompany godoc
// @Summary Add a user to a company
// @Description Adds a user with a given role. Requires admin permission.
// @Tags companies
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param user_details body dto.AddUserToCompanyRequest true "User ID and role"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/users [post]
func (h *companyHandler) addUserToCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.AddUserToCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	addingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.companyService.AddUserToCompany(c.Request.Context(), addingUserID, req.UserID, companyID, req.Role); err != nil {
		respondWithError(c, logger, err, "Failed to add user to company")
		return
	}

	c.Status(http.StatusNoContent)
}
