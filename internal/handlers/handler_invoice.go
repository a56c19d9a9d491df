package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
	"github.com/safinah-app/clearance_billing_app/internal/middleware"
)

// invoiceHandler handles HTTP requests for a company's invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{invoiceService: is}
}

// registerInvoiceRoutes registers invoice routes under a company scope.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.POST("/from-preset", h.createInvoiceFromPreset)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoice_id", h.getInvoice)
		invoices.PUT("/:invoice_id", h.updateInvoice)
		invoices.DELETE("/:invoice_id", h.deleteInvoice)
		invoices.POST("/:invoice_id/send", h.sendInvoice)
		invoices.POST("/:invoice_id/pay", h.markInvoicePaid)
		invoices.POST("/:invoice_id/cancel", h.cancelInvoice)
		invoices.GET("/:invoice_id/pdf", h.renderInvoicePDF)
	}
}

func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	}
	return userID, ok
}

// createInvoice godoc
// @Summary Create a new draft invoice
// @Description Creates a draft invoice with its fee lines. Totals and VAT are computed server side; the invoice number is allocated now or at send time depending on the company's numbering policy.
// @Tags invoices
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.GetInvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	invoice, items, err := h.invoiceService.CreateInvoice(c.Request.Context(), c.Param("company_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create invoice")
		return
	}

	c.JSON(http.StatusCreated, dto.GetInvoiceResponse{
		Invoice: dto.ToInvoiceResponse(invoice),
		Items:   dto.ToInvoiceItemResponses(items),
	})
}

// createInvoiceFromPreset godoc
// @Summary Create a draft invoice from a preset
// @Description Creates a draft pre-filled with the fee lines of a named quick preset or a clearance stage template.
// @Tags invoices
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param invoice body dto.CreateInvoiceFromPresetRequest true "Preset details"
// @Success 201 {object} dto.GetInvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices/from-preset [post]
func (h *invoiceHandler) createInvoiceFromPreset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateInvoiceFromPresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	invoice, items, err := h.invoiceService.CreateInvoiceFromPreset(c.Request.Context(), c.Param("company_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create invoice from preset")
		return
	}

	c.JSON(http.StatusCreated, dto.GetInvoiceResponse{
		Invoice: dto.ToInvoiceResponse(invoice),
		Items:   dto.ToInvoiceItemResponses(items),
	})
}

// listInvoices godoc
// @Summary List the company's invoices
// @Description Lists invoices newest first, optionally filtered by client and status. SENT invoices past their due date surface as OVERDUE.
// @Tags invoices
// @Produce json
// @Param company_id path string true "Company ID"
// @Param clientID query string false "Filter by client"
// @Param status query string false "Filter by status" Enums(DRAFT, SENT, PAID, OVERDUE, CANCELLED)
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), c.Param("company_id"), userID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list invoices")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getInvoice godoc
// @Summary Get an invoice with its fee lines
// @Tags invoices
// @Produce json
// @Param company_id path string true "Company ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.GetInvoiceResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices/{invoice_id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	invoice, items, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), c.Param("company_id"), c.Param("invoice_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get invoice")
		return
	}

	c.JSON(http.StatusOK, dto.GetInvoiceResponse{
		Invoice: dto.ToInvoiceResponse(invoice),
		Items:   dto.ToInvoiceItemResponses(items),
	})
}

// updateInvoice godoc
// @Summary Edit an invoice
// @Description Edits mutable fields and replaces fee lines, recomputing totals. Returns 422 once the invoice is no longer editable.
// @Tags invoices
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param invoice_id path string true "Invoice ID"
// @Param invoice body dto.UpdateInvoiceRequest true "Fields to update"
// @Success 200 {object} dto.GetInvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices/{invoice_id} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	invoice, items, err := h.invoiceService.UpdateInvoice(c.Request.Context(), c.Param("company_id"), c.Param("invoice_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update invoice")
		return
	}

	c.JSON(http.StatusOK, dto.GetInvoiceResponse{
		Invoice: dto.ToInvoiceResponse(invoice),
		Items:   dto.ToInvoiceItemResponses(items),
	})
}

// deleteInvoice godoc
// @Summary Delete a draft invoice
// @Description Deletes an invoice that is still in DRAFT. Any other status is rejected.
// @Tags invoices
// @Produce json
// @Param company_id path string true "Company ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices/{invoice_id} [delete]
func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), c.Param("company_id"), c.Param("invoice_id"), userID); err != nil {
		respondWithError(c, logger, err, "Failed to delete invoice")
		return
	}

	c.Status(http.StatusNoContent)
}

// sendInvoice godoc
// @Summary Send an invoice
// @Description Moves a DRAFT invoice to SENT, finalizing the invoice number when the company numbers at send time.
// @Tags invoices
// @Produce json
// @Param company_id path string true "Company ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices/{invoice_id}/send [post]
func (h *invoiceHandler) sendInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.SendInvoice(c.Request.Context(), c.Param("company_id"), c.Param("invoice_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to send invoice")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// markInvoicePaid godoc
// @Summary Mark an invoice as paid
// @Description Moves a SENT or OVERDUE invoice to PAID.
// @Tags invoices
// @Produce json
// @Param company_id path string true "Company ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices/{invoice_id}/pay [post]
func (h *invoiceHandler) markInvoicePaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.MarkInvoicePaid(c.Request.Context(), c.Param("company_id"), c.Param("invoice_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to mark invoice paid")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// cancelInvoice godoc
// @Summary Cancel an invoice
// @Description Moves a SENT or OVERDUE invoice to CANCELLED.
// @Tags invoices
// @Produce json
// @Param company_id path string true "Company ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices/{invoice_id}/cancel [post]
func (h *invoiceHandler) cancelInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.CancelInvoice(c.Request.Context(), c.Param("company_id"), c.Param("invoice_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to cancel invoice")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// renderInvoicePDF godoc
// @Summary Download the invoice PDF
// @Description Renders the printable invoice. The "ar" locale renders Arabic labels, Arabic-Indic numerals, and the total amount in words.
// @Tags invoices
// @Produce application/pdf
// @Param company_id path string true "Company ID"
// @Param invoice_id path string true "Invoice ID"
// @Param locale query string false "Document locale" Enums(ar, en)
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices/{invoice_id}/pdf [get]
func (h *invoiceHandler) renderInvoicePDF(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	pdf, err := h.invoiceService.RenderInvoicePDF(c.Request.Context(), c.Param("company_id"), c.Param("invoice_id"), c.Query("locale"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to render invoice PDF")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="invoice.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
