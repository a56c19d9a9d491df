package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
)

// --- Invoice DTOs ---

// InvoiceItemRequest defines one fee line in a create/update request.
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required"`
	FeeCategory string          `json:"feeCategory" binding:"required,oneof=CUSTOMS_DUTY PORT_CHARGE SERVICE_FEE TRANSPORT STORAGE INSPECTION DOCUMENTATION OTHER"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
}

// CreateInvoiceRequest defines data for creating a new invoice.
type CreateInvoiceRequest struct {
	ClientID     string               `json:"clientID" binding:"required"`
	InvoiceType  string               `json:"invoiceType" binding:"required,oneof=STANDARD CLEARANCE PORT TRANSPORT"`
	CurrencyCode string               `json:"currencyCode" binding:"omitempty,iso4217"`
	Discount     decimal.Decimal      `json:"discount"`
	IssueDate    time.Time            `json:"issueDate" binding:"required"`
	DueDate      time.Time            `json:"dueDate" binding:"required"`
	Notes        string               `json:"notes"`
	Items        []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateInvoiceFromPresetRequest creates a draft pre-filled from a named
// preset or a clearance stage template. Exactly one of Preset/Stage is set.
type CreateInvoiceFromPresetRequest struct {
	ClientID  string    `json:"clientID" binding:"required"`
	Preset    string    `json:"preset" binding:"required_without=Stage"`
	Stage     string    `json:"stage" binding:"required_without=Preset,omitempty,oneof=ARRIVAL INSPECTION DUTY_PAYMENT RELEASE DELIVERY"`
	IssueDate time.Time `json:"issueDate" binding:"required"`
	DueDate   time.Time `json:"dueDate" binding:"required"`
}

// UpdateInvoiceRequest defines data for editing an invoice. Fee lines are
// replaced wholesale; totals are always recomputed server side.
type UpdateInvoiceRequest struct {
	Discount *decimal.Decimal     `json:"discount"`
	DueDate  *time.Time           `json:"dueDate"`
	Notes    *string              `json:"notes"`
	Items    []InvoiceItemRequest `json:"items" binding:"omitempty,min=1,dive"`
}

// ListInvoicesParams defines filters for listing invoices.
type ListInvoicesParams struct {
	ClientID  *string `form:"clientID"`
	Status    *string `form:"status" binding:"omitempty,oneof=DRAFT SENT PAID OVERDUE CANCELLED"`
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// InvoiceItemResponse defines data returned for a fee line.
type InvoiceItemResponse struct {
	ItemID      string          `json:"itemID"`
	Description string          `json:"description"`
	FeeCategory string          `json:"feeCategory"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	SortOrder   int             `json:"sortOrder"`
}

// InvoiceResponse defines data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID     string          `json:"invoiceID"`
	CompanyID     string          `json:"companyID"`
	ClientID      string          `json:"clientID"`
	InvoiceNumber string          `json:"invoiceNumber,omitempty"`
	InvoiceType   string          `json:"invoiceType"`
	Status        string          `json:"status"`
	CurrencyCode  string          `json:"currencyCode"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	VATAmount     decimal.Decimal `json:"vatAmount"`
	Total         decimal.Decimal `json:"total"`
	IssueDate     time.Time       `json:"issueDate"`
	DueDate       time.Time       `json:"dueDate"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// GetInvoiceResponse combines an invoice with its fee lines.
type GetInvoiceResponse struct {
	Invoice InvoiceResponse       `json:"invoice"`
	Items   []InvoiceItemResponse `json:"items"`
}

// ListInvoicesResponse wraps a page of invoices.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToInvoiceItemResponse converts a domain.InvoiceItem to DTO.
func ToInvoiceItemResponse(item *domain.InvoiceItem) InvoiceItemResponse {
	return InvoiceItemResponse{
		ItemID:      item.ItemID,
		Description: item.Description,
		FeeCategory: string(item.FeeCategory),
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		LineTotal:   item.LineTotal,
		SortOrder:   item.SortOrder,
	}
}

// ToInvoiceItemResponses converts a slice of domain.InvoiceItem to DTOs.
func ToInvoiceItemResponses(items []domain.InvoiceItem) []InvoiceItemResponse {
	responses := make([]InvoiceItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToInvoiceItemResponse(&item)
	}
	return responses
}

// ToInvoiceResponse converts a domain.Invoice to DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:     inv.InvoiceID,
		CompanyID:     inv.CompanyID,
		ClientID:      inv.ClientID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceType:   string(inv.InvoiceType),
		Status:        string(inv.Status),
		CurrencyCode:  inv.CurrencyCode,
		Subtotal:      inv.Subtotal,
		Discount:      inv.Discount,
		VATAmount:     inv.VATAmount,
		Total:         inv.Total,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
		CreatedBy:     inv.CreatedBy,
		LastUpdatedAt: inv.LastUpdatedAt,
		LastUpdatedBy: inv.LastUpdatedBy,
	}
}

// ToListInvoicesResponse converts a page of domain invoices to DTO.
func ToListInvoicesResponse(invs []domain.Invoice, nextToken *string) ListInvoicesResponse {
	list := make([]InvoiceResponse, len(invs))
	for i, inv := range invs {
		list[i] = ToInvoiceResponse(&inv)
	}
	return ListInvoicesResponse{Invoices: list, NextToken: nextToken}
}
