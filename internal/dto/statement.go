package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
)

// --- Statement of account DTOs ---

// CreateStatementRequest defines data for generating a statement of account
// for one client over a period.
type CreateStatementRequest struct {
	ClientID    string    `json:"clientID" binding:"required"`
	PeriodStart time.Time `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time `json:"periodEnd" binding:"required,gtfield=PeriodStart"`
}

// ListStatementsParams defines filters for listing statements.
type ListStatementsParams struct {
	ClientID  string  `form:"clientID" binding:"required"`
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// StatementEntryResponse defines data returned for a statement line.
type StatementEntryResponse struct {
	EntryID     string          `json:"entryID"`
	Description string          `json:"description"`
	FeeCategory string          `json:"feeCategory"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	SortOrder   int             `json:"sortOrder"`
}

// StatementResponse defines data returned for a statement of account.
type StatementResponse struct {
	StatementID  string          `json:"statementID"`
	CompanyID    string          `json:"companyID"`
	ClientID     string          `json:"clientID"`
	CurrencyCode string          `json:"currencyCode"`
	PeriodStart  time.Time       `json:"periodStart"`
	PeriodEnd    time.Time       `json:"periodEnd"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	VATAmount    decimal.Decimal `json:"vatAmount"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// GetStatementResponse combines a statement with its entries.
type GetStatementResponse struct {
	Statement StatementResponse        `json:"statement"`
	Entries   []StatementEntryResponse `json:"entries"`
}

// ListStatementsResponse wraps a page of statements.
type ListStatementsResponse struct {
	Statements []StatementResponse `json:"statements"`
	NextToken  *string             `json:"nextToken,omitempty"`
}

// ToStatementEntryResponse converts a domain.StatementEntry to DTO.
func ToStatementEntryResponse(e *domain.StatementEntry) StatementEntryResponse {
	return StatementEntryResponse{
		EntryID:     e.EntryID,
		Description: e.Description,
		FeeCategory: string(e.FeeCategory),
		Quantity:    e.Quantity,
		UnitPrice:   e.UnitPrice,
		LineTotal:   e.LineTotal,
		SortOrder:   e.SortOrder,
	}
}

// ToStatementResponse converts a domain.StatementOfAccount to DTO.
func ToStatementResponse(s *domain.StatementOfAccount) StatementResponse {
	return StatementResponse{
		StatementID:  s.StatementID,
		CompanyID:    s.CompanyID,
		ClientID:     s.ClientID,
		CurrencyCode: s.CurrencyCode,
		PeriodStart:  s.PeriodStart,
		PeriodEnd:    s.PeriodEnd,
		Subtotal:     s.Subtotal,
		Discount:     s.Discount,
		VATAmount:    s.VATAmount,
		Total:        s.Total,
		CreatedAt:    s.CreatedAt,
		CreatedBy:    s.CreatedBy,
	}
}

// ToGetStatementResponse combines a statement and its entries into DTO.
func ToGetStatementResponse(s *domain.StatementOfAccount, entries []domain.StatementEntry) GetStatementResponse {
	list := make([]StatementEntryResponse, len(entries))
	for i, e := range entries {
		list[i] = ToStatementEntryResponse(&e)
	}
	return GetStatementResponse{Statement: ToStatementResponse(s), Entries: list}
}

// ToListStatementsResponse converts a page of domain statements to DTO.
func ToListStatementsResponse(ss []domain.StatementOfAccount, nextToken *string) ListStatementsResponse {
	list := make([]StatementResponse, len(ss))
	for i, s := range ss {
		list[i] = ToStatementResponse(&s)
	}
	return ListStatementsResponse{Statements: list, NextToken: nextToken}
}
