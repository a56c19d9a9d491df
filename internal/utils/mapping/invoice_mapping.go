package mapping

import (
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	"github.com/safinah-app/clearance_billing_app/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:     d.InvoiceID,
		CompanyID:     d.CompanyID,
		ClientID:      d.ClientID,
		InvoiceNumber: d.InvoiceNumber,
		InvoiceType:   string(d.InvoiceType),
		Status:        models.InvoiceStatus(d.Status),
		CurrencyCode:  d.CurrencyCode,
		Subtotal:      d.Subtotal,
		Discount:      d.Discount,
		VATAmount:     d.VATAmount,
		Total:         d.Total,
		IssueDate:     d.IssueDate,
		DueDate:       d.DueDate,
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice.
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:     m.InvoiceID,
		CompanyID:     m.CompanyID,
		ClientID:      m.ClientID,
		InvoiceNumber: m.InvoiceNumber,
		InvoiceType:   domain.InvoiceType(m.InvoiceType),
		Status:        domain.InvoiceStatus(m.Status),
		CurrencyCode:  m.CurrencyCode,
		Subtotal:      m.Subtotal,
		Discount:      m.Discount,
		VATAmount:     m.VATAmount,
		Total:         m.Total,
		IssueDate:     m.IssueDate,
		DueDate:       m.DueDate,
		Notes:         m.Notes,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoiceItem converts a domain InvoiceItem to a model InvoiceItem.
func ToModelInvoiceItem(d domain.InvoiceItem) models.InvoiceItem {
	return models.InvoiceItem{
		ItemID:      d.ItemID,
		InvoiceID:   d.InvoiceID,
		Description: d.Description,
		FeeCategory: string(d.FeeCategory),
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		LineTotal:   d.LineTotal,
		SortOrder:   d.SortOrder,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoiceItem converts a model InvoiceItem to a domain InvoiceItem.
func ToDomainInvoiceItem(m models.InvoiceItem) domain.InvoiceItem {
	return domain.InvoiceItem{
		ItemID:      m.ItemID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		FeeCategory: domain.FeeCategory(m.FeeCategory),
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		LineTotal:   m.LineTotal,
		SortOrder:   m.SortOrder,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInvoiceItemSlice converts a slice of model items to domain items.
func ToDomainInvoiceItemSlice(ms []models.InvoiceItem) []domain.InvoiceItem {
	ds := make([]domain.InvoiceItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoiceItem(m)
	}
	return ds
}
