package mapping

import (
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	"github.com/safinah-app/clearance_billing_app/internal/models"
)

// ToModelStatement converts a domain StatementOfAccount to the model form.
func ToModelStatement(d domain.StatementOfAccount) models.StatementOfAccount {
	return models.StatementOfAccount{
		StatementID:  d.StatementID,
		CompanyID:    d.CompanyID,
		ClientID:     d.ClientID,
		CurrencyCode: d.CurrencyCode,
		PeriodStart:  d.PeriodStart,
		PeriodEnd:    d.PeriodEnd,
		Subtotal:     d.Subtotal,
		Discount:     d.Discount,
		VATAmount:    d.VATAmount,
		Total:        d.Total,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStatement converts a model StatementOfAccount to the domain form.
func ToDomainStatement(m models.StatementOfAccount) domain.StatementOfAccount {
	return domain.StatementOfAccount{
		StatementID:  m.StatementID,
		CompanyID:    m.CompanyID,
		ClientID:     m.ClientID,
		CurrencyCode: m.CurrencyCode,
		PeriodStart:  m.PeriodStart,
		PeriodEnd:    m.PeriodEnd,
		Subtotal:     m.Subtotal,
		Discount:     m.Discount,
		VATAmount:    m.VATAmount,
		Total:        m.Total,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelStatementEntry converts a domain StatementEntry to the model form.
func ToModelStatementEntry(d domain.StatementEntry) models.StatementEntry {
	return models.StatementEntry{
		EntryID:     d.EntryID,
		StatementID: d.StatementID,
		Description: d.Description,
		FeeCategory: string(d.FeeCategory),
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		LineTotal:   d.LineTotal,
		SortOrder:   d.SortOrder,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStatementEntry converts a model StatementEntry to the domain form.
func ToDomainStatementEntry(m models.StatementEntry) domain.StatementEntry {
	return domain.StatementEntry{
		EntryID:     m.EntryID,
		StatementID: m.StatementID,
		Description: m.Description,
		FeeCategory: domain.FeeCategory(m.FeeCategory),
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		LineTotal:   m.LineTotal,
		SortOrder:   m.SortOrder,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainStatementEntrySlice converts model entries to domain entries.
func ToDomainStatementEntrySlice(ms []models.StatementEntry) []domain.StatementEntry {
	ds := make([]domain.StatementEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStatementEntry(m)
	}
	return ds
}
