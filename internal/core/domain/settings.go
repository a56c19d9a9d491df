package domain

import (
	"fmt"
	"time"
)

// SequenceResetPeriod controls when the per-company invoice sequence
// restarts at 1. Lifetime-monotonic ("never") is the default.
type SequenceResetPeriod string

const (
	ResetNever   SequenceResetPeriod = "never"
	ResetYearly  SequenceResetPeriod = "yearly"
	ResetMonthly SequenceResetPeriod = "monthly"
)

// NumberingPolicy controls when an invoice number is finalized. Under
// "on_send", drafts carry no number and can be discarded without leaving a
// gap in the sequence.
type NumberingPolicy string

const (
	NumberOnCreate NumberingPolicy = "on_create"
	NumberOnSend   NumberingPolicy = "on_send"
)

// CompanySettings is the per-company singleton that drives invoice
// numbering and printed-document defaults. The invoice engine reads it but
// never mutates identity fields; only the sequence columns move.
type CompanySettings struct {
	CompanyID           string              `json:"companyID"` // Primary Key, FK -> companies.company_id
	LegalName           string              `json:"legalName"`
	TaxRegistrationNo   string              `json:"taxRegistrationNo"`
	Address             string              `json:"address"`
	DefaultCurrencyCode string              `json:"defaultCurrencyCode"`
	InvoicePrefix       string              `json:"invoicePrefix"`
	NextSequence        int64               `json:"nextSequence"`  // Next value to allocate, starts at 1
	SequenceScope       string              `json:"sequenceScope"` // "" / YYYY / YYYYMM depending on reset period
	SequenceResetPeriod SequenceResetPeriod `json:"sequenceResetPeriod"`
	NumberingPolicy     NumberingPolicy     `json:"numberingPolicy"`
	DefaultLocale       string              `json:"defaultLocale"` // BCP 47, e.g. "ar" or "en"
	AuditFields
}

// ScopeFor returns the sequence scope key for the given instant under the
// configured reset period. A scope change resets the sequence to 1.
func (s *CompanySettings) ScopeFor(t time.Time) string {
	switch s.SequenceResetPeriod {
	case ResetYearly:
		return t.UTC().Format("2006")
	case ResetMonthly:
		return t.UTC().Format("200601")
	default:
		return ""
	}
}

// FormatInvoiceNumber renders the wire-exact invoice number
// {PREFIX}-{YYYYMM}-{SEQ:04d} for the given sequence value and issue time.
func (s *CompanySettings) FormatInvoiceNumber(seq int64, issuedAt time.Time) string {
	return fmt.Sprintf("%s-%s-%04d", s.InvoicePrefix, issuedAt.UTC().Format("200601"), seq)
}

// DefaultCompanySettings returns the settings used when a company creates
// its first invoice before ever saving settings: sequence defaults to 1
// rather than failing.
func DefaultCompanySettings(companyID string) CompanySettings {
	return CompanySettings{
		CompanyID:           companyID,
		DefaultCurrencyCode: "SAR",
		InvoicePrefix:       "INV",
		NextSequence:        1,
		SequenceResetPeriod: ResetNever,
		NumberingPolicy:     NumberOnCreate,
		DefaultLocale:       "ar",
	}
}
