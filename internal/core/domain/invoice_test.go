package domain_test

import (
	"testing"
	"time"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	all := []domain.InvoiceStatus{
		domain.InvoiceStatusDraft,
		domain.InvoiceStatusSent,
		domain.InvoiceStatusPaid,
		domain.InvoiceStatusOverdue,
		domain.InvoiceStatusCancelled,
	}

	allowed := map[domain.InvoiceStatus][]domain.InvoiceStatus{
		domain.InvoiceStatusDraft:     {domain.InvoiceStatusSent},
		domain.InvoiceStatusSent:      {domain.InvoiceStatusPaid, domain.InvoiceStatusOverdue, domain.InvoiceStatusCancelled},
		domain.InvoiceStatusOverdue:   {domain.InvoiceStatusPaid, domain.InvoiceStatusCancelled},
		domain.InvoiceStatusPaid:      {},
		domain.InvoiceStatusCancelled: {},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, n := range allowed[from] {
				if n == to {
					want = true
				}
			}
			assert.Equalf(t, want, domain.CanTransition(from, to), "transition %s -> %s", from, to)
		}
	}
}

func TestCanTransitionNoBackwardToDraft(t *testing.T) {
	assert.False(t, domain.CanTransition(domain.InvoiceStatusSent, domain.InvoiceStatusDraft))
	assert.False(t, domain.CanTransition(domain.InvoiceStatusPaid, domain.InvoiceStatusDraft))
}

func TestInvoiceIsEditable(t *testing.T) {
	cases := map[domain.InvoiceStatus]bool{
		domain.InvoiceStatusDraft:     true,
		domain.InvoiceStatusSent:      true,
		domain.InvoiceStatusOverdue:   false,
		domain.InvoiceStatusPaid:      false,
		domain.InvoiceStatusCancelled: false,
	}
	for status, want := range cases {
		inv := domain.Invoice{Status: status}
		assert.Equalf(t, want, inv.IsEditable(), "status %s", status)
	}
}

func TestInvoiceIsOverdueAt(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	sentPast := domain.Invoice{Status: domain.InvoiceStatusSent, DueDate: now.Add(-24 * time.Hour)}
	assert.True(t, sentPast.IsOverdueAt(now))

	sentFuture := domain.Invoice{Status: domain.InvoiceStatusSent, DueDate: now.Add(24 * time.Hour)}
	assert.False(t, sentFuture.IsOverdueAt(now))

	// Draft invoices never become overdue, regardless of due date.
	draft := domain.Invoice{Status: domain.InvoiceStatusDraft, DueDate: now.Add(-24 * time.Hour)}
	assert.False(t, draft.IsOverdueAt(now))

	// Already-overdue invoices are not re-flagged.
	overdue := domain.Invoice{Status: domain.InvoiceStatusOverdue, DueDate: now.Add(-24 * time.Hour)}
	assert.False(t, overdue.IsOverdueAt(now))
}

func TestFormatInvoiceNumber(t *testing.T) {
	s := domain.CompanySettings{InvoicePrefix: "CLR"}
	issued := time.Date(2025, 3, 7, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "CLR-202503-0001", s.FormatInvoiceNumber(1, issued))
	assert.Equal(t, "CLR-202503-0042", s.FormatInvoiceNumber(42, issued))
	// Width grows past four digits instead of truncating.
	assert.Equal(t, "CLR-202503-12345", s.FormatInvoiceNumber(12345, issued))
}

func TestScopeFor(t *testing.T) {
	at := time.Date(2025, 3, 7, 9, 30, 0, 0, time.UTC)

	s := domain.CompanySettings{SequenceResetPeriod: domain.ResetNever}
	assert.Equal(t, "", s.ScopeFor(at))

	s.SequenceResetPeriod = domain.ResetYearly
	assert.Equal(t, "2025", s.ScopeFor(at))

	s.SequenceResetPeriod = domain.ResetMonthly
	assert.Equal(t, "202503", s.ScopeFor(at))
}

func TestDefaultCompanySettings(t *testing.T) {
	s := domain.DefaultCompanySettings("comp-1")
	assert.Equal(t, "comp-1", s.CompanyID)
	assert.EqualValues(t, 1, s.NextSequence)
	assert.Equal(t, domain.ResetNever, s.SequenceResetPeriod)
	assert.Equal(t, domain.NumberOnCreate, s.NumberingPolicy)
}
