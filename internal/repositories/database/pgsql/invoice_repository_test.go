package pgsql

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safinah-app/clearance_billing_app/internal/apperrors"
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
)

func numberCollision() error {
	return fmt.Errorf("insert failed: %w", &pgconn.PgError{Code: "23505", ConstraintName: invoiceNumberConstraint})
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{
			name:       "number index collision",
			err:        &pgconn.PgError{Code: "23505", ConstraintName: invoiceNumberConstraint},
			constraint: invoiceNumberConstraint,
			want:       true,
		},
		{
			name:       "wrapped collision still matches",
			err:        numberCollision(),
			constraint: invoiceNumberConstraint,
			want:       true,
		},
		{
			name:       "different constraint",
			err:        &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"},
			constraint: invoiceNumberConstraint,
			want:       false,
		},
		{
			name:       "empty constraint matches any unique violation",
			err:        &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"},
			constraint: "",
			want:       true,
		},
		{
			name:       "foreign key violation is not a unique violation",
			err:        &pgconn.PgError{Code: "23503", ConstraintName: invoiceNumberConstraint},
			constraint: invoiceNumberConstraint,
			want:       false,
		},
		{
			name:       "plain error",
			err:        errors.New("connection reset"),
			constraint: "",
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err, tt.constraint))
		})
	}
}

func TestCreateWithNumberRetryRereadsSequenceOnce(t *testing.T) {
	attempts := 0
	saved, err := createWithNumberRetry(true, func() (*domain.Invoice, error) {
		attempts++
		if attempts == 1 {
			// Another request committed this number first.
			return nil, numberCollision()
		}
		return &domain.Invoice{InvoiceNumber: "INV-202508-0002"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "INV-202508-0002", saved.InvoiceNumber)
}

func TestCreateWithNumberRetrySecondCollisionConflicts(t *testing.T) {
	attempts := 0
	_, err := createWithNumberRetry(true, func() (*domain.Invoice, error) {
		attempts++
		return nil, numberCollision()
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, 2, attempts)
}

func TestCreateWithNumberRetryNoRetryWithoutAllocation(t *testing.T) {
	attempts := 0
	_, err := createWithNumberRetry(false, func() (*domain.Invoice, error) {
		attempts++
		return nil, numberCollision()
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Equal(t, 1, attempts)
}

func TestCreateWithNumberRetryDuplicateRowNotRetried(t *testing.T) {
	attempts := 0
	_, err := createWithNumberRetry(true, func() (*domain.Invoice, error) {
		attempts++
		return nil, &pgconn.PgError{Code: "23505", ConstraintName: "invoices_pkey"}
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Equal(t, 1, attempts)
}

func TestCreateWithNumberRetryOtherErrorsPassThrough(t *testing.T) {
	cause := errors.New("connection reset")
	_, err := createWithNumberRetry(true, func() (*domain.Invoice, error) {
		return nil, cause
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, apperrors.ErrConflict)
}

func TestSendWithNumberRetryRetriesOnce(t *testing.T) {
	attempts := 0
	sent, err := sendWithNumberRetry(func() (*domain.Invoice, error) {
		attempts++
		if attempts == 1 {
			return nil, numberCollision()
		}
		return &domain.Invoice{InvoiceNumber: "INV-202508-0007", Status: domain.InvoiceStatusSent}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "INV-202508-0007", sent.InvoiceNumber)
}

func TestSendWithNumberRetrySecondCollisionConflicts(t *testing.T) {
	_, err := sendWithNumberRetry(func() (*domain.Invoice, error) {
		return nil, numberCollision()
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestNextInScope(t *testing.T) {
	march := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name        string
		resetPeriod domain.SequenceResetPeriod
		storedScope string
		next        int64
		wantSeq     int64
		wantScope   string
	}{
		{"never resets", domain.ResetNever, "", 42, 42, ""},
		{"monthly same month continues", domain.ResetMonthly, "202503", 7, 7, "202503"},
		{"monthly rollover restarts at 1", domain.ResetMonthly, "202502", 7, 1, "202503"},
		{"yearly same year continues", domain.ResetYearly, "2025", 99, 99, "2025"},
		{"yearly rollover restarts at 1", domain.ResetYearly, "2024", 99, 1, "2025"},
		{"switching reset period restarts at 1", domain.ResetMonthly, "", 13, 1, "202503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := domain.CompanySettings{
				CompanyID:           "c1",
				NextSequence:        tt.next,
				SequenceResetPeriod: tt.resetPeriod,
			}
			seq, scope := nextInScope(settings, tt.storedScope, march)
			assert.Equal(t, tt.wantSeq, seq)
			assert.Equal(t, tt.wantScope, scope)
		})
	}
}

// The SQL guard on UpdateInvoiceWithItems must accept exactly the statuses
// the domain considers editable, or a status added later could silently
// become un-editable (or worse, editable while terminal).
func TestEditableStatusesMatchDomain(t *testing.T) {
	all := []domain.InvoiceStatus{
		domain.InvoiceStatusDraft,
		domain.InvoiceStatusSent,
		domain.InvoiceStatusPaid,
		domain.InvoiceStatusOverdue,
		domain.InvoiceStatusCancelled,
	}

	inGuard := func(s domain.InvoiceStatus) bool {
		for _, e := range editableStatuses {
			if e == string(s) {
				return true
			}
		}
		return false
	}

	for _, status := range all {
		inv := domain.Invoice{Status: status}
		assert.Equalf(t, inv.IsEditable(), inGuard(status), "status %s", status)
	}
}
