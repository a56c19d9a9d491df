package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
// It is also returned when a resource exists but belongs to another
// company, so callers cannot probe for existence across tenants.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a concurrent-update conflict that was not recoverable,
// e.g. an invoice number collision that persisted after a retry.
var ErrConflict = errors.New("conflicting concurrent update")

// ErrImmutableInvoice indicates an edit was attempted against an invoice in a
// terminal status (PAID or CANCELLED). It is distinct from ErrValidation so
// handlers can steer the caller to a read-only view instead of a retry.
var ErrImmutableInvoice = errors.New("invoice is immutable in its current status")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the authenticated user lacks the required role.
var ErrForbidden = errors.New("forbidden")

// ErrRefreshTokenExpired indicates the presented refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")
