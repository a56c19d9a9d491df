package repositories

import (
	"context"
	"time"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
)

// ClientReader defines read operations for client data.
type ClientReader interface {
	// FindClientByID retrieves a client owned by the given company.
	FindClientByID(ctx context.Context, companyID, clientID string) (*domain.Client, error)

	// ListClientsByCompany retrieves a page of clients using token-based pagination.
	ListClientsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Client, *string, error)
}

// ClientWriter defines write operations for client data.
type ClientWriter interface {
	// SaveClient persists a new client.
	SaveClient(ctx context.Context, client domain.Client) error

	// UpdateClient updates an existing client's details.
	UpdateClient(ctx context.Context, client domain.Client) error

	// MarkClientDeleted soft deletes a client.
	MarkClientDeleted(ctx context.Context, companyID, clientID string, deletedAt time.Time, deletedBy string) error
}

// ClientRepositoryFacade combines all client-related repository interfaces.
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
}
