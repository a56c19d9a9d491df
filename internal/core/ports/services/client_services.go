package services

import (
	"context"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
)

// ClientReaderSvc defines read operations for client data.
type ClientReaderSvc interface {
	// GetClientByID retrieves a client owned by the company.
	GetClientByID(ctx context.Context, companyID string, clientID string, requestingUserID string) (*domain.Client, error)

	// ListClients retrieves a paginated list of the company's clients.
	ListClients(ctx context.Context, companyID string, requestingUserID string, params dto.ListClientsParams) (*dto.ListClientsResponse, error)
}

// ClientWriterSvc defines write operations for client data.
type ClientWriterSvc interface {
	// CreateClient persists a new client.
	CreateClient(ctx context.Context, companyID string, req dto.CreateClientRequest, creatorUserID string) (*domain.Client, error)

	// UpdateClient updates an existing client's details.
	UpdateClient(ctx context.Context, companyID string, clientID string, req dto.UpdateClientRequest, requestingUserID string) (*domain.Client, error)

	// DeleteClient soft deletes a client. Admin only.
	DeleteClient(ctx context.Context, companyID string, clientID string, requestingUserID string) error
}

// ClientSvcFacade combines all client-related service interfaces.
type ClientSvcFacade interface {
	ClientReaderSvc
	ClientWriterSvc
}
