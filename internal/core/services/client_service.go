package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	portsrepo "github.com/safinah-app/clearance_billing_app/internal/core/ports/repositories"
	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
	"github.com/safinah-app/clearance_billing_app/internal/middleware"
)

// clientService manages a company's billable clients.
type clientService struct {
	clientRepo portsrepo.ClientRepositoryFacade
	companySvc portssvc.CompanySvcFacade
}

// NewClientService creates a new ClientService.
func NewClientService(clientRepo portsrepo.ClientRepositoryFacade, companySvc portssvc.CompanySvcFacade) portssvc.ClientSvcFacade {
	return &clientService{
		clientRepo: clientRepo,
		companySvc: companySvc,
	}
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

// CreateClient persists a new client.
// Implements portssvc.ClientSvcFacade
func (s *clientService) CreateClient(ctx context.Context, companyID string, req dto.CreateClientRequest, creatorUserID string) (*domain.Client, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, creatorUserID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	client := domain.Client{
		ClientID:          uuid.NewString(),
		CompanyID:         companyID,
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		TaxRegistrationNo: req.TaxRegistrationNo,
		Address:           req.Address,
		IsActive:          true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		logger.Error("Failed to save client", slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}
	return &client, nil
}

// GetClientByID retrieves a client owned by the company.
// Implements portssvc.ClientSvcFacade
func (s *clientService) GetClientByID(ctx context.Context, companyID string, clientID string, requestingUserID string) (*domain.Client, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.clientRepo.FindClientByID(ctx, companyID, clientID)
}

// ListClients retrieves a paginated list of the company's clients.
// Implements portssvc.ClientSvcFacade
func (s *clientService) ListClients(ctx context.Context, companyID string, requestingUserID string, params dto.ListClientsParams) (*dto.ListClientsResponse, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	clients, nextToken, err := s.clientRepo.ListClientsByCompany(ctx, companyID, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	resp := dto.ToListClientsResponse(clients, nextToken)
	return &resp, nil
}

// UpdateClient updates an existing client's details.
// Implements portssvc.ClientSvcFacade
func (s *clientService) UpdateClient(ctx context.Context, companyID string, clientID string, req dto.UpdateClientRequest, requestingUserID string) (*domain.Client, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	client, err := s.clientRepo.FindClientByID(ctx, companyID, clientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.TaxRegistrationNo != nil {
		client.TaxRegistrationNo = *req.TaxRegistrationNo
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}

	client.LastUpdatedAt = time.Now().UTC()
	client.LastUpdatedBy = requestingUserID

	if err := s.clientRepo.UpdateClient(ctx, *client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient soft deletes a client. Admin only.
// Implements portssvc.ClientSvcFacade
func (s *clientService) DeleteClient(ctx context.Context, companyID string, clientID string, requestingUserID string) error {
	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.clientRepo.FindClientByID(ctx, companyID, clientID); err != nil {
		return err
	}
	return s.clientRepo.MarkClientDeleted(ctx, companyID, clientID, time.Now().UTC(), requestingUserID)
}
