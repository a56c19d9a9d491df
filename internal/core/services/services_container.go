package services

import (
	portsrepo "github.com/safinah-app/clearance_billing_app/internal/core/ports/repositories"
	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
	"github.com/safinah-app/clearance_billing_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, renderer portssvc.DocumentRenderer) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Company service first since every tenant-scoped service authorizes through it
	container.Company = NewCompanyService(repos.CompanyRepo)

	container.User = NewUserService(repos.UserRepo)
	container.Client = NewClientService(repos.ClientRepo, container.Company)
	container.Settings = NewSettingsService(repos.SettingsRepo, container.Company)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, repos.SettingsRepo, repos.ClientRepo, container.Company, renderer)
	container.Statement = NewStatementService(repos.StatementRepo, repos.InvoiceRepo, repos.ClientRepo, repos.SettingsRepo, container.Company)

	container.Token = NewTokenService(cfg, container.User)
	container.OAuth = NewGoogleOAuthHandlerService(cfg)
	container.APIToken = NewAPITokenService(repos.APITokenRepo, container.User)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CompanySvcFacade   = (*companyService)(nil)
	_ portssvc.InvoiceSvcFacade   = (*invoiceService)(nil)
	_ portssvc.StatementSvcFacade = (*statementService)(nil)
)
