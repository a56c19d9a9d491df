package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/safinah-app/clearance_billing_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		InvoiceRepo:   newPgxInvoiceRepository(dbPool),
		SettingsRepo:  newPgxSettingsRepository(dbPool),
		ClientRepo:    newPgxClientRepository(dbPool),
		StatementRepo: newPgxStatementRepository(dbPool),
		CompanyRepo:   newPgxCompanyRepository(dbPool),
		UserRepo:      newPgxUserRepository(dbPool),
		APITokenRepo:  newPgxAPITokenRepository(dbPool),
	}
}
