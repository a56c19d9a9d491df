package repositories

// RepositoryProvider aggregates every repository the service layer needs.
// Wired once at startup from the pgsql implementations.
type RepositoryProvider struct {
	InvoiceRepo   InvoiceRepositoryWithTx
	SettingsRepo  SettingsRepositoryFacade
	ClientRepo    ClientRepositoryFacade
	StatementRepo StatementRepositoryFacade
	CompanyRepo   CompanyRepositoryFacade
	UserRepo      UserRepositoryFacade
	APITokenRepo  APITokenRepository
}
