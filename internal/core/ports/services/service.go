package services

// ServiceContainer bundles all service facades for route registration.
type ServiceContainer struct {
	Audit        AuditSvcFacade
	Conversion   ConversionSvcFacade
	Currency     CurrencySvcFacade
	ExchangeRate ExchangeRateSvcFacade
	Program      ProgramSvcFacade
	Expense      ExpenseSvcFacade
	Sale         SaleSvcFacade
	Budget       BudgetSvcFacade
	Report       ReportSvcFacade
	User         UserSvcFacade
	Token        TokenSvcFacade
	GoogleOAuth  GoogleOAuthSvcFacade
}
