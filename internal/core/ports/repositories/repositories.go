package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor
// cleaner.
type RepositoryProvider struct {
	SalesRepo      SalesRepositoryFacade
	InventoryRepo  InventoryRepositoryFacade
	CompetitorRepo CompetitorRepositoryFacade
	LeaveRepo      LeaveRepositoryFacade
	CatalogRepo    CatalogRepository
	SettingsRepo   SettingsRepository
	UserRepo       UserRepository
}
